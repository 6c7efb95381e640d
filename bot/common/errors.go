package common

import (
	"fmt"

	"apostas/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// GenericErrorMessage is shown when the failure is not the user's fault.
const GenericErrorMessage = "Algo deu errado. Tente novamente em instantes."

// BotError carries a user-facing message alongside the internal one.
type BotError struct {
	UserMessage string
	LogMessage  string
	Err         error
}

func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues
func NewUserError(userMessage, logMessage string) *BotError {
	return &BotError{UserMessage: userMessage, LogMessage: logMessage}
}

// RespondWithError sends an ephemeral error message as the interaction
// response.
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// RespondWithSuccess sends an ephemeral confirmation message.
func RespondWithSuccess(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("✅ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending success response: %v", err)
	}
}

// HandleError logs err and responds with its user-facing message when it has
// one, or the generic message otherwise. Domain validation and guard errors
// are shown verbatim.
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	userID := ""
	if i.Member != nil && i.Member.User != nil {
		userID = i.Member.User.ID
	}

	if botErr, ok := err.(*BotError); ok {
		log.WithFields(log.Fields{
			"user_id": userID,
			"error":   botErr.Error(),
		}).Error(botErr.LogMessage)
		RespondWithError(s, i, botErr.UserMessage)
		return
	}

	if entities.IsUserFacing(err) {
		log.WithFields(log.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Info("Interaction rejected")
		RespondWithError(s, i, err.Error())
		return
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"error":   err.Error(),
	}).Error("Unexpected error in interaction")
	RespondWithError(s, i, GenericErrorMessage)
}
