package queues

import (
	"context"
	"fmt"
	"strconv"

	"apostas/bot/common"
	"apostas/domain/entities"
	"apostas/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleCreate handles /fila criar: posts the roster message and registers
// the queue behind it. Mediator only.
func (f *Feature) handleCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	isMediator, err := common.MemberHasRole(s, i, services.MediatorRoleName)
	if err != nil {
		log.Errorf("Error checking mediator role: %v", err)
		common.RespondWithError(s, i, common.GenericErrorMessage)
		return
	}
	if !isMediator {
		common.RespondWithError(s, i, "Apenas mediadores podem criar filas")
		return
	}

	var mode string
	var stake int64
	var mobileOnly bool
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		switch opt.Name {
		case "modo":
			mode = opt.StringValue()
		case "valor":
			stake = opt.IntValue()
		case "mobile":
			mobileOnly = opt.BoolValue()
		}
	}

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		common.RespondWithError(s, i, "Comando disponível apenas em servidores")
		return
	}
	channelID, err := common.ParseSnowflake(i.ChannelID)
	if err != nil {
		common.RespondWithError(s, i, common.GenericErrorMessage)
		return
	}

	queue := &entities.Queue{
		GuildID:    guildID,
		ChannelID:  channelID,
		GameMode:   mode,
		Stake:      stake,
		MobileOnly: mobileOnly,
	}
	// The roster size check runs before anything is posted.
	if _, err := entities.RequiredPlayersForMode(mode); err != nil {
		common.HandleError(s, i, err)
		return
	}

	// Post the roster message first so the queue can be keyed on it.
	msg, err := s.ChannelMessageSendComplex(i.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{BuildQueueEmbed(queue)},
	})
	if err != nil {
		log.Errorf("Error posting queue message: %v", err)
		common.RespondWithError(s, i, common.GenericErrorMessage)
		return
	}
	messageID, err := common.ParseSnowflake(msg.ID)
	if err != nil {
		common.RespondWithError(s, i, common.GenericErrorMessage)
		return
	}
	queue.MessageID = messageID

	ctx := context.Background()
	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		common.RespondWithError(s, i, common.GenericErrorMessage)
		return
	}
	defer uow.Rollback()

	queue, err = f.newQueueService(uow).CreateQueue(ctx, queue)
	if err != nil {
		f.deleteMessage(i.ChannelID, msg.ID)
		common.HandleError(s, i, err)
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		f.deleteMessage(i.ChannelID, msg.ID)
		common.RespondWithError(s, i, common.GenericErrorMessage)
		return
	}

	// Attach the join/leave buttons now that the queue id exists.
	_, err = s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    i.ChannelID,
		ID:         msg.ID,
		Embeds:     &[]*discordgo.MessageEmbed{BuildQueueEmbed(queue)},
		Components: &[]discordgo.MessageComponent{BuildQueueButtons(queue.ID)},
	})
	if err != nil {
		log.Errorf("Error attaching queue buttons: %v", err)
	}

	common.RespondWithSuccess(s, i, fmt.Sprintf("Fila %s de %d gold criada", queue.GameMode, queue.Stake))
}

func (f *Feature) deleteMessage(channelID, messageID string) {
	if err := f.session.ChannelMessageDelete(channelID, messageID); err != nil {
		log.Errorf("Error deleting queue message: %v", err)
	}
}

// handleJoin handles the join button. When the join fills the queue, this
// interaction also owns the handoff into the freshly spawned match.
func (f *Feature) handleJoin(s *discordgo.Session, i *discordgo.InteractionCreate, rawID string) {
	queueID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		common.RespondWithError(s, i, "Fila inválida")
		return
	}
	discordID, name, err := common.InteractionUser(i)
	if err != nil {
		common.RespondWithError(s, i, "Não foi possível identificar o usuário")
		return
	}

	ctx := context.Background()
	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		common.RespondWithError(s, i, common.GenericErrorMessage)
		return
	}
	defer uow.Rollback()

	result, err := f.newQueueService(uow).Join(ctx, queueID, discordID, name)
	if err != nil {
		common.HandleError(s, i, err)
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		if result.Handoff != nil {
			if derr := f.gateway.DeleteChannel(ctx, result.Handoff.ChannelID); derr != nil {
				log.Errorf("Error rolling back match channel %d: %v", result.Handoff.ChannelID, derr)
			}
		}
		common.RespondWithError(s, i, common.GenericErrorMessage)
		return
	}

	f.updateQueueMessage(s, i, result.Queue)

	if result.Handoff != nil && result.Handoff.TeamSelection {
		f.postTeamSelection(result.Handoff)
	}
}

// handleLeave handles the leave button.
func (f *Feature) handleLeave(s *discordgo.Session, i *discordgo.InteractionCreate, rawID string) {
	queueID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		common.RespondWithError(s, i, "Fila inválida")
		return
	}
	discordID, _, err := common.InteractionUser(i)
	if err != nil {
		common.RespondWithError(s, i, "Não foi possível identificar o usuário")
		return
	}

	ctx := context.Background()
	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		common.RespondWithError(s, i, common.GenericErrorMessage)
		return
	}
	defer uow.Rollback()

	queue, err := f.newQueueService(uow).Leave(ctx, queueID, discordID)
	if err != nil {
		common.HandleError(s, i, err)
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		common.RespondWithError(s, i, common.GenericErrorMessage)
		return
	}

	f.updateQueueMessage(s, i, queue)
}

// updateQueueMessage re-renders the roster message in place.
func (f *Feature) updateQueueMessage(s *discordgo.Session, i *discordgo.InteractionCreate, queue *entities.Queue) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{BuildQueueEmbed(queue)},
			Components: []discordgo.MessageComponent{BuildQueueButtons(queue.ID)},
		},
	})
	if err != nil {
		log.Errorf("Error updating queue message: %v", err)
	}
}

// postTeamSelection posts the side-picking buttons in the new match channel.
func (f *Feature) postTeamSelection(handoff *entities.QueueHandoff) {
	channelID := strconv.FormatInt(handoff.ChannelID, 10)
	_, err := f.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    "Escolham seus lados:",
		Components: []discordgo.MessageComponent{BuildTeamButtons(handoff.Bet.ID)},
	})
	if err != nil {
		log.Errorf("Error posting team selection: %v", err)
	}
}
