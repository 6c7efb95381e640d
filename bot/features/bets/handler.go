package bets

import (
	"context"

	"apostas/bot/common"
	"apostas/domain/entities"
	"apostas/domain/services"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// handleCreate handles /apostar: opens a bet with the caller in slot 1 and
// posts the public embed with accept/cancel buttons. With the "aberta"
// option (mediators only) both slots stay free and the caller just runs the
// bet.
func (f *Feature) handleCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var stake int64
	var openCall bool
	mode := "1x1"
	roomMode := ""
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "valor":
			stake = opt.IntValue()
		case "modo":
			mode = opt.StringValue()
		case "sala":
			roomMode = opt.StringValue()
		case "aberta":
			openCall = opt.BoolValue()
		}
	}

	creatorID, creatorName, err := common.InteractionUser(i)
	if err != nil {
		common.RespondWithError(s, i, "Não foi possível identificar o usuário")
		return
	}
	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		common.RespondWithError(s, i, "Comando disponível apenas em servidores")
		return
	}

	if openCall {
		isMediator, err := common.MemberHasRole(s, i, services.MediatorRoleName)
		if err != nil {
			log.Errorf("Error checking mediator role: %v", err)
			common.RespondWithError(s, i, common.GenericErrorMessage)
			return
		}
		if !isMediator {
			common.RespondWithError(s, i, "Apenas mediadores podem criar apostas abertas")
			return
		}
	}

	ctx := context.Background()
	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		common.RespondWithError(s, i, common.GenericErrorMessage)
		return
	}
	defer uow.Rollback()

	svc := f.newBetService(uow)
	var bet *entities.Bet
	if openCall {
		bet, err = svc.CreateOpenBet(ctx, guildID, creatorID, creatorName, mode, stake, roomMode)
	} else {
		bet, err = svc.CreateBet(ctx, guildID, creatorID, creatorName, mode, stake, roomMode)
	}
	if err != nil {
		common.HandleError(s, i, err)
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		common.RespondWithError(s, i, common.GenericErrorMessage)
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{BuildBetEmbed(bet)},
			Components: BuildBetComponents(bet),
		},
	})
	if err != nil {
		log.Errorf("Error responding to bet creation: %v", err)
	}
}

// handleAccept handles the accept button. The slot claim is race-safe in the
// service; filling the last slot provisions the match channel.
func (f *Feature) handleAccept(s *discordgo.Session, i *discordgo.InteractionCreate, rawID string) {
	betID, err := uuid.Parse(rawID)
	if err != nil {
		common.RespondWithError(s, i, "Aposta inválida")
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

	result, err := f.newBetService(uow).Accept(ctx, betID, discordID, name)
	if err != nil {
		common.HandleError(s, i, err)
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		// The channel was provisioned inside the failed flow; tear it down
		// so no orphan channel survives the rollback.
		if result.BothAccepted {
			if derr := f.gateway.DeleteChannel(ctx, result.ChannelID); derr != nil {
				log.Errorf("Error rolling back match channel %d: %v", result.ChannelID, derr)
			}
		}
		common.RespondWithError(s, i, common.GenericErrorMessage)
		return
	}

	f.updateBetMessage(s, i, result.Bet)
}

// handleCancel handles the cancel button: the creator voids the bet, a
// participant frees their slot.
func (f *Feature) handleCancel(s *discordgo.Session, i *discordgo.InteractionCreate, rawID string) {
	betID, err := uuid.Parse(rawID)
	if err != nil {
		common.RespondWithError(s, i, "Aposta inválida")
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

	result, err := f.newBetService(uow).Cancel(ctx, betID, discordID)
	if err != nil {
		common.HandleError(s, i, err)
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		common.RespondWithError(s, i, common.GenericErrorMessage)
		return
	}

	f.updateBetMessage(s, i, result.Bet)
}

// updateBetMessage re-renders the public bet message in place.
func (f *Feature) updateBetMessage(s *discordgo.Session, i *discordgo.InteractionCreate, bet *entities.Bet) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{BuildBetEmbed(bet)},
			Components: BuildBetComponents(bet),
		},
	})
	if err != nil {
		log.Errorf("Error updating bet message: %v", err)
	}
}
