package profile

import (
	"context"

	"apostas/bot/common"
	"apostas/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleProfile handles /perfil, defaulting to the caller when no user is
// given.
func (f *Feature) handleProfile(s *discordgo.Session, i *discordgo.InteractionCreate) {
	targetID, _, err := common.InteractionUser(i)
	if err != nil {
		common.RespondWithError(s, i, "Não foi possível identificar o usuário")
		return
	}
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "usuario" {
			if user := opt.UserValue(s); user != nil {
				if id, err := common.ParseSnowflake(user.ID); err == nil {
					targetID = id
				}
			}
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

	view, err := f.newProgressionService(uow).GetProfile(ctx, targetID)
	if err != nil {
		common.HandleError(s, i, err)
		return
	}
	uow.Rollback()

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{BuildProfileEmbed(targetID, view)},
		},
	})
	if err != nil {
		log.Errorf("Error responding to profile command: %v", err)
	}
}

// handleRanking handles /ranking.
func (f *Feature) handleRanking(s *discordgo.Session, i *discordgo.InteractionCreate) {
	scope := "geral"
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "tipo" {
			scope = opt.StringValue()
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

	progression := f.newProgressionService(uow)

	var embed *discordgo.MessageEmbed
	switch scope {
	case "semanal":
		rankings, err := progression.SeasonTop(ctx, entities.SeasonWeekly, common.LeaderboardSize)
		if err != nil {
			common.HandleError(s, i, err)
			return
		}
		embed = BuildSeasonRankingEmbed("🗓️ Ranking Semanal", rankings)
	case "mensal":
		rankings, err := progression.SeasonTop(ctx, entities.SeasonMonthly, common.LeaderboardSize)
		if err != nil {
			common.HandleError(s, i, err)
			return
		}
		embed = BuildSeasonRankingEmbed("📅 Ranking Mensal", rankings)
	default:
		players, err := progression.OverallTop(ctx, common.LeaderboardSize)
		if err != nil {
			common.HandleError(s, i, err)
			return
		}
		embed = BuildOverallRankingEmbed(players)
	}
	uow.Rollback()

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
	if err != nil {
		log.Errorf("Error responding to ranking command: %v", err)
	}
}
