package matchcontrol

import (
	"context"
	"fmt"
	"strconv"

	"apostas/bot/common"
	"apostas/domain/entities"
	"apostas/domain/interfaces"
	"apostas/domain/services"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func betIDOption(i *discordgo.InteractionCreate) (uuid.UUID, error) {
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		if opt.Name == "aposta" {
			return uuid.Parse(opt.StringValue())
		}
	}
	return uuid.Nil, fmt.Errorf("missing aposta option")
}

// withTransaction runs fn inside a unit of work and commits on success.
func (f *Feature) withTransaction(s *discordgo.Session, i *discordgo.InteractionCreate, fn func(ctx context.Context, uow interfaces.UnitOfWork) (string, error)) {
	ctx := context.Background()
	uow := f.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		log.Errorf("Error beginning transaction: %v", err)
		common.RespondWithError(s, i, common.GenericErrorMessage)
		return
	}
	defer uow.Rollback()

	message, err := fn(ctx, uow)
	if err != nil {
		common.HandleError(s, i, err)
		return
	}

	if err := uow.Commit(); err != nil {
		log.Errorf("Error committing transaction: %v", err)
		common.RespondWithError(s, i, common.GenericErrorMessage)
		return
	}

	common.RespondWithSuccess(s, i, message)
}

// handleConfirmPayment handles /partida pagamento.
func (f *Feature) handleConfirmPayment(s *discordgo.Session, i *discordgo.InteractionCreate) {
	betID, err := betIDOption(i)
	if err != nil {
		common.RespondWithError(s, i, "Aposta inválida")
		return
	}

	f.withTransaction(s, i, func(ctx context.Context, uow interfaces.UnitOfWork) (string, error) {
		bet, err := f.newBetService(uow).ConfirmPayment(ctx, betID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Pagamento confirmado para a aposta `%s`", bet.ID), nil
	})
}

// handleStartMatch handles /partida iniciar.
func (f *Feature) handleStartMatch(s *discordgo.Session, i *discordgo.InteractionCreate) {
	betID, err := betIDOption(i)
	if err != nil {
		common.RespondWithError(s, i, "Aposta inválida")
		return
	}

	f.withTransaction(s, i, func(ctx context.Context, uow interfaces.UnitOfWork) (string, error) {
		bet, err := f.newBetService(uow).StartMatch(ctx, betID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Partida `%s` iniciada", bet.ID), nil
	})
}

func finalizationOption(i *discordgo.InteractionCreate) entities.FinalizationType {
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		if opt.Name == "tipo" && opt.StringValue() == string(entities.FinalizationWalkover) {
			return entities.FinalizationWalkover
		}
	}
	return entities.FinalizationNormal
}

// handleFinalize handles /partida finalizar: settles a slot match and folds
// the result into the player aggregates in the same transaction.
func (f *Feature) handleFinalize(s *discordgo.Session, i *discordgo.InteractionCreate) {
	betID, err := betIDOption(i)
	if err != nil {
		common.RespondWithError(s, i, "Aposta inválida")
		return
	}

	var winnerID int64
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		if opt.Name == "vencedor" {
			user := opt.UserValue(s)
			if user == nil {
				common.RespondWithError(s, i, "Vencedor inválido")
				return
			}
			winnerID, err = common.ParseSnowflake(user.ID)
			if err != nil {
				common.RespondWithError(s, i, "Vencedor inválido")
				return
			}
		}
	}
	if winnerID == 0 {
		common.RespondWithError(s, i, "Informe o vencedor")
		return
	}

	finalization := finalizationOption(i)
	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		common.RespondWithError(s, i, "Comando disponível apenas em servidores")
		return
	}

	f.withTransaction(s, i, func(ctx context.Context, uow interfaces.UnitOfWork) (string, error) {
		result, err := f.newBetService(uow).Finalize(ctx, betID, winnerID, finalization)
		if err != nil {
			return "", err
		}
		if result.AlreadyFinal {
			return "A aposta já estava finalizada", nil
		}
		if err := f.newProgressionService(uow).RecordSettlement(ctx, guildID, result); err != nil {
			return "", err
		}
		f.announceSettlement(ctx, result)
		return fmt.Sprintf("Aposta finalizada! <@%d> recebe %.2f gold (taxa: %.2f)", winnerID, result.Payout, result.Fee), nil
	})
}

// handleFinalizeTeam handles /partida finalizar-time.
func (f *Feature) handleFinalizeTeam(s *discordgo.Session, i *discordgo.InteractionCreate) {
	betID, err := betIDOption(i)
	if err != nil {
		common.RespondWithError(s, i, "Aposta inválida")
		return
	}

	winner := entities.TeamA
	for _, opt := range i.ApplicationCommandData().Options[0].Options {
		if opt.Name == "time" && opt.StringValue() == string(entities.TeamB) {
			winner = entities.TeamB
		}
	}

	finalization := finalizationOption(i)
	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		common.RespondWithError(s, i, "Comando disponível apenas em servidores")
		return
	}

	f.withTransaction(s, i, func(ctx context.Context, uow interfaces.UnitOfWork) (string, error) {
		result, err := f.newBetService(uow).FinalizeTeam(ctx, betID, winner, finalization)
		if err != nil {
			return "", err
		}
		if result.AlreadyFinal {
			return "A aposta já estava finalizada", nil
		}
		if err := f.newProgressionService(uow).RecordSettlement(ctx, guildID, result); err != nil {
			return "", err
		}
		f.announceSettlement(ctx, result)
		return fmt.Sprintf("Partida finalizada! Time %s vence, %.2f gold por jogador (taxa: %.2f)", winner, result.Payout, result.Fee), nil
	})
}

// handleCancelMatch handles /partida cancelar.
func (f *Feature) handleCancelMatch(s *discordgo.Session, i *discordgo.InteractionCreate) {
	betID, err := betIDOption(i)
	if err != nil {
		common.RespondWithError(s, i, "Aposta inválida")
		return
	}

	f.withTransaction(s, i, func(ctx context.Context, uow interfaces.UnitOfWork) (string, error) {
		bet, err := f.newBetService(uow).CancelMatch(ctx, betID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Aposta `%s` cancelada", bet.ID), nil
	})
}

// announceSettlement posts the outcome and a close-channel button in the
// match channel, when one still exists.
func (f *Feature) announceSettlement(ctx context.Context, result *entities.SettlementResult) {
	if result.Bet.ChannelID == nil {
		return
	}
	channelID := strconv.FormatInt(*result.Bet.ChannelID, 10)
	_, err := f.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    BuildSettlementMessage(result),
		Components: []discordgo.MessageComponent{BuildCloseButton(result.Bet.ID)},
	}, discordgo.WithContext(ctx))
	if err != nil {
		log.Errorf("Error announcing settlement: %v", err)
	}
}

// handleCloseChannel handles the close-channel button under a finished match.
func (f *Feature) handleCloseChannel(s *discordgo.Session, i *discordgo.InteractionCreate, rawID string) {
	betID, err := uuid.Parse(rawID)
	if err != nil {
		common.RespondWithError(s, i, "Partida inválida")
		return
	}

	isMediator, err := common.MemberHasRole(s, i, services.MediatorRoleName)
	if err != nil {
		common.RespondWithError(s, i, common.GenericErrorMessage)
		return
	}
	if !isMediator {
		common.RespondWithError(s, i, "Apenas mediadores podem fechar o canal")
		return
	}

	f.withTransaction(s, i, func(ctx context.Context, uow interfaces.UnitOfWork) (string, error) {
		if err := f.newBetService(uow).CloseChannel(ctx, betID); err != nil {
			return "", err
		}
		return "Canal encerrado", nil
	})
}

// handleTeamPick handles a team selection button press.
func (f *Feature) handleTeamPick(s *discordgo.Session, i *discordgo.InteractionCreate, rawID string, side string) {
	betID, err := uuid.Parse(rawID)
	if err != nil {
		common.RespondWithError(s, i, "Partida inválida")
		return
	}
	discordID, _, err := common.InteractionUser(i)
	if err != nil {
		common.RespondWithError(s, i, "Não foi possível identificar o usuário")
		return
	}

	team := entities.TeamA
	if side == "B" {
		team = entities.TeamB
	}

	f.withTransaction(s, i, func(ctx context.Context, uow interfaces.UnitOfWork) (string, error) {
		result, err := f.newBetService(uow).AssignTeam(ctx, betID, discordID, team)
		if err != nil {
			return "", err
		}
		if result.Complete {
			return fmt.Sprintf("Você entrou no Time %s. Times completos, partida em jogo!", team), nil
		}
		return fmt.Sprintf("Você entrou no Time %s", team), nil
	})
}
