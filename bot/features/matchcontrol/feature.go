package matchcontrol

import (
	"strings"

	"apostas/bot/common"
	"apostas/domain/interfaces"
	"apostas/domain/services"

	"github.com/bwmarrin/discordgo"
)

// Feature handles the mediator-driven match lifecycle: payment confirmation,
// start, settlement and cancellation, plus the team selection buttons.
type Feature struct {
	session    *discordgo.Session
	uowFactory interfaces.UnitOfWorkFactory
	gateway    interfaces.MessagingGateway
}

// NewFeature creates a new match control feature instance
func NewFeature(session *discordgo.Session, uowFactory interfaces.UnitOfWorkFactory, gateway interfaces.MessagingGateway) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
		gateway:    gateway,
	}
}

// HandleCommand handles the /partida command and its subcommands.
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Uso inválido do comando")
		return
	}

	isMediator, err := common.MemberHasRole(s, i, services.MediatorRoleName)
	if err != nil {
		common.RespondWithError(s, i, common.GenericErrorMessage)
		return
	}
	if !isMediator {
		common.RespondWithError(s, i, "Apenas mediadores podem controlar partidas")
		return
	}

	switch options[0].Name {
	case "pagamento":
		f.handleConfirmPayment(s, i)
	case "iniciar":
		f.handleStartMatch(s, i)
	case "finalizar":
		f.handleFinalize(s, i)
	case "finalizar-time":
		f.handleFinalizeTeam(s, i)
	case "cancelar":
		f.handleCancelMatch(s, i)
	default:
		common.RespondWithError(s, i, "Subcomando desconhecido")
	}
}

// HandleInteraction handles the team selection and close-channel buttons.
// Any pool member can pick a side; closing the channel is mediator only.
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	switch {
	case strings.HasPrefix(customID, "team_a_"):
		f.handleTeamPick(s, i, strings.TrimPrefix(customID, "team_a_"), "A")
	case strings.HasPrefix(customID, "team_b_"):
		f.handleTeamPick(s, i, strings.TrimPrefix(customID, "team_b_"), "B")
	case strings.HasPrefix(customID, "match_close_"):
		f.handleCloseChannel(s, i, strings.TrimPrefix(customID, "match_close_"))
	default:
		common.RespondWithError(s, i, "Interação desconhecida")
	}
}

// newBetService wires a bet service onto the unit of work's repositories.
func (f *Feature) newBetService(uow interfaces.UnitOfWork) interfaces.BetService {
	faults := services.NewFaultService(uow.PlayerRepository(), uow.BetRepository(), f.gateway)
	return services.NewBetService(uow.PlayerRepository(), uow.BetRepository(), f.gateway, faults)
}

// newProgressionService wires a progression service onto the unit of work.
func (f *Feature) newProgressionService(uow interfaces.UnitOfWork) interfaces.ProgressionService {
	return services.NewProgressionService(
		uow.PlayerRepository(),
		uow.BetRepository(),
		uow.PlayerLevelRepository(),
		uow.SeasonRankingRepository(),
		f.gateway,
	)
}
