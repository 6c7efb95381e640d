package bets

import (
	"strings"

	"apostas/bot/common"
	"apostas/domain/interfaces"
	"apostas/domain/services"

	"github.com/bwmarrin/discordgo"
)

// Feature handles bet creation and the open-bet interaction buttons.
type Feature struct {
	session    *discordgo.Session
	uowFactory interfaces.UnitOfWorkFactory
	gateway    interfaces.MessagingGateway
}

// NewFeature creates a new bets feature instance
func NewFeature(session *discordgo.Session, uowFactory interfaces.UnitOfWorkFactory, gateway interfaces.MessagingGateway) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
		gateway:    gateway,
	}
}

// HandleCommand handles the /apostar command.
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleCreate(s, i)
}

// HandleInteraction handles bet button interactions.
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	switch {
	case strings.HasPrefix(customID, "bet_accept_"):
		f.handleAccept(s, i, strings.TrimPrefix(customID, "bet_accept_"))
	case strings.HasPrefix(customID, "bet_cancel_"):
		f.handleCancel(s, i, strings.TrimPrefix(customID, "bet_cancel_"))
	default:
		common.RespondWithError(s, i, "Interação desconhecida")
	}
}

// newBetService wires a bet service onto the unit of work's repositories.
func (f *Feature) newBetService(uow interfaces.UnitOfWork) interfaces.BetService {
	faults := services.NewFaultService(uow.PlayerRepository(), uow.BetRepository(), f.gateway)
	return services.NewBetService(uow.PlayerRepository(), uow.BetRepository(), f.gateway, faults)
}
