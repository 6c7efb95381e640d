package queues

import (
	"strings"

	"apostas/bot/common"
	"apostas/domain/interfaces"
	"apostas/domain/services"

	"github.com/bwmarrin/discordgo"
)

// Feature handles standing matchmaking queues: creation, the join/leave
// buttons and the handoff of a filled roster into a match.
type Feature struct {
	session    *discordgo.Session
	uowFactory interfaces.UnitOfWorkFactory
	gateway    interfaces.MessagingGateway
}

// NewFeature creates a new queues feature instance
func NewFeature(session *discordgo.Session, uowFactory interfaces.UnitOfWorkFactory, gateway interfaces.MessagingGateway) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
		gateway:    gateway,
	}
}

// HandleCommand handles the /fila command and its subcommands.
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Uso inválido do comando")
		return
	}

	switch options[0].Name {
	case "criar":
		f.handleCreate(s, i)
	default:
		common.RespondWithError(s, i, "Subcomando desconhecido")
	}
}

// HandleInteraction handles queue button interactions.
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	switch {
	case strings.HasPrefix(customID, "queue_join_"):
		f.handleJoin(s, i, strings.TrimPrefix(customID, "queue_join_"))
	case strings.HasPrefix(customID, "queue_leave_"):
		f.handleLeave(s, i, strings.TrimPrefix(customID, "queue_leave_"))
	default:
		common.RespondWithError(s, i, "Interação desconhecida")
	}
}

// newQueueService wires a queue service onto the unit of work's repositories.
func (f *Feature) newQueueService(uow interfaces.UnitOfWork) interfaces.QueueService {
	faults := services.NewFaultService(uow.PlayerRepository(), uow.BetRepository(), f.gateway)
	return services.NewQueueService(uow.PlayerRepository(), uow.BetRepository(), uow.QueueRepository(), f.gateway, faults)
}
