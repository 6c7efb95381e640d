package profile

import (
	"apostas/domain/interfaces"
	"apostas/domain/services"

	"github.com/bwmarrin/discordgo"
)

// Feature handles the profile and leaderboard commands.
type Feature struct {
	session    *discordgo.Session
	uowFactory interfaces.UnitOfWorkFactory
	gateway    interfaces.MessagingGateway
}

// NewFeature creates a new profile feature instance
func NewFeature(session *discordgo.Session, uowFactory interfaces.UnitOfWorkFactory, gateway interfaces.MessagingGateway) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
		gateway:    gateway,
	}
}

// HandleProfileCommand handles /perfil.
func (f *Feature) HandleProfileCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleProfile(s, i)
}

// HandleRankingCommand handles /ranking.
func (f *Feature) HandleRankingCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleRanking(s, i)
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
