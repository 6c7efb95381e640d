package bot

import (
	"context"
	"fmt"
	"strings"

	"apostas/bot/features/bets"
	"apostas/bot/features/matchcontrol"
	"apostas/bot/features/profile"
	"apostas/bot/features/queues"
	"apostas/domain/interfaces"
	"apostas/messaging"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration.
type Config struct {
	Token   string
	GuildID string
}

// Bot manages the Discord session and all feature modules.
type Bot struct {
	config     Config
	session    *discordgo.Session
	uowFactory interfaces.UnitOfWorkFactory
	gateway    interfaces.MessagingGateway

	bets         *bets.Feature
	queues       *queues.Feature
	matchControl *matchcontrol.Feature
	profile      *profile.Feature

	stopSweepWorker func()
}

// New creates the bot, opens the gateway connection and registers the slash
// commands.
func New(config Config, uowFactory interfaces.UnitOfWorkFactory) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsAllWithoutPrivileged | discordgo.IntentsGuildMembers

	gateway := messaging.NewDiscordGateway(dg)

	bot := &Bot{
		config:     config,
		session:    dg,
		uowFactory: uowFactory,
		gateway:    gateway,
	}

	bot.bets = bets.NewFeature(dg, uowFactory, gateway)
	bot.queues = queues.NewFeature(dg, uowFactory, gateway)
	bot.matchControl = matchcontrol.NewFeature(dg, uowFactory, gateway)
	bot.profile = profile.NewFeature(dg, uowFactory, gateway)

	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleInteractions)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	bot.stopSweepWorker = bot.StartSweepWorker(context.Background())
	log.Info("Background workers started")

	return bot, nil
}

// Close gracefully shuts down the bot.
func (b *Bot) Close() error {
	if b.stopSweepWorker != nil {
		b.stopSweepWorker()
	}
	return b.session.Close()
}

// Gateway exposes the messaging gateway for components outside the bot.
func (b *Bot) Gateway() interfaces.MessagingGateway {
	return b.gateway
}

// handleCommands routes slash commands to the feature modules.
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "apostar":
		b.bets.HandleCommand(s, i)
	case "fila":
		b.queues.HandleCommand(s, i)
	case "partida":
		b.matchControl.HandleCommand(s, i)
	case "perfil":
		b.profile.HandleProfileCommand(s, i)
	case "ranking":
		b.profile.HandleRankingCommand(s, i)
	}
}

// handleInteractions routes component interactions by custom id prefix.
func (b *Bot) handleInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	switch {
	case strings.HasPrefix(customID, "bet_"):
		b.bets.HandleInteraction(s, i)
	case strings.HasPrefix(customID, "queue_"):
		b.queues.HandleInteraction(s, i)
	case strings.HasPrefix(customID, "team_"), strings.HasPrefix(customID, "match_"):
		b.matchControl.HandleInteraction(s, i)
	}
}
