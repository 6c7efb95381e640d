package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"apostas/domain/entities"
	"apostas/domain/interfaces"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type queueService struct {
	playerRepo interfaces.PlayerRepository
	betRepo    interfaces.BetRepository
	queueRepo  interfaces.QueueRepository
	gateway    interfaces.MessagingGateway
	faults     interfaces.FaultService
}

// NewQueueService creates a new queue service
func NewQueueService(playerRepo interfaces.PlayerRepository, betRepo interfaces.BetRepository, queueRepo interfaces.QueueRepository, gateway interfaces.MessagingGateway, faults interfaces.FaultService) interfaces.QueueService {
	return &queueService{
		playerRepo: playerRepo,
		betRepo:    betRepo,
		queueRepo:  queueRepo,
		gateway:    gateway,
		faults:     faults,
	}
}

// CreateQueue registers a standing queue behind an already-posted roster
// message.
func (s *queueService) CreateQueue(ctx context.Context, queue *entities.Queue) (*entities.Queue, error) {
	if queue.Stake < MinStake {
		return nil, entities.NewValidationError("o valor mínimo da aposta é %d gold", MinStake)
	}
	required, err := entities.RequiredPlayersForMode(queue.GameMode)
	if err != nil {
		return nil, err
	}
	queue.RequiredPlayers = required
	queue.Status = entities.QueueStatusActive

	if err := s.queueRepo.Create(ctx, queue); err != nil {
		return nil, fmt.Errorf("failed to create queue: %w", err)
	}
	return queue, nil
}

func (s *queueService) GetByMessage(ctx context.Context, messageID int64) (*entities.Queue, error) {
	return s.queueRepo.GetByMessageID(ctx, messageID)
}

// Join adds the player to the roster. Membership is a conditional append, so
// the queue cannot overfill under concurrent joins, and the reset of a full
// queue is atomic, so exactly one join performs the match handoff.
func (s *queueService) Join(ctx context.Context, queueID int64, discordID int64, name string) (*entities.QueueJoinResult, error) {
	if err := s.faults.EnsureEligible(ctx, discordID, name); err != nil {
		return nil, err
	}

	queue, err := s.queueRepo.GetByID(ctx, queueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get queue: %w", err)
	}
	if queue == nil {
		return nil, entities.NewGuardError("fila não encontrada")
	}
	if queue.Status != entities.QueueStatusActive {
		return nil, entities.NewGuardError("esta fila foi encerrada")
	}
	if queue.HasPlayer(discordID) {
		return nil, entities.NewGuardError("você já está nesta fila")
	}

	inAnother, err := s.queueRepo.MemberOfAny(ctx, queue.GuildID, discordID)
	if err != nil {
		return nil, fmt.Errorf("failed to check queue membership: %w", err)
	}
	if inAnother {
		return nil, entities.NewGuardError("você já está em outra fila. Saia dela antes de entrar nesta.")
	}

	if _, err := s.playerRepo.GetOrCreate(ctx, discordID, name); err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	queue, err = s.queueRepo.AppendPlayer(ctx, queueID, discordID)
	if err != nil {
		if err == entities.ErrConflict {
			return nil, entities.NewGuardError("a fila encheu antes da sua entrada. Tente novamente.")
		}
		return nil, fmt.Errorf("failed to join queue: %w", err)
	}

	result := &entities.QueueJoinResult{Queue: queue}
	if !queue.IsFull() {
		return result, nil
	}

	roster, err := s.queueRepo.CaptureFullRoster(ctx, queueID)
	if err != nil {
		if err == entities.ErrConflict {
			// A concurrent join captured the roster and owns the handoff.
			queue, err = s.queueRepo.GetByID(ctx, queueID)
			if err != nil {
				return nil, fmt.Errorf("failed to reload queue: %w", err)
			}
			result.Queue = queue
			return result, nil
		}
		return nil, fmt.Errorf("failed to capture roster: %w", err)
	}

	handoff, err := s.spawnMatch(ctx, queue, roster)
	if err != nil {
		return nil, err
	}
	result.Handoff = handoff

	// The roster message now shows an empty queue again.
	queue.Players = nil
	result.Queue = queue
	return result, nil
}

// spawnMatch turns a captured roster into a bet with its own match channel.
// 1x1 rosters are split in half and go straight to em_jogo; larger rosters
// start team selection in the channel.
func (s *queueService) spawnMatch(ctx context.Context, queue *entities.Queue, roster []int64) (*entities.QueueHandoff, error) {
	teamMatch := len(roster) > 2

	now := time.Now()
	bet := &entities.Bet{
		ID:        uuid.New(),
		GuildID:   queue.GuildID,
		CreatorID: roster[0],
		Mode:      queue.GameMode,
		Stake:     queue.Stake,
		RoomMode:  roomModeFor(queue),
		QueueID:   &queue.ID,
	}
	if teamMatch {
		bet.State = entities.BetStateAwaiting
		bet.Teams = &entities.TeamAssignments{Pool: roster}
	} else {
		teamA, teamB := entities.SplitTeams(roster)
		bet.State = entities.BetStateInGame
		bet.Player1ID = &teamA[0]
		bet.Player2ID = &teamB[0]
		bet.AcceptedAt = &now
		bet.StartedAt = &now
	}

	channelID, err := s.provisionQueueChannel(ctx, bet)
	if err != nil {
		return nil, &entities.DependencyError{Op: "create match channel", Err: err}
	}
	bet.ChannelID = &channelID

	if err := s.betRepo.Create(ctx, bet); err != nil {
		if derr := s.gateway.DeleteChannel(ctx, channelID); derr != nil {
			log.WithError(derr).WithField("channelID", channelID).Error("Failed to roll back match channel")
		}
		return nil, &entities.DependencyError{Op: "create queue bet", Err: err}
	}

	if err := s.gateway.SendMessage(ctx, channelID, queueMatchAnnouncement(bet, roster, teamMatch)); err != nil {
		log.WithError(err).WithField("channelID", channelID).Warn("Failed to post match announcement")
	}

	log.WithFields(log.Fields{
		"queueID": queue.ID,
		"betID":   bet.ID,
		"players": len(roster),
	}).Info("Queue filled, match spawned")

	return &entities.QueueHandoff{
		Bet:           bet,
		ChannelID:     channelID,
		Roster:        roster,
		TeamSelection: teamMatch,
	}, nil
}

func (s *queueService) provisionQueueChannel(ctx context.Context, bet *entities.Bet) (int64, error) {
	mediatorRoleID, err := s.gateway.EnsureRole(ctx, bet.GuildID, MediatorRoleName)
	if err != nil {
		return 0, fmt.Errorf("failed to ensure mediator role: %w", err)
	}

	// Queue matches skip the payment stage, so everyone writes right away.
	overwrites := []interfaces.Overwrite{
		{TargetID: bet.GuildID, Role: true, Access: interfaces.AccessNone},
		{TargetID: mediatorRoleID, Role: true, Access: interfaces.AccessWrite},
	}
	for _, id := range bet.Participants() {
		overwrites = append(overwrites, interfaces.Overwrite{TargetID: id, Access: interfaces.AccessWrite})
	}

	return s.gateway.CreateChannel(ctx, bet.GuildID, interfaces.ChannelSpec{
		Name:       fmt.Sprintf("fila-%s-%s", bet.Mode, bet.ID.String()[:8]),
		Category:   MatchCategoryName,
		Overwrites: overwrites,
	})
}

func roomModeFor(queue *entities.Queue) string {
	if queue.MobileOnly {
		return "mobile"
	}
	return "infinito"
}

func queueMatchAnnouncement(bet *entities.Bet, roster []int64, teamMatch bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎯 **Fila %s completa!** Aposta de %d gold por jogador.\n\n", bet.Mode, bet.Stake)
	for _, id := range roster {
		fmt.Fprintf(&b, "<@%d> ", id)
	}
	b.WriteString("\n\n")
	if teamMatch {
		b.WriteString("Escolham seus times nos botões abaixo.")
	} else {
		b.WriteString("A partida já está em jogo. Boa sorte! Chamem um mediador ao final para registrar o resultado.")
	}
	return b.String()
}

// Leave removes the player from the roster.
func (s *queueService) Leave(ctx context.Context, queueID int64, discordID int64) (*entities.Queue, error) {
	queue, err := s.queueRepo.GetByID(ctx, queueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get queue: %w", err)
	}
	if queue == nil {
		return nil, entities.NewGuardError("fila não encontrada")
	}
	if !queue.HasPlayer(discordID) {
		return nil, entities.NewGuardError("você não está nesta fila")
	}

	queue, err = s.queueRepo.RemovePlayer(ctx, queueID, discordID)
	if err != nil {
		if err == entities.ErrConflict {
			return nil, entities.NewGuardError("a fila já encheu, a partida foi criada")
		}
		return nil, fmt.Errorf("failed to leave queue: %w", err)
	}
	return queue, nil
}
