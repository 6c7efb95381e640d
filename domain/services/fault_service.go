package services

import (
	"context"
	"fmt"
	"time"

	"apostas/domain/entities"
	"apostas/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// MaxActiveBets is the open-engagement ceiling; exceeding it earns an
// automatic 24h block.
const MaxActiveBets = 7

type faultService struct {
	playerRepo interfaces.PlayerRepository
	betRepo    interfaces.BetRepository
	gateway    interfaces.MessagingGateway
}

// NewFaultService creates a new fault service
func NewFaultService(playerRepo interfaces.PlayerRepository, betRepo interfaces.BetRepository, gateway interfaces.MessagingGateway) interfaces.FaultService {
	return &faultService{
		playerRepo: playerRepo,
		betRepo:    betRepo,
		gateway:    gateway,
	}
}

// AddFault increments the player's fault count, applies the escalating block
// and notifies the player by DM.
func (s *faultService) AddFault(ctx context.Context, discordID int64, name string) (*entities.Player, error) {
	player, err := s.playerRepo.GetOrCreate(ctx, discordID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	faults, until := player.ApplyFault(time.Now())
	if err := s.playerRepo.Update(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	msg := fmt.Sprintf("⚠️ Você recebeu uma falta (total: %d). Na próxima, você será bloqueado temporariamente.", faults)
	if until != nil {
		if faults >= entities.FaultBlockPermanent {
			msg = fmt.Sprintf("🚫 Você recebeu sua %dª falta e foi bloqueado permanentemente das apostas.", faults)
		} else {
			msg = fmt.Sprintf("🚫 Você recebeu sua %dª falta e está bloqueado até <t:%d:f>.", faults, until.Unix())
		}
	}
	if err := s.gateway.SendDM(ctx, discordID, msg); err != nil {
		log.WithError(err).WithField("discordID", discordID).Warn("Failed to DM fault notice")
	}

	return player, nil
}

// EnsureEligible rejects players currently blocked and players carrying too
// many open engagements. The latter case applies a fresh 24h block before
// rejecting.
func (s *faultService) EnsureEligible(ctx context.Context, discordID int64, name string) error {
	player, err := s.playerRepo.GetOrCreate(ctx, discordID, name)
	if err != nil {
		return fmt.Errorf("failed to get player: %w", err)
	}

	now := time.Now()
	if player.IsBlocked(now) {
		return entities.NewGuardError("você está bloqueado até <t:%d:f>", player.BlockedUntil.Unix())
	}

	active, err := s.betRepo.CountActiveByParticipant(ctx, discordID)
	if err != nil {
		return fmt.Errorf("failed to count active bets: %w", err)
	}
	if active > MaxActiveBets {
		player.Block(now.Add(24 * time.Hour))
		if err := s.playerRepo.Update(ctx, player); err != nil {
			return fmt.Errorf("failed to block player: %w", err)
		}
		log.WithFields(log.Fields{
			"discordID": discordID,
			"active":    active,
		}).Info("Player blocked for excess active bets")
		return entities.NewGuardError("você tem %d apostas em andamento e foi bloqueado por 24h. Finalize suas apostas antes de abrir novas.", active)
	}

	return nil
}
