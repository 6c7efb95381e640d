package services

import (
	"context"
	"fmt"
	"time"

	"apostas/domain/entities"
	"apostas/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// Deadlines for bets stuck in intermediate states.
const (
	UnpaidTimeout     = 10 * time.Minute
	UnstartedTimeout  = 45 * time.Minute
	UnfinishedTimeout = 60 * time.Minute
)

type sweepService struct {
	playerRepo        interfaces.PlayerRepository
	betRepo           interfaces.BetRepository
	gateway           interfaces.MessagingGateway
	faults            interfaces.FaultService
	adminLogChannelID int64
}

// NewSweepService creates a new sweep service. adminLogChannelID receives the
// manual-review notices; zero disables them.
func NewSweepService(playerRepo interfaces.PlayerRepository, betRepo interfaces.BetRepository, gateway interfaces.MessagingGateway, faults interfaces.FaultService, adminLogChannelID int64) interfaces.SweepService {
	return &sweepService{
		playerRepo:        playerRepo,
		betRepo:           betRepo,
		gateway:           gateway,
		faults:            faults,
		adminLogChannelID: adminLogChannelID,
	}
}

// SweepUnpaid cancels accepted bets whose payment never arrived. Both
// participants take a fault; the match channel comes down.
func (s *sweepService) SweepUnpaid(ctx context.Context, now time.Time) (int, error) {
	stale, err := s.betRepo.ListStale(ctx, entities.BetStateAccepted, now.Add(-UnpaidTimeout))
	if err != nil {
		return 0, fmt.Errorf("failed to list unpaid bets: %w", err)
	}

	swept := 0
	for _, bet := range stale {
		err := s.betRepo.MarkCancelled(ctx, bet.ID, []entities.BetState{entities.BetStateAccepted})
		if err == entities.ErrConflict {
			continue
		}
		if err != nil {
			return swept, fmt.Errorf("failed to cancel bet %s: %w", bet.ID, err)
		}

		for _, id := range bet.Participants() {
			if _, err := s.faults.AddFault(ctx, id, ""); err != nil {
				log.WithError(err).WithField("discordID", id).Warn("Failed to fault participant")
			}
		}
		if bet.ChannelID != nil {
			if err := s.gateway.DeleteChannel(ctx, *bet.ChannelID); err != nil {
				log.WithError(err).WithField("channelID", *bet.ChannelID).Warn("Failed to delete match channel")
			}
		}

		log.WithField("betID", bet.ID).Info("Unpaid bet cancelled by sweep")
		swept++
	}
	return swept, nil
}

// SweepUnstarted flags paid bets that never went into game for manual review.
func (s *sweepService) SweepUnstarted(ctx context.Context, now time.Time) (int, error) {
	return s.flagStale(ctx, entities.BetStatePaid, now.Add(-UnstartedTimeout),
		"⏰ Esta partida está paga há muito tempo sem iniciar e foi marcada para revisão manual. Um mediador irá verificar.")
}

// SweepUnfinished flags running bets past the deadline for manual review.
func (s *sweepService) SweepUnfinished(ctx context.Context, now time.Time) (int, error) {
	return s.flagStale(ctx, entities.BetStateInGame, now.Add(-UnfinishedTimeout),
		"⏰ Esta partida está em jogo há muito tempo sem resultado e foi marcada para revisão manual. Um mediador irá verificar.")
}

func (s *sweepService) flagStale(ctx context.Context, state entities.BetState, cutoff time.Time, notice string) (int, error) {
	stale, err := s.betRepo.ListStale(ctx, state, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale bets: %w", err)
	}

	swept := 0
	for _, bet := range stale {
		if bet.ManualReview {
			continue
		}
		if err := s.betRepo.SetManualReview(ctx, bet.ID); err != nil {
			if err == entities.ErrConflict {
				continue
			}
			return swept, fmt.Errorf("failed to flag bet %s: %w", bet.ID, err)
		}
		if bet.ChannelID != nil {
			if err := s.gateway.SendMessage(ctx, *bet.ChannelID, notice); err != nil {
				log.WithError(err).WithField("channelID", *bet.ChannelID).Warn("Failed to post review notice")
			}
		}
		s.notifyAdminLog(ctx, bet, state)
		log.WithFields(log.Fields{"betID": bet.ID, "state": state}).Info("Stale bet flagged for manual review")
		swept++
	}
	return swept, nil
}

// notifyAdminLog posts the manual-review entry where mediators watch for it.
func (s *sweepService) notifyAdminLog(ctx context.Context, bet *entities.Bet, state entities.BetState) {
	if s.adminLogChannelID == 0 {
		return
	}
	msg := fmt.Sprintf("⚠️ Aposta `%s` (%s, %d gold) travada em **%s** e marcada para revisão manual.", bet.ID, bet.Mode, bet.Stake, state)
	if bet.ChannelID != nil {
		msg += fmt.Sprintf(" Canal: <#%d>", *bet.ChannelID)
	}
	if err := s.gateway.SendMessage(ctx, s.adminLogChannelID, msg); err != nil {
		log.WithError(err).WithField("channelID", s.adminLogChannelID).Warn("Failed to post admin log notice")
	}
}
