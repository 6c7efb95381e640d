package interfaces

import (
	"context"
	"time"

	"apostas/domain/entities"

	"github.com/google/uuid"
)

// BetService drives the bet lifecycle from creation through settlement.
type BetService interface {
	// CreateBet opens a new bet after eligibility checks pass, with the
	// creator holding slot 1
	CreateBet(ctx context.Context, guildID, creatorID int64, creatorName, mode string, stake int64, roomMode string) (*entities.Bet, error)

	// CreateOpenBet opens a bet with both slots free; the creator runs the
	// bet without playing in it
	CreateOpenBet(ctx context.Context, guildID, creatorID int64, creatorName, mode string, stake int64, roomMode string) (*entities.Bet, error)

	// GetBet retrieves a bet, or (nil, nil) when absent
	GetBet(ctx context.Context, id uuid.UUID) (*entities.Bet, error)

	// Accept claims a free slot for the player; when the claim fills the bet
	// it provisions the match channel and transitions to aceita
	Accept(ctx context.Context, betID uuid.UUID, discordID int64, name string) (*entities.AcceptResult, error)

	// Cancel voids the bet (creator) or vacates the caller's slot
	Cancel(ctx context.Context, betID uuid.UUID, discordID int64) (*entities.CancelResult, error)

	// ConfirmPayment transitions aceita -> paga and unlocks the match channel
	// for the participants
	ConfirmPayment(ctx context.Context, betID uuid.UUID) (*entities.Bet, error)

	// StartMatch transitions paga -> em_jogo
	StartMatch(ctx context.Context, betID uuid.UUID) (*entities.Bet, error)

	// Finalize settles a 1x1 bet for the given winner. Repeating a
	// finalization is harmless and reported via AlreadyFinal.
	Finalize(ctx context.Context, betID uuid.UUID, winnerID int64, finalization entities.FinalizationType) (*entities.SettlementResult, error)

	// FinalizeTeam settles a team bet for the winning side
	FinalizeTeam(ctx context.Context, betID uuid.UUID, winner entities.Team, finalization entities.FinalizationType) (*entities.SettlementResult, error)

	// CancelMatch voids an accepted or running bet and tears down its channel
	CancelMatch(ctx context.Context, betID uuid.UUID) (*entities.Bet, error)

	// AssignTeam places a roster member on a side during team selection
	AssignTeam(ctx context.Context, betID uuid.UUID, discordID int64, team entities.Team) (*entities.TeamSelectionResult, error)

	// CloseChannel deletes the bet's match channel if one exists
	CloseChannel(ctx context.Context, betID uuid.UUID) error
}

// QueueService manages standing recruitment queues and the handoff of a
// filled roster into a new bet.
type QueueService interface {
	// CreateQueue registers a queue behind an already-posted roster message
	CreateQueue(ctx context.Context, queue *entities.Queue) (*entities.Queue, error)

	// GetByMessage resolves the queue behind a roster message, or (nil, nil)
	GetByMessage(ctx context.Context, messageID int64) (*entities.Queue, error)

	// Join adds the player; when the join fills the queue, exactly one caller
	// receives the handoff into a freshly spawned bet
	Join(ctx context.Context, queueID int64, discordID int64, name string) (*entities.QueueJoinResult, error)

	// Leave removes the player from the roster
	Leave(ctx context.Context, queueID int64, discordID int64) (*entities.Queue, error)
}

// FaultService tracks infractions and enforces participation blocks.
type FaultService interface {
	// AddFault increments the player's fault count and applies the
	// escalating block schedule
	AddFault(ctx context.Context, discordID int64, name string) (*entities.Player, error)

	// EnsureEligible rejects blocked players and players with too many
	// active bets (the latter earns a fresh 24h block)
	EnsureEligible(ctx context.Context, discordID int64, name string) error
}

// ProgressionService maintains the derived per-player aggregates that follow
// from settlements: career stats, tier levels, season rankings, roles and the
// gold-tier bonus channel.
type ProgressionService interface {
	// RecordSettlement folds a settled bet into every aggregate and applies
	// the Discord side effects (roles, channel, DMs)
	RecordSettlement(ctx context.Context, guildID int64, result *entities.SettlementResult) error

	// GetProfile assembles the profile view for a player
	GetProfile(ctx context.Context, discordID int64) (*entities.PlayerProfile, error)

	// SeasonTop returns a season leaderboard
	SeasonTop(ctx context.Context, seasonType entities.SeasonType, limit int) ([]*entities.SeasonRanking, error)

	// OverallTop returns the all-time leaderboard
	OverallTop(ctx context.Context, limit int) ([]*entities.Player, error)
}

// SweepService reaps bets stuck in intermediate states past their deadline.
type SweepService interface {
	// SweepUnpaid cancels accepted bets unpaid past the deadline and faults
	// both participants
	SweepUnpaid(ctx context.Context, now time.Time) (int, error)

	// SweepUnstarted flags paid bets that never started for manual review
	SweepUnstarted(ctx context.Context, now time.Time) (int, error)

	// SweepUnfinished flags running bets past the deadline for manual review
	SweepUnfinished(ctx context.Context, now time.Time) (int, error)
}
