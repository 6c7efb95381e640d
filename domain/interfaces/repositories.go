package interfaces

import (
	"context"
	"time"

	"apostas/domain/entities"

	"github.com/google/uuid"
)

// PlayerRepository defines data access for the per-user aggregate.
type PlayerRepository interface {
	// GetByDiscordID retrieves a player, or (nil, nil) when absent
	GetByDiscordID(ctx context.Context, discordID int64) (*entities.Player, error)

	// GetOrCreate retrieves a player, lazily creating the row on first contact
	GetOrCreate(ctx context.Context, discordID int64, name string) (*entities.Player, error)

	// Update persists counters, faults and block expiry
	Update(ctx context.Context, player *entities.Player) error

	// TopByWins returns the leaderboard, best first
	TopByWins(ctx context.Context, limit int) ([]*entities.Player, error)
}

// BetRepository defines data access for bets. Every state-changing method is
// a conditional write: it succeeds only if the row is still in the expected
// prior state, and returns entities.ErrConflict when a concurrent request got
// there first.
type BetRepository interface {
	Create(ctx context.Context, bet *entities.Bet) error

	// GetByID retrieves a bet, or (nil, nil) when absent
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Bet, error)

	// ClaimSlot writes the player into the slot only if the slot is still
	// empty and the bet is still awaiting
	ClaimSlot(ctx context.Context, id uuid.UUID, slot int, discordID int64) error

	// VacateSlot clears the slot only if the given player still holds it
	VacateSlot(ctx context.Context, id uuid.UUID, slot int, discordID int64) error

	// MarkAccepted transitions aguardando -> aceita once both slots are
	// filled, recording the match channel
	MarkAccepted(ctx context.Context, id uuid.UUID, channelID int64) error

	// MarkPaid transitions aceita -> paga and sets both payment flags
	MarkPaid(ctx context.Context, id uuid.UUID) error

	// MarkStarted transitions paga -> em_jogo and records the start time
	MarkStarted(ctx context.Context, id uuid.UUID) error

	// MarkCancelled transitions any of the given states to cancelada
	MarkCancelled(ctx context.Context, id uuid.UUID, from []entities.BetState) error

	// Finalize transitions em_jogo -> finalizada with settlement fields; the
	// conditional guard is what prevents double settlement
	Finalize(ctx context.Context, bet *entities.Bet) error

	// UpdateTeams persists a team pick while the bet is still awaiting
	UpdateTeams(ctx context.Context, id uuid.UUID, teams *entities.TeamAssignments) error

	// MarkTeamsComplete transitions aguardando -> em_jogo when the team split
	// finished, recording the captains
	MarkTeamsComplete(ctx context.Context, id uuid.UUID, teams *entities.TeamAssignments, captainA, captainB int64) error

	// SetManualReview flags the bet for human review (timeout sweeps)
	SetManualReview(ctx context.Context, id uuid.UUID) error

	// CountActiveByCreator counts this creator's bets in active states
	CountActiveByCreator(ctx context.Context, creatorID int64) (int, error)

	// CountActiveByParticipant counts engaged bets the user plays in;
	// awaiting bets do not count
	CountActiveByParticipant(ctx context.Context, discordID int64) (int, error)

	// ListStale returns bets sitting in the given state since before the
	// cutoff (keyed on the state's entry timestamp)
	ListStale(ctx context.Context, state entities.BetState, cutoff time.Time) ([]*entities.Bet, error)
}

// QueueRepository defines data access for matchmaking queues. Membership
// mutations are conditional appends/removals guarded at write time.
type QueueRepository interface {
	Create(ctx context.Context, queue *entities.Queue) error

	// GetByID retrieves a queue, or (nil, nil) when absent
	GetByID(ctx context.Context, id int64) (*entities.Queue, error)

	// GetByMessageID resolves the queue behind a roster message
	GetByMessageID(ctx context.Context, messageID int64) (*entities.Queue, error)

	// AppendPlayer adds the player only if they are not already on the roster
	// and capacity was not reached concurrently; returns the updated queue
	AppendPlayer(ctx context.Context, id int64, discordID int64) (*entities.Queue, error)

	// RemovePlayer removes the player; returns the updated queue
	RemovePlayer(ctx context.Context, id int64, discordID int64) (*entities.Queue, error)

	// CaptureFullRoster atomically resets a full queue to empty and returns
	// the roster it held, so exactly one caller performs the fill handoff
	CaptureFullRoster(ctx context.Context, id int64) ([]int64, error)

	// MemberOfAny reports whether the user is on any active queue's roster
	MemberOfAny(ctx context.Context, guildID int64, discordID int64) (bool, error)
}

// PlayerLevelRepository defines data access for the progression aggregate.
type PlayerLevelRepository interface {
	// GetByDiscordID retrieves the aggregate, or (nil, nil) when absent
	GetByDiscordID(ctx context.Context, discordID int64) (*entities.PlayerLevel, error)

	Upsert(ctx context.Context, level *entities.PlayerLevel) error
}

// SeasonRankingRepository defines data access for season aggregates.
type SeasonRankingRepository interface {
	// Get retrieves the aggregate for a (player, season type, season id)
	// key, or (nil, nil) when absent
	Get(ctx context.Context, discordID int64, seasonType entities.SeasonType, seasonID string) (*entities.SeasonRanking, error)

	Upsert(ctx context.Context, ranking *entities.SeasonRanking) error

	// Top returns the season leaderboard ordered by wins
	Top(ctx context.Context, seasonType entities.SeasonType, seasonID string, limit int) ([]*entities.SeasonRanking, error)
}

// UnitOfWork bundles the repositories behind a single transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	PlayerRepository() PlayerRepository
	BetRepository() BetRepository
	QueueRepository() QueueRepository
	PlayerLevelRepository() PlayerLevelRepository
	SeasonRankingRepository() SeasonRankingRepository
}

// UnitOfWorkFactory creates units of work.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
