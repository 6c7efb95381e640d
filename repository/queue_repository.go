package repository

import (
	"context"
	"fmt"

	"apostas/database"
	"apostas/domain/entities"

	"github.com/jackc/pgx/v5"
)

// QueueRepository implements queue data access. Roster membership changes
// are conditional updates so concurrent joins can neither duplicate a player
// nor overfill the queue, and the reset of a full queue hands its roster to
// exactly one caller.
type QueueRepository struct {
	q Queryable
}

// NewQueueRepository creates a new queue repository
func NewQueueRepository(db *database.DB) *QueueRepository {
	return &QueueRepository{q: db.Pool}
}

func newQueueRepository(tx Queryable) *QueueRepository {
	return &QueueRepository{q: tx}
}

const queueColumns = `id, guild_id, channel_id, message_id, game_mode, stake, required_players, players, mobile_only, status, created_at`

func scanQueue(row pgx.Row) (*entities.Queue, error) {
	var q entities.Queue
	err := row.Scan(
		&q.ID,
		&q.GuildID,
		&q.ChannelID,
		&q.MessageID,
		&q.GameMode,
		&q.Stake,
		&q.RequiredPlayers,
		&q.Players,
		&q.MobileOnly,
		&q.Status,
		&q.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// Create inserts a new queue.
func (r *QueueRepository) Create(ctx context.Context, queue *entities.Queue) error {
	query := `
		INSERT INTO queues (guild_id, channel_id, message_id, game_mode, stake, required_players, mobile_only, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.q.QueryRow(ctx, query,
		queue.GuildID,
		queue.ChannelID,
		queue.MessageID,
		queue.GameMode,
		queue.Stake,
		queue.RequiredPlayers,
		queue.MobileOnly,
		queue.Status,
	).Scan(&queue.ID, &queue.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create queue: %w", err)
	}
	return nil
}

// GetByID retrieves a queue, or (nil, nil) when absent.
func (r *QueueRepository) GetByID(ctx context.Context, id int64) (*entities.Queue, error) {
	query := fmt.Sprintf(`SELECT %s FROM queues WHERE id = $1`, queueColumns)

	queue, err := scanQueue(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get queue %d: %w", id, err)
	}
	return queue, nil
}

// GetByMessageID resolves the queue behind a roster message.
func (r *QueueRepository) GetByMessageID(ctx context.Context, messageID int64) (*entities.Queue, error) {
	query := fmt.Sprintf(`SELECT %s FROM queues WHERE message_id = $1`, queueColumns)

	queue, err := scanQueue(r.q.QueryRow(ctx, query, messageID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get queue by message %d: %w", messageID, err)
	}
	return queue, nil
}

// AppendPlayer adds the player only if they are not already on the roster and
// capacity was not reached concurrently.
func (r *QueueRepository) AppendPlayer(ctx context.Context, id int64, discordID int64) (*entities.Queue, error) {
	query := fmt.Sprintf(`
		UPDATE queues SET players = array_append(players, $2)
		WHERE id = $1 AND status = 'active'
		  AND NOT (players @> ARRAY[$2]::BIGINT[])
		  AND cardinality(players) < required_players
		RETURNING %s`, queueColumns)

	queue, err := scanQueue(r.q.QueryRow(ctx, query, id, discordID))
	if err == pgx.ErrNoRows {
		return nil, entities.ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("failed to append player to queue %d: %w", id, err)
	}
	return queue, nil
}

// RemovePlayer removes the player from the roster.
func (r *QueueRepository) RemovePlayer(ctx context.Context, id int64, discordID int64) (*entities.Queue, error) {
	query := fmt.Sprintf(`
		UPDATE queues SET players = array_remove(players, $2)
		WHERE id = $1 AND status = 'active'
		  AND players @> ARRAY[$2]::BIGINT[]
		RETURNING %s`, queueColumns)

	queue, err := scanQueue(r.q.QueryRow(ctx, query, id, discordID))
	if err == pgx.ErrNoRows {
		return nil, entities.ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("failed to remove player from queue %d: %w", id, err)
	}
	return queue, nil
}

// CaptureFullRoster atomically resets a full queue to empty and returns the
// roster it held. The row lock in the CTE guarantees a single winner.
func (r *QueueRepository) CaptureFullRoster(ctx context.Context, id int64) ([]int64, error) {
	query := `
		WITH full_queue AS (
			SELECT id, players FROM queues
			WHERE id = $1 AND status = 'active'
			  AND cardinality(players) >= required_players
			FOR UPDATE
		)
		UPDATE queues q SET players = '{}'
		FROM full_queue f
		WHERE q.id = f.id
		RETURNING f.players`

	var roster []int64
	err := r.q.QueryRow(ctx, query, id).Scan(&roster)
	if err == pgx.ErrNoRows {
		return nil, entities.ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("failed to capture roster of queue %d: %w", id, err)
	}
	return roster, nil
}

// MemberOfAny reports whether the user is on any active queue's roster in
// the guild.
func (r *QueueRepository) MemberOfAny(ctx context.Context, guildID int64, discordID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM queues
			WHERE guild_id = $1 AND status = 'active'
			  AND players @> ARRAY[$2]::BIGINT[]
		)`

	var member bool
	if err := r.q.QueryRow(ctx, query, guildID, discordID).Scan(&member); err != nil {
		return false, fmt.Errorf("failed to check queue membership: %w", err)
	}
	return member, nil
}
