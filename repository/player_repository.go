package repository

import (
	"context"
	"fmt"

	"apostas/database"
	"apostas/domain/entities"

	"github.com/jackc/pgx/v5"
)

// PlayerRepository implements player data access.
type PlayerRepository struct {
	q Queryable
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *database.DB) *PlayerRepository {
	return &PlayerRepository{q: db.Pool}
}

func newPlayerRepository(tx Queryable) *PlayerRepository {
	return &PlayerRepository{q: tx}
}

const playerColumns = `discord_id, name, wins, losses, matches_played, total_wagered, total_won, profit, faults, blocked_until, created_at`

func scanPlayer(row pgx.Row) (*entities.Player, error) {
	var p entities.Player
	err := row.Scan(
		&p.DiscordID,
		&p.Name,
		&p.Wins,
		&p.Losses,
		&p.MatchesPlayed,
		&p.TotalWagered,
		&p.TotalWon,
		&p.Profit,
		&p.Faults,
		&p.BlockedUntil,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByDiscordID retrieves a player, or (nil, nil) when absent.
func (r *PlayerRepository) GetByDiscordID(ctx context.Context, discordID int64) (*entities.Player, error) {
	query := fmt.Sprintf(`SELECT %s FROM players WHERE discord_id = $1`, playerColumns)

	player, err := scanPlayer(r.q.QueryRow(ctx, query, discordID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %d: %w", discordID, err)
	}
	return player, nil
}

// GetOrCreate retrieves a player, inserting the row on first contact. A
// non-empty name refreshes the stored name.
func (r *PlayerRepository) GetOrCreate(ctx context.Context, discordID int64, name string) (*entities.Player, error) {
	query := fmt.Sprintf(`
		INSERT INTO players (discord_id, name)
		VALUES ($1, $2)
		ON CONFLICT (discord_id) DO UPDATE
		SET name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE players.name END
		RETURNING %s`, playerColumns)

	player, err := scanPlayer(r.q.QueryRow(ctx, query, discordID, name))
	if err != nil {
		return nil, fmt.Errorf("failed to get or create player %d: %w", discordID, err)
	}
	return player, nil
}

// Update persists counters, faults and block expiry.
func (r *PlayerRepository) Update(ctx context.Context, player *entities.Player) error {
	query := `
		UPDATE players
		SET name = $2, wins = $3, losses = $4, matches_played = $5,
		    total_wagered = $6, total_won = $7, profit = $8,
		    faults = $9, blocked_until = $10
		WHERE discord_id = $1`

	tag, err := r.q.Exec(ctx, query,
		player.DiscordID,
		player.Name,
		player.Wins,
		player.Losses,
		player.MatchesPlayed,
		player.TotalWagered,
		player.TotalWon,
		player.Profit,
		player.Faults,
		player.BlockedUntil,
	)
	if err != nil {
		return fmt.Errorf("failed to update player %d: %w", player.DiscordID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("player %d not found", player.DiscordID)
	}
	return nil
}

// TopByWins returns the all-time leaderboard, best first.
func (r *PlayerRepository) TopByWins(ctx context.Context, limit int) ([]*entities.Player, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM players
		WHERE matches_played > 0
		ORDER BY wins DESC, profit DESC
		LIMIT $1`, playerColumns)

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top players: %w", err)
	}
	defer rows.Close()

	var players []*entities.Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, player)
	}
	return players, rows.Err()
}
