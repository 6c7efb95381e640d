package repository

import (
	"context"
	"fmt"

	"apostas/database"
	"apostas/domain/entities"

	"github.com/jackc/pgx/v5"
)

// PlayerLevelRepository implements progression aggregate data access.
type PlayerLevelRepository struct {
	q Queryable
}

// NewPlayerLevelRepository creates a new player level repository
func NewPlayerLevelRepository(db *database.DB) *PlayerLevelRepository {
	return &PlayerLevelRepository{q: db.Pool}
}

func newPlayerLevelRepository(tx Queryable) *PlayerLevelRepository {
	return &PlayerLevelRepository{q: tx}
}

// GetByDiscordID retrieves the aggregate, or (nil, nil) when absent.
func (r *PlayerLevelRepository) GetByDiscordID(ctx context.Context, discordID int64) (*entities.PlayerLevel, error) {
	query := `
		SELECT discord_id, total_bets, total_wins, total_losses, total_profit, level, gold_channel_id, updated_at
		FROM player_levels
		WHERE discord_id = $1`

	var pl entities.PlayerLevel
	err := r.q.QueryRow(ctx, query, discordID).Scan(
		&pl.DiscordID,
		&pl.TotalBets,
		&pl.TotalWins,
		&pl.TotalLosses,
		&pl.TotalProfit,
		&pl.Level,
		&pl.GoldChannelID,
		&pl.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player level %d: %w", discordID, err)
	}
	return &pl, nil
}

// Upsert writes the aggregate, inserting on first settlement.
func (r *PlayerLevelRepository) Upsert(ctx context.Context, level *entities.PlayerLevel) error {
	query := `
		INSERT INTO player_levels (discord_id, total_bets, total_wins, total_losses, total_profit, level, gold_channel_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (discord_id) DO UPDATE
		SET total_bets = EXCLUDED.total_bets,
		    total_wins = EXCLUDED.total_wins,
		    total_losses = EXCLUDED.total_losses,
		    total_profit = EXCLUDED.total_profit,
		    level = EXCLUDED.level,
		    gold_channel_id = EXCLUDED.gold_channel_id,
		    updated_at = EXCLUDED.updated_at`

	_, err := r.q.Exec(ctx, query,
		level.DiscordID,
		level.TotalBets,
		level.TotalWins,
		level.TotalLosses,
		level.TotalProfit,
		level.Level,
		level.GoldChannelID,
		level.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert player level %d: %w", level.DiscordID, err)
	}
	return nil
}
