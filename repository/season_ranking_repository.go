package repository

import (
	"context"
	"fmt"

	"apostas/database"
	"apostas/domain/entities"

	"github.com/jackc/pgx/v5"
)

// SeasonRankingRepository implements season aggregate data access.
type SeasonRankingRepository struct {
	q Queryable
}

// NewSeasonRankingRepository creates a new season ranking repository
func NewSeasonRankingRepository(db *database.DB) *SeasonRankingRepository {
	return &SeasonRankingRepository{q: db.Pool}
}

func newSeasonRankingRepository(tx Queryable) *SeasonRankingRepository {
	return &SeasonRankingRepository{q: tx}
}

const seasonColumns = `discord_id, season_type, season_id, wins, losses, total_bet, profit, win_rate`

func scanSeasonRanking(row pgx.Row) (*entities.SeasonRanking, error) {
	var sr entities.SeasonRanking
	err := row.Scan(
		&sr.DiscordID,
		&sr.SeasonType,
		&sr.SeasonID,
		&sr.Wins,
		&sr.Losses,
		&sr.TotalBet,
		&sr.Profit,
		&sr.WinRate,
	)
	if err != nil {
		return nil, err
	}
	return &sr, nil
}

// Get retrieves the aggregate for one (player, season type, season id) key,
// or (nil, nil) when absent.
func (r *SeasonRankingRepository) Get(ctx context.Context, discordID int64, seasonType entities.SeasonType, seasonID string) (*entities.SeasonRanking, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM season_rankings
		WHERE discord_id = $1 AND season_type = $2 AND season_id = $3`, seasonColumns)

	ranking, err := scanSeasonRanking(r.q.QueryRow(ctx, query, discordID, seasonType, seasonID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get season ranking: %w", err)
	}
	return ranking, nil
}

// Upsert writes the aggregate, inserting on the player's first settlement of
// the season.
func (r *SeasonRankingRepository) Upsert(ctx context.Context, ranking *entities.SeasonRanking) error {
	query := `
		INSERT INTO season_rankings (discord_id, season_type, season_id, wins, losses, total_bet, profit, win_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (discord_id, season_type, season_id) DO UPDATE
		SET wins = EXCLUDED.wins,
		    losses = EXCLUDED.losses,
		    total_bet = EXCLUDED.total_bet,
		    profit = EXCLUDED.profit,
		    win_rate = EXCLUDED.win_rate`

	_, err := r.q.Exec(ctx, query,
		ranking.DiscordID,
		ranking.SeasonType,
		ranking.SeasonID,
		ranking.Wins,
		ranking.Losses,
		ranking.TotalBet,
		ranking.Profit,
		ranking.WinRate,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert season ranking: %w", err)
	}
	return nil
}

// Top returns the season leaderboard ordered by wins, profit breaking ties.
func (r *SeasonRankingRepository) Top(ctx context.Context, seasonType entities.SeasonType, seasonID string, limit int) ([]*entities.SeasonRanking, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM season_rankings
		WHERE season_type = $1 AND season_id = $2
		ORDER BY wins DESC, profit DESC
		LIMIT $3`, seasonColumns)

	rows, err := r.q.Query(ctx, query, seasonType, seasonID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query season top: %w", err)
	}
	defer rows.Close()

	var rankings []*entities.SeasonRanking
	for rows.Next() {
		ranking, err := scanSeasonRanking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan season ranking: %w", err)
		}
		rankings = append(rankings, ranking)
	}
	return rankings, rows.Err()
}
