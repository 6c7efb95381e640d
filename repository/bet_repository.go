package repository

import (
	"context"
	"fmt"
	"time"

	"apostas/database"
	"apostas/domain/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BetRepository implements bet data access. State transitions are
// conditional updates: the WHERE clause re-checks the expected prior state,
// and an update that matched no row reports entities.ErrConflict.
type BetRepository struct {
	q Queryable
}

// NewBetRepository creates a new bet repository
func NewBetRepository(db *database.DB) *BetRepository {
	return &BetRepository{q: db.Pool}
}

func newBetRepository(tx Queryable) *BetRepository {
	return &BetRepository{q: tx}
}

const betColumns = `id, guild_id, creator_id, player1_id, player2_id, mode, stake, room_mode,
	state, player1_paid, player2_paid, manual_review, teams, queue_id, channel_id,
	winner_id, winning_team, fee, payout, finalization_type,
	created_at, accepted_at, started_at, finalized_at`

func scanBet(row pgx.Row) (*entities.Bet, error) {
	var b entities.Bet
	err := row.Scan(
		&b.ID,
		&b.GuildID,
		&b.CreatorID,
		&b.Player1ID,
		&b.Player2ID,
		&b.Mode,
		&b.Stake,
		&b.RoomMode,
		&b.State,
		&b.Player1Paid,
		&b.Player2Paid,
		&b.ManualReview,
		&b.Teams,
		&b.QueueID,
		&b.ChannelID,
		&b.WinnerID,
		&b.WinningTeam,
		&b.Fee,
		&b.Payout,
		&b.Finalization,
		&b.CreatedAt,
		&b.AcceptedAt,
		&b.StartedAt,
		&b.FinalizedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a new bet.
func (r *BetRepository) Create(ctx context.Context, bet *entities.Bet) error {
	query := `
		INSERT INTO bets (
			id, guild_id, creator_id, player1_id, player2_id, mode, stake, room_mode,
			state, teams, queue_id, channel_id, accepted_at, started_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at`

	err := r.q.QueryRow(ctx, query,
		bet.ID,
		bet.GuildID,
		bet.CreatorID,
		bet.Player1ID,
		bet.Player2ID,
		bet.Mode,
		bet.Stake,
		bet.RoomMode,
		bet.State,
		bet.Teams,
		bet.QueueID,
		bet.ChannelID,
		bet.AcceptedAt,
		bet.StartedAt,
	).Scan(&bet.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bet: %w", err)
	}
	return nil
}

// GetByID retrieves a bet, or (nil, nil) when absent.
func (r *BetRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Bet, error) {
	query := fmt.Sprintf(`SELECT %s FROM bets WHERE id = $1`, betColumns)

	bet, err := scanBet(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet %s: %w", id, err)
	}
	return bet, nil
}

func slotColumn(slot int) (string, error) {
	switch slot {
	case 1:
		return "player1_id", nil
	case 2:
		return "player2_id", nil
	default:
		return "", fmt.Errorf("invalid slot %d", slot)
	}
}

// ClaimSlot writes the player into the slot only while the slot is empty and
// the bet is still awaiting.
func (r *BetRepository) ClaimSlot(ctx context.Context, id uuid.UUID, slot int, discordID int64) error {
	col, err := slotColumn(slot)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		UPDATE bets SET %s = $2
		WHERE id = $1 AND state = 'aguardando' AND %s IS NULL`, col, col)

	tag, err := r.q.Exec(ctx, query, id, discordID)
	if err != nil {
		return fmt.Errorf("failed to claim slot %d on bet %s: %w", slot, id, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrConflict
	}
	return nil
}

// VacateSlot clears the slot only while the given player still holds it and
// the bet is still awaiting.
func (r *BetRepository) VacateSlot(ctx context.Context, id uuid.UUID, slot int, discordID int64) error {
	col, err := slotColumn(slot)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		UPDATE bets SET %s = NULL
		WHERE id = $1 AND state = 'aguardando' AND %s = $2`, col, col)

	tag, err := r.q.Exec(ctx, query, id, discordID)
	if err != nil {
		return fmt.Errorf("failed to vacate slot %d on bet %s: %w", slot, id, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrConflict
	}
	return nil
}

// MarkAccepted transitions aguardando -> aceita once both slots are filled.
func (r *BetRepository) MarkAccepted(ctx context.Context, id uuid.UUID, channelID int64) error {
	query := `
		UPDATE bets SET state = 'aceita', channel_id = $2, accepted_at = NOW()
		WHERE id = $1 AND state = 'aguardando'
		  AND player1_id IS NOT NULL AND player2_id IS NOT NULL`

	tag, err := r.q.Exec(ctx, query, id, channelID)
	if err != nil {
		return fmt.Errorf("failed to mark bet %s accepted: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrConflict
	}
	return nil
}

// MarkPaid transitions aceita -> paga.
func (r *BetRepository) MarkPaid(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE bets SET state = 'paga', player1_paid = TRUE, player2_paid = TRUE
		WHERE id = $1 AND state = 'aceita'`

	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark bet %s paid: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrConflict
	}
	return nil
}

// MarkStarted transitions paga -> em_jogo.
func (r *BetRepository) MarkStarted(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE bets SET state = 'em_jogo', started_at = NOW()
		WHERE id = $1 AND state = 'paga'`

	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark bet %s started: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrConflict
	}
	return nil
}

// MarkCancelled transitions any of the given states to cancelada.
func (r *BetRepository) MarkCancelled(ctx context.Context, id uuid.UUID, from []entities.BetState) error {
	query := `
		UPDATE bets SET state = 'cancelada'
		WHERE id = $1 AND state = ANY($2)`

	states := make([]string, len(from))
	for i, s := range from {
		states[i] = string(s)
	}

	tag, err := r.q.Exec(ctx, query, id, states)
	if err != nil {
		return fmt.Errorf("failed to cancel bet %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrConflict
	}
	return nil
}

// Finalize transitions em_jogo -> finalizada with the settlement fields. The
// state guard is what makes repeated finalizations harmless.
func (r *BetRepository) Finalize(ctx context.Context, bet *entities.Bet) error {
	query := `
		UPDATE bets
		SET state = 'finalizada', winner_id = $2, winning_team = $3,
		    fee = $4, payout = $5, finalization_type = $6, finalized_at = $7
		WHERE id = $1 AND state = 'em_jogo'`

	tag, err := r.q.Exec(ctx, query,
		bet.ID,
		bet.WinnerID,
		bet.WinningTeam,
		bet.Fee,
		bet.Payout,
		bet.Finalization,
		bet.FinalizedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to finalize bet %s: %w", bet.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrConflict
	}
	return nil
}

// UpdateTeams persists a team pick while the bet is still awaiting.
func (r *BetRepository) UpdateTeams(ctx context.Context, id uuid.UUID, teams *entities.TeamAssignments) error {
	query := `
		UPDATE bets SET teams = $2
		WHERE id = $1 AND state = 'aguardando'`

	tag, err := r.q.Exec(ctx, query, id, teams)
	if err != nil {
		return fmt.Errorf("failed to update teams on bet %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrConflict
	}
	return nil
}

// MarkTeamsComplete transitions aguardando -> em_jogo with the final split,
// recording the captains in the participant slots.
func (r *BetRepository) MarkTeamsComplete(ctx context.Context, id uuid.UUID, teams *entities.TeamAssignments, captainA, captainB int64) error {
	query := `
		UPDATE bets
		SET teams = $2, state = 'em_jogo', started_at = NOW(),
		    player1_id = $3, player2_id = $4
		WHERE id = $1 AND state = 'aguardando'`

	tag, err := r.q.Exec(ctx, query, id, teams, captainA, captainB)
	if err != nil {
		return fmt.Errorf("failed to complete teams on bet %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrConflict
	}
	return nil
}

// SetManualReview flags the bet for human review.
func (r *BetRepository) SetManualReview(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE bets SET manual_review = TRUE
		WHERE id = $1 AND manual_review = FALSE`

	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to flag bet %s for review: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrConflict
	}
	return nil
}

// CountActiveByCreator counts this creator's bets in active states.
func (r *BetRepository) CountActiveByCreator(ctx context.Context, creatorID int64) (int, error) {
	query := `
		SELECT COUNT(*) FROM bets
		WHERE creator_id = $1 AND state = ANY($2)`

	var count int
	err := r.q.QueryRow(ctx, query, creatorID, activeStates()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count creator bets: %w", err)
	}
	return count, nil
}

// CountActiveByParticipant counts engaged bets the user plays in, slot or
// team pool. Awaiting bets are excluded: an unfilled slot holds nobody to a
// match yet.
func (r *BetRepository) CountActiveByParticipant(ctx context.Context, discordID int64) (int, error) {
	query := `
		SELECT COUNT(*) FROM bets
		WHERE state = ANY($2)
		  AND (player1_id = $1 OR player2_id = $1 OR teams->'pool' @> to_jsonb($1::BIGINT))`

	var count int
	err := r.q.QueryRow(ctx, query, discordID, engagedStates()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count participant bets: %w", err)
	}
	return count, nil
}

// ListStale returns bets sitting in the given state since before the cutoff,
// keyed on the timestamp that marks the state's entry.
func (r *BetRepository) ListStale(ctx context.Context, state entities.BetState, cutoff time.Time) ([]*entities.Bet, error) {
	var col string
	switch state {
	case entities.BetStateAccepted, entities.BetStatePaid:
		col = "accepted_at"
	case entities.BetStateInGame:
		col = "started_at"
	default:
		col = "created_at"
	}

	query := fmt.Sprintf(`
		SELECT %s FROM bets
		WHERE state = $1 AND %s < $2
		ORDER BY %s`, betColumns, col, col)

	rows, err := r.q.Query(ctx, query, string(state), cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale bets: %w", err)
	}
	defer rows.Close()

	var bets []*entities.Bet
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}
	return bets, rows.Err()
}

func activeStates() []string {
	return stateStrings(entities.ActiveBetStates)
}

func engagedStates() []string {
	return stateStrings(entities.EngagedBetStates)
}

func stateStrings(states []entities.BetState) []string {
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = string(s)
	}
	return out
}
