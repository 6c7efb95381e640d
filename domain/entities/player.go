package entities

import (
	"time"
)

// Fault escalation thresholds. The first fault is a warning only; repeated
// no-shows escalate to timed blocks and finally a de facto permanent block.
const (
	FaultBlock24h       = 2
	FaultBlock3d        = 3
	FaultBlockPermanent = 4

	// PermanentBlockYears is far enough in the future to act as permanent
	PermanentBlockYears = 100
)

// Player is the per-user aggregate. Created lazily on first interaction,
// never deleted.
type Player struct {
	DiscordID     int64      `db:"discord_id"`
	Name          string     `db:"name"`
	Wins          int        `db:"wins"`
	Losses        int        `db:"losses"`
	MatchesPlayed int        `db:"matches_played"`
	TotalWagered  int64      `db:"total_wagered"`
	TotalWon      float64    `db:"total_won"`
	Profit        float64    `db:"profit"`
	Faults        int        `db:"faults"`
	BlockedUntil  *time.Time `db:"blocked_until"`
	CreatedAt     time.Time  `db:"created_at"`
}

// IsBlocked reports whether the player is fault-blocked at the given instant.
func (p *Player) IsBlocked(now time.Time) bool {
	return p.BlockedUntil != nil && p.BlockedUntil.After(now)
}

// ApplyFault increments the fault counter and sets the escalated block
// expiry. Returns the new fault count and the block expiry (nil when the
// fault is a warning only).
func (p *Player) ApplyFault(now time.Time) (int, *time.Time) {
	p.Faults++

	var until *time.Time
	switch {
	case p.Faults >= FaultBlockPermanent:
		t := now.AddDate(PermanentBlockYears, 0, 0)
		until = &t
	case p.Faults == FaultBlock3d:
		t := now.Add(3 * 24 * time.Hour)
		until = &t
	case p.Faults == FaultBlock24h:
		t := now.Add(24 * time.Hour)
		until = &t
	}

	if until != nil {
		p.BlockedUntil = until
	}
	return p.Faults, until
}

// Block sets a block expiry independent of the fault ladder (used by the
// active-engagement chat-ban escalation).
func (p *Player) Block(until time.Time) {
	p.BlockedUntil = &until
}

// RecordResult folds a settled match into the player's aggregate counters.
// payout is what the player received (0 for the loser).
func (p *Player) RecordResult(won bool, stake int64, payout float64) {
	p.MatchesPlayed++
	p.TotalWagered += stake
	if won {
		p.Wins++
		p.TotalWon += payout
		p.Profit += payout - float64(stake)
	} else {
		p.Losses++
		p.Profit -= float64(stake)
	}
}
