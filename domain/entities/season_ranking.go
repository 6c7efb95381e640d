package entities

import (
	"fmt"
	"math"
	"time"
)

// SeasonType is the recurring ranking period.
type SeasonType string

const (
	SeasonWeekly  SeasonType = "weekly"
	SeasonMonthly SeasonType = "monthly"
)

// WeeklySeasonID derives the weekly season identifier, e.g. "2024-W05".
// Weeks are ISO weeks starting on Monday.
func WeeklySeasonID(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// MonthlySeasonID derives the monthly season identifier, e.g. "2024-01".
func MonthlySeasonID(t time.Time) string {
	return fmt.Sprintf("%d-%02d", t.Year(), int(t.Month()))
}

// SeasonIDFor returns the identifier of the given season type at t.
func SeasonIDFor(st SeasonType, t time.Time) string {
	if st == SeasonWeekly {
		return WeeklySeasonID(t)
	}
	return MonthlySeasonID(t)
}

// SeasonRanking is the per (player, season type, season id) aggregate,
// updated incrementally on every settlement.
type SeasonRanking struct {
	DiscordID  int64      `db:"discord_id"`
	SeasonType SeasonType `db:"season_type"`
	SeasonID   string     `db:"season_id"`
	Wins       int        `db:"wins"`
	Losses     int        `db:"losses"`
	TotalBet   int64      `db:"total_bet"`
	Profit     float64    `db:"profit"`
	WinRate    float64    `db:"win_rate"`
}

// Apply folds one settled bet into the season aggregate and recomputes the
// win rate (percentage, two decimals).
func (r *SeasonRanking) Apply(won bool, stake int64, profit float64) {
	r.TotalBet += stake
	r.Profit += profit
	if won {
		r.Wins++
	} else {
		r.Losses++
	}

	total := r.Wins + r.Losses
	if total > 0 {
		r.WinRate = math.Round(float64(r.Wins)/float64(total)*10000) / 100
	}
}
