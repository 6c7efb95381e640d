package entities

import (
	"time"
)

// Level is the player tier, monotonic in total settled bets.
type Level string

const (
	LevelBronze   Level = "bronze"
	LevelPrata    Level = "prata"
	LevelOuro     Level = "ouro"
	LevelDiamante Level = "diamante"
)

// Tier thresholds in total settled bets.
const (
	PrataMinBets    = 30
	OuroMinBets     = 50
	DiamanteMinBets = 100
)

// LevelForTotalBets returns the tier for a given bet count.
func LevelForTotalBets(totalBets int) Level {
	switch {
	case totalBets >= DiamanteMinBets:
		return LevelDiamante
	case totalBets >= OuroMinBets:
		return LevelOuro
	case totalBets >= PrataMinBets:
		return LevelPrata
	default:
		return LevelBronze
	}
}

// RoleName is the Discord role granted for the tier.
func (l Level) RoleName() string {
	switch l {
	case LevelPrata:
		return "Prata"
	case LevelOuro:
		return "Ouro"
	case LevelDiamante:
		return "Diamante"
	default:
		return "Bronze"
	}
}

// AllLevels lists tiers from lowest to highest.
var AllLevels = []Level{LevelBronze, LevelPrata, LevelOuro, LevelDiamante}

// PlayerLevel is the derived progression aggregate, recomputed after every
// settled bet. GoldChannelID records the bonus voice channel provisioned at
// the ouro tier so repeated recomputation cannot provision a duplicate.
type PlayerLevel struct {
	DiscordID     int64     `db:"discord_id"`
	TotalBets     int       `db:"total_bets"`
	TotalWins     int       `db:"total_wins"`
	TotalLosses   int       `db:"total_losses"`
	TotalProfit   float64   `db:"total_profit"`
	Level         Level     `db:"level"`
	GoldChannelID *int64    `db:"gold_channel_id"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// Apply folds one settled bet into the aggregate and recomputes the tier.
// Returns true when the tier changed.
func (pl *PlayerLevel) Apply(won bool, profit float64) bool {
	pl.TotalBets++
	if won {
		pl.TotalWins++
	} else {
		pl.TotalLosses++
	}
	pl.TotalProfit += profit

	newLevel := LevelForTotalBets(pl.TotalBets)
	changed := newLevel != pl.Level
	pl.Level = newLevel
	return changed
}

// LevelProgress describes progress toward the next tier, for profile display.
type LevelProgress struct {
	Current    Level
	Next       *Level
	Percentage int
}

// minBetsFor returns the threshold for a tier.
func minBetsFor(l Level) int {
	switch l {
	case LevelPrata:
		return PrataMinBets
	case LevelOuro:
		return OuroMinBets
	case LevelDiamante:
		return DiamanteMinBets
	default:
		return 0
	}
}

// ProgressForTotalBets computes tier progress for a bet count.
func ProgressForTotalBets(totalBets int) LevelProgress {
	current := LevelForTotalBets(totalBets)
	if current == LevelDiamante {
		return LevelProgress{Current: current, Percentage: 100}
	}

	var next Level
	for i, l := range AllLevels {
		if l == current {
			next = AllLevels[i+1]
			break
		}
	}

	span := minBetsFor(next) - minBetsFor(current)
	done := totalBets - minBetsFor(current)
	return LevelProgress{
		Current:    current,
		Next:       &next,
		Percentage: done * 100 / span,
	}
}

// Badges returns the achievement badges earned by the aggregate.
func (pl *PlayerLevel) Badges() []string {
	var badges []string
	if pl.TotalWins >= 1 {
		badges = append(badges, "🎯 Primeiro Sangue")
	}
	if pl.TotalBets >= 10 {
		badges = append(badges, "🛡️ Iniciante")
	}
	if pl.TotalWins >= 50 {
		badges = append(badges, "⚔️ Guerreiro Veterano")
	}
	if pl.TotalProfit >= 1000 {
		badges = append(badges, "💰 Investidor")
	}
	if pl.TotalWins >= 100 {
		badges = append(badges, "🏆 Lenda do Servidor")
	}
	return badges
}
