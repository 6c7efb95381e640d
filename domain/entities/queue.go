package entities

import (
	"time"
)

// QueueStatus represents whether a queue post is accepting players.
type QueueStatus string

const (
	QueueStatusActive QueueStatus = "active"
	QueueStatusClosed QueueStatus = "closed"
)

// requiredPlayersByMode maps a game mode to the roster size that fills the
// queue.
var requiredPlayersByMode = map[string]int{
	"1x1": 2,
	"2x2": 4,
	"3x3": 6,
	"4x4": 8,
}

// RequiredPlayersForMode returns the roster size for a game mode, or an error
// for unknown modes.
func RequiredPlayersForMode(mode string) (int, error) {
	n, ok := requiredPlayersByMode[mode]
	if !ok {
		return 0, NewValidationError("modo inválido: %s (use 1x1, 2x2, 3x3 ou 4x4)", mode)
	}
	return n, nil
}

// Queue is a standing recruitment post. Its single Discord message is
// live-edited to reflect the roster; when full it resets to empty and hands
// the roster off to a new bet.
type Queue struct {
	ID              int64       `db:"id"`
	GuildID         int64       `db:"guild_id"`
	ChannelID       int64       `db:"channel_id"`
	MessageID       int64       `db:"message_id"`
	GameMode        string      `db:"game_mode"`
	Stake           int64       `db:"stake"`
	RequiredPlayers int         `db:"required_players"`
	Players         []int64     `db:"players"`
	MobileOnly      bool        `db:"mobile_only"`
	Status          QueueStatus `db:"status"`
	CreatedAt       time.Time   `db:"created_at"`
}

// HasPlayer reports whether the user is already on the roster.
func (q *Queue) HasPlayer(discordID int64) bool {
	return contains(q.Players, discordID)
}

// IsFull reports whether the roster reached the required size.
func (q *Queue) IsFull() bool {
	return len(q.Players) >= q.RequiredPlayers
}

// SplitTeams splits a filled roster in half deterministically: the first half
// becomes team A. Used for modes that skip manual team selection.
func SplitTeams(players []int64) (teamA, teamB []int64) {
	mid := (len(players) + 1) / 2
	return players[:mid], players[mid:]
}
