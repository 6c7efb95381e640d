package entities

import (
	"time"

	"github.com/google/uuid"
)

// BetState represents the lifecycle state of a bet. Transitions only move
// forward; cancellation is terminal and reachable from any pre-settlement
// state.
type BetState string

const (
	BetStateAwaiting  BetState = "aguardando"
	BetStateAccepted  BetState = "aceita"
	BetStatePaid      BetState = "paga"
	BetStateInGame    BetState = "em_jogo"
	BetStateFinalized BetState = "finalizada"
	BetStateCancelled BetState = "cancelada"
)

// ActiveBetStates are the states that count against the creator's open-bet
// cap. An aguardando bet already ties up the creator.
var ActiveBetStates = []BetState{BetStateAwaiting, BetStateAccepted, BetStatePaid, BetStateInGame}

// EngagedBetStates are the states that count against the participation
// ceiling. Merely awaiting bets do not engage anyone yet.
var EngagedBetStates = []BetState{BetStateAccepted, BetStatePaid, BetStateInGame}

// FinalizationType distinguishes a normally played match from a walkover or
// irregularity settlement, which has asymmetric payout rules.
type FinalizationType string

const (
	FinalizationNormal   FinalizationType = "normal"
	FinalizationWalkover FinalizationType = "wo_irregularidade"
)

// Team identifies one side of a team match.
type Team string

const (
	TeamA Team = "A"
	TeamB Team = "B"
)

// TeamAssignments holds the player pool and team split for N-vs-N matches.
// Stored as JSONB alongside the bet.
type TeamAssignments struct {
	Pool  []int64 `json:"pool"`
	TeamA []int64 `json:"team_a"`
	TeamB []int64 `json:"team_b"`
}

// Bet is the central aggregate: a wagered match between two players or two
// teams with a defined stake and lifecycle.
type Bet struct {
	ID           uuid.UUID         `db:"id"`
	GuildID      int64             `db:"guild_id"`
	CreatorID    int64             `db:"creator_id"`
	Player1ID    *int64            `db:"player1_id"`
	Player2ID    *int64            `db:"player2_id"`
	Mode         string            `db:"mode"`
	Stake        int64             `db:"stake"`
	RoomMode     string            `db:"room_mode"`
	State        BetState          `db:"state"`
	Player1Paid  bool              `db:"player1_paid"`
	Player2Paid  bool              `db:"player2_paid"`
	ManualReview bool              `db:"manual_review"`
	Teams        *TeamAssignments  `db:"teams"`
	QueueID      *int64            `db:"queue_id"`
	ChannelID    *int64            `db:"channel_id"`
	WinnerID     *int64            `db:"winner_id"`
	WinningTeam  *Team             `db:"winning_team"`
	Fee          float64           `db:"fee"`
	Payout       float64           `db:"payout"`
	Finalization *FinalizationType `db:"finalization_type"`
	CreatedAt    time.Time         `db:"created_at"`
	AcceptedAt   *time.Time        `db:"accepted_at"`
	StartedAt    *time.Time        `db:"started_at"`
	FinalizedAt  *time.Time        `db:"finalized_at"`
}

// IsParticipant reports whether the given user occupies one of the slots or
// belongs to the team pool.
func (b *Bet) IsParticipant(discordID int64) bool {
	if b.SlotOf(discordID) != 0 {
		return true
	}
	if b.Teams != nil {
		return contains(b.Teams.Pool, discordID)
	}
	return false
}

// OpenSlot returns the first free participant slot (1 or 2), or 0 when both
// slots are taken.
func (b *Bet) OpenSlot() int {
	if b.Player1ID == nil {
		return 1
	}
	if b.Player2ID == nil {
		return 2
	}
	return 0
}

// SlotOf returns the slot the user occupies, or 0.
func (b *Bet) SlotOf(discordID int64) int {
	if b.Player1ID != nil && *b.Player1ID == discordID {
		return 1
	}
	if b.Player2ID != nil && *b.Player2ID == discordID {
		return 2
	}
	return 0
}

// SlotsFilled reports whether both participant slots are occupied.
func (b *Bet) SlotsFilled() bool {
	return b.Player1ID != nil && b.Player2ID != nil
}

// IsTeamMatch reports whether this bet carries a team pool rather than two
// individual slots.
func (b *Bet) IsTeamMatch() bool {
	return b.Teams != nil && len(b.Teams.Pool) > 2
}

// Participants returns everyone on the bet: the team pool for team matches,
// otherwise the filled slots.
func (b *Bet) Participants() []int64 {
	if b.Teams != nil && len(b.Teams.Pool) > 0 {
		return b.Teams.Pool
	}
	var ids []int64
	if b.Player1ID != nil {
		ids = append(ids, *b.Player1ID)
	}
	if b.Player2ID != nil {
		ids = append(ids, *b.Player2ID)
	}
	return ids
}

// Opponent returns the other slot holder for a 1v1 bet, or 0.
func (b *Bet) Opponent(discordID int64) int64 {
	if b.Player1ID != nil && *b.Player1ID == discordID && b.Player2ID != nil {
		return *b.Player2ID
	}
	if b.Player2ID != nil && *b.Player2ID == discordID && b.Player1ID != nil {
		return *b.Player1ID
	}
	return 0
}

// TeamCapacity is the per-side cap for team self-assignment.
func (t *TeamAssignments) TeamCapacity() int {
	return (len(t.Pool) + 1) / 2
}

// Assign places a pool member on the chosen team, switching sides when the
// member had already picked. Capacity is enforced per side.
func (t *TeamAssignments) Assign(discordID int64, team Team) error {
	if !contains(t.Pool, discordID) {
		return NewGuardError("você não faz parte desta partida")
	}

	t.TeamA = remove(t.TeamA, discordID)
	t.TeamB = remove(t.TeamB, discordID)

	switch team {
	case TeamA:
		if len(t.TeamA) >= t.TeamCapacity() {
			return NewGuardError("o Time A já está cheio")
		}
		t.TeamA = append(t.TeamA, discordID)
	case TeamB:
		if len(t.TeamB) >= t.TeamCapacity() {
			return NewGuardError("o Time B já está cheio")
		}
		t.TeamB = append(t.TeamB, discordID)
	default:
		return NewValidationError("time inválido: %s", team)
	}
	return nil
}

// Complete reports whether every pool member has picked a side.
func (t *TeamAssignments) Complete() bool {
	return len(t.TeamA)+len(t.TeamB) == len(t.Pool)
}

// Members returns the roster of the given team.
func (t *TeamAssignments) Members(team Team) []int64 {
	if team == TeamA {
		return t.TeamA
	}
	return t.TeamB
}

// Opponents returns the roster of the other team.
func (t *TeamAssignments) Opponents(team Team) []int64 {
	if team == TeamA {
		return t.TeamB
	}
	return t.TeamA
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []int64, id int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
