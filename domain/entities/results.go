package entities

// AcceptResult reports the outcome of a successful accept.
type AcceptResult struct {
	Bet          *Bet
	Slot         int
	BothAccepted bool
	ChannelID    int64
}

// CancelResult reports what a cancel interaction did: voided the whole bet
// (creator) or vacated a single slot (participant).
type CancelResult struct {
	Bet         *Bet
	FullyVoided bool
	VacatedSlot int
}

// SettlementResult reports a finalization, including the harmless-retry case.
type SettlementResult struct {
	Bet          *Bet
	Winners      []int64
	Losers       []int64
	Fee          float64
	Payout       float64
	AlreadyFinal bool
}

// TeamSelectionResult reports a team pick and whether the split is complete.
type TeamSelectionResult struct {
	Bet      *Bet
	Complete bool
}

// QueueJoinResult reports a join and, when the join filled the queue, the
// handoff into a new match.
type QueueJoinResult struct {
	Queue   *Queue
	Handoff *QueueHandoff
}

// QueueHandoff describes the match spawned from a filled queue.
type QueueHandoff struct {
	Bet           *Bet
	ChannelID     int64
	Roster        []int64
	TeamSelection bool
}
