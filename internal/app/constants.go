package app

import "contractbridge/internal/domain"

// PlayersPerTable is the number of occupied seats required to start a board.
const PlayersPerTable = domain.SeatCount

// Phase is the lifecycle stage of a table.
type Phase string

const (
	PhaseSetup   Phase = "setup"
	PhaseAuction Phase = "auction"
	PhasePlay    Phase = "play"
	PhaseEnded   Phase = "ended"
)
