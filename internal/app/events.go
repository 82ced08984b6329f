package app

import (
	"contractbridge/internal/domain"
	"contractbridge/internal/solver"
)

// EventKind identifies emitted table events for Nakama dispatch.
type EventKind string

const (
	EventBoardStarted  EventKind = "board_started"
	EventHandDealt     EventKind = "hand_dealt"
	EventTurnChanged   EventKind = "turn_changed"
	EventCalled        EventKind = "called"
	EventPassed        EventKind = "passed"
	EventDoubled       EventKind = "doubled"
	EventRedoubled     EventKind = "redoubled"
	EventContractMade  EventKind = "contract_made"
	EventPassedOut     EventKind = "passed_out"
	EventCardPlayed    EventKind = "card_played"
	EventDummyRevealed EventKind = "dummy_revealed"
	EventTrickWon      EventKind = "trick_won"
	EventBoardScored   EventKind = "board_scored"
	EventHint          EventKind = "hint"
)

// Event is a table event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type BoardStartedPayload struct {
	TableID       string
	Number        int
	Dealer        domain.Seat
	Vulnerability domain.Vulnerability
}

type HandDealtPayload struct {
	Seat  domain.Seat
	Cards []domain.Card
}

type TurnChangedPayload struct {
	Phase Phase
	Seat  domain.Seat
	// ActorUserID is who controls Seat; the declarer when Seat is dummy.
	ActorUserID string
}

type CallPayload struct {
	Seat domain.Seat
	Bid  domain.Bid
	Risk domain.Risk
}

type PassPayload struct {
	Seat domain.Seat
}

type ContractMadePayload struct {
	Contract      domain.Contract
	Dummy         domain.Seat
	OpeningLeader domain.Seat
}

type PassedOutPayload struct {
	Number int
}

type CardPlayedPayload struct {
	Seat domain.Seat
	Card domain.Card
}

type DummyRevealedPayload struct {
	Seat  domain.Seat
	Cards []domain.Card
}

type TrickWonPayload struct {
	Winner    domain.Seat
	Trick     domain.Trick
	TricksWon [2]int // indexed by domain.Partnership
}

type BoardScoredPayload struct {
	Number     int
	Contract   domain.Contract
	TricksMade int
	Result     domain.Result
	// Scores maps user ID to the points that user's side earned.
	Scores map[string]int64
}

type HintPayload struct {
	Seat  domain.Seat
	Plays []solver.SuggestedPlay
}
