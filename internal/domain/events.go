package domain

// EventKind identifies a notification emitted by a turn sequence, auction or play engine.
type EventKind string

const (
	EventLeadSet           EventKind = "lead_set"
	EventTurnChanged       EventKind = "turn_changed"
	EventRestarted         EventKind = "restarted"
	EventCalled            EventKind = "called"
	EventPassed            EventKind = "passed"
	EventDoubled           EventKind = "doubled"
	EventRedoubled         EventKind = "redoubled"
	EventFinalContractMade EventKind = "final_contract_made"
	EventPassedOut         EventKind = "passed_out"
	EventPlayed            EventKind = "played"
	EventTrickWon          EventKind = "trick_won"
	EventPlayComplete      EventKind = "play_complete"
)

// Event carries the data relevant to its Kind; unused fields are zero.
// Seat is the acting seat, except for lead_set/turn_changed (the new seat)
// and trick_won (the winner).
type Event struct {
	Kind     EventKind
	Seat     Seat
	Bid      Bid
	Card     Card
	Contract Contract
	Trick    Trick
}

// Handler receives events synchronously on the caller's goroutine.
type Handler func(Event)

// notifier is a subscribe-and-notify registry. Handlers fire in registration order.
type notifier struct {
	handlers []Handler
}

// Subscribe registers h for every subsequent event.
func (n *notifier) Subscribe(h Handler) {
	if h == nil {
		return
	}
	n.handlers = append(n.handlers, h)
}

func (n *notifier) emit(ev Event) {
	for _, h := range n.handlers {
		h(ev)
	}
}
