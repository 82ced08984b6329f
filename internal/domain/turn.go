package domain

// TurnSequence tracks whose turn it is. It knows nothing about bidding or play;
// the owning machine validates an action and then advances the sequence.
type TurnSequence struct {
	notifier
	lead    Seat
	current Seat
}

// NewTurnSequence returns a sequence that has not started.
func NewTurnSequence() *TurnSequence {
	return &TurnSequence{lead: NoSeat, current: NoSeat}
}

// SetLead (re)starts the rotation at seat.
func (t *TurnSequence) SetLead(seat Seat) error {
	if !seat.Valid() {
		return ErrLeadRequired
	}
	t.lead = seat
	t.current = seat
	t.emit(Event{Kind: EventLeadSet, Seat: seat})
	t.emit(Event{Kind: EventTurnChanged, Seat: seat})
	return nil
}

// CurrentSeat returns the seat expected to act next. ok is false before SetLead
// and after Restart.
func (t *TurnSequence) CurrentSeat() (Seat, bool) {
	if t.current == NoSeat {
		return NoSeat, false
	}
	return t.current, true
}

// Lead returns the seat the current rotation started from.
func (t *TurnSequence) Lead() (Seat, bool) {
	if t.lead == NoSeat {
		return NoSeat, false
	}
	return t.lead, true
}

// IsTurn reports whether seat is the one expected to act.
func (t *TurnSequence) IsTurn(seat Seat) bool {
	return t.current != NoSeat && t.current == seat
}

// Restart clears the sequence back to "not started".
func (t *TurnSequence) Restart() {
	t.lead = NoSeat
	t.current = NoSeat
	t.emit(Event{Kind: EventRestarted})
}

func (t *TurnSequence) advance() {
	if t.current == NoSeat {
		return
	}
	t.current = t.current.Next()
	t.emit(Event{Kind: EventTurnChanged, Seat: t.current})
}
