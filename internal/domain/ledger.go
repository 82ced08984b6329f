package domain

// LedgerEntry is one call and its escalation state.
type LedgerEntry struct {
	Bid         Bid
	Seat        Seat
	Risk        Risk
	EscalatedBy Seat
}

// Escalated reports whether the entry has been doubled.
func (e LedgerEntry) Escalated() bool {
	return e.Risk != Undoubled
}

// BidLedger is the append-only record of calls made in one auction.
type BidLedger struct {
	entries []LedgerEntry
}

// Append records a new undoubled call.
func (l *BidLedger) Append(bid Bid, seat Seat) {
	l.entries = append(l.entries, LedgerEntry{Bid: bid, Seat: seat, Risk: Undoubled, EscalatedBy: NoSeat})
}

// Last returns the most recent call. ok is false while no call has been made.
func (l *BidLedger) Last() (LedgerEntry, bool) {
	if len(l.entries) == 0 {
		return LedgerEntry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// Entries returns a copy of every call in order.
func (l *BidLedger) Entries() []LedgerEntry {
	out := make([]LedgerEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *BidLedger) Len() int { return len(l.entries) }

func (l *BidLedger) IsEmpty() bool { return len(l.entries) == 0 }

// escalate raises the last entry exactly one step and records who did it.
func (l *BidLedger) escalate(seat Seat) (Risk, error) {
	if len(l.entries) == 0 {
		return Undoubled, ErrDoubleBeforeCall
	}
	last := &l.entries[len(l.entries)-1]
	if last.Risk == Redoubled {
		return last.Risk, ErrReRedouble
	}
	last.Risk++
	last.EscalatedBy = seat
	return last.Risk, nil
}
