package domain

import "fmt"

// AuctionState is the lifecycle stage of an auction.
type AuctionState int8

const (
	AuctionNotStarted AuctionState = iota
	AuctionInProgress
	AuctionComplete
	AuctionPassedOut
)

func (s AuctionState) String() string {
	switch s {
	case AuctionInProgress:
		return "in_progress"
	case AuctionComplete:
		return "complete"
	case AuctionPassedOut:
		return "passed_out"
	default:
		return "not_started"
	}
}

// Terminal reports whether the auction has concluded.
func (s AuctionState) Terminal() bool {
	return s == AuctionComplete || s == AuctionPassedOut
}

const (
	passesToComplete  = 3
	passesToPassedOut = 4
)

// Auction negotiates a contract through calls, passes and doubles.
// It is not safe for concurrent use.
type Auction struct {
	notifier
	factories Factories
	turns     *TurnSequence
	ledger    BidLedger
	state     AuctionState
	passes    int
	contract  Contract
}

// NewAuction returns an auction in the NotStarted state.
func NewAuction(opts ...Option) *Auction {
	o := buildOptions(opts)
	a := &Auction{
		factories: o.factories,
		turns:     NewTurnSequence(),
	}
	a.turns.Subscribe(func(ev Event) {
		if ev.Kind == EventTurnChanged {
			a.emit(ev)
		}
	})
	return a
}

// Start opens the auction with dealer as the first seat to act.
func (a *Auction) Start(dealer Seat) error {
	if a.state.Terminal() {
		return ErrAlreadyConcluded
	}
	if a.state == AuctionInProgress {
		return ErrAlreadyStarted
	}
	if !dealer.Valid() {
		return ErrLeadRequired
	}
	a.state = AuctionInProgress
	return a.turns.SetLead(dealer)
}

func (a *Auction) State() AuctionState { return a.state }

// Ledger returns a copy of the calls made so far.
func (a *Auction) Ledger() []LedgerEntry { return a.ledger.Entries() }

// LastCall returns the last ledger entry, if any call was made.
func (a *Auction) LastCall() (LedgerEntry, bool) { return a.ledger.Last() }

func (a *Auction) PassCount() int { return a.passes }

// Turns exposes the auction's own turn sequence for observation.
func (a *Auction) Turns() *TurnSequence { return a.turns }

// CurrentSeat is shorthand for Turns().CurrentSeat().
func (a *Auction) CurrentSeat() (Seat, bool) { return a.turns.CurrentSeat() }

// FinalContract returns the contract once the auction is Complete.
func (a *Auction) FinalContract() (Contract, bool) {
	if a.state != AuctionComplete {
		return Contract{}, false
	}
	return a.contract, true
}

func (a *Auction) checkActor(seat Seat) error {
	if a.state.Terminal() {
		return ErrAlreadyConcluded
	}
	if a.state != AuctionInProgress || !a.turns.IsTurn(seat) {
		return ErrPlayOutOfTurn
	}
	return nil
}

// CanCall validates Call without changing state.
func (a *Auction) CanCall(bid Bid, seat Seat) error {
	if err := a.checkActor(seat); err != nil {
		return err
	}
	if _, err := a.factories.Bid(bid.Level, bid.Denomination); err != nil {
		return err
	}
	if last, ok := a.ledger.Last(); ok && !bid.Exceeds(last.Bid) {
		return fmt.Errorf("%w: %s does not exceed %s", ErrCallTooLow, bid, last.Bid)
	}
	return nil
}

// Call records bid for seat.
func (a *Auction) Call(bid Bid, seat Seat) error {
	if err := a.CanCall(bid, seat); err != nil {
		return err
	}
	made, err := a.factories.Bid(bid.Level, bid.Denomination)
	if err != nil {
		return err
	}
	a.ledger.Append(made, seat)
	a.passes = 0
	a.turns.advance()
	a.emit(Event{Kind: EventCalled, Seat: seat, Bid: made})
	return nil
}

// CanPass validates Pass without changing state.
func (a *Auction) CanPass(seat Seat) error {
	return a.checkActor(seat)
}

// Pass records a pass for seat and concludes the auction when enough passes accumulate.
func (a *Auction) Pass(seat Seat) error {
	if err := a.CanPass(seat); err != nil {
		return err
	}
	a.turns.advance()
	a.passes++
	a.emit(Event{Kind: EventPassed, Seat: seat})

	last, hasCall := a.ledger.Last()
	switch {
	case hasCall && a.passes >= passesToComplete:
		declarer := last.Seat
		if last.Escalated() {
			declarer = last.EscalatedBy
		}
		a.contract = a.factories.Contract(last.Bid.Level, last.Bid.Denomination, declarer, last.Risk)
		a.state = AuctionComplete
		a.emit(Event{Kind: EventFinalContractMade, Seat: declarer, Contract: a.contract})
	case !hasCall && a.passes >= passesToPassedOut:
		a.state = AuctionPassedOut
		a.emit(Event{Kind: EventPassedOut, Seat: seat})
	}
	return nil
}

// CanDouble validates Double without changing state.
func (a *Auction) CanDouble(seat Seat) error {
	if err := a.checkActor(seat); err != nil {
		return err
	}
	last, ok := a.ledger.Last()
	if !ok {
		return ErrDoubleBeforeCall
	}
	if last.Seat.Partnership() == seat.Partnership() {
		switch last.Risk {
		case Undoubled:
			return ErrDoubleOwnUndoubledPartnership
		case Redoubled:
			return ErrReRedouble
		}
		return nil
	}
	switch last.Risk {
	case Doubled:
		return ErrAlreadyDoubled
	case Redoubled:
		return ErrReRedouble
	}
	return nil
}

// Double doubles an opponent's undoubled call, or redoubles one's own side's doubled call.
func (a *Auction) Double(seat Seat) error {
	if err := a.CanDouble(seat); err != nil {
		return err
	}
	risk, err := a.ledger.escalate(seat)
	if err != nil {
		return err
	}
	last, _ := a.ledger.Last()
	a.passes = 0
	a.turns.advance()
	kind := EventDoubled
	if risk == Redoubled {
		kind = EventRedoubled
	}
	a.emit(Event{Kind: kind, Seat: seat, Bid: last.Bid})
	return nil
}
