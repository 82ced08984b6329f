package domain

import (
	"errors"
	"fmt"
)

// CardHolder is the per-seat hand the play engine queries and mutates.
// The engine does not own hand storage.
type CardHolder interface {
	Contains(card Card) bool
	HasSuit(suit Suit) bool
	Remove(card Card) error
	IsEmpty() bool
}

// Hands gives the engine access to every seat's hand.
type Hands interface {
	Hand(seat Seat) CardHolder
	OtherHands(seat Seat) []CardHolder
}

// PlayEngine runs the trick-taking phase for one board.
// It is not safe for concurrent use.
type PlayEngine struct {
	notifier
	factories Factories
	hands     Hands
	trump     Denomination
	turns     *TurnSequence
	plays     []Play
	pending   []Play
	tricks    []Trick
	started   bool
	complete  bool
}

// NewPlayEngine prepares a play phase over hands with the given trump denomination.
// NoTrump means no suit is elevated.
func NewPlayEngine(hands Hands, trump Denomination, opts ...Option) *PlayEngine {
	o := buildOptions(opts)
	return &PlayEngine{
		factories: o.factories,
		hands:     hands,
		trump:     trump,
		turns:     NewTurnSequence(),
		pending:   make([]Play, 0, SeatCount),
	}
}

// Start sets the opening leader.
func (p *PlayEngine) Start(lead Seat) error {
	if p.complete {
		return ErrAlreadyConcluded
	}
	if p.started {
		return ErrAlreadyStarted
	}
	if err := p.turns.SetLead(lead); err != nil {
		return err
	}
	p.started = true
	return nil
}

func (p *PlayEngine) Trump() Denomination { return p.trump }

func (p *PlayEngine) Turns() *TurnSequence { return p.turns }

func (p *PlayEngine) CurrentSeat() (Seat, bool) { return p.turns.CurrentSeat() }

func (p *PlayEngine) Complete() bool { return p.complete }

// Plays returns every accepted play in order.
func (p *PlayEngine) Plays() []Play {
	out := make([]Play, len(p.plays))
	copy(out, p.plays)
	return out
}

// CurrentTrick returns the 0-3 plays of the trick in progress.
func (p *PlayEngine) CurrentTrick() []Play {
	out := make([]Play, len(p.pending))
	copy(out, p.pending)
	return out
}

// Tricks returns the resolved tricks in order.
func (p *PlayEngine) Tricks() []Trick {
	out := make([]Trick, len(p.tricks))
	copy(out, p.tricks)
	return out
}

// CanPlay reports whether seat is the one expected to play.
func (p *PlayEngine) CanPlay(seat Seat) bool {
	return !p.complete && p.started && p.turns.IsTurn(seat)
}

// CanPlayCard reports whether seat may play card now. It fails with
// ErrCardNotInHand when the seat does not hold the card.
func (p *PlayEngine) CanPlayCard(card Card, seat Seat) (bool, error) {
	if err := p.validate(card, seat); err != nil {
		if isCallerError(err) {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

func isCallerError(err error) bool {
	return errors.Is(err, ErrCardNotInHand) || errors.Is(err, ErrLeadRequired)
}

func (p *PlayEngine) validate(card Card, seat Seat) error {
	if !seat.Valid() {
		return ErrLeadRequired
	}
	if p.complete {
		return ErrAlreadyConcluded
	}
	hand := p.hands.Hand(seat)
	if hand == nil || !hand.Contains(card) {
		return ErrCardNotInHand
	}
	if !p.started || !p.turns.IsTurn(seat) {
		return ErrPlayOutOfTurn
	}
	if len(p.pending) == 0 {
		return nil
	}
	led := p.pending[0].Card.Suit
	if card.Suit != led && hand.HasSuit(led) {
		return ErrMustFollowSuit
	}
	return nil
}

// Play plays card from seat's hand, resolving the trick when it is the fourth card.
func (p *PlayEngine) Play(card Card, seat Seat) error {
	if err := p.validate(card, seat); err != nil {
		return err
	}
	if err := p.hands.Hand(seat).Remove(card); err != nil {
		return fmt.Errorf("remove %s from %s: %w", card, seat, err)
	}
	play := Play{Card: card, Seat: seat}
	p.plays = append(p.plays, play)
	p.pending = append(p.pending, play)

	if len(p.pending) < SeatCount {
		p.turns.advance()
		p.emit(Event{Kind: EventPlayed, Seat: seat, Card: card})
		return nil
	}

	p.emit(Event{Kind: EventPlayed, Seat: seat, Card: card})
	p.resolveTrick()
	return nil
}

func (p *PlayEngine) resolveTrick() {
	var plays [SeatCount]Play
	copy(plays[:], p.pending)
	winner := TrickWinner(plays, p.trump)
	trick := p.factories.Trick(plays, winner)
	p.tricks = append(p.tricks, trick)
	p.pending = p.pending[:0]

	p.emit(Event{Kind: EventTrickWon, Seat: winner, Trick: trick})
	_ = p.turns.SetLead(winner)

	if p.allHandsEmpty(winner) {
		p.complete = true
		p.emit(Event{Kind: EventPlayComplete, Seat: winner})
	}
}

func (p *PlayEngine) allHandsEmpty(seat Seat) bool {
	if !p.hands.Hand(seat).IsEmpty() {
		return false
	}
	for _, h := range p.hands.OtherHands(seat) {
		if !h.IsEmpty() {
			return false
		}
	}
	return true
}

// TrickWinner returns the seat that wins plays under trump. The highest trump
// wins if any trump was played; otherwise the highest card of the led suit.
func TrickWinner(plays [SeatCount]Play, trump Denomination) Seat {
	led := plays[0].Card.Suit
	trumpSuit, hasTrump := trump.Trump()

	best := plays[0]
	bestTrumps := hasTrump && best.Card.Suit == trumpSuit
	for _, pl := range plays[1:] {
		isTrump := hasTrump && pl.Card.Suit == trumpSuit
		switch {
		case isTrump && !bestTrumps:
			best, bestTrumps = pl, true
		case isTrump && bestTrumps && pl.Card.Rank > best.Card.Rank:
			best = pl
		case !isTrump && !bestTrumps && pl.Card.Suit == led && pl.Card.Rank > best.Card.Rank:
			best = pl
		}
	}
	return best.Seat
}
