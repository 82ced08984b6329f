package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"contractbridge/internal/domain"
	"contractbridge/internal/solver"
)

// Service contains bridge table use-cases operating on a Table.
type Service struct {
	rng       *rand.Rand
	solver    solver.Solver
	factories domain.Factories
}

// NewService constructs a Service with provided rng or a time-seeded default.
// A nil solver disables hints.
func NewService(rng *rand.Rand, slv solver.Solver) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if slv == nil {
		slv = solver.Unavailable{}
	}
	return &Service{rng: rng, solver: slv, factories: domain.DefaultFactories()}
}

// WithFactories swaps the value-object constructors handed to the engines.
func (s *Service) WithFactories(f domain.Factories) *Service {
	s.factories = f
	return s
}

var (
	ErrTooFewPlayers   = errors.New("all four seats must be filled")
	ErrBoardInProgress = errors.New("board in progress")
	ErrNotInAuction    = errors.New("table not in auction phase")
	ErrNotInPlay       = errors.New("table not in play phase")
	ErrUnknownPlayer   = errors.New("player not seated")
	ErrDummyCannotAct  = errors.New("dummy cannot act")
)

// StartBoard deals board number and opens its auction.
func (s *Service) StartBoard(t *Table, number int) ([]Event, error) {
	if t.Phase == PhaseAuction || t.Phase == PhasePlay {
		return nil, ErrBoardInProgress
	}
	if t.Occupied() < PlayersPerTable {
		return nil, ErrTooFewPlayers
	}
	if number < 1 {
		number = t.BoardNumber() + 1
	}

	board := domain.NewBoard(number)
	if err := board.Deal(domain.ShuffleDeck(domain.NewDeck(), s.rng)); err != nil {
		return nil, fmt.Errorf("deal board %d: %w", number, err)
	}

	t.Board = board
	t.Play = nil
	t.Contract = nil
	t.Result = nil
	t.TricksWon = [2]int{}
	t.DummyRevealed = false
	t.Phase = PhaseAuction
	t.Auction = domain.NewAuction(domain.WithFactories(s.factories))
	t.Auction.Subscribe(t.onAuction)

	t.push(Event{Kind: EventBoardStarted, Payload: BoardStartedPayload{
		TableID:       t.ID.String(),
		Number:        number,
		Dealer:        board.Dealer,
		Vulnerability: board.Vulnerability,
	}})
	for _, seat := range domain.Seats {
		t.push(Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{Seat: seat, Cards: board.Cards(seat)},
			Recipients: []string{t.Players[seat]},
		})
	}

	if err := t.Auction.Start(board.Dealer); err != nil {
		t.drain()
		return nil, err
	}
	return t.drain(), nil
}

// Call makes a bid for userID's seat.
func (s *Service) Call(t *Table, userID string, bid domain.Bid) ([]Event, error) {
	seat, err := s.auctionSeat(t, userID)
	if err != nil {
		return nil, err
	}
	if err := t.Auction.Call(bid, seat); err != nil {
		return nil, err
	}
	return t.drain(), nil
}

// Pass passes for userID's seat. The third pass after a call starts the play.
func (s *Service) Pass(t *Table, userID string) ([]Event, error) {
	seat, err := s.auctionSeat(t, userID)
	if err != nil {
		return nil, err
	}
	if err := t.Auction.Pass(seat); err != nil {
		return nil, err
	}
	if !t.Auction.State().Terminal() {
		return t.drain(), nil
	}
	events := withoutAuctionTurns(t.drain())
	if t.Auction.State() == domain.AuctionComplete {
		if err := s.startPlay(t); err != nil {
			t.drain()
			return nil, err
		}
		events = append(events, t.drain()...)
	}
	return events, nil
}

// withoutAuctionTurns drops the turn change a concluding pass produces.
func withoutAuctionTurns(events []Event) []Event {
	out := events[:0]
	for _, ev := range events {
		if p, ok := ev.Payload.(TurnChangedPayload); ok && p.Phase == PhaseAuction {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// Double doubles or redoubles the last call for userID's seat.
func (s *Service) Double(t *Table, userID string) ([]Event, error) {
	seat, err := s.auctionSeat(t, userID)
	if err != nil {
		return nil, err
	}
	if err := t.Auction.Double(seat); err != nil {
		return nil, err
	}
	return t.drain(), nil
}

// PlayCard plays card for userID, who acts for dummy when they are declarer.
func (s *Service) PlayCard(t *Table, userID string, card domain.Card) ([]Event, error) {
	seat, err := s.playSeat(t, userID)
	if err != nil {
		return nil, err
	}
	if err := t.Play.Play(card, seat); err != nil {
		return nil, err
	}
	return t.drain(), nil
}

// Hint asks the solver for suggested plays for the seat userID controls.
// Only legal cards are returned.
func (s *Service) Hint(ctx context.Context, t *Table, userID string) ([]Event, error) {
	seat, err := s.playSeat(t, userID)
	if err != nil {
		return nil, err
	}
	leader, ok := t.Play.Turns().Lead()
	if !ok {
		return nil, ErrNotInPlay
	}
	sol, err := s.solver.Solve(ctx, t.Board.PBN(), *t.Contract, leader)
	if err != nil {
		return nil, fmt.Errorf("solve board %d: %w", t.BoardNumber(), err)
	}

	plays := make([]solver.SuggestedPlay, 0)
	for _, sp := range sol.OptimalPlays(seat) {
		if ok, _ := t.Play.CanPlayCard(sp.Card, seat); ok {
			plays = append(plays, sp)
		}
	}
	return []Event{{
		Kind:       EventHint,
		Payload:    HintPayload{Seat: seat, Plays: plays},
		Recipients: []string{userID},
	}}, nil
}

func (s *Service) startPlay(t *Table) error {
	c, ok := t.Auction.FinalContract()
	if !ok {
		return ErrNotInPlay
	}
	t.Contract = &c
	t.Phase = PhasePlay
	t.Play = domain.NewPlayEngine(t.Board, c.Denomination, domain.WithFactories(s.factories))
	t.Play.Subscribe(t.onPlay)
	t.Play.Turns().Subscribe(t.onPlayTurn)
	return t.Play.Start(c.OpeningLeader())
}

func (s *Service) auctionSeat(t *Table, userID string) (domain.Seat, error) {
	if t.Phase != PhaseAuction {
		return domain.NoSeat, ErrNotInAuction
	}
	seat, ok := t.SeatOf(userID)
	if !ok {
		return domain.NoSeat, ErrUnknownPlayer
	}
	return seat, nil
}

// playSeat resolves the seat userID is acting for. Declarer acts for dummy.
func (s *Service) playSeat(t *Table, userID string) (domain.Seat, error) {
	if t.Phase != PhasePlay {
		return domain.NoSeat, ErrNotInPlay
	}
	seat, ok := t.SeatOf(userID)
	if !ok {
		return domain.NoSeat, ErrUnknownPlayer
	}
	dummy := t.Contract.Dummy()
	if seat == dummy {
		return domain.NoSeat, ErrDummyCannotAct
	}
	if cur, ok := t.Play.CurrentSeat(); ok && cur == dummy && seat == t.Contract.Declarer {
		return dummy, nil
	}
	return seat, nil
}
