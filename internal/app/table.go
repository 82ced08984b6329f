package app

import (
	"github.com/google/uuid"

	"contractbridge/internal/domain"
)

// Table is the session state for four players across a series of boards.
// It is driven by Service and must not be shared between goroutines.
type Table struct {
	ID      uuid.UUID
	Phase   Phase
	Players [domain.SeatCount]string

	Board    *domain.Board
	Auction  *domain.Auction
	Play     *domain.PlayEngine
	Contract *domain.Contract

	TricksWon     [2]int
	Result        *domain.Result
	DummyRevealed bool

	pending []Event
	// turn is the latest turn change, held back so it follows the action that caused it.
	turn *Event
}

// NewTable returns an empty table in the setup phase.
func NewTable() *Table {
	return &Table{ID: uuid.New(), Phase: PhaseSetup}
}

// SeatOf returns the seat userID occupies.
func (t *Table) SeatOf(userID string) (domain.Seat, bool) {
	if userID == "" {
		return domain.NoSeat, false
	}
	for i, id := range t.Players {
		if id == userID {
			return domain.Seat(i), true
		}
	}
	return domain.NoSeat, false
}

// Occupied counts seated players.
func (t *Table) Occupied() int {
	n := 0
	for _, id := range t.Players {
		if id != "" {
			n++
		}
	}
	return n
}

// BoardNumber is the current board's number, or 0 before the first deal.
func (t *Table) BoardNumber() int {
	if t.Board == nil {
		return 0
	}
	return t.Board.Number
}

// History returns the completed tricks of the current board.
func (t *Table) History() []domain.Trick {
	if t.Play == nil {
		return nil
	}
	return t.Play.Tricks()
}

// CurrentSeat is the seat expected to act in the current phase.
func (t *Table) CurrentSeat() (domain.Seat, bool) {
	switch t.Phase {
	case PhaseAuction:
		return t.Auction.CurrentSeat()
	case PhasePlay:
		return t.Play.CurrentSeat()
	}
	return domain.NoSeat, false
}

// controller is the user who acts for seat: the declarer acts for dummy.
func (t *Table) controller(seat domain.Seat) string {
	if !seat.Valid() {
		return ""
	}
	if t.Phase == PhasePlay && t.Contract != nil && seat == t.Contract.Dummy() {
		return t.Players[t.Contract.Declarer]
	}
	return t.Players[seat]
}

func (t *Table) push(ev Event) {
	t.pending = append(t.pending, ev)
}

func (t *Table) pushTurn(ev Event) {
	t.turn = &ev
}

func (t *Table) drain() []Event {
	out := t.pending
	if t.turn != nil {
		out = append(out, *t.turn)
	}
	t.pending = nil
	t.turn = nil
	return out
}

func (t *Table) onAuction(ev domain.Event) {
	switch ev.Kind {
	case domain.EventTurnChanged:
		t.pushTurn(Event{Kind: EventTurnChanged, Payload: TurnChangedPayload{
			Phase: PhaseAuction, Seat: ev.Seat, ActorUserID: t.controller(ev.Seat),
		}})
	case domain.EventCalled:
		t.push(Event{Kind: EventCalled, Payload: CallPayload{Seat: ev.Seat, Bid: ev.Bid}})
	case domain.EventPassed:
		t.push(Event{Kind: EventPassed, Payload: PassPayload{Seat: ev.Seat}})
	case domain.EventDoubled:
		t.push(Event{Kind: EventDoubled, Payload: CallPayload{Seat: ev.Seat, Bid: ev.Bid, Risk: domain.Doubled}})
	case domain.EventRedoubled:
		t.push(Event{Kind: EventRedoubled, Payload: CallPayload{Seat: ev.Seat, Bid: ev.Bid, Risk: domain.Redoubled}})
	case domain.EventFinalContractMade:
		c := ev.Contract
		t.Contract = &c
		t.push(Event{Kind: EventContractMade, Payload: ContractMadePayload{
			Contract: c, Dummy: c.Dummy(), OpeningLeader: c.OpeningLeader(),
		}})
	case domain.EventPassedOut:
		t.Phase = PhaseEnded
		t.push(Event{Kind: EventPassedOut, Payload: PassedOutPayload{Number: t.BoardNumber()}})
	}
}

func (t *Table) onPlayTurn(ev domain.Event) {
	if ev.Kind != domain.EventTurnChanged || t.Play == nil {
		return
	}
	// the last trick's winner gets the lead with nothing left to play
	if t.Board.HandOf(ev.Seat).IsEmpty() {
		return
	}
	t.pushTurn(Event{Kind: EventTurnChanged, Payload: TurnChangedPayload{
		Phase: PhasePlay, Seat: ev.Seat, ActorUserID: t.controller(ev.Seat),
	}})
}

func (t *Table) onPlay(ev domain.Event) {
	switch ev.Kind {
	case domain.EventPlayed:
		t.push(Event{Kind: EventCardPlayed, Payload: CardPlayedPayload{Seat: ev.Seat, Card: ev.Card}})
		if !t.DummyRevealed {
			t.DummyRevealed = true
			dummy := t.Contract.Dummy()
			t.push(Event{Kind: EventDummyRevealed, Payload: DummyRevealedPayload{
				Seat: dummy, Cards: t.Board.Cards(dummy),
			}})
		}
	case domain.EventTrickWon:
		t.TricksWon[ev.Seat.Partnership()]++
		t.push(Event{Kind: EventTrickWon, Payload: TrickWonPayload{
			Winner: ev.Seat, Trick: ev.Trick, TricksWon: t.TricksWon,
		}})
	case domain.EventPlayComplete:
		t.score()
	}
}

func (t *Table) score() {
	c := *t.Contract
	declarerSide := c.Declarer.Partnership()
	made := t.TricksWon[declarerSide]
	res := domain.Score(c, t.Board.IsVulnerable(c.Declarer), made)
	t.Result = &res
	t.Phase = PhaseEnded

	scores := make(map[string]int64, domain.SeatCount)
	for _, seat := range domain.Seats {
		id := t.Players[seat]
		if id == "" {
			continue
		}
		if seat.Partnership() == declarerSide {
			scores[id] = int64(res.DeclarerScore)
		} else {
			scores[id] = int64(res.DefenderScore)
		}
	}
	t.push(Event{Kind: EventBoardScored, Payload: BoardScoredPayload{
		Number: t.BoardNumber(), Contract: c, TricksMade: made, Result: res, Scores: scores,
	}})
}
