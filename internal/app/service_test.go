package app

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"contractbridge/internal/domain"
	"contractbridge/internal/solver"
)

func newSeatedTable() *Table {
	t := NewTable()
	t.Players = [domain.SeatCount]string{"u0", "u1", "u2", "u3"}
	return t
}

func findEvent(evs []Event, kind EventKind) (Event, bool) {
	for _, ev := range evs {
		if ev.Kind == kind {
			return ev, true
		}
	}
	return Event{}, false
}

// bidOneNoTrump runs N 1NT, E/S/W pass on board 1 and returns the events of the last pass.
func bidOneNoTrump(t *testing.T, svc *Service, table *Table) []Event {
	t.Helper()
	if _, err := svc.StartBoard(table, 1); err != nil {
		t.Fatalf("start board error: %v", err)
	}
	bid, _ := domain.NewBid(1, domain.NoTrump)
	if _, err := svc.Call(table, "u0", bid); err != nil {
		t.Fatalf("call error: %v", err)
	}
	var evs []Event
	for _, u := range []string{"u1", "u2", "u3"} {
		var err error
		if evs, err = svc.Pass(table, u); err != nil {
			t.Fatalf("pass %s error: %v", u, err)
		}
	}
	return evs
}

// firstLegal returns the seat to act, who controls it and a legal card.
func firstLegal(t *testing.T, table *Table) (domain.Seat, string, domain.Card) {
	t.Helper()
	seat, ok := table.CurrentSeat()
	if !ok {
		t.Fatal("no current seat")
	}
	for _, c := range table.Board.Cards(seat) {
		if ok, err := table.Play.CanPlayCard(c, seat); err == nil && ok {
			return seat, table.controller(seat), c
		}
	}
	t.Fatalf("no legal card for %s", seat)
	return domain.NoSeat, "", domain.Card{}
}

func TestStartBoardDealsHands(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(42)), nil)
	table := newSeatedTable()

	evs, err := svc.StartBoard(table, 2)
	if err != nil {
		t.Fatalf("start board error: %v", err)
	}
	if table.Phase != PhaseAuction {
		t.Fatalf("phase = %s, want auction", table.Phase)
	}

	started, ok := findEvent(evs, EventBoardStarted)
	if !ok {
		t.Fatal("expected board_started event")
	}
	if p := started.Payload.(BoardStartedPayload); p.Dealer != domain.East || p.Vulnerability != domain.VulnerableNorthSouth {
		t.Fatalf("board 2 = dealer %s vul %s, want E NS", p.Dealer, p.Vulnerability)
	}

	handEvents := 0
	for _, ev := range evs {
		if ev.Kind != EventHandDealt {
			continue
		}
		handEvents++
		payload := ev.Payload.(HandDealtPayload)
		if len(payload.Cards) != 13 {
			t.Fatalf("hand size = %d, want 13", len(payload.Cards))
		}
		if len(ev.Recipients) != 1 || ev.Recipients[0] != table.Players[payload.Seat] {
			t.Fatalf("hand for %s sent to %v", payload.Seat, ev.Recipients)
		}
	}
	if handEvents != 4 {
		t.Fatalf("hand events = %d, want 4", handEvents)
	}

	last := evs[len(evs)-1]
	if last.Kind != EventTurnChanged || last.Payload.(TurnChangedPayload).ActorUserID != "u1" {
		t.Fatalf("last event = %+v, want turn to u1", last)
	}
}

func TestStartBoardRequiresFullTable(t *testing.T) {
	svc := NewService(nil, nil)
	table := NewTable()
	table.Players[0] = "u0"
	if _, err := svc.StartBoard(table, 1); !errors.Is(err, ErrTooFewPlayers) {
		t.Fatalf("err = %v, want ErrTooFewPlayers", err)
	}

	table = newSeatedTable()
	if _, err := svc.StartBoard(table, 1); err != nil {
		t.Fatalf("start board error: %v", err)
	}
	if _, err := svc.StartBoard(table, 2); !errors.Is(err, ErrBoardInProgress) {
		t.Fatalf("err = %v, want ErrBoardInProgress", err)
	}
}

func TestAuctionErrorsPassThrough(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(1)), nil)
	table := newSeatedTable()
	if _, err := svc.StartBoard(table, 1); err != nil {
		t.Fatalf("start board error: %v", err)
	}

	bid, _ := domain.NewBid(1, domain.DenomClubs)
	if _, err := svc.Call(table, "u1", bid); !errors.Is(err, domain.ErrPlayOutOfTurn) {
		t.Fatalf("err = %v, want ErrPlayOutOfTurn", err)
	}
	if _, err := svc.Double(table, "u0"); !errors.Is(err, domain.ErrDoubleBeforeCall) {
		t.Fatalf("err = %v, want ErrDoubleBeforeCall", err)
	}
	if _, err := svc.Pass(table, "stranger"); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("err = %v, want ErrUnknownPlayer", err)
	}
	if _, err := svc.PlayCard(table, "u0", domain.Card{Rank: domain.Ace, Suit: domain.Spades}); !errors.Is(err, ErrNotInPlay) {
		t.Fatalf("err = %v, want ErrNotInPlay", err)
	}
}

func TestPassedOutEndsBoard(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(3)), nil)
	table := newSeatedTable()
	if _, err := svc.StartBoard(table, 1); err != nil {
		t.Fatalf("start board error: %v", err)
	}

	var evs []Event
	for _, u := range []string{"u0", "u1", "u2", "u3"} {
		var err error
		if evs, err = svc.Pass(table, u); err != nil {
			t.Fatalf("pass error: %v", err)
		}
	}
	if _, ok := findEvent(evs, EventPassedOut); !ok {
		t.Fatal("expected passed_out event")
	}
	if _, ok := findEvent(evs, EventTurnChanged); ok {
		t.Fatal("no turn change expected after the auction ends")
	}
	if table.Phase != PhaseEnded {
		t.Fatalf("phase = %s, want ended", table.Phase)
	}

	evs, err := svc.StartBoard(table, 0)
	if err != nil {
		t.Fatalf("next board error: %v", err)
	}
	if table.BoardNumber() != 2 {
		t.Fatalf("board = %d, want 2", table.BoardNumber())
	}
	if p := evs[0].Payload.(BoardStartedPayload); p.Dealer != domain.East {
		t.Fatalf("dealer = %s, want E", p.Dealer)
	}
}

func TestContractStartsPlay(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(5)), nil)
	table := newSeatedTable()
	evs := bidOneNoTrump(t, svc, table)

	made, ok := findEvent(evs, EventContractMade)
	if !ok {
		t.Fatal("expected contract_made event")
	}
	p := made.Payload.(ContractMadePayload)
	if p.Contract.Declarer != domain.North || p.Dummy != domain.South || p.OpeningLeader != domain.East {
		t.Fatalf("contract payload = %+v", p)
	}
	if table.Phase != PhasePlay {
		t.Fatalf("phase = %s, want play", table.Phase)
	}
	last := evs[len(evs)-1]
	turn, ok := last.Payload.(TurnChangedPayload)
	if !ok || turn.Phase != PhasePlay || turn.Seat != domain.East || turn.ActorUserID != "u1" {
		t.Fatalf("last event = %+v, want play turn for East", last)
	}
}

func TestDummyControl(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(5)), nil)
	table := newSeatedTable()
	bidOneNoTrump(t, svc, table)

	anyCard := table.Board.Cards(domain.South)[0]
	if _, err := svc.PlayCard(table, "u2", anyCard); !errors.Is(err, ErrDummyCannotAct) {
		t.Fatalf("err = %v, want ErrDummyCannotAct", err)
	}

	// opening lead by East reveals dummy
	_, user, card := firstLegal(t, table)
	evs, err := svc.PlayCard(table, user, card)
	if err != nil {
		t.Fatalf("lead error: %v", err)
	}
	revealed, ok := findEvent(evs, EventDummyRevealed)
	if !ok {
		t.Fatal("expected dummy_revealed after the opening lead")
	}
	if got := revealed.Payload.(DummyRevealedPayload); got.Seat != domain.South || len(got.Cards) != 13 {
		t.Fatalf("revealed = %s with %d cards", got.Seat, len(got.Cards))
	}

	// South (dummy) is next; declarer plays for them
	seat, user, card := firstLegal(t, table)
	if seat != domain.South || user != "u0" {
		t.Fatalf("next = %s by %s, want S by u0", seat, user)
	}
	if _, err := svc.PlayCard(table, "u0", card); err != nil {
		t.Fatalf("declarer for dummy error: %v", err)
	}
	if !contains(table.Play.CurrentTrick(), domain.Play{Card: card, Seat: domain.South}) {
		t.Fatal("card should have been played from dummy")
	}
}

func contains(plays []domain.Play, want domain.Play) bool {
	for _, p := range plays {
		if p == want {
			return true
		}
	}
	return false
}

func TestFullBoardIsScored(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(11)), nil)
	table := newSeatedTable()
	bidOneNoTrump(t, svc, table)

	var scored Event
	tricks := 0
	for table.Phase == PhasePlay {
		_, user, card := firstLegal(t, table)
		evs, err := svc.PlayCard(table, user, card)
		if err != nil {
			t.Fatalf("play error: %v", err)
		}
		for _, ev := range evs {
			switch ev.Kind {
			case EventTrickWon:
				tricks++
			case EventBoardScored:
				scored = ev
			}
		}
	}

	if tricks != 13 {
		t.Fatalf("tricks = %d, want 13", tricks)
	}
	if table.TricksWon[0]+table.TricksWon[1] != 13 {
		t.Fatalf("tricks won = %v", table.TricksWon)
	}
	if len(table.History()) != 13 {
		t.Fatalf("history = %d tricks", len(table.History()))
	}
	if scored.Kind != EventBoardScored || table.Result == nil {
		t.Fatal("expected board_scored event")
	}
	payload := scored.Payload.(BoardScoredPayload)
	if payload.TricksMade != table.TricksWon[domain.NorthSouth] {
		t.Fatalf("tricks made = %d, want %d", payload.TricksMade, table.TricksWon[domain.NorthSouth])
	}
	want := domain.Score(*table.Contract, false, payload.TricksMade)
	if payload.Result != want {
		t.Fatalf("result = %+v, want %+v", payload.Result, want)
	}
	if payload.Scores["u0"] != payload.Scores["u2"] || payload.Scores["u1"] != payload.Scores["u3"] {
		t.Fatalf("partners should share scores: %v", payload.Scores)
	}
	if table.Phase != PhaseEnded {
		t.Fatalf("phase = %s, want ended", table.Phase)
	}
}

func TestHintFiltersIllegalCards(t *testing.T) {
	var gotLeader domain.Seat
	slv := solver.Func(func(_ context.Context, deal string, c domain.Contract, leader domain.Seat) (solver.Solution, error) {
		gotLeader = leader
		plays := map[domain.Seat][]solver.SuggestedPlay{}
		for _, seat := range domain.Seats {
			for i, card := range parseDealSeat(deal, seat) {
				plays[seat] = append(plays[seat], solver.SuggestedPlay{Card: card, Priority: solver.Priority(i % 3)})
			}
		}
		return solver.Solution{Plays: plays}, nil
	})
	svc := NewService(rand.New(rand.NewSource(5)), slv)
	table := newSeatedTable()
	bidOneNoTrump(t, svc, table)

	evs, err := svc.Hint(context.Background(), table, "u1")
	if err != nil {
		t.Fatalf("hint error: %v", err)
	}
	if gotLeader != domain.East {
		t.Fatalf("leader = %s, want E", gotLeader)
	}
	hint := evs[0].Payload.(HintPayload)
	if len(hint.Plays) != 13 || evs[0].Recipients[0] != "u1" {
		t.Fatalf("lead hint = %d plays to %v", len(hint.Plays), evs[0].Recipients)
	}

	_, user, card := firstLegal(t, table)
	if _, err := svc.PlayCard(table, user, card); err != nil {
		t.Fatalf("lead error: %v", err)
	}
	evs, err = svc.Hint(context.Background(), table, "u0")
	if err != nil {
		t.Fatalf("hint error: %v", err)
	}
	hint = evs[0].Payload.(HintPayload)
	if hint.Seat != domain.South {
		t.Fatalf("hint seat = %s, want dummy", hint.Seat)
	}
	for _, sp := range hint.Plays {
		if ok, _ := table.Play.CanPlayCard(sp.Card, domain.South); !ok {
			t.Fatalf("hint suggested illegal card %s", sp.Card)
		}
	}
}

// parseDealSeat reads seat's hand out of a PBN deal string.
func parseDealSeat(deal string, seat domain.Seat) []domain.Card {
	first, _ := domain.ParseSeat(deal[:1])
	hands := splitFields(deal[2:])
	idx := (int(seat) - int(first) + domain.SeatCount) % domain.SeatCount
	var cards []domain.Card
	suit := domain.Spades
	for _, r := range hands[idx] {
		if r == '.' {
			suit--
			continue
		}
		c, err := domain.ParseCard(suit.String() + string(r))
		if err == nil {
			cards = append(cards, c)
		}
	}
	return cards
}

func splitFields(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ' ' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return out
}

func TestHintUnavailable(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(5)), nil)
	table := newSeatedTable()
	bidOneNoTrump(t, svc, table)

	if _, err := svc.Hint(context.Background(), table, "u1"); !errors.Is(err, solver.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestSnapshotHidesOtherHands(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(5)), nil)
	table := newSeatedTable()
	bidOneNoTrump(t, svc, table)

	snap := svc.Snapshot(table, "u1")
	if snap.ViewerSeat != domain.East || len(snap.Hand) != 13 {
		t.Fatalf("viewer = %s with %d cards", snap.ViewerSeat, len(snap.Hand))
	}
	if snap.DummyHand != nil {
		t.Fatal("dummy must stay hidden before the opening lead")
	}
	if snap.CurrentSeat != domain.East || len(snap.Auction) != 1 || snap.Contract == nil {
		t.Fatalf("snapshot = %+v", snap)
	}

	spectator := svc.Snapshot(table, "")
	if spectator.Hand != nil || spectator.ViewerSeat != domain.NoSeat {
		t.Fatal("spectators see no hand")
	}
}

func TestTurnChangeFollowsAction(t *testing.T) {
	svc := NewService(rand.New(rand.NewSource(5)), nil)
	table := newSeatedTable()
	if _, err := svc.StartBoard(table, 1); err != nil {
		t.Fatalf("start board error: %v", err)
	}

	bid, _ := domain.NewBid(1, domain.NoTrump)
	evs, err := svc.Call(table, "u0", bid)
	if err != nil {
		t.Fatalf("call error: %v", err)
	}
	if len(evs) != 2 || evs[0].Kind != EventCalled || evs[1].Kind != EventTurnChanged {
		t.Fatalf("call events = %v, want called then turn_changed", kinds(evs))
	}
	for _, u := range []string{"u1", "u2", "u3"} {
		if _, err := svc.Pass(table, u); err != nil {
			t.Fatalf("pass %s error: %v", u, err)
		}
	}

	seat, user, card := firstLegal(t, table)
	if seat != domain.East {
		t.Fatalf("opening leader = %s, want E", seat)
	}
	evs, err = svc.PlayCard(table, user, card)
	if err != nil {
		t.Fatalf("opening lead error: %v", err)
	}
	want := []EventKind{EventCardPlayed, EventDummyRevealed, EventTurnChanged}
	if got := kinds(evs); len(got) != len(want) || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Fatalf("opening lead events = %v, want %v", got, want)
	}
	if turn := evs[2].Payload.(TurnChangedPayload); turn.Seat != domain.South || turn.ActorUserID != "u0" {
		t.Fatalf("turn = %+v, want dummy played by declarer", turn)
	}
}

func kinds(evs []Event) []EventKind {
	out := make([]EventKind, 0, len(evs))
	for _, ev := range evs {
		out = append(out, ev.Kind)
	}
	return out
}
