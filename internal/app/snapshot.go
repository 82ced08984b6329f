package app

import "contractbridge/internal/domain"

// TableSnapshot is one viewer's picture of the table. Hidden hands are omitted.
type TableSnapshot struct {
	TableID       string
	Phase         Phase
	Players       [domain.SeatCount]string
	BoardNumber   int
	Dealer        domain.Seat
	Vulnerability domain.Vulnerability
	ViewerSeat    domain.Seat
	Hand          []domain.Card
	DummyHand     []domain.Card
	Auction       []domain.LedgerEntry
	Contract      *domain.Contract
	CurrentSeat   domain.Seat
	CurrentTrick  []domain.Play
	TricksWon     [2]int
	Result        *domain.Result
}

// Snapshot builds the view userID is allowed to see. An unseated viewer sees no hand.
func (s *Service) Snapshot(t *Table, userID string) TableSnapshot {
	snap := TableSnapshot{
		TableID:     t.ID.String(),
		Phase:       t.Phase,
		Players:     t.Players,
		BoardNumber: t.BoardNumber(),
		ViewerSeat:  domain.NoSeat,
		CurrentSeat: domain.NoSeat,
		Contract:    t.Contract,
		TricksWon:   t.TricksWon,
		Result:      t.Result,
	}
	if seat, ok := t.SeatOf(userID); ok {
		snap.ViewerSeat = seat
	}
	if t.Board == nil {
		return snap
	}
	snap.Dealer = t.Board.Dealer
	snap.Vulnerability = t.Board.Vulnerability
	if snap.ViewerSeat != domain.NoSeat {
		snap.Hand = t.Board.Cards(snap.ViewerSeat)
	}
	if t.Auction != nil {
		snap.Auction = t.Auction.Ledger()
	}
	if seat, ok := t.CurrentSeat(); ok {
		snap.CurrentSeat = seat
	}
	if t.Play != nil {
		snap.CurrentTrick = t.Play.CurrentTrick()
		if t.DummyRevealed {
			snap.DummyHand = t.Board.Cards(t.Contract.Dummy())
		}
	}
	return snap
}
