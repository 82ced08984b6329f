package domain

import (
	"fmt"
	"strings"
)

// Vulnerability says which partnerships are vulnerable on a board.
type Vulnerability int8

const (
	VulnerableNone Vulnerability = iota
	VulnerableNorthSouth
	VulnerableEastWest
	VulnerableBoth
)

func (v Vulnerability) String() string {
	switch v {
	case VulnerableNorthSouth:
		return "NS"
	case VulnerableEastWest:
		return "EW"
	case VulnerableBoth:
		return "All"
	default:
		return "None"
	}
}

// IsVulnerable reports whether seat's side is vulnerable.
func (v Vulnerability) IsVulnerable(seat Seat) bool {
	switch v {
	case VulnerableBoth:
		return true
	case VulnerableNorthSouth:
		return seat.Partnership() == NorthSouth
	case VulnerableEastWest:
		return seat.Partnership() == EastWest
	}
	return false
}

// Standard duplicate rotation, indexed by (board-1) % 16.
var vulnerabilityCycle = [16]Vulnerability{
	VulnerableNone, VulnerableNorthSouth, VulnerableEastWest, VulnerableBoth,
	VulnerableNorthSouth, VulnerableEastWest, VulnerableBoth, VulnerableNone,
	VulnerableEastWest, VulnerableBoth, VulnerableNone, VulnerableNorthSouth,
	VulnerableBoth, VulnerableNone, VulnerableNorthSouth, VulnerableEastWest,
}

func boardIndex(number int) int {
	if number < 1 {
		number = 1
	}
	return (number - 1) % len(vulnerabilityCycle)
}

// DealerForBoard returns the dealer of board number (1-based): N, E, S, W repeating.
func DealerForBoard(number int) Seat {
	return Seat(boardIndex(number) % SeatCount)
}

// VulnerabilityForBoard returns the vulnerability of board number (1-based).
func VulnerabilityForBoard(number int) Vulnerability {
	return vulnerabilityCycle[boardIndex(number)]
}

// Board is one deal: four hands plus dealer and vulnerability.
// It satisfies Hands for the play engine.
type Board struct {
	Number        int
	Dealer        Seat
	Vulnerability Vulnerability
	hands         [SeatCount]*Hand
}

// NewBoard returns an empty board with the rotation's dealer and vulnerability.
func NewBoard(number int) *Board {
	b := &Board{
		Number:        number,
		Dealer:        DealerForBoard(number),
		Vulnerability: VulnerabilityForBoard(number),
	}
	for i := range b.hands {
		b.hands[i] = &Hand{}
	}
	return b
}

// Deal clears every hand and deals deck one card at a time, starting left of the dealer.
func (b *Board) Deal(deck []Card) error {
	if len(deck) != DeckSize {
		return fmt.Errorf("deal needs %d cards, got %d", DeckSize, len(deck))
	}
	for _, h := range b.hands {
		h.Clear()
	}
	seat := b.Dealer.Next()
	for _, c := range deck {
		if err := b.hands[seat].Add(c); err != nil {
			return err
		}
		seat = seat.Next()
	}
	return nil
}

func (b *Board) Hand(seat Seat) CardHolder {
	if !seat.Valid() {
		return nil
	}
	return b.hands[seat]
}

// HandOf returns the concrete hand for seat.
func (b *Board) HandOf(seat Seat) *Hand {
	if !seat.Valid() {
		return nil
	}
	return b.hands[seat]
}

func (b *Board) OtherHands(seat Seat) []CardHolder {
	out := make([]CardHolder, 0, SeatCount-1)
	for _, s := range Seats {
		if s != seat {
			out = append(out, b.hands[s])
		}
	}
	return out
}

// Cards returns seat's remaining cards, sorted.
func (b *Board) Cards(seat Seat) []Card {
	if h := b.HandOf(seat); h != nil {
		return h.Cards()
	}
	return nil
}

// IsVulnerable reports whether seat's side is vulnerable on this board.
func (b *Board) IsVulnerable(seat Seat) bool {
	return b.Vulnerability.IsVulnerable(seat)
}

// PBN renders the deal as "D:hand hand hand hand", starting with the dealer.
func (b *Board) PBN() string {
	parts := make([]string, 0, SeatCount)
	seat := b.Dealer
	for range Seats {
		parts = append(parts, b.hands[seat].PBN())
		seat = seat.Next()
	}
	return b.Dealer.String() + ":" + strings.Join(parts, " ")
}
