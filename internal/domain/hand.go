package domain

import (
	"fmt"
	"strings"
)

// Hand is one seat's mutable set of cards.
type Hand struct {
	cards []Card
}

// NewHand builds a hand from cards. Duplicates are rejected.
func NewHand(cards ...Card) (*Hand, error) {
	h := &Hand{cards: make([]Card, 0, len(cards))}
	for _, c := range cards {
		if err := h.Add(c); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Add puts card in the hand.
func (h *Hand) Add(card Card) error {
	if h.Contains(card) {
		return fmt.Errorf("%w: %s", ErrCardAlreadyInHand, card)
	}
	h.cards = append(h.cards, card)
	return nil
}

// Remove takes card out of the hand.
func (h *Hand) Remove(card Card) error {
	for i, c := range h.cards {
		if c == card {
			h.cards = append(h.cards[:i], h.cards[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrCardNotInHand, card)
}

func (h *Hand) Contains(card Card) bool {
	for _, c := range h.cards {
		if c == card {
			return true
		}
	}
	return false
}

// HasSuit reports whether the hand holds at least one card of suit.
func (h *Hand) HasSuit(suit Suit) bool {
	for _, c := range h.cards {
		if c.Suit == suit {
			return true
		}
	}
	return false
}

func (h *Hand) IsEmpty() bool { return len(h.cards) == 0 }

func (h *Hand) Len() int { return len(h.cards) }

// Clear empties the hand.
func (h *Hand) Clear() { h.cards = h.cards[:0] }

// Cards returns a sorted copy of the hand.
func (h *Hand) Cards() []Card {
	out := make([]Card, len(h.cards))
	copy(out, h.cards)
	SortHand(out)
	return out
}

// PBN renders the hand as "spades.hearts.diamonds.clubs", ranks high to low.
func (h *Hand) PBN() string {
	var groups [4]strings.Builder
	for _, c := range h.Cards() {
		groups[Spades-c.Suit].WriteString(c.Rank.String())
	}
	parts := make([]string, 0, len(groups))
	for i := range groups {
		parts = append(parts, groups[i].String())
	}
	return strings.Join(parts, ".")
}
