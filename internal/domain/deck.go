package domain

import (
	"math/rand"
	"sort"
)

// DeckSize is the number of cards in a full bridge deck.
const DeckSize = 52

// NewDeck returns a sorted 52-card deck.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, s := range Suits {
		for r := Two; r <= Ace; r++ {
			deck = append(deck, Card{Rank: r, Suit: s})
		}
	}
	return deck
}

// ShuffleDeck returns a shuffled copy of the given deck.
// A nil rng falls back to the package-level source.
func ShuffleDeck(deck []Card, rng *rand.Rand) []Card {
	out := make([]Card, len(deck))
	copy(out, deck)
	swap := func(i, j int) { out[i], out[j] = out[j], out[i] }
	if rng == nil {
		rand.Shuffle(len(out), swap)
	} else {
		rng.Shuffle(len(out), swap)
	}
	return out
}

// SortHand orders a hand by descending suit, then descending rank (the PBN order).
func SortHand(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		return cardPower(cards[i]) > cardPower(cards[j])
	})
}

func cardPower(c Card) int {
	return int(c.Suit)*16 + int(c.Rank)
}
