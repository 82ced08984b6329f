package domain

import "fmt"

// Suit is a card suit. Suits are ordered Clubs < Diamonds < Hearts < Spades.
type Suit int8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// Suits lists every suit in ascending order.
var Suits = [4]Suit{Clubs, Diamonds, Hearts, Spades}

func (s Suit) Valid() bool { return s >= Clubs && s <= Spades }

func (s Suit) String() string {
	switch s {
	case Clubs:
		return "C"
	case Diamonds:
		return "D"
	case Hearts:
		return "H"
	case Spades:
		return "S"
	default:
		return "?"
	}
}

// Rank is a card rank from Two (lowest) to Ace (highest).
type Rank int8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

const rankLetters = "23456789TJQKA"

func (r Rank) Valid() bool { return r >= Two && r <= Ace }

func (r Rank) String() string {
	if !r.Valid() {
		return "?"
	}
	return string(rankLetters[r-Two])
}

// Card is a single playing card. Cards are comparable and usable as map keys.
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard validates rank and suit.
func NewCard(rank Rank, suit Suit) (Card, error) {
	if !rank.Valid() || !suit.Valid() {
		return Card{}, fmt.Errorf("%w: rank %d suit %d", ErrInvalidCard, rank, suit)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// String renders the card as suit letter followed by rank letter, e.g. "SA" or "HT".
func (c Card) String() string {
	return c.Suit.String() + c.Rank.String()
}

// ParseCard reverses Card.String. Both "SA" and "AS" orderings are accepted.
func ParseCard(v string) (Card, error) {
	if len(v) != 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, v)
	}
	if c, ok := parseCard(v[0], v[1]); ok {
		return c, nil
	}
	if c, ok := parseCard(v[1], v[0]); ok {
		return c, nil
	}
	return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, v)
}

func parseCard(suit, rank byte) (Card, bool) {
	s, ok := suitFromLetter(suit)
	if !ok {
		return Card{}, false
	}
	for i := 0; i < len(rankLetters); i++ {
		if rankLetters[i] == rank {
			return Card{Rank: Two + Rank(i), Suit: s}, true
		}
	}
	return Card{}, false
}

func suitFromLetter(b byte) (Suit, bool) {
	switch b {
	case 'C', 'c':
		return Clubs, true
	case 'D', 'd':
		return Diamonds, true
	case 'H', 'h':
		return Hearts, true
	case 'S', 's':
		return Spades, true
	}
	return 0, false
}
