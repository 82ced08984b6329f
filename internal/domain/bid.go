package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Level is the number of tricks over six a bid promises (1..7).
type Level int8

const (
	MinLevel Level = 1
	MaxLevel Level = 7
)

func (l Level) Valid() bool { return l >= MinLevel && l <= MaxLevel }

// Denomination is the strain of a bid, ordered Clubs < Diamonds < Hearts < Spades < NoTrump.
type Denomination int8

const (
	DenomClubs Denomination = iota
	DenomDiamonds
	DenomHearts
	DenomSpades
	NoTrump
)

func (d Denomination) Valid() bool { return d >= DenomClubs && d <= NoTrump }

// IsMajor reports hearts or spades.
func (d Denomination) IsMajor() bool { return d == DenomHearts || d == DenomSpades }

// IsMinor reports clubs or diamonds.
func (d Denomination) IsMinor() bool { return d == DenomClubs || d == DenomDiamonds }

// Trump returns the trump suit for the denomination. ok is false for NoTrump.
func (d Denomination) Trump() (Suit, bool) {
	if d == NoTrump || !d.Valid() {
		return 0, false
	}
	return Suit(d), true
}

func (d Denomination) String() string {
	if d == NoTrump {
		return "NT"
	}
	return Suit(d).String()
}

// ParseDenomination accepts "C", "D", "H", "S" and "NT" (or "N").
func ParseDenomination(v string) (Denomination, error) {
	switch strings.ToUpper(v) {
	case "C":
		return DenomClubs, nil
	case "D":
		return DenomDiamonds, nil
	case "H":
		return DenomHearts, nil
	case "S":
		return DenomSpades, nil
	case "N", "NT":
		return NoTrump, nil
	}
	return 0, fmt.Errorf("%w: denomination %q", ErrInvalidBid, v)
}

// Bid is a (Level, Denomination) offer made during the auction.
type Bid struct {
	Level        Level
	Denomination Denomination
}

// NewBid validates the level and denomination.
func NewBid(level Level, denom Denomination) (Bid, error) {
	if !level.Valid() || !denom.Valid() {
		return Bid{}, fmt.Errorf("%w: level %d denomination %d", ErrInvalidBid, level, denom)
	}
	return Bid{Level: level, Denomination: denom}, nil
}

// ParseBid reads the compact form produced by Bid.String, e.g. "1C" or "3NT".
func ParseBid(v string) (Bid, error) {
	if len(v) < 2 {
		return Bid{}, fmt.Errorf("%w: %q", ErrInvalidBid, v)
	}
	n, err := strconv.Atoi(v[:1])
	if err != nil {
		return Bid{}, fmt.Errorf("%w: %q", ErrInvalidBid, v)
	}
	denom, err := ParseDenomination(v[1:])
	if err != nil {
		return Bid{}, err
	}
	return NewBid(Level(n), denom)
}

// Exceeds reports whether b ranks strictly above other under the (Level, Denomination) order.
func (b Bid) Exceeds(other Bid) bool {
	if b.Level != other.Level {
		return b.Level > other.Level
	}
	return b.Denomination > other.Denomination
}

func (b Bid) String() string {
	return strconv.Itoa(int(b.Level)) + b.Denomination.String()
}

// Risk is the escalation state of a call: undoubled, doubled or redoubled.
type Risk int8

const (
	Undoubled Risk = iota
	Doubled
	Redoubled
)

func (r Risk) String() string {
	switch r {
	case Doubled:
		return "X"
	case Redoubled:
		return "XX"
	default:
		return ""
	}
}
