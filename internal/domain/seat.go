package domain

import "fmt"

// Seat is one of the four fixed table positions, in clockwise order.
type Seat int8

const (
	North Seat = iota
	East
	South
	West
)

// NoSeat is the explicit "absent" seat. It is never a legal actor.
const NoSeat Seat = -1

// SeatCount is the number of positions at a bridge table.
const SeatCount = 4

// Seats lists every seat in rotation order starting at North.
var Seats = [SeatCount]Seat{North, East, South, West}

// Valid reports whether s is one of the four table positions.
func (s Seat) Valid() bool {
	return s >= North && s <= West
}

// Next returns the seat to the left of s.
func (s Seat) Next() Seat {
	return (s + 1) % SeatCount
}

// Partner returns the seat opposite s.
func (s Seat) Partner() Seat {
	return (s + 2) % SeatCount
}

// Partnership returns the side s plays for.
func (s Seat) Partnership() Partnership {
	if s == North || s == South {
		return NorthSouth
	}
	return EastWest
}

func (s Seat) String() string {
	switch s {
	case North:
		return "N"
	case East:
		return "E"
	case South:
		return "S"
	case West:
		return "W"
	default:
		return "-"
	}
}

// ParseSeat accepts the one-letter seat names ("N", "E", "S", "W") or their full names.
func ParseSeat(v string) (Seat, error) {
	switch v {
	case "N", "n", "North", "north":
		return North, nil
	case "E", "e", "East", "east":
		return East, nil
	case "S", "s", "South", "south":
		return South, nil
	case "W", "w", "West", "west":
		return West, nil
	}
	return NoSeat, fmt.Errorf("unknown seat %q", v)
}

// Partnership is one of the two sides at the table.
type Partnership int8

const (
	NorthSouth Partnership = iota
	EastWest
)

// Seats returns both seats of the partnership.
func (p Partnership) Seats() [2]Seat {
	if p == NorthSouth {
		return [2]Seat{North, South}
	}
	return [2]Seat{East, West}
}

// Opponents returns the other partnership.
func (p Partnership) Opponents() Partnership {
	return 1 - p
}

func (p Partnership) String() string {
	if p == NorthSouth {
		return "NS"
	}
	return "EW"
}
