package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustBid(t *testing.T, v string) Bid {
	t.Helper()
	b, err := ParseBid(v)
	require.NoError(t, err)
	return b
}

func mustCard(t *testing.T, v string) Card {
	t.Helper()
	c, err := ParseCard(v)
	require.NoError(t, err)
	return c
}

// boardWith builds board 1 holding exactly the given cards per seat.
func boardWith(t *testing.T, hands map[Seat][]string) *Board {
	t.Helper()
	b := NewBoard(1)
	for seat, cards := range hands {
		for _, v := range cards {
			require.NoError(t, b.HandOf(seat).Add(mustCard(t, v)))
		}
	}
	return b
}

type recorder struct {
	events []Event
}

func (r *recorder) handle(ev Event) { r.events = append(r.events, ev) }

func (r *recorder) kinds() []EventKind {
	out := make([]EventKind, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Kind)
	}
	return out
}
