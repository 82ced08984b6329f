package solver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contractbridge/internal/domain"
)

func TestUnavailable(t *testing.T) {
	_, err := Unavailable{}.Solve(context.Background(), "N:...", domain.Contract{}, domain.North)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestFunc(t *testing.T) {
	contract := domain.NewContract(3, domain.NoTrump, domain.South, domain.Undoubled)
	sa := domain.Card{Rank: domain.Ace, Suit: domain.Spades}
	h2 := domain.Card{Rank: domain.Two, Suit: domain.Hearts}

	var gotDeal string
	var gotLeader domain.Seat
	s := Func(func(_ context.Context, deal string, c domain.Contract, leader domain.Seat) (Solution, error) {
		gotDeal, gotLeader = deal, leader
		return Solution{
			Plays: map[domain.Seat][]SuggestedPlay{
				domain.West: {{Card: h2, Priority: Low}, {Card: sa, Priority: High}},
			},
			Makeable: []domain.Contract{c},
		}, nil
	})

	sol, err := s.Solve(context.Background(), "S:AK.. ... ... ...", contract, domain.West)
	require.NoError(t, err)
	assert.Equal(t, "S:AK.. ... ... ...", gotDeal)
	assert.Equal(t, domain.West, gotLeader)

	plays := sol.OptimalPlays(domain.West)
	require.Len(t, plays, 2)
	assert.Equal(t, sa, plays[0].Card)
	assert.Empty(t, sol.OptimalPlays(domain.North))

	assert.Equal(t, []domain.Contract{contract}, sol.MakeableContracts(domain.South))
	assert.Empty(t, sol.MakeableContracts(domain.East))
	_, ok := sol.MakeableContract(domain.South, domain.NoTrump)
	assert.True(t, ok)
	_, ok = sol.MakeableContract(domain.South, domain.DenomClubs)
	assert.False(t, ok)
}

func TestFunc_Guards(t *testing.T) {
	called := false
	s := Func(func(context.Context, string, domain.Contract, domain.Seat) (Solution, error) {
		called = true
		return Solution{}, nil
	})

	_, err := s.Solve(context.Background(), "", domain.Contract{}, domain.North)
	assert.ErrorIs(t, err, ErrEmptyDeal)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Solve(ctx, "N:...", domain.Contract{}, domain.North)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
