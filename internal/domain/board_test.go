package domain

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardRotation(t *testing.T) {
	tests := []struct {
		number int
		dealer Seat
		vul    Vulnerability
	}{
		{1, North, VulnerableNone},
		{2, East, VulnerableNorthSouth},
		{3, South, VulnerableEastWest},
		{4, West, VulnerableBoth},
		{5, North, VulnerableNorthSouth},
		{9, North, VulnerableEastWest},
		{16, West, VulnerableEastWest},
		{17, North, VulnerableNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.dealer, DealerForBoard(tt.number), "board %d", tt.number)
		assert.Equal(t, tt.vul, VulnerabilityForBoard(tt.number), "board %d", tt.number)
	}
}

func TestVulnerability_IsVulnerable(t *testing.T) {
	assert.True(t, VulnerableNorthSouth.IsVulnerable(South))
	assert.False(t, VulnerableNorthSouth.IsVulnerable(East))
	assert.True(t, VulnerableBoth.IsVulnerable(West))
	assert.False(t, VulnerableNone.IsVulnerable(North))
}

func TestBoard_Deal(t *testing.T) {
	b := NewBoard(2)
	deck := NewDeck()
	require.NoError(t, b.Deal(deck))

	// dealer is East, so South receives the first card
	assert.True(t, b.HandOf(South).Contains(deck[0]))
	assert.True(t, b.HandOf(West).Contains(deck[1]))

	seen := map[Card]bool{}
	for _, s := range Seats {
		cards := b.Cards(s)
		assert.Len(t, cards, 13)
		for _, c := range cards {
			assert.False(t, seen[c], "duplicate %s", c)
			seen[c] = true
		}
		assert.Len(t, b.OtherHands(s), 3)
	}
	assert.Len(t, seen, DeckSize)

	assert.Error(t, b.Deal(deck[:51]))
}

func TestBoard_PBN(t *testing.T) {
	b := boardWith(t, map[Seat][]string{
		North: {"SA", "HK", "C2", "CT"},
		East:  {"D9"},
	})
	assert.Equal(t, "N:A.K..T2 ..9. ... ...", b.PBN())

	full := NewBoard(3)
	require.NoError(t, full.Deal(ShuffleDeck(NewDeck(), rand.New(rand.NewSource(1)))))
	pbn := full.PBN()
	assert.True(t, strings.HasPrefix(pbn, "S:"))
	assert.Len(t, strings.Fields(pbn[2:]), 4)
}

func TestHand(t *testing.T) {
	h, err := NewHand(mustCard(t, "C2"), mustCard(t, "SA"))
	require.NoError(t, err)
	assert.ErrorIs(t, h.Add(mustCard(t, "C2")), ErrCardAlreadyInHand)
	assert.True(t, h.HasSuit(Spades))
	assert.False(t, h.HasSuit(Hearts))
	assert.Equal(t, []Card{mustCard(t, "SA"), mustCard(t, "C2")}, h.Cards())

	require.NoError(t, h.Remove(mustCard(t, "SA")))
	assert.ErrorIs(t, h.Remove(mustCard(t, "SA")), ErrCardNotInHand)
	require.NoError(t, h.Remove(mustCard(t, "C2")))
	assert.True(t, h.IsEmpty())

	_, err = NewHand(mustCard(t, "C2"), mustCard(t, "C2"))
	assert.ErrorIs(t, err, ErrCardAlreadyInHand)
}

func TestShuffleDeck(t *testing.T) {
	deck := NewDeck()
	a := ShuffleDeck(deck, rand.New(rand.NewSource(9)))
	b := ShuffleDeck(deck, rand.New(rand.NewSource(9)))
	assert.Equal(t, a, b)
	assert.ElementsMatch(t, deck, a)
	assert.Equal(t, NewDeck(), deck, "input untouched")
}
