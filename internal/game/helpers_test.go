package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixedRand never shuffles, so seats receive the deck in NewDeck order:
// seat 0 all hearts, seat 1 diamonds, seat 2 clubs, seat 3 spades.
type fixedRand struct {
	trump int
}

func (fixedRand) Shuffle(n int, swap func(i, j int)) {}

func (r fixedRand) Intn(n int) int {
	return r.trump % n
}

func c(suit Suit, rank Rank) Card {
	return NewCard(suit, rank)
}

func newFullGame(t *testing.T, opts ...Option) *Game {
	t.Helper()
	g := NewGame(opts...)
	for i := 0; i < NumSeats; i++ {
		seat, err := g.AddPlayer(fmt.Sprintf("p%d", i), fmt.Sprintf("Player %d", i))
		require.NoError(t, err)
		require.Equal(t, i, seat)
	}
	return g
}

func newStartedGame(t *testing.T, opts ...Option) *Game {
	t.Helper()
	g := newFullGame(t, opts...)
	require.NoError(t, g.Start())
	return g
}

// playFirstLegal plays the first legal card for whoever is to act.
func playFirstLegal(t *testing.T, g *Game) Card {
	t.Helper()
	seat := g.CurrentSeat
	legal := g.LegalPlays(seat)
	require.NotEmpty(t, legal, "seat %d has nothing to play", seat)
	require.NoError(t, g.PlayCard(seat, legal[0].ID))
	return legal[0]
}
