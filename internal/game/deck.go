package game

import (
	"math/rand"
	"sort"
	"time"
)

const (
	DeckSize     = 32
	CardsPerHand = DeckSize / NumSeats
)

// Rand is the source of randomness for shuffling and trump selection.
// *rand.Rand satisfies it; tests plug in a deterministic one.
type Rand interface {
	Shuffle(n int, swap func(i, j int))
	Intn(n int) int
}

func NewRand() Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

type Deck struct {
	Cards []Card
}

// NewDeck creates a new 32-card deck (7-8-9-10-J-Q-K-A in all suits)
func NewDeck() *Deck {
	cards := make([]Card, 0, DeckSize)

	for _, suit := range AllSuits {
		for _, rank := range AllRanks {
			cards = append(cards, NewCard(suit, rank))
		}
	}

	return &Deck{Cards: cards}
}

// Shuffle applies a uniform random permutation drawn from rng
func (d *Deck) Shuffle(rng Rand) {
	rng.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
}

// Deal removes and returns n cards from the deck
func (d *Deck) Deal(n int) []Card {
	if n > len(d.Cards) {
		n = len(d.Cards)
	}

	dealt := make([]Card, n)
	copy(dealt, d.Cards[:n])
	d.Cards = d.Cards[n:]

	return dealt
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.Cards)
}

// SortHand orders a hand by suit, then rank.
func SortHand(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		return less(cards[i], cards[j])
	})
}
