package game

import (
	"fmt"
	"strings"
)

type Suit string

const (
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"
)

type Rank string

const (
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
	Ace   Rank = "A"
)

// AllSuits is also the presentation order used when sorting a hand.
var AllSuits = []Suit{Hearts, Diamonds, Clubs, Spades}

// AllRanks runs from lowest to highest.
var AllRanks = []Rank{Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

// RankValue returns the value of a rank for comparison.
// Higher value wins: A > K > Q > J > 10 > 9 > 8 > 7
func RankValue(r Rank) int {
	for i, rank := range AllRanks {
		if rank == r {
			return i + 1
		}
	}
	return 0
}

func suitOrder(s Suit) int {
	for i, suit := range AllSuits {
		if suit == s {
			return i
		}
	}
	return len(AllSuits)
}

func (s Suit) Valid() bool {
	return suitOrder(s) < len(AllSuits)
}

type Card struct {
	ID   string `json:"id"`
	Suit Suit   `json:"suit"`
	Rank Rank   `json:"rank"`
}

func NewCard(suit Suit, rank Rank) Card {
	return Card{
		ID:   fmt.Sprintf("%s-%s", suit, rank),
		Suit: suit,
		Rank: rank,
	}
}

// ParseCardID turns a wire id like "hearts-10" back into a Card.
func ParseCardID(id string) (Card, error) {
	suit, rank, ok := strings.Cut(id, "-")
	if !ok || !Suit(suit).Valid() || RankValue(Rank(rank)) == 0 {
		return Card{}, fmt.Errorf("%w: %q", ErrUnknownCard, id)
	}
	return NewCard(Suit(suit), Rank(rank)), nil
}

func (c Card) Value() int {
	return RankValue(c.Rank)
}

func (c Card) String() string {
	return c.ID
}

// Beats returns true if this card beats the current winner of a trick.
// A card of a third suit that is not trump never beats anything.
func (c Card) Beats(winner Card, trumpSuit Suit) bool {
	if c.Suit == winner.Suit {
		return c.Value() > winner.Value()
	}
	return c.Suit == trumpSuit
}

// less orders cards for presentation: by suit, then by rank.
func less(a, b Card) bool {
	if a.Suit != b.Suit {
		return suitOrder(a.Suit) < suitOrder(b.Suit)
	}
	return a.Value() < b.Value()
}
