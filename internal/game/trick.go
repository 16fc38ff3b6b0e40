package game

// TrickCard represents a card played in a trick along with who played it
type TrickCard struct {
	PlayerID string `json:"playerId"`
	Seat     int    `json:"seat"`
	Card     Card   `json:"card"`
}

// Trick represents a single trick in the game
type Trick struct {
	Cards      []TrickCard `json:"cards"`
	LeadSuit   Suit        `json:"leadSuit,omitempty"`
	WinnerSeat int         `json:"winnerSeat"`
}

// NewTrick creates a new empty trick
func NewTrick() *Trick {
	return &Trick{
		Cards:      make([]TrickCard, 0, NumSeats),
		WinnerSeat: -1,
	}
}

// AddCard adds a card to the trick
func (t *Trick) AddCard(seat int, playerID string, card Card) {
	// First card determines the lead suit
	if len(t.Cards) == 0 {
		t.LeadSuit = card.Suit
	}

	t.Cards = append(t.Cards, TrickCard{
		PlayerID: playerID,
		Seat:     seat,
		Card:     card,
	})
}

// IsComplete returns true once every seat has played
func (t *Trick) IsComplete() bool {
	return len(t.Cards) >= NumSeats
}

func (t *Trick) IsEmpty() bool {
	return len(t.Cards) == 0
}

// DetermineWinner finds the winning card and returns the seat that played it.
// The highest trump wins if any trump was played, otherwise the highest card
// of the lead suit.
func (t *Trick) DetermineWinner(trump Suit) int {
	if len(t.Cards) == 0 {
		return -1
	}

	winningIdx := 0
	winningCard := t.Cards[0].Card

	for i := 1; i < len(t.Cards); i++ {
		currentCard := t.Cards[i].Card
		if currentCard.Beats(winningCard, trump) {
			winningIdx = i
			winningCard = currentCard
		}
	}

	t.WinnerSeat = t.Cards[winningIdx].Seat
	return t.WinnerSeat
}

// GetLeadSuit returns the suit of the first card played
func (t *Trick) GetLeadSuit() Suit {
	return t.LeadSuit
}

func (t *Trick) clone() *Trick {
	if t == nil {
		return nil
	}
	c := *t
	c.Cards = append([]TrickCard(nil), t.Cards...)
	return &c
}
