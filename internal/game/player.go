package game

// Team identifies a partnership. Seats 0 and 2 play for TeamA, 1 and 3 for TeamB.
type Team int

const (
	TeamA Team = 0
	TeamB Team = 1
)

// TeamOf returns the partnership a seat plays for.
func TeamOf(seat int) Team {
	return Team(seat % 2)
}

func (t Team) Other() Team {
	return 1 - t
}

type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Seat int    `json:"seat"`
	Hand []Card `json:"-"` // Hidden from other players
}

func NewPlayer(id, name string, seat int) *Player {
	return &Player{
		ID:   id,
		Name: name,
		Seat: seat,
		Hand: make([]Card, 0, CardsPerHand),
	}
}

func (p *Player) Team() Team {
	return TeamOf(p.Seat)
}

// HasCard checks if the player has a specific card
func (p *Player) HasCard(cardID string) bool {
	for _, c := range p.Hand {
		if c.ID == cardID {
			return true
		}
	}
	return false
}

// RemoveCard removes and returns a card from the player's hand
func (p *Player) RemoveCard(cardID string) *Card {
	for i, c := range p.Hand {
		if c.ID == cardID {
			card := c
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return &card
		}
	}
	return nil
}

// GetCardsOfSuit returns all cards of a specific suit
func (p *Player) GetCardsOfSuit(suit Suit) []Card {
	cards := make([]Card, 0)
	for _, c := range p.Hand {
		if c.Suit == suit {
			cards = append(cards, c)
		}
	}
	return cards
}
