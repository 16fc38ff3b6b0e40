package game

// PlayerView is what every participant may know about a seated player.
type PlayerView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Seat     int    `json:"seat"`
	HandSize int    `json:"handSize"`
	Team     Team   `json:"team"`
}

// Snapshot is the public projection of a game. It never carries the
// contents of anyone's hand; see Hand for the private projection.
type Snapshot struct {
	RoomID           string       `json:"roomId,omitempty"`
	Players          []PlayerView `json:"players"`
	CurrentTurn      int          `json:"currentTurn"`
	State            GameState    `json:"gameState"`
	Trick            []TrickCard  `json:"trick"`
	TrumpSuit        Suit         `json:"trumpSuit,omitempty"`
	Round            int          `json:"round"`
	Tokens           [2]int       `json:"tokens"`
	LeadSuit         Suit         `json:"leadSuit,omitempty"`
	DealerSeat       int          `json:"dealerSeat"`
	TrumpChooserSeat int          `json:"trumpChooserSeat"`
	TricksWon        [2]int       `json:"tricksWon"`
	CarryOver        bool         `json:"carryOver"`
	Target           int          `json:"target"`
	LastTrick        *Trick       `json:"lastTrick,omitempty"`
	LastRound        *RoundResult `json:"lastRound,omitempty"`
	WinningTeam      *Team        `json:"winningTeam,omitempty"`
}

// Snapshot builds the public view shared with the whole room.
func (g *Game) Snapshot() Snapshot {
	players := make([]PlayerView, 0, NumSeats)
	for _, p := range g.Seats {
		if p == nil {
			continue
		}
		players = append(players, PlayerView{
			ID:       p.ID,
			Name:     p.Name,
			Seat:     p.Seat,
			HandSize: len(p.Hand),
			Team:     p.Team(),
		})
	}

	s := Snapshot{
		Players:          players,
		CurrentTurn:      -1,
		State:            g.State,
		Trick:            append([]TrickCard{}, g.CurrentTrick.Cards...),
		TrumpSuit:        g.Trump,
		Round:            g.RoundNumber,
		Tokens:           g.Tokens,
		LeadSuit:         g.CurrentTrick.GetLeadSuit(),
		DealerSeat:       g.DealerSeat,
		TrumpChooserSeat: g.ChooserSeat,
		TricksWon:        g.TricksWon,
		CarryOver:        g.CarryOver,
		Target:           g.Target,
		LastTrick:        g.LastTrick.clone(),
		LastRound:        g.LastResult(),
	}
	if g.State == StatePlaying {
		s.CurrentTurn = g.CurrentSeat
	}
	if g.State == StateFinished {
		w := g.Winner
		s.WinningTeam = &w
	}
	return s
}

// Hand is the private projection: the requesting player's own cards.
func (g *Game) Hand(playerID string) []Card {
	p := g.GetPlayer(playerID)
	if p == nil {
		return []Card{}
	}
	return append([]Card{}, p.Hand...)
}
