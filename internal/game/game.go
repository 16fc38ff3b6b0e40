package game

import (
	"errors"
	"fmt"
	"slices"
)

type GameState string

const (
	StateWaiting  GameState = "waiting"
	StatePlaying  GameState = "playing"
	StateFinished GameState = "finished"
)

var (
	ErrRoomFull           = errors.New("room full")
	ErrAlreadySeated      = errors.New("player already seated")
	ErrNotEnoughPlayers   = errors.New("not enough players")
	ErrGameAlreadyStarted = errors.New("game already started")

	// ErrIllegalAction is wrapped by every rejected play.
	ErrIllegalAction  = errors.New("illegal action")
	ErrWrongState     = fmt.Errorf("%w: wrong game state", ErrIllegalAction)
	ErrNotSeated      = fmt.Errorf("%w: player not seated", ErrIllegalAction)
	ErrSeatVacant     = fmt.Errorf("%w: seat is vacant", ErrIllegalAction)
	ErrNotYourTurn    = fmt.Errorf("%w: not your turn", ErrIllegalAction)
	ErrUnknownCard    = fmt.Errorf("%w: unknown card", ErrIllegalAction)
	ErrCardNotInHand  = fmt.Errorf("%w: card not in hand", ErrIllegalAction)
	ErrMustFollowSuit = fmt.Errorf("%w: must follow suit if possible", ErrIllegalAction)
)

const NumSeats = 4

// Game is one table of four players playing a match to Target tokens.
//
// Game does no locking of its own. Its owner must serialize every call.
type Game struct {
	State        GameState
	Seats        [NumSeats]*Player
	CurrentSeat  int
	DealerSeat   int
	ChooserSeat  int
	Trump        Suit
	CurrentTrick *Trick
	LastTrick    *Trick
	TrickNumber  int
	TricksWon    [2]int
	Tokens       [2]int
	CarryOver    bool
	RoundNumber  int
	Target       int
	Winner       Team
	Results      []RoundResult

	rng Rand
}

type Option func(*Game)

// WithRand sets the source used for shuffling and trump selection.
func WithRand(rng Rand) Option {
	return func(g *Game) {
		g.rng = rng
	}
}

// WithTarget changes the number of tokens that wins the match.
func WithTarget(target int) Option {
	return func(g *Game) {
		if target > 0 {
			g.Target = target
		}
	}
}

func NewGame(opts ...Option) *Game {
	g := &Game{
		State:        StateWaiting,
		CurrentSeat:  -1,
		ChooserSeat:  -1,
		CurrentTrick: NewTrick(),
		Target:       DefaultTarget,
		Winner:       NoTeam,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = NewRand()
	}
	return g
}

// AddPlayer seats a player in the lowest vacant seat and returns it.
func (g *Game) AddPlayer(playerID, name string) (int, error) {
	if g.State != StateWaiting {
		return -1, ErrRoomFull
	}
	if g.SeatOf(playerID) >= 0 {
		return -1, ErrAlreadySeated
	}

	for seat, p := range g.Seats {
		if p == nil {
			g.Seats[seat] = NewPlayer(playerID, name, seat)
			return seat, nil
		}
	}
	return -1, ErrRoomFull
}

// RemovePlayer vacates the player's seat. The match is not paused and
// nobody is reseated: if the vacated seat is the current one, play stalls.
func (g *Game) RemovePlayer(playerID string) (int, bool) {
	seat := g.SeatOf(playerID)
	if seat < 0 {
		return -1, false
	}
	g.Seats[seat] = nil
	return seat, true
}

// GetPlayer returns a player by ID
func (g *Game) GetPlayer(playerID string) *Player {
	if seat := g.SeatOf(playerID); seat >= 0 {
		return g.Seats[seat]
	}
	return nil
}

// SeatOf returns the seat held by playerID, or -1.
func (g *Game) SeatOf(playerID string) int {
	for seat, p := range g.Seats {
		if p != nil && p.ID == playerID {
			return seat
		}
	}
	return -1
}

// PlayerIDs lists seated players in seat order.
func (g *Game) PlayerIDs() []string {
	ids := make([]string, 0, NumSeats)
	for _, p := range g.Seats {
		if p != nil {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func (g *Game) PlayerCount() int {
	return len(g.PlayerIDs())
}

// Start begins the match. It needs all four seats filled.
func (g *Game) Start() error {
	if g.State != StateWaiting {
		return ErrGameAlreadyStarted
	}

	if g.PlayerCount() != NumSeats {
		return ErrNotEnoughPlayers
	}

	g.State = StatePlaying
	g.startRound()

	return nil
}

// startRound deals a fresh deck and picks trump. The seat to the dealer's
// right chooses trump and leads the first trick.
func (g *Game) startRound() {
	g.RoundNumber++
	g.TrickNumber = 0
	g.TricksWon = [2]int{}

	deck := NewDeck()
	deck.Shuffle(g.rng)

	for _, p := range g.Seats {
		hand := deck.Deal(CardsPerHand)
		if p == nil {
			continue
		}
		SortHand(hand)
		p.Hand = hand
	}

	g.ChooserSeat = (g.DealerSeat + 1) % NumSeats
	g.Trump = AllSuits[g.rng.Intn(len(AllSuits))]
	g.CurrentSeat = g.ChooserSeat
	g.CurrentTrick = NewTrick()
}

// LegalPlays returns the cards the seat may play right now. Any card may
// lead; after that the lead suit must be followed when held. There is no
// obligation to trump.
func (g *Game) LegalPlays(seat int) []Card {
	if seat < 0 || seat >= NumSeats || g.Seats[seat] == nil {
		return nil
	}
	player := g.Seats[seat]

	if !g.CurrentTrick.IsEmpty() {
		if suitCards := player.GetCardsOfSuit(g.CurrentTrick.GetLeadSuit()); len(suitCards) > 0 {
			return suitCards
		}
	}
	return append([]Card(nil), player.Hand...)
}

// PlayCard plays a card from the hand of the given seat. A rejected play
// leaves the game untouched.
func (g *Game) PlayCard(seat int, cardID string) error {
	if g.State != StatePlaying {
		return ErrWrongState
	}

	if seat < 0 || seat >= NumSeats {
		return ErrNotSeated
	}
	player := g.Seats[seat]
	if player == nil {
		return ErrSeatVacant
	}

	if seat != g.CurrentSeat {
		return ErrNotYourTurn
	}

	card, err := ParseCardID(cardID)
	if err != nil {
		return err
	}

	if !player.HasCard(card.ID) {
		return ErrCardNotInHand
	}

	// a held card that is not a legal play can only be a failure to follow suit
	if !slices.ContainsFunc(g.LegalPlays(seat), func(l Card) bool { return l.ID == card.ID }) {
		return ErrMustFollowSuit
	}

	player.RemoveCard(card.ID)
	g.CurrentTrick.AddCard(seat, player.ID, card)
	g.CurrentSeat = (seat + 1) % NumSeats

	if g.CurrentTrick.IsComplete() {
		g.completeTrick()
	}

	return nil
}

// completeTrick credits the trick and hands the lead to its winner
func (g *Game) completeTrick() {
	winner := g.CurrentTrick.DetermineWinner(g.Trump)
	g.TricksWon[TeamOf(winner)]++
	g.TrickNumber++

	g.LastTrick = g.CurrentTrick
	g.CurrentTrick = NewTrick()
	g.CurrentSeat = winner

	if g.TrickNumber >= TricksPerRound {
		g.endRound()
	}
}

// endRound scores the round, then either finishes the match or deals again
func (g *Game) endRound() {
	res := ScoreRound(g.TricksWon, TeamOf(g.ChooserSeat), g.CarryOver)
	res.Round = g.RoundNumber

	if res.CarryNext {
		g.CarryOver = true
	} else if res.CarryUsed {
		g.CarryOver = false
	}

	if res.Winner != NoTeam {
		g.Tokens[res.Winner] = min(g.Tokens[res.Winner]+res.Tokens, g.Target)
	}
	g.Results = append(g.Results, res)

	if res.Winner != NoTeam && g.Tokens[res.Winner] >= g.Target {
		g.State = StateFinished
		g.Winner = res.Winner
		g.CurrentSeat = -1
		return
	}

	g.DealerSeat = (g.DealerSeat + 1) % NumSeats
	g.startRound()
}

// GetCurrentPlayerID returns the ID of the player whose turn it is, or ""
// when nobody can act (not playing, or the current seat was vacated).
func (g *Game) GetCurrentPlayerID() string {
	if g.State != StatePlaying || g.CurrentSeat < 0 {
		return ""
	}
	if p := g.Seats[g.CurrentSeat]; p != nil {
		return p.ID
	}
	return ""
}

// LastResult returns the scoring of the most recent round, if any.
func (g *Game) LastResult() *RoundResult {
	if len(g.Results) == 0 {
		return nil
	}
	res := g.Results[len(g.Results)-1]
	return &res
}
