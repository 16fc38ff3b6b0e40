package game

// NoTeam marks a round that nobody won (a 4-4 split).
const NoTeam Team = -1

const (
	TricksPerRound = CardsPerHand
	DefaultTarget  = 10

	sweepTokens    = 3
	defendTokens   = 1
	overturnTokens = 2
	carryBonus     = 1
)

// RoundResult records how a round was scored.
type RoundResult struct {
	Round       int    `json:"round"`
	TricksWon   [2]int `json:"tricksWon"`
	ChooserTeam Team   `json:"chooserTeam"`
	Winner      Team   `json:"winner"`
	Tokens      int    `json:"tokens"`
	CarryUsed   bool   `json:"carryUsed"`
	CarryNext   bool   `json:"carryNext"`
}

// ScoreRound awards tokens for a finished round.
//
// A 4-4 split awards nothing and sets the carry-over so the next round's
// winner gets one extra token. Otherwise the team with more tricks wins:
// 3 tokens for all eight tricks, 1 if it is the trump chooser's team, 2 if
// it overturned the other team's trump.
func ScoreRound(tricks [2]int, chooser Team, carry bool) RoundResult {
	res := RoundResult{
		TricksWon:   tricks,
		ChooserTeam: chooser,
		Winner:      NoTeam,
	}

	if tricks[TeamA] == tricks[TeamB] {
		res.CarryNext = true
		return res
	}

	w := TeamA
	if tricks[TeamB] > tricks[TeamA] {
		w = TeamB
	}
	res.Winner = w

	switch {
	case tricks[w] == TricksPerRound:
		res.Tokens = sweepTokens
	case w == chooser:
		res.Tokens = defendTokens
	default:
		res.Tokens = overturnTokens
	}

	if carry {
		res.Tokens += carryBonus
		res.CarryUsed = true
	}
	return res
}
