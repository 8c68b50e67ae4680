// Package game holds the pure rules of the deduction game: board generation,
// clue/guess legality, outcome resolution and per-viewer masking. Nothing in
// this package performs I/O.
package game

import (
	"strings"
	"time"

	"github.com/wordspy/wordspy/internal/domain"
	"github.com/wordspy/wordspy/internal/infrastructure/validate"
)

// MaxClueCount bounds the declared count of a clue. Zero is allowed and means
// unlimited guesses for the turn.
const MaxClueCount = 9

// AdvanceReason says why a turn passed to the other team.
type AdvanceReason string

const (
	AdvanceExhausted AdvanceReason = "guesses_exhausted"
	AdvanceNeutral   AdvanceReason = "neutral"
	AdvanceOpponent  AdvanceReason = "opponent_card"
	AdvanceEnded     AdvanceReason = "turn_ended"
)

// WinReason says how the game ended.
type WinReason string

const (
	WinAssassin WinReason = "assassin"
	WinAllFound WinReason = "all_found"
)

// Outcome is the tagged result of resolving a reveal. The session layer
// consumes it exhaustively.
type Outcome interface {
	outcome()
}

// GuessContinues: correct guess with guesses still remaining.
type GuessContinues struct {
	GuessesRemaining int
}

// TurnAdvanced: the turn passed to the other team, clue cleared.
type TurnAdvanced struct {
	NextTurn domain.Team
	Reason   AdvanceReason
}

// GameWon: terminal outcome.
type GameWon struct {
	By     domain.Team
	Reason WinReason
}

func (GuessContinues) outcome() {}
func (TurnAdvanced) outcome()   {}
func (GameWon) outcome()        {}

// ValidateClue checks a clue submission. The word only has to be non-empty
// after trimming; clues that match board words are allowed.
func ValidateClue(word string, count int) error {
	if err := validate.Required()(strings.TrimSpace(word)); err != nil {
		return domain.ErrInvalidInput
	}
	if count < 0 || count > MaxClueCount {
		return domain.ErrInvalidInput
	}
	return nil
}

// StartingGuesses converts a declared clue count into the guesses-remaining
// counter: count+1 (one bonus guess), or the unlimited sentinel for zero.
func StartingGuesses(count int) int {
	if count == 0 {
		return domain.GuessesUnlimited
	}
	return count + 1
}

// CanGuess checks the guess preconditions against the current game state.
func CanGuess(g *domain.Game) error {
	switch {
	case g.Finished():
		return domain.ErrGameFinished
	case !g.HasClue():
		return domain.ErrNoActiveClue
	case g.GuessesRemaining == 0:
		return domain.ErrNoGuessesLeft
	}
	return nil
}

// ResolveGuess applies the reveal of a card with the given category to a copy
// of the game and returns the next state plus the tagged outcome. The assassin
// short-circuits everything; exhaustion wins are checked on every reveal for
// both teams (revealing the opponent's last card wins the game for them).
func ResolveGuess(g domain.Game, category domain.CardCategory) (domain.Game, Outcome) {
	acting := g.CurrentTurn
	other := acting.Opponent()

	if category == domain.CategoryAssassin {
		finish(&g, other)
		return g, GameWon{By: other, Reason: WinAssassin}
	}

	if category == domain.CategoryRed {
		g.RedRemaining--
	}
	if category == domain.CategoryBlue {
		g.BlueRemaining--
	}

	if g.RedRemaining == 0 {
		finish(&g, domain.TeamRed)
		return g, GameWon{By: domain.TeamRed, Reason: WinAllFound}
	}
	if g.BlueRemaining == 0 {
		finish(&g, domain.TeamBlue)
		return g, GameWon{By: domain.TeamBlue, Reason: WinAllFound}
	}

	if category == domain.TeamCategory(acting) {
		if g.GuessesRemaining != domain.GuessesUnlimited {
			g.GuessesRemaining--
		}
		if g.GuessesRemaining != 0 {
			return g, GuessContinues{GuessesRemaining: g.GuessesRemaining}
		}
		advance(&g, other)
		return g, TurnAdvanced{NextTurn: other, Reason: AdvanceExhausted}
	}

	advance(&g, other)
	reason := AdvanceOpponent
	if category == domain.CategoryNeutral {
		reason = AdvanceNeutral
	}
	return g, TurnAdvanced{NextTurn: other, Reason: reason}
}

// EndTurn forces the turn over to the other team regardless of remaining
// guesses.
func EndTurn(g domain.Game) (domain.Game, TurnAdvanced) {
	other := g.CurrentTurn.Opponent()
	advance(&g, other)
	return g, TurnAdvanced{NextTurn: other, Reason: AdvanceEnded}
}

func advance(g *domain.Game, next domain.Team) {
	g.CurrentTurn = next
	clearClue(g)
}

func finish(g *domain.Game, winner domain.Team) {
	now := time.Now()
	g.Winner = winner
	g.FinishedAt = &now
	clearClue(g)
}

func clearClue(g *domain.Game) {
	g.ClueWord = ""
	g.ClueCount = 0
	g.GuessesRemaining = 0
}
