package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordspy/wordspy/internal/domain"
)

func newTestGame(turn domain.Team) domain.Game {
	g := domain.NewGame("room-1", turn)
	return *g
}

func withClue(g domain.Game, word string, count int) domain.Game {
	g.ClueWord = word
	g.ClueCount = count
	g.GuessesRemaining = StartingGuesses(count)
	return g
}

func TestValidateClue(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateClue("OCEAN", 2))
	assert.NoError(t, ValidateClue("OCEAN", 0))
	assert.NoError(t, ValidateClue("OCEAN", MaxClueCount))

	assert.ErrorIs(t, ValidateClue("", 2), domain.ErrInvalidInput)
	assert.ErrorIs(t, ValidateClue("   ", 2), domain.ErrInvalidInput)
	assert.ErrorIs(t, ValidateClue("OCEAN", -1), domain.ErrInvalidInput)
	assert.ErrorIs(t, ValidateClue("OCEAN", MaxClueCount+1), domain.ErrInvalidInput)
}

func TestStartingGuesses(t *testing.T) {
	t.Parallel()

	assert.Equal(t, domain.GuessesUnlimited, StartingGuesses(0))
	assert.Equal(t, 2, StartingGuesses(1))
	assert.Equal(t, 4, StartingGuesses(3))
}

func TestCanGuess(t *testing.T) {
	t.Parallel()

	g := newTestGame(domain.TeamRed)
	assert.ErrorIs(t, CanGuess(&g), domain.ErrNoActiveClue)

	g = withClue(g, "OCEAN", 2)
	assert.NoError(t, CanGuess(&g))

	g.GuessesRemaining = 0
	g.ClueWord = ""
	assert.ErrorIs(t, CanGuess(&g), domain.ErrNoActiveClue)

	g = withClue(newTestGame(domain.TeamRed), "OCEAN", 1)
	g.Winner = domain.TeamBlue
	assert.ErrorIs(t, CanGuess(&g), domain.ErrGameFinished)
}

func TestResolveGuess(t *testing.T) {
	t.Parallel()

	t.Run("own card decrements guesses and continues", func(t *testing.T) {
		t.Parallel()
		g := withClue(newTestGame(domain.TeamRed), "OCEAN", 2)

		next, outcome := ResolveGuess(g, domain.CategoryRed)

		cont, ok := outcome.(GuessContinues)
		require.True(t, ok)
		assert.Equal(t, 2, cont.GuessesRemaining)
		assert.Equal(t, domain.FirstTeamCards-1, next.RedRemaining)
		assert.Equal(t, domain.TeamRed, next.CurrentTurn)
	})

	t.Run("own card on last guess advances the turn", func(t *testing.T) {
		t.Parallel()
		g := withClue(newTestGame(domain.TeamRed), "OCEAN", 1)
		g.GuessesRemaining = 1

		next, outcome := ResolveGuess(g, domain.CategoryRed)

		adv, ok := outcome.(TurnAdvanced)
		require.True(t, ok)
		assert.Equal(t, domain.TeamBlue, adv.NextTurn)
		assert.Equal(t, AdvanceExhausted, adv.Reason)
		assert.Equal(t, domain.TeamBlue, next.CurrentTurn)
		assert.Empty(t, next.ClueWord)
		assert.Zero(t, next.GuessesRemaining)
	})

	t.Run("unlimited clue never exhausts", func(t *testing.T) {
		t.Parallel()
		g := withClue(newTestGame(domain.TeamRed), "OCEAN", 0)
		require.Equal(t, domain.GuessesUnlimited, g.GuessesRemaining)

		for i := 0; i < 5; i++ {
			var outcome Outcome
			g, outcome = ResolveGuess(g, domain.CategoryRed)
			if g.RedRemaining > 0 {
				cont, ok := outcome.(GuessContinues)
				require.True(t, ok)
				assert.Equal(t, domain.GuessesUnlimited, cont.GuessesRemaining)
			}
		}
	})

	t.Run("neutral card passes the turn", func(t *testing.T) {
		t.Parallel()
		g := withClue(newTestGame(domain.TeamBlue), "OCEAN", 3)

		next, outcome := ResolveGuess(g, domain.CategoryNeutral)

		adv, ok := outcome.(TurnAdvanced)
		require.True(t, ok)
		assert.Equal(t, AdvanceNeutral, adv.Reason)
		assert.Equal(t, domain.TeamRed, next.CurrentTurn)
	})

	t.Run("opponent card passes the turn and scores for them", func(t *testing.T) {
		t.Parallel()
		g := withClue(newTestGame(domain.TeamRed), "OCEAN", 3)

		next, outcome := ResolveGuess(g, domain.CategoryBlue)

		adv, ok := outcome.(TurnAdvanced)
		require.True(t, ok)
		assert.Equal(t, AdvanceOpponent, adv.Reason)
		assert.Equal(t, domain.SecondTeamCards-1, next.BlueRemaining)
	})

	t.Run("assassin ends the game for the other team", func(t *testing.T) {
		t.Parallel()
		g := withClue(newTestGame(domain.TeamRed), "OCEAN", 3)

		next, outcome := ResolveGuess(g, domain.CategoryAssassin)

		won, ok := outcome.(GameWon)
		require.True(t, ok)
		assert.Equal(t, domain.TeamBlue, won.By)
		assert.Equal(t, WinAssassin, won.Reason)
		assert.True(t, next.Finished())
		assert.Empty(t, next.ClueWord)
	})

	t.Run("revealing a team's last card wins for that team", func(t *testing.T) {
		t.Parallel()
		g := withClue(newTestGame(domain.TeamRed), "OCEAN", 3)
		g.RedRemaining = 1

		next, outcome := ResolveGuess(g, domain.CategoryRed)

		won, ok := outcome.(GameWon)
		require.True(t, ok)
		assert.Equal(t, domain.TeamRed, won.By)
		assert.Equal(t, WinAllFound, won.Reason)
		assert.True(t, next.Finished())
	})

	t.Run("revealing the opponent's last card wins for the opponent", func(t *testing.T) {
		t.Parallel()
		g := withClue(newTestGame(domain.TeamRed), "OCEAN", 3)
		g.BlueRemaining = 1

		next, outcome := ResolveGuess(g, domain.CategoryBlue)

		won, ok := outcome.(GameWon)
		require.True(t, ok)
		assert.Equal(t, domain.TeamBlue, won.By)
		assert.Equal(t, WinAllFound, won.Reason)
		assert.Equal(t, domain.TeamBlue, next.Winner)
	})
}

func TestEndTurn(t *testing.T) {
	t.Parallel()

	g := withClue(newTestGame(domain.TeamRed), "OCEAN", 4)

	next, adv := EndTurn(g)

	assert.Equal(t, domain.TeamBlue, adv.NextTurn)
	assert.Equal(t, AdvanceEnded, adv.Reason)
	assert.Equal(t, domain.TeamBlue, next.CurrentTurn)
	assert.Empty(t, next.ClueWord)
	assert.Zero(t, next.GuessesRemaining)
}
