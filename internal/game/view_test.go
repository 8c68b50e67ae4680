package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordspy/wordspy/internal/domain"
)

func viewTestCards(gameID string) []domain.Card {
	cards := []domain.Card{
		domain.NewCard(gameID, "OCEAN", 0, domain.CategoryRed),
		domain.NewCard(gameID, "TOWER", 1, domain.CategoryBlue),
		domain.NewCard(gameID, "PEARL", 2, domain.CategoryNeutral),
		domain.NewCard(gameID, "WOLF", 3, domain.CategoryAssassin),
	}
	cards[1].Revealed = true
	return cards
}

func TestViewFor(t *testing.T) {
	t.Parallel()

	g := newTestGame(domain.TeamRed)
	cards := viewTestCards(g.ID)

	t.Run("operative sees only revealed categories", func(t *testing.T) {
		t.Parallel()
		viewer := &domain.Membership{Team: domain.TeamRed, Role: domain.RoleOperative}

		view := ViewFor(&g, cards, nil, nil, viewer)

		require.Len(t, view.Cards, 4)
		assert.Equal(t, domain.CategoryHidden, view.Cards[0].Type)
		assert.Equal(t, domain.CategoryBlue, view.Cards[1].Type)
		assert.True(t, view.Cards[1].Revealed)
		assert.Equal(t, domain.CategoryHidden, view.Cards[2].Type)
		assert.Equal(t, domain.CategoryHidden, view.Cards[3].Type)
	})

	t.Run("spymaster sees every category", func(t *testing.T) {
		t.Parallel()
		viewer := &domain.Membership{Team: domain.TeamBlue, Role: domain.RoleSpymaster}

		view := ViewFor(&g, cards, nil, nil, viewer)

		assert.Equal(t, domain.CategoryRed, view.Cards[0].Type)
		assert.Equal(t, domain.CategoryBlue, view.Cards[1].Type)
		assert.Equal(t, domain.CategoryNeutral, view.Cards[2].Type)
		assert.Equal(t, domain.CategoryAssassin, view.Cards[3].Type)
	})

	t.Run("everyone sees everything after the game ends", func(t *testing.T) {
		t.Parallel()
		finished := g
		finished.Winner = domain.TeamRed

		viewer := &domain.Membership{Team: domain.TeamBlue, Role: domain.RoleOperative}
		view := ViewFor(&finished, cards, nil, nil, viewer)

		assert.Equal(t, domain.RoomFinished, view.Status)
		assert.Equal(t, domain.TeamRed, view.Winner)
		assert.Equal(t, domain.CategoryAssassin, view.Cards[3].Type)
	})

	t.Run("teamless viewer is masked like an operative", func(t *testing.T) {
		t.Parallel()
		view := ViewFor(&g, cards, nil, nil, &domain.Membership{})

		assert.Equal(t, domain.CategoryHidden, view.Cards[0].Type)
	})

	t.Run("clue and scores are projected", func(t *testing.T) {
		t.Parallel()
		clued := withClue(g, "SEA", 2)

		view := ViewFor(&clued, cards, nil, nil, &domain.Membership{})

		require.NotNil(t, view.Clue)
		assert.Equal(t, "SEA", view.Clue.Word)
		assert.Equal(t, 2, view.Clue.Count)
		assert.Equal(t, 3, view.GuessesRemaining)
		assert.Equal(t, domain.FirstTeamCards, view.Scores.Red)
		assert.Equal(t, domain.SecondTeamCards, view.Scores.Blue)
		assert.Equal(t, domain.RoomPlaying, view.Status)
	})
}
