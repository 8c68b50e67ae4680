package game

import (
	"github.com/wordspy/wordspy/internal/domain"
)

// PlayerSummary is the membership info exposed to clients. ID is always the
// player's public id.
type PlayerSummary struct {
	ID       string      `json:"id"`
	Nickname string      `json:"nickname"`
	Team     domain.Team `json:"team,omitempty"`
	Role     domain.Role `json:"role,omitempty"`
}

type ClueView struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type CardView struct {
	Word     string              `json:"word"`
	Type     domain.CardCategory `json:"type"`
	Revealed bool                `json:"revealed"`
	Position int                 `json:"position"`
}

// Scores carries the remaining-to-win counters, counting down to zero. Raw
// revealed/total counts are never exposed; they would leak category counts.
type Scores struct {
	Red  int `json:"red"`
	Blue int `json:"blue"`
}

type LogView struct {
	Type      domain.LogType `json:"type"`
	Team      domain.Team    `json:"team,omitempty"`
	Message   string         `json:"message"`
	Timestamp int64          `json:"timestamp"`
}

// GameView is one viewer's projection of the authoritative state.
type GameView struct {
	Status           domain.RoomStatus `json:"status"`
	CurrentTurn      domain.Team       `json:"currentTurn"`
	Clue             *ClueView         `json:"clue"`
	GuessesRemaining int               `json:"guessesRemaining"`
	Scores           Scores            `json:"scores"`
	Winner           domain.Team       `json:"winner,omitempty"`
	Cards            []CardView        `json:"cards"`
	Players          []PlayerSummary   `json:"players"`
	Log              []LogView         `json:"log,omitempty"`
}

// ViewFor masks the game for one viewer. A card's true category is exposed
// iff the viewer is a spymaster, the card is revealed, or the game is over;
// everything else is reported as hidden.
func ViewFor(
	g *domain.Game,
	cards []domain.Card,
	players []PlayerSummary,
	log []domain.GameLogEntry,
	viewer *domain.Membership,
) GameView {
	seeAll := viewer.IsSpymaster() || g.Finished()

	cardViews := make([]CardView, 0, len(cards))
	for _, card := range cards {
		category := card.Category
		if !seeAll && !card.Revealed {
			category = domain.CategoryHidden
		}
		cardViews = append(cardViews, CardView{
			Word:     card.Word,
			Type:     category,
			Revealed: card.Revealed,
			Position: card.Position,
		})
	}

	status := domain.RoomPlaying
	if g.Finished() {
		status = domain.RoomFinished
	}

	var clue *ClueView
	if g.HasClue() {
		clue = &ClueView{Word: g.ClueWord, Count: g.ClueCount}
	}

	logViews := make([]LogView, 0, len(log))
	for _, entry := range log {
		logViews = append(logViews, LogView{
			Type:      entry.Type,
			Team:      entry.Team,
			Message:   entry.Message,
			Timestamp: entry.CreatedAt.UnixMilli(),
		})
	}

	return GameView{
		Status:           status,
		CurrentTurn:      g.CurrentTurn,
		Clue:             clue,
		GuessesRemaining: g.GuessesRemaining,
		Scores:           Scores{Red: g.RedRemaining, Blue: g.BlueRemaining},
		Winner:           g.Winner,
		Cards:            cardViews,
		Players:          players,
		Log:              logViews,
	}
}
