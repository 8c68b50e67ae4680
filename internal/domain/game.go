package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	// BoardSize is the fixed number of cards per game.
	BoardSize = 25
	// FirstTeamCards and SecondTeamCards are the per-team card counts; the
	// team that moves first gets the extra card.
	FirstTeamCards  = 9
	SecondTeamCards = 8
	NeutralCards    = 7

	// GuessesUnlimited is the guesses-remaining sentinel for a zero-count
	// clue: the turn only ends on a wrong reveal or an explicit end-turn.
	GuessesUnlimited = -1
)

// Game is the authoritative per-room game state. Invariants: a present clue
// implies GuessesRemaining > 0 or GuessesUnlimited; a present winner implies
// the clue is cleared and no further actions are accepted.
type Game struct {
	ID               string     `bson:"_id" json:"-"`
	RoomID           string     `bson:"room_id" json:"-"`
	FirstTeam        Team       `bson:"first_team" json:"-"`
	CurrentTurn      Team       `bson:"current_turn" json:"currentTurn"`
	ClueWord         string     `bson:"clue_word" json:"-"`
	ClueCount        int        `bson:"clue_count" json:"-"`
	GuessesRemaining int        `bson:"guesses_remaining" json:"guessesRemaining"`
	RedRemaining     int        `bson:"red_remaining" json:"-"`
	BlueRemaining    int        `bson:"blue_remaining" json:"-"`
	Winner           Team       `bson:"winner" json:"winner,omitempty"`
	StartedAt        time.Time  `bson:"started_at" json:"-"`
	FinishedAt       *time.Time `bson:"finished_at,omitempty" json:"-"`
}

type GameRepository interface {
	Create(ctx context.Context, game *Game) error
	GetByRoomID(ctx context.Context, roomID string) (*Game, error)
	Update(ctx context.Context, game *Game) error
	DeleteByRoomID(ctx context.Context, roomID string) error
}

func NewGame(roomID string, firstTeam Team) *Game {
	redRemaining := SecondTeamCards
	blueRemaining := SecondTeamCards
	if firstTeam == TeamRed {
		redRemaining = FirstTeamCards
	} else {
		blueRemaining = FirstTeamCards
	}

	return &Game{
		ID:            uuid.NewString(),
		RoomID:        roomID,
		FirstTeam:     firstTeam,
		CurrentTurn:   firstTeam,
		RedRemaining:  redRemaining,
		BlueRemaining: blueRemaining,
		StartedAt:     time.Now(),
	}
}

func (g *Game) Finished() bool {
	return g != nil && g.Winner != TeamNone
}

func (g *Game) HasClue() bool {
	return g != nil && g.ClueWord != ""
}

// Remaining is the remaining-to-win counter for a team.
func (g *Game) Remaining(team Team) int {
	if team == TeamRed {
		return g.RedRemaining
	}
	return g.BlueRemaining
}
