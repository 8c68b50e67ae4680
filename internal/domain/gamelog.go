package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type LogType string

const (
	LogSystem LogType = "system"
	LogClue   LogType = "clue"
	LogGuess  LogType = "guess"
	LogTurn   LogType = "turn"
)

// GameLogEntry is an append-only narrative record, replayed to reconnecting
// clients in insertion order.
type GameLogEntry struct {
	ID        string    `bson:"_id" json:"-"`
	GameID    string    `bson:"game_id" json:"-"`
	Type      LogType   `bson:"type" json:"type"`
	Team      Team      `bson:"team,omitempty" json:"team,omitempty"`
	Message   string    `bson:"message" json:"message"`
	CreatedAt time.Time `bson:"created_at" json:"timestamp"`
}

type GameLogRepository interface {
	Append(ctx context.Context, entry *GameLogEntry) error
	// ListByGame returns entries oldest first.
	ListByGame(ctx context.Context, gameID string) ([]GameLogEntry, error)
	DeleteByGame(ctx context.Context, gameID string) error
}

func newLogEntry(gameID string, typ LogType, team Team, message string) *GameLogEntry {
	return &GameLogEntry{
		ID:        uuid.NewString(),
		GameID:    gameID,
		Type:      typ,
		Team:      team,
		Message:   message,
		CreatedAt: time.Now(),
	}
}

func NewSystemLog(gameID, message string) *GameLogEntry {
	return newLogEntry(gameID, LogSystem, TeamNone, message)
}

func NewClueLog(gameID string, team Team, word string, count int) *GameLogEntry {
	return newLogEntry(gameID, LogClue, team, fmt.Sprintf("Clue: %s (%d)", word, count))
}

func NewGuessLog(gameID string, team Team, nickname, word string, category CardCategory) *GameLogEntry {
	return newLogEntry(gameID, LogGuess, team, fmt.Sprintf("%s revealed %s (%s)", nickname, word, category))
}

func NewTurnLog(gameID string, team Team) *GameLogEntry {
	return newLogEntry(gameID, LogTurn, team, fmt.Sprintf("It is the %s team's turn", team))
}
