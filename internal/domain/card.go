package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type CardCategory string

const (
	CategoryRed      CardCategory = "red"
	CategoryBlue     CardCategory = "blue"
	CategoryNeutral  CardCategory = "neutral"
	CategoryAssassin CardCategory = "assassin"
	// CategoryHidden is never stored; it is the masked value sent to viewers
	// who are not allowed to see a card's true category.
	CategoryHidden CardCategory = "hidden"
)

func TeamCategory(team Team) CardCategory {
	if team == TeamRed {
		return CategoryRed
	}
	return CategoryBlue
}

// Card is immutable once created except for the one-way reveal transition.
type Card struct {
	ID         string       `bson:"_id" json:"-"`
	GameID     string       `bson:"game_id" json:"-"`
	Word       string       `bson:"word" json:"word"`
	Position   int          `bson:"position" json:"position"`
	Category   CardCategory `bson:"category" json:"type"`
	Revealed   bool         `bson:"revealed" json:"revealed"`
	RevealedBy string       `bson:"revealed_by,omitempty" json:"-"`
	RevealedAt *time.Time   `bson:"revealed_at,omitempty" json:"-"`
}

type CardRepository interface {
	CreateMany(ctx context.Context, cards []Card) error
	// ListByGame returns cards ordered by board position.
	ListByGame(ctx context.Context, gameID string) ([]Card, error)
	GetByPosition(ctx context.Context, gameID string, position int) (*Card, error)
	Reveal(ctx context.Context, cardID, playerID string, at time.Time) error
	DeleteByGame(ctx context.Context, gameID string) error
}

func NewCard(gameID, word string, position int, category CardCategory) Card {
	return Card{
		ID:       uuid.NewString(),
		GameID:   gameID,
		Word:     word,
		Position: position,
		Category: category,
	}
}
