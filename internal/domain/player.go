package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wordspy/wordspy/internal/infrastructure/validate"
)

// Player is a human identity that persists across rooms. The internal ID is
// never sent to clients; PublicID is the externally shareable identifier.
type Player struct {
	ID        string    `bson:"_id" json:"-"`
	PublicID  string    `bson:"public_id" json:"id"`
	Nickname  string    `bson:"nickname" json:"nickname"`
	Token     string    `bson:"token" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"-"`
}

type PlayerRepository interface {
	Create(ctx context.Context, player *Player) error
	GetByID(ctx context.Context, id string) (*Player, error)
	GetByPublicID(ctx context.Context, publicID string) (*Player, error)
	GetByToken(ctx context.Context, token string) (*Player, error)
	UpdateNickname(ctx context.Context, id string, nickname string) error
}

func NewPlayer(rawNickname string) (*Player, error) {
	nickname, err := CleanNickname(rawNickname)
	if err != nil {
		return nil, err
	}

	return &Player{
		ID:        uuid.NewString(),
		PublicID:  uuid.NewString(),
		Nickname:  nickname,
		Token:     uuid.NewString(),
		CreatedAt: time.Now(),
	}, nil
}

func CleanNickname(rawNickname string) (string, error) {
	validateNickname := validate.Compose(
		validate.Required(),
		validate.MinLength(2),
		validate.MaxLength(32),
	)

	nickname := strings.TrimSpace(rawNickname)
	if err := validateNickname(nickname); err != nil {
		return "", fmt.Errorf("%w: nickname %s", ErrInvalidInput, err)
	}

	return nickname, nil
}
