package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wordspy/wordspy/internal/infrastructure/validate"
)

type RoomStatus string

const (
	RoomWaiting  RoomStatus = "waiting"
	RoomPlaying  RoomStatus = "playing"
	RoomFinished RoomStatus = "finished"
)

const (
	joinCodeMinLength = 4
	joinCodeMaxLength = 8
)

// Room is a shared space players join by code. Exactly one game (current or
// most recently finished) belongs to a room at a time.
type Room struct {
	ID           string     `bson:"_id" json:"-"`
	Code         string     `bson:"code" json:"code"`
	Status       RoomStatus `bson:"status" json:"status"`
	HostPlayerID string     `bson:"host_player_id" json:"-"`
	CreatedAt    time.Time  `bson:"created_at" json:"-"`
}

type RoomRepository interface {
	Create(ctx context.Context, room *Room) error
	GetByID(ctx context.Context, id string) (*Room, error)
	GetByCode(ctx context.Context, code string) (*Room, error)
	UpdateStatus(ctx context.Context, id string, status RoomStatus) error
	UpdateHost(ctx context.Context, id string, hostPlayerID string) error
	Delete(ctx context.Context, id string) error
}

func NewRoom(rawCode string, hostPlayerID string) (*Room, error) {
	code, err := CleanJoinCode(rawCode)
	if err != nil {
		return nil, err
	}

	return &Room{
		ID:           uuid.NewString(),
		Code:         code,
		Status:       RoomWaiting,
		HostPlayerID: hostPlayerID,
		CreatedAt:    time.Now(),
	}, nil
}

// CleanJoinCode normalizes a human-entered join code. Codes are matched
// case-insensitively, so they are stored uppercased.
func CleanJoinCode(rawCode string) (string, error) {
	validateCode := validate.Compose(
		validate.Required(),
		validate.LengthBetween(joinCodeMinLength, joinCodeMaxLength),
		validate.Alphanumeric(),
	)

	code := strings.ToUpper(strings.TrimSpace(rawCode))
	if err := validateCode(code); err != nil {
		return "", fmt.Errorf("%w: join code %s", ErrInvalidInput, err)
	}

	return code, nil
}
