package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/wordspy/wordspy/internal/infrastructure/contracts"
	"github.com/wordspy/wordspy/internal/infrastructure/messaging"
)

// Publisher emits room and game lifecycle events. Implementations must be
// safe for concurrent use.
type Publisher interface {
	PublishRoomEvent(ctx context.Context, eventType, roomCode, playerID string) error
	PublishGameEvent(ctx context.Context, eventType, roomCode, winner, reason string) error
}

type GamePublisher struct {
	rabbitmq *messaging.RabbitMQ
}

func NewGamePublisher(rabbitmq *messaging.RabbitMQ) *GamePublisher {
	return &GamePublisher{
		rabbitmq: rabbitmq,
	}
}

func (p *GamePublisher) PublishRoomEvent(ctx context.Context, eventType, roomCode, playerID string) error {
	payload := messaging.RoomEventData{
		EventType: eventType,
		RoomCode:  roomCode,
		PlayerID:  playerID,
		Timestamp: time.Now().UTC(),
	}

	eventJSON, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.rabbitmq.PublishMessage(ctx, eventType, contracts.AmqpMessage{
		RoomCode: roomCode,
		Data:     eventJSON,
	})
}

func (p *GamePublisher) PublishGameEvent(ctx context.Context, eventType, roomCode, winner, reason string) error {
	payload := messaging.GameEventData{
		EventType: eventType,
		RoomCode:  roomCode,
		Winner:    winner,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	}

	eventJSON, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.rabbitmq.PublishMessage(ctx, eventType, contracts.AmqpMessage{
		RoomCode: roomCode,
		Data:     eventJSON,
	})
}

// NopPublisher drops every event. Used when RabbitMQ is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishRoomEvent(ctx context.Context, eventType, roomCode, playerID string) error {
	return nil
}

func (NopPublisher) PublishGameEvent(ctx context.Context, eventType, roomCode, winner, reason string) error {
	return nil
}
