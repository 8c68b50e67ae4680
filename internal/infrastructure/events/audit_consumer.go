package events

import (
	"context"
	"encoding/json"

	"github.com/rabbitmq/amqp091-go"

	"github.com/wordspy/wordspy/internal/domain"
	"github.com/wordspy/wordspy/internal/infrastructure/contracts"
	"github.com/wordspy/wordspy/internal/infrastructure/logging"
	"github.com/wordspy/wordspy/internal/infrastructure/messaging"
)

// auditConsumer drains the room and game queues into the audit log.
type auditConsumer struct {
	rabbitmq  *messaging.RabbitMQ
	auditRepo domain.RoomAuditRepository
	logger    logging.Logger
}

func NewAuditConsumer(rabbitmq *messaging.RabbitMQ, auditRepo domain.RoomAuditRepository, logger logging.Logger) *auditConsumer {
	return &auditConsumer{
		rabbitmq:  rabbitmq,
		auditRepo: auditRepo,
		logger:    logger,
	}
}

func (c *auditConsumer) Listen() error {
	if err := c.rabbitmq.ConsumeMessages(messaging.RoomsQueue, c.handleRoomEvent); err != nil {
		return err
	}

	return c.rabbitmq.ConsumeMessages(messaging.GamesQueue, c.handleGameEvent)
}

func (c *auditConsumer) handleRoomEvent(ctx context.Context, msg amqp091.Delivery) error {
	var message contracts.AmqpMessage
	if err := json.Unmarshal(msg.Body, &message); err != nil {
		return err
	}

	var payload messaging.RoomEventData
	if err := json.Unmarshal(message.Data, &payload); err != nil {
		return err
	}

	entry := domain.NewRoomAuditLog(payload.RoomCode, roomEventType(payload.EventType), map[string]any{
		"playerId": payload.PlayerID,
	})

	if err := c.auditRepo.Log(ctx, entry); err != nil {
		c.logger.Error(logging.RabbitMQ, logging.ExternalService, "failed to write room audit log", map[logging.ExtraKey]any{
			logging.RoomCode:     payload.RoomCode,
			logging.ErrorMessage: err.Error(),
		})
		return err
	}

	return nil
}

func (c *auditConsumer) handleGameEvent(ctx context.Context, msg amqp091.Delivery) error {
	var message contracts.AmqpMessage
	if err := json.Unmarshal(msg.Body, &message); err != nil {
		return err
	}

	var payload messaging.GameEventData
	if err := json.Unmarshal(message.Data, &payload); err != nil {
		return err
	}

	meta := map[string]any{}
	if payload.Winner != "" {
		meta["winner"] = payload.Winner
	}
	if payload.Reason != "" {
		meta["reason"] = payload.Reason
	}

	entry := domain.NewRoomAuditLog(payload.RoomCode, roomEventType(payload.EventType), meta)

	if err := c.auditRepo.Log(ctx, entry); err != nil {
		c.logger.Error(logging.RabbitMQ, logging.ExternalService, "failed to write game audit log", map[logging.ExtraKey]any{
			logging.RoomCode:     payload.RoomCode,
			logging.ErrorMessage: err.Error(),
		})
		return err
	}

	return nil
}

func roomEventType(routingKey string) domain.RoomEventType {
	switch routingKey {
	case contracts.EventRoomCreated:
		return domain.EventRoomCreated
	case contracts.EventRoomDeleted:
		return domain.EventRoomDeleted
	case contracts.EventMemberJoined:
		return domain.EventMemberJoined
	case contracts.EventMemberLeft:
		return domain.EventMemberLeft
	case contracts.EventMemberKicked:
		return domain.EventMemberKicked
	case contracts.EventHostChanged:
		return domain.EventHostChanged
	case contracts.EventGameStarted:
		return domain.EventGameStarted
	case contracts.EventGameFinished:
		return domain.EventGameFinished
	case contracts.EventGameReset:
		return domain.EventGameReset
	default:
		return domain.RoomEventType(routingKey)
	}
}
