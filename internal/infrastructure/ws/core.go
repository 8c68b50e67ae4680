package ws

import (
	"context"
	"encoding/json"

	"github.com/wordspy/wordspy/internal/infrastructure/logging"
)

// ActionHandler dispatches an inbound action to the game layer and returns
// the ack payload. HandleDisconnect fires once when a connection drops, after
// the client has been removed from its room.
type ActionHandler interface {
	Handle(ctx context.Context, client *Client, action string, payload json.RawMessage) (any, error)
	HandleDisconnect(ctx context.Context, client *Client, roomCode string)
}

// Core is the websocket hub: it owns the room manager and fans events out to
// clients. It satisfies the session layer's Broadcaster contract. Event
// delivery is synchronous against the room manager, so a send enqueued before
// a detach reaches the departing client.
type Core struct {
	roomMgr    *RoomManager
	register   chan *Client
	unregister chan *Client
	handler    ActionHandler
	logger     logging.Logger
}

func NewCore(logger logging.Logger) *Core {
	return &Core{
		roomMgr:    NewRoomManager(),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// SetHandler wires the action dispatcher. Must be called before Run; the
// handler itself needs the core as its broadcaster, so construction is
// two-phase.
func (c *Core) SetHandler(handler ActionHandler) {
	c.handler = handler
}

func (c *Core) Run() {
	for {
		select {
		case cl := <-c.register:
			c.logger.Info(logging.WebSocket, logging.ExternalService, "client connected", map[logging.ExtraKey]any{
				logging.PlayerId: cl.PlayerID,
			})

		case cl := <-c.unregister:
			roomCode, inRoom := c.roomMgr.RoomOf(cl)
			c.roomMgr.Detach(cl)
			cl.shutdown()

			c.logger.Info(logging.WebSocket, logging.ExternalService, "client disconnected", map[logging.ExtraKey]any{
				logging.PlayerId: cl.PlayerID,
			})

			if inRoom && c.handler != nil {
				go c.handler.HandleDisconnect(context.Background(), cl, roomCode)
			}
		}
	}
}

func (c *Core) Register() chan<- *Client {
	return c.register
}

func (c *Core) Unregister() chan<- *Client {
	return c.unregister
}

// Attach puts a client into a room; Detach removes it. Called synchronously
// from the action handler so membership changes are visible to the very next
// broadcast.
func (c *Core) Attach(cl *Client, roomCode string) {
	c.roomMgr.Attach(cl, roomCode)
}

func (c *Core) Detach(cl *Client) {
	c.roomMgr.Detach(cl)
}

func (c *Core) RoomOf(cl *Client) (string, bool) {
	return c.roomMgr.RoomOf(cl)
}

// BroadcastEvent implements the session Broadcaster contract.
func (c *Core) BroadcastEvent(roomCode, event string, payload any) {
	env := NewEvent(event, payload)
	for _, cl := range c.roomMgr.ClientsIn(roomCode) {
		cl.enqueue(env)
	}
}

func (c *Core) SendEvent(roomCode, playerID, event string, payload any) {
	env := NewEvent(event, payload)
	for _, cl := range c.roomMgr.ClientsIn(roomCode) {
		if cl.PlayerID == playerID {
			cl.enqueue(env)
		}
	}
}

func (c *Core) Viewers(roomCode string) []string {
	return c.roomMgr.Viewers(roomCode)
}

func (c *Core) ViewerCount(roomCode string) int {
	return c.roomMgr.ViewerCount(roomCode)
}

func (c *Core) DetachPlayer(roomCode, playerID string) {
	_ = c.roomMgr.DetachPlayer(roomCode, playerID)
}
