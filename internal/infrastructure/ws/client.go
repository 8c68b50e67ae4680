package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/wordspy/wordspy/internal/infrastructure/logging"
)

type Client struct {
	conn    *connWrapper
	Message chan *Envelope
	ID      string
	// PlayerID is the internal id of the authenticated player.
	PlayerID string

	done     chan struct{}
	downOnce sync.Once
}

func NewClient(conn *websocket.Conn, id, playerID string) *Client {
	return &Client{
		conn:     newConnWrapper(conn),
		Message:  make(chan *Envelope, 64), // buffered to avoid dead-locks on slow clients
		ID:       id,
		PlayerID: playerID,
		done:     make(chan struct{}),
	}
}

// enqueue queues an outbound frame without blocking; a slow client loses the
// frame rather than stalling the sender.
func (c *Client) enqueue(env *Envelope) {
	select {
	case c.Message <- env:
	default:
	}
}

func (c *Client) shutdown() {
	c.downOnce.Do(func() {
		close(c.done)
	})
}

// ReadMessage pumps inbound actions through the core's handler until the
// connection drops. Each action gets exactly one ack. Runs as a goroutine per
// connection.
func (c *Client) ReadMessage(core *Core) {
	defer func() {
		core.Unregister() <- c
		_ = c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				core.logger.Debug(logging.WebSocket, logging.ExternalService, "ws read error", map[logging.ExtraKey]any{
					logging.PlayerId:     c.PlayerID,
					logging.ErrorMessage: err.Error(),
				})
			}
			break
		}

		var req ActionRequest
		if err := json.Unmarshal(raw, &req); err != nil || req.Action == "" {
			c.enqueue(NewErrorAck(req.ID, req.Action, "malformed action frame"))
			continue
		}

		result, err := core.handler.Handle(context.Background(), c, req.Action, req.Payload)
		if err != nil {
			c.enqueue(NewErrorAck(req.ID, req.Action, err.Error()))
			continue
		}

		c.enqueue(NewAck(req.ID, req.Action, result))
	}
}

// WriteMessage drains the outbound queue to the socket. Runs as a goroutine
// per connection.
func (c *Client) WriteMessage(core *Core) {
	defer func() {
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case msg := <-c.Message:
			if err := c.conn.WriteJSON(msg); err != nil {
				core.logger.Debug(logging.WebSocket, logging.ExternalService, "ws write error", map[logging.ExtraKey]any{
					logging.PlayerId:     c.PlayerID,
					logging.ErrorMessage: err.Error(),
				})
				return
			}
		}
	}
}
