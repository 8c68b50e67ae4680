package ws

import "encoding/json"

// Action names a client may send. Each action yields exactly one ack.
const (
	ActionRoomCreate         = "room:create"
	ActionRoomJoin           = "room:join"
	ActionRoomLeave          = "room:leave"
	ActionRoomChangeTeam     = "room:changeTeam"
	ActionRoomChangeRole     = "room:changeRole"
	ActionRoomRandomizeTeams = "room:randomizeTeams"
	ActionRoomTransferHost   = "room:transferHost"
	ActionRoomKickPlayer     = "room:kickPlayer"

	ActionGameStart               = "game:start"
	ActionGameGiveClue            = "game:giveClue"
	ActionGameGuessCard           = "game:guessCard"
	ActionGameEndTurn             = "game:endTurn"
	ActionGameMarkCard            = "game:markCard"
	ActionGameReset               = "game:reset"
	ActionGameGetState            = "game:getState"
	ActionGameUpdateTimerSettings = "game:updateTimerSettings"
	ActionGameToggleTimerPause    = "game:toggleTimerPause"
)

// ActionRequest is the inbound envelope: a named action with a payload and a
// client-chosen correlation id echoed back in the ack.
type ActionRequest struct {
	ID      string          `json:"id"`
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

const (
	frameAck   = "ack"
	frameEvent = "event"
)

// Envelope is the outbound frame: either the ack for one action or a
// server-initiated event.
type Envelope struct {
	Type   string `json:"type"`
	ID     string `json:"id,omitempty"`
	Action string `json:"action,omitempty"`
	Event  string `json:"event,omitempty"`
	OK     bool   `json:"ok"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

func NewAck(id, action string, data any) *Envelope {
	return &Envelope{
		Type:   frameAck,
		ID:     id,
		Action: action,
		OK:     true,
		Data:   data,
	}
}

func NewErrorAck(id, action, message string) *Envelope {
	return &Envelope{
		Type:   frameAck,
		ID:     id,
		Action: action,
		OK:     false,
		Error:  message,
	}
}

func NewEvent(event string, data any) *Envelope {
	return &Envelope{
		Type:  frameEvent,
		Event: event,
		OK:    true,
		Data:  data,
	}
}
