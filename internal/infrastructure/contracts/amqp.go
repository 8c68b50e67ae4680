package contracts

// AmqpMessage is the message structure for AMQP.
type AmqpMessage struct {
	RoomCode string `json:"roomCode"`
	Data     []byte `json:"data"`
}

// Routing keys - using consistent event/command patterns
const (
	EventRoomCreated  = "room.created"
	EventRoomDeleted  = "room.deleted"
	EventMemberJoined = "member.joined"
	EventMemberLeft   = "member.left"
	EventMemberKicked = "member.kicked"
	EventHostChanged  = "host.changed"
	EventGameStarted  = "game.started"
	EventGameFinished = "game.finished"
	EventGameReset    = "game.reset"
)
