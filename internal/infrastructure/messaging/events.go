package messaging

import "time"

const (
	RoomsQueue      = "rooms"
	GamesQueue      = "games"
	DeadLetterQueue = "dead_letter_queue"
)

type RoomEventData struct {
	EventType string    `json:"eventType"`
	RoomCode  string    `json:"roomCode"`
	PlayerID  string    `json:"playerId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type GameEventData struct {
	EventType string    `json:"eventType"`
	RoomCode  string    `json:"roomCode"`
	Winner    string    `json:"winner,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
