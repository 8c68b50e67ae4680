package session

// Broadcaster is the outbound side of the realtime channel. The websocket
// core implements it; sessions never talk to connections directly.
//
// Player identifiers passed here are internal ids; the channel layer knows
// which connections belong to which authenticated player.
type Broadcaster interface {
	// BroadcastEvent delivers an event to every connection in the room.
	BroadcastEvent(roomCode, event string, payload any)
	// SendEvent delivers an event to every connection of one player.
	SendEvent(roomCode, playerID, event string, payload any)
	// Viewers lists the player ids currently connected to the room.
	Viewers(roomCode string) []string
	// ViewerCount reports how many connections the room has.
	ViewerCount(roomCode string) int
	// DetachPlayer force-removes a player's connections from the room.
	DetachPlayer(roomCode, playerID string)
}
