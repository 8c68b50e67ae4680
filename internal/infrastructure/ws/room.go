package ws

import "sync"

// RoomManager tracks which clients sit in which room. A client is in at most
// one room; a player may hold several connections in the same room.
type RoomManager struct {
	mu          sync.RWMutex
	rooms       map[string]map[*Client]struct{}
	clientRooms map[*Client]string
}

func NewRoomManager() *RoomManager {
	return &RoomManager{
		rooms:       make(map[string]map[*Client]struct{}),
		clientRooms: make(map[*Client]string),
	}
}

// Attach moves the client into a room, detaching it from any previous one.
func (rm *RoomManager) Attach(c *Client, roomCode string) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	rm.detachLocked(c)

	clients, ok := rm.rooms[roomCode]
	if !ok {
		clients = make(map[*Client]struct{})
		rm.rooms[roomCode] = clients
	}
	clients[c] = struct{}{}
	rm.clientRooms[c] = roomCode
}

func (rm *RoomManager) Detach(c *Client) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	rm.detachLocked(c)
}

func (rm *RoomManager) detachLocked(c *Client) {
	roomCode, ok := rm.clientRooms[c]
	if !ok {
		return
	}

	delete(rm.clientRooms, c)
	if clients, ok := rm.rooms[roomCode]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(rm.rooms, roomCode)
		}
	}
}

// DetachPlayer removes every connection of one player from the room and
// returns the affected clients.
func (rm *RoomManager) DetachPlayer(roomCode, playerID string) []*Client {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	var detached []*Client
	for c := range rm.rooms[roomCode] {
		if c.PlayerID == playerID {
			detached = append(detached, c)
		}
	}

	for _, c := range detached {
		rm.detachLocked(c)
	}

	return detached
}

// RoomOf reports which room the client currently sits in.
func (rm *RoomManager) RoomOf(c *Client) (string, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	roomCode, ok := rm.clientRooms[c]
	return roomCode, ok
}

func (rm *RoomManager) ClientsIn(roomCode string) []*Client {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	clients := make([]*Client, 0, len(rm.rooms[roomCode]))
	for c := range rm.rooms[roomCode] {
		clients = append(clients, c)
	}

	return clients
}

// Viewers lists the distinct player ids connected to the room.
func (rm *RoomManager) Viewers(roomCode string) []string {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	seen := make(map[string]struct{})
	var viewers []string
	for c := range rm.rooms[roomCode] {
		if _, ok := seen[c.PlayerID]; ok {
			continue
		}
		seen[c.PlayerID] = struct{}{}
		viewers = append(viewers, c.PlayerID)
	}

	return viewers
}

func (rm *RoomManager) ViewerCount(roomCode string) int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	return len(rm.rooms[roomCode])
}
