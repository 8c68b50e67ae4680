// Package session owns the authoritative per-room game state. Every mutating
// action flows through one Session's mutex, so state transitions are strictly
// serialized per room while different rooms proceed in parallel.
package session

import (
	"sync"
	"time"

	"github.com/wordspy/wordspy/internal/domain"
)

// gameCacheTTL bounds how stale the per-session game lookup may be. Timer
// ticks tolerate slight staleness; mutations invalidate eagerly.
const gameCacheTTL = 1500 * time.Millisecond

// Session is the per-room context: the turn timer, personal card markers and
// a short-lived game cache. Its lifecycle is tied 1:1 to the Room's.
type Session struct {
	mu sync.Mutex

	RoomID string
	Code   string
	Timer  *TurnTimer

	// markers holds each player's personal card markers. Broadcast-only,
	// never persisted.
	markers map[string]map[int]bool

	cachedGame *domain.Game
	cachedAt   time.Time

	active      bool
	currentTurn domain.Team
}

func newSession(roomID, code string, settings TimerSettings) *Session {
	return &Session{
		RoomID:  roomID,
		Code:    code,
		Timer:   NewTurnTimer(settings),
		markers: make(map[string]map[int]bool),
	}
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// SetGameState mirrors the fields the tick loop needs without a repository
// read. Callers must hold the lock.
func (s *Session) SetGameState(turn domain.Team, active bool) {
	s.currentTurn = turn
	s.active = active
}

func (s *Session) CacheGame(g *domain.Game) {
	s.cachedGame = g
	s.cachedAt = time.Now()
}

func (s *Session) CachedGame() *domain.Game {
	if s.cachedGame == nil || time.Since(s.cachedAt) > gameCacheTTL {
		return nil
	}
	return s.cachedGame
}

func (s *Session) InvalidateCache() {
	s.cachedGame = nil
}

// ToggleMarker flips a player's personal marker on a position and reports the
// new state.
func (s *Session) ToggleMarker(playerID string, position int) bool {
	positions, ok := s.markers[playerID]
	if !ok {
		positions = make(map[int]bool)
		s.markers[playerID] = positions
	}

	if positions[position] {
		delete(positions, position)
		return false
	}

	positions[position] = true
	return true
}

func (s *Session) ClearMarkers() {
	s.markers = make(map[string]map[int]bool)
}

func (s *Session) DropPlayerMarkers(playerID string) {
	delete(s.markers, playerID)
}
