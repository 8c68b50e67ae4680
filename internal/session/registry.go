package session

import (
	"context"
	"sync"
	"time"

	"github.com/wordspy/wordspy/internal/infrastructure/logging"
	"github.com/wordspy/wordspy/internal/infrastructure/metrics"
)

// Registry owns every live Session, keyed by room code, and runs the single
// shared tick loop that drives all turn timers.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	broadcaster Broadcaster
	metrics     *metrics.Metrics
	logger      logging.Logger
	interval    time.Duration
	defaults    TimerSettings
}

func NewRegistry(broadcaster Broadcaster, m *metrics.Metrics, logger logging.Logger, defaults TimerSettings) *Registry {
	return &Registry{
		sessions:    make(map[string]*Session),
		broadcaster: broadcaster,
		metrics:     m,
		logger:      logger,
		interval:    time.Second,
		defaults:    defaults,
	}
}

// Create registers a session for a new room. An existing session for the same
// code is replaced; the room it belonged to no longer exists.
func (r *Registry) Create(roomID, code string) *Session {
	s := newSession(roomID, code, r.defaults)

	r.mu.Lock()
	r.sessions[code] = s
	count := len(r.sessions)
	r.mu.Unlock()

	r.metrics.ActiveRooms.Set(float64(count))
	return s
}

// GetOrCreate returns the room's session, building a fresh one with default
// timer settings when the in-memory state was lost, such as after a restart.
func (r *Registry) GetOrCreate(roomID, code string) *Session {
	r.mu.Lock()
	if s, ok := r.sessions[code]; ok {
		r.mu.Unlock()
		return s
	}

	s := newSession(roomID, code, r.defaults)
	r.sessions[code] = s
	count := len(r.sessions)
	r.mu.Unlock()

	r.metrics.ActiveRooms.Set(float64(count))
	return s
}

func (r *Registry) Get(code string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[code]
	return s, ok
}

func (r *Registry) Delete(code string) {
	r.mu.Lock()
	delete(r.sessions, code)
	count := len(r.sessions)
	r.mu.Unlock()

	r.metrics.ActiveRooms.Set(float64(count))
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Run drives the shared tick loop until the context is cancelled. Each tick
// decrements the current team's clock in every room with timers enabled, an
// active game and at least one connected viewer, and broadcasts the value.
func (r *Registry) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info(logging.Session, logging.TimerTick, "timer tick loop started", nil)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info(logging.Session, logging.TimerTick, "timer tick loop stopped", nil)
			return
		case <-ticker.C:
			r.tickAll()
		}
	}
}

func (r *Registry) tickAll() {
	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	for _, s := range sessions {
		r.tick(s)
	}
}

func (r *Registry) tick(s *Session) {
	s.Lock()
	defer s.Unlock()

	if !s.active || !s.Timer.Enabled() {
		return
	}
	if r.broadcaster.ViewerCount(s.Code) == 0 {
		return
	}

	remaining, ticked := s.Timer.Tick(s.currentTurn)
	if !ticked {
		return
	}

	r.broadcaster.BroadcastEvent(s.Code, EventTimerTick, TimerTickPayload{
		Team:             s.currentTurn,
		SecondsRemaining: remaining,
	})
}
