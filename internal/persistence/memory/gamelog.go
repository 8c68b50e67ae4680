package memory

import (
	"context"
	"sync"

	"github.com/wordspy/wordspy/internal/domain"
)

type GameLogRepository struct {
	mu      sync.RWMutex
	entries []domain.GameLogEntry
}

func NewGameLogRepository() *GameLogRepository {
	return &GameLogRepository{}
}

func (r *GameLogRepository) Append(ctx context.Context, entry *domain.GameLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, *entry)
	return nil
}

func (r *GameLogRepository) ListByGame(ctx context.Context, gameID string) ([]domain.GameLogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []domain.GameLogEntry
	for _, entry := range r.entries {
		if entry.GameID == gameID {
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

func (r *GameLogRepository) DeleteByGame(ctx context.Context, gameID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.entries[:0]
	for _, entry := range r.entries {
		if entry.GameID != gameID {
			kept = append(kept, entry)
		}
	}
	r.entries = kept

	return nil
}
