package memory

import (
	"context"
	"sync"
	"time"

	"github.com/wordspy/wordspy/internal/domain"
)

type RoomAuditRepository struct {
	mu   sync.RWMutex
	logs []domain.RoomAuditLog
}

func NewRoomAuditRepository() *RoomAuditRepository {
	return &RoomAuditRepository{}
}

func (r *RoomAuditRepository) Log(ctx context.Context, log *domain.RoomAuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logs = append(r.logs, *log)
	return nil
}

func (r *RoomAuditRepository) GetByRoomID(ctx context.Context, roomID string, limit int) ([]domain.RoomAuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var logs []domain.RoomAuditLog
	for i := len(r.logs) - 1; i >= 0; i-- {
		if r.logs[i].RoomID != roomID {
			continue
		}

		logs = append(logs, r.logs[i])
		if limit > 0 && len(logs) >= limit {
			break
		}
	}

	return logs, nil
}

func (r *RoomAuditRepository) DeleteOlderThan(ctx context.Context, before time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.logs[:0]
	for _, log := range r.logs {
		if !log.Timestamp.Before(before) {
			kept = append(kept, log)
		}
	}
	r.logs = kept

	return nil
}

func (r *RoomAuditRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}
