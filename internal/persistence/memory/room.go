package memory

import (
	"context"
	"sync"

	"github.com/wordspy/wordspy/internal/domain"
)

type RoomRepository struct {
	mu    sync.RWMutex
	rooms map[string]domain.Room
}

func NewRoomRepository() *RoomRepository {
	return &RoomRepository{
		rooms: make(map[string]domain.Room),
	}
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.rooms {
		if existing.Code == room.Code {
			return domain.ErrRoomAlreadyExists
		}
	}

	r.rooms[room.ID] = *room
	return nil
}

func (r *RoomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}

	return &room, nil
}

func (r *RoomRepository) GetByCode(ctx context.Context, code string) (*domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, room := range r.rooms {
		if room.Code == code {
			rm := room
			return &rm, nil
		}
	}

	return nil, domain.ErrRoomNotFound
}

func (r *RoomRepository) UpdateStatus(ctx context.Context, id string, status domain.RoomStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[id]
	if !ok {
		return domain.ErrRoomNotFound
	}

	room.Status = status
	r.rooms[id] = room
	return nil
}

func (r *RoomRepository) UpdateHost(ctx context.Context, id string, hostPlayerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[id]
	if !ok {
		return domain.ErrRoomNotFound
	}

	room.HostPlayerID = hostPlayerID
	r.rooms[id] = room
	return nil
}

func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[id]; !ok {
		return domain.ErrRoomNotFound
	}

	delete(r.rooms, id)
	return nil
}
