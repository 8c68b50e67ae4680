package memory

import (
	"context"
	"sync"

	"github.com/wordspy/wordspy/internal/domain"
)

type GameRepository struct {
	mu    sync.RWMutex
	games map[string]domain.Game
}

func NewGameRepository() *GameRepository {
	return &GameRepository{
		games: make(map[string]domain.Game),
	}
}

func (r *GameRepository) Create(ctx context.Context, game *domain.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.games[game.ID] = *game
	return nil
}

func (r *GameRepository) GetByRoomID(ctx context.Context, roomID string) (*domain.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, game := range r.games {
		if game.RoomID == roomID {
			g := game
			return &g, nil
		}
	}

	return nil, domain.ErrGameNotFound
}

func (r *GameRepository) Update(ctx context.Context, game *domain.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.games[game.ID]; !ok {
		return domain.ErrGameNotFound
	}

	r.games[game.ID] = *game
	return nil
}

func (r *GameRepository) DeleteByRoomID(ctx context.Context, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, game := range r.games {
		if game.RoomID == roomID {
			delete(r.games, id)
		}
	}

	return nil
}
