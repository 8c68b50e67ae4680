// Package memory holds in-process repository implementations backing the
// "memory" storage driver. They mirror the behavior of the MongoDB
// repositories, including sentinel errors and result ordering.
package memory

import (
	"context"
	"sync"

	"github.com/wordspy/wordspy/internal/domain"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	players map[string]domain.Player
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{
		players: make(map[string]domain.Player),
	}
}

func (r *PlayerRepository) Create(ctx context.Context, player *domain.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.players[player.ID] = *player
	return nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, id string) (*domain.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	player, ok := r.players[id]
	if !ok {
		return nil, domain.ErrPlayerNotFound
	}

	return &player, nil
}

func (r *PlayerRepository) GetByPublicID(ctx context.Context, publicID string) (*domain.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, player := range r.players {
		if player.PublicID == publicID {
			p := player
			return &p, nil
		}
	}

	return nil, domain.ErrPlayerNotFound
}

func (r *PlayerRepository) GetByToken(ctx context.Context, token string) (*domain.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, player := range r.players {
		if player.Token == token {
			p := player
			return &p, nil
		}
	}

	return nil, domain.ErrPlayerNotFound
}

func (r *PlayerRepository) UpdateNickname(ctx context.Context, id string, nickname string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	player, ok := r.players[id]
	if !ok {
		return domain.ErrPlayerNotFound
	}

	player.Nickname = nickname
	r.players[id] = player
	return nil
}
