package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wordspy/wordspy/internal/domain"
)

type CardRepository struct {
	mu    sync.RWMutex
	cards map[string]domain.Card
}

func NewCardRepository() *CardRepository {
	return &CardRepository{
		cards: make(map[string]domain.Card),
	}
}

func (r *CardRepository) CreateMany(ctx context.Context, cards []domain.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, card := range cards {
		r.cards[card.ID] = card
	}

	return nil
}

func (r *CardRepository) ListByGame(ctx context.Context, gameID string) ([]domain.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var cards []domain.Card
	for _, card := range r.cards {
		if card.GameID == gameID {
			cards = append(cards, card)
		}
	}

	sort.Slice(cards, func(i, j int) bool {
		return cards[i].Position < cards[j].Position
	})

	return cards, nil
}

func (r *CardRepository) GetByPosition(ctx context.Context, gameID string, position int) (*domain.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, card := range r.cards {
		if card.GameID == gameID && card.Position == position {
			c := card
			return &c, nil
		}
	}

	return nil, domain.ErrCardNotFound
}

func (r *CardRepository) Reveal(ctx context.Context, cardID, playerID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	card, ok := r.cards[cardID]
	if !ok {
		return domain.ErrCardNotFound
	}

	if card.Revealed {
		return domain.ErrCardRevealed
	}

	card.Revealed = true
	card.RevealedBy = playerID
	card.RevealedAt = &at
	r.cards[cardID] = card

	return nil
}

func (r *CardRepository) DeleteByGame(ctx context.Context, gameID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, card := range r.cards {
		if card.GameID == gameID {
			delete(r.cards, id)
		}
	}

	return nil
}
