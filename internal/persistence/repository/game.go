package repository

import (
	"context"
	"errors"

	"github.com/wordspy/wordspy/internal/domain"
	"github.com/wordspy/wordspy/internal/persistence/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type gameRepository struct {
	db *mongo.Database
}

func NewGameRepository(db *mongo.Database) domain.GameRepository {
	return &gameRepository{
		db: db,
	}
}

func (r *gameRepository) Create(ctx context.Context, game *domain.Game) error {
	collection := r.db.Collection(db.GamesCollection)

	_, err := collection.InsertOne(ctx, game)
	return err
}

func (r *gameRepository) GetByRoomID(ctx context.Context, roomID string) (*domain.Game, error) {
	collection := r.db.Collection(db.GamesCollection)

	var game domain.Game
	if err := collection.FindOne(ctx, bson.M{"room_id": roomID}).Decode(&game); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrGameNotFound
		}
		return nil, err
	}

	return &game, nil
}

func (r *gameRepository) Update(ctx context.Context, game *domain.Game) error {
	collection := r.db.Collection(db.GamesCollection)

	result, err := collection.ReplaceOne(ctx, bson.M{"_id": game.ID}, game)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return domain.ErrGameNotFound
	}

	return nil
}

func (r *gameRepository) DeleteByRoomID(ctx context.Context, roomID string) error {
	collection := r.db.Collection(db.GamesCollection)

	_, err := collection.DeleteMany(ctx, bson.M{"room_id": roomID})
	return err
}
