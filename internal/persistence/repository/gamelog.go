package repository

import (
	"context"

	"github.com/wordspy/wordspy/internal/domain"
	"github.com/wordspy/wordspy/internal/persistence/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type gameLogRepository struct {
	db *mongo.Database
}

func NewGameLogRepository(db *mongo.Database) domain.GameLogRepository {
	return &gameLogRepository{
		db: db,
	}
}

func (r *gameLogRepository) Append(ctx context.Context, entry *domain.GameLogEntry) error {
	collection := r.db.Collection(db.GameLogsCollection)

	_, err := collection.InsertOne(ctx, entry)
	return err
}

func (r *gameLogRepository) ListByGame(ctx context.Context, gameID string) ([]domain.GameLogEntry, error) {
	collection := r.db.Collection(db.GameLogsCollection)

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := collection.Find(ctx, bson.M{"game_id": gameID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []domain.GameLogEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *gameLogRepository) DeleteByGame(ctx context.Context, gameID string) error {
	collection := r.db.Collection(db.GameLogsCollection)

	_, err := collection.DeleteMany(ctx, bson.M{"game_id": gameID})
	return err
}
