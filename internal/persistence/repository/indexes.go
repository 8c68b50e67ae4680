package repository

import (
	"context"
	"fmt"

	"github.com/wordspy/wordspy/internal/persistence/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes every collection relies on. Run once at
// startup; index creation is idempotent.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	models := map[string][]mongo.IndexModel{
		db.PlayersCollection: {
			{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "public_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		db.RoomsCollection: {
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		db.MembershipsCollection: {
			{
				Keys:    bson.D{{Key: "room_id", Value: 1}, {Key: "player_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "joined_at", Value: 1}}},
		},
		db.GamesCollection: {
			{Keys: bson.D{{Key: "room_id", Value: 1}}},
		},
		db.CardsCollection: {
			{
				Keys:    bson.D{{Key: "game_id", Value: 1}, {Key: "position", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		db.GameLogsCollection: {
			{Keys: bson.D{{Key: "game_id", Value: 1}, {Key: "created_at", Value: 1}}},
		},
	}

	for collection, indexes := range models {
		if _, err := database.Collection(collection).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", collection, err)
		}
	}

	return nil
}
