package repository

import (
	"context"
	"errors"

	"github.com/wordspy/wordspy/internal/domain"
	"github.com/wordspy/wordspy/internal/persistence/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type playerRepository struct {
	db *mongo.Database
}

func NewPlayerRepository(db *mongo.Database) domain.PlayerRepository {
	return &playerRepository{
		db: db,
	}
}

func (r *playerRepository) Create(ctx context.Context, player *domain.Player) error {
	collection := r.db.Collection(db.PlayersCollection)

	_, err := collection.InsertOne(ctx, player)
	return err
}

func (r *playerRepository) GetByID(ctx context.Context, id string) (*domain.Player, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *playerRepository) GetByPublicID(ctx context.Context, publicID string) (*domain.Player, error) {
	return r.findOne(ctx, bson.M{"public_id": publicID})
}

func (r *playerRepository) GetByToken(ctx context.Context, token string) (*domain.Player, error) {
	return r.findOne(ctx, bson.M{"token": token})
}

func (r *playerRepository) UpdateNickname(ctx context.Context, id string, nickname string) error {
	collection := r.db.Collection(db.PlayersCollection)

	result, err := collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"nickname": nickname}},
	)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return domain.ErrPlayerNotFound
	}

	return nil
}

func (r *playerRepository) findOne(ctx context.Context, filter bson.M) (*domain.Player, error) {
	collection := r.db.Collection(db.PlayersCollection)

	var player domain.Player
	if err := collection.FindOne(ctx, filter).Decode(&player); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPlayerNotFound
		}
		return nil, err
	}

	return &player, nil
}
