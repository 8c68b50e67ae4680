package repository

import (
	"context"
	"errors"

	"github.com/wordspy/wordspy/internal/domain"
	"github.com/wordspy/wordspy/internal/persistence/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type roomRepository struct {
	db *mongo.Database
}

func NewRoomRepository(db *mongo.Database) domain.RoomRepository {
	return &roomRepository{
		db: db,
	}
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	collection := r.db.Collection(db.RoomsCollection)

	_, err := collection.InsertOne(ctx, room)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrRoomAlreadyExists
	}
	return err
}

func (r *roomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *roomRepository) GetByCode(ctx context.Context, code string) (*domain.Room, error) {
	return r.findOne(ctx, bson.M{"code": code})
}

func (r *roomRepository) UpdateStatus(ctx context.Context, id string, status domain.RoomStatus) error {
	return r.updateOne(ctx, id, bson.M{"status": status})
}

func (r *roomRepository) UpdateHost(ctx context.Context, id string, hostPlayerID string) error {
	return r.updateOne(ctx, id, bson.M{"host_player_id": hostPlayerID})
}

func (r *roomRepository) Delete(ctx context.Context, id string) error {
	collection := r.db.Collection(db.RoomsCollection)

	result, err := collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return domain.ErrRoomNotFound
	}

	return nil
}

func (r *roomRepository) updateOne(ctx context.Context, id string, set bson.M) error {
	collection := r.db.Collection(db.RoomsCollection)

	result, err := collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return domain.ErrRoomNotFound
	}

	return nil
}

func (r *roomRepository) findOne(ctx context.Context, filter bson.M) (*domain.Room, error) {
	collection := r.db.Collection(db.RoomsCollection)

	var room domain.Room
	if err := collection.FindOne(ctx, filter).Decode(&room); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}

	return &room, nil
}
