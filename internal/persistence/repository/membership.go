package repository

import (
	"context"
	"errors"

	"github.com/wordspy/wordspy/internal/domain"
	"github.com/wordspy/wordspy/internal/persistence/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type membershipRepository struct {
	db *mongo.Database
}

func NewMembershipRepository(db *mongo.Database) domain.MembershipRepository {
	return &membershipRepository{
		db: db,
	}
}

func (r *membershipRepository) Add(ctx context.Context, m *domain.Membership) error {
	collection := r.db.Collection(db.MembershipsCollection)

	_, err := collection.InsertOne(ctx, m)
	return err
}

func (r *membershipRepository) Get(ctx context.Context, roomID, playerID string) (*domain.Membership, error) {
	collection := r.db.Collection(db.MembershipsCollection)

	filter := bson.M{"room_id": roomID, "player_id": playerID}

	var m domain.Membership
	if err := collection.FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}

	return &m, nil
}

func (r *membershipRepository) ListByRoom(ctx context.Context, roomID string) ([]domain.Membership, error) {
	collection := r.db.Collection(db.MembershipsCollection)

	opts := options.Find().SetSort(bson.D{{Key: "joined_at", Value: 1}})

	cursor, err := collection.Find(ctx, bson.M{"room_id": roomID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var members []domain.Membership
	if err := cursor.All(ctx, &members); err != nil {
		return nil, err
	}

	return members, nil
}

func (r *membershipRepository) SetTeamRole(ctx context.Context, roomID, playerID string, team domain.Team, role domain.Role) error {
	collection := r.db.Collection(db.MembershipsCollection)

	result, err := collection.UpdateOne(ctx,
		bson.M{"room_id": roomID, "player_id": playerID},
		bson.M{"$set": bson.M{"team": team, "role": role}},
	)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return domain.ErrMemberNotFound
	}

	return nil
}

func (r *membershipRepository) ClearTeamsAndRoles(ctx context.Context, roomID string) error {
	collection := r.db.Collection(db.MembershipsCollection)

	_, err := collection.UpdateMany(ctx,
		bson.M{"room_id": roomID},
		bson.M{"$set": bson.M{"team": domain.TeamNone, "role": domain.RoleNone}},
	)
	return err
}

func (r *membershipRepository) Remove(ctx context.Context, roomID, playerID string) error {
	collection := r.db.Collection(db.MembershipsCollection)

	result, err := collection.DeleteOne(ctx, bson.M{"room_id": roomID, "player_id": playerID})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return domain.ErrMemberNotFound
	}

	return nil
}

func (r *membershipRepository) RemoveByRoom(ctx context.Context, roomID string) error {
	collection := r.db.Collection(db.MembershipsCollection)

	_, err := collection.DeleteMany(ctx, bson.M{"room_id": roomID})
	return err
}
