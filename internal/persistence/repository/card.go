package repository

import (
	"context"
	"errors"
	"time"

	"github.com/wordspy/wordspy/internal/domain"
	"github.com/wordspy/wordspy/internal/persistence/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type cardRepository struct {
	db *mongo.Database
}

func NewCardRepository(db *mongo.Database) domain.CardRepository {
	return &cardRepository{
		db: db,
	}
}

func (r *cardRepository) CreateMany(ctx context.Context, cards []domain.Card) error {
	collection := r.db.Collection(db.CardsCollection)

	docs := make([]any, 0, len(cards))
	for _, card := range cards {
		docs = append(docs, card)
	}

	_, err := collection.InsertMany(ctx, docs)
	return err
}

func (r *cardRepository) ListByGame(ctx context.Context, gameID string) ([]domain.Card, error) {
	collection := r.db.Collection(db.CardsCollection)

	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})

	cursor, err := collection.Find(ctx, bson.M{"game_id": gameID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var cards []domain.Card
	if err := cursor.All(ctx, &cards); err != nil {
		return nil, err
	}

	return cards, nil
}

func (r *cardRepository) GetByPosition(ctx context.Context, gameID string, position int) (*domain.Card, error) {
	collection := r.db.Collection(db.CardsCollection)

	filter := bson.M{"game_id": gameID, "position": position}

	var card domain.Card
	if err := collection.FindOne(ctx, filter).Decode(&card); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCardNotFound
		}
		return nil, err
	}

	return &card, nil
}

func (r *cardRepository) Reveal(ctx context.Context, cardID, playerID string, at time.Time) error {
	collection := r.db.Collection(db.CardsCollection)

	// The revealed guard makes the reveal transition one-way even under
	// concurrent writers.
	result, err := collection.UpdateOne(ctx,
		bson.M{"_id": cardID, "revealed": false},
		bson.M{"$set": bson.M{
			"revealed":    true,
			"revealed_by": playerID,
			"revealed_at": at,
		}},
	)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return domain.ErrCardRevealed
	}

	return nil
}

func (r *cardRepository) DeleteByGame(ctx context.Context, gameID string) error {
	collection := r.db.Collection(db.CardsCollection)

	_, err := collection.DeleteMany(ctx, bson.M{"game_id": gameID})
	return err
}
