package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m2tx/contentkit/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type sessionDocument struct {
	ID        string          `bson:"_id"`
	History   []model.Content `bson:"history"`
	UpdatedAt time.Time       `bson:"updated_at"`
}

// MongoSessionRepository implements SessionRepository using MongoDB.
type MongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new MongoSessionRepository. Inline
// image and PDF parts are stored as BSON binary alongside the text.
// collectionName defaults to "sessions" if empty.
func NewMongoSessionRepository(db *mongo.Database, collectionName string) *MongoSessionRepository {
	if collectionName == "" {
		collectionName = "sessions"
	}
	return &MongoSessionRepository{
		collection: db.Collection(collectionName),
	}
}

func (r *MongoSessionRepository) Save(ctx context.Context, sessionID string, history []model.Content) error {
	doc := sessionDocument{
		ID:        sessionID,
		History:   history,
		UpdatedAt: time.Now().UTC(),
	}

	filter := bson.M{"_id": sessionID}
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("repository: upsert session %q: %w", sessionID, err)
	}

	return nil
}

func (r *MongoSessionRepository) Load(ctx context.Context, sessionID string) ([]model.Content, error) {
	filter := bson.M{"_id": sessionID}

	var doc sessionDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repository: find session %q: %w", sessionID, err)
	}

	return doc.History, nil
}

func (r *MongoSessionRepository) Delete(ctx context.Context, sessionID string) error {
	filter := bson.M{"_id": sessionID}

	_, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("repository: delete session %q: %w", sessionID, err)
	}

	return nil
}

// EnsureTTL creates a TTL index on updated_at so MongoDB expires sessions
// that were not written for ttl. A zero ttl leaves sessions forever.
func (r *MongoSessionRepository) EnsureTTL(ctx context.Context, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: 1}},
		Options: options.Index().SetName("session_ttl").SetExpireAfterSeconds(int32(ttl / time.Second)),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("repository: create ttl index: %w", err)
	}
	return nil
}
