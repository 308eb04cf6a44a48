package documents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoRepo implements Repo on a MongoDB collection shaped {content, audioUrl}.
type MongoRepo struct {
	Coll *mongo.Collection
	now  func() time.Time
}

type mongoDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Content   string             `bson:"content"`
	AudioURL  string             `bson:"audioUrl,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// NewMongoRepo constructs a MongoRepo over coll.
func NewMongoRepo(coll *mongo.Collection) *MongoRepo {
	return &MongoRepo{Coll: coll, now: func() time.Time { return time.Now().UTC() }}
}

// Create inserts a new document; the ObjectID hex string becomes the ID.
func (r *MongoRepo) Create(ctx context.Context, content string) (Document, error) {
	now := r.now().Truncate(time.Millisecond)
	rec := mongoDocument{
		ID:        primitive.NewObjectID(),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := r.Coll.InsertOne(ctx, rec)
	if err != nil {
		return Document{}, fmt.Errorf("insert document: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		rec.ID = oid
	}
	return rec.toDocument(), nil
}

// UpdateAudioURL sets audioUrl on the document.
func (r *MongoRepo) UpdateAudioURL(ctx context.Context, id, audioURL string) error {
	if audioURL == "" {
		return ErrInvalidInput
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	update := bson.M{"$set": bson.M{
		"audioUrl":  audioURL,
		"updatedAt": r.now().Truncate(time.Millisecond),
	}}
	res, err := r.Coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("update document audio: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID fetches a document by its ObjectID hex string.
func (r *MongoRepo) GetByID(ctx context.Context, id string) (Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Document{}, ErrNotFound
	}
	var rec mongoDocument
	if err := r.Coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return rec.toDocument(), nil
}

func (m mongoDocument) toDocument() Document {
	return Document{
		ID:        m.ID.Hex(),
		Content:   m.Content,
		AudioURL:  m.AudioURL,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

var _ Repo = (*MongoRepo)(nil)
