package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/second-brain-labs/secondbrain-back/internal/db"
	"github.com/second-brain-labs/secondbrain-back/internal/models"
)

type Contents struct {
	col *mongo.Collection
}

func NewContents(database *mongo.Database) *Contents {
	return &Contents{col: database.Collection(db.ContentCollection)}
}

func (s *Contents) Create(ctx context.Context, owner primitive.ObjectID, link, typ, title string) (string, error) {
	res, err := s.col.InsertOne(ctx, models.Content{
		Link:      link,
		Type:      typ,
		Title:     title,
		Tags:      []primitive.ObjectID{},
		UserID:    owner,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return "", errors.Wrap(err, "insert content")
	}
	oid := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

func (s *Contents) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Content, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.col.Find(ctx, bson.M{"userId": owner}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find contents")
	}
	defer cur.Close(ctx)

	contents := make([]models.Content, 0)
	if err := cur.All(ctx, &contents); err != nil {
		return nil, errors.Wrap(err, "decode contents")
	}
	return contents, nil
}

// DeleteOwned removes exactly one record matching both id and owner. The
// owner is part of the delete filter itself, so a guessed id belonging to
// another user matches nothing; zero deletions surface as ErrNotFound.
func (s *Contents) DeleteOwned(ctx context.Context, id, owner primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id, "userId": owner})
	if err != nil {
		return errors.Wrap(err, "delete content")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
