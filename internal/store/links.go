package store

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/second-brain-labs/secondbrain-back/internal/db"
	"github.com/second-brain-labs/secondbrain-back/internal/models"
)

type Links struct {
	col *mongo.Collection
}

func NewLinks(database *mongo.Database) *Links {
	return &Links{col: database.Collection(db.LinkCollection)}
}

// Upsert inserts a link with the candidate hash unless one already exists
// for the owner, and returns the hash that ended up stored. A single
// FindOneAndUpdate with $setOnInsert plus the unique userId index keeps the
// operation atomic, so concurrent enables converge on one code.
func (s *Links) Upsert(ctx context.Context, owner primitive.ObjectID, candidateHash string) (string, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	link := models.Link{}
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"userId": owner},
		bson.M{"$setOnInsert": bson.M{"userId": owner, "hash": candidateHash}},
		opts,
	).Decode(&link)
	if err != nil {
		return "", errors.Wrap(err, "upsert link")
	}
	return link.Hash, nil
}

// DeleteByOwner removes every link for the owner. Deleting when none exist
// is not an error.
func (s *Links) DeleteByOwner(ctx context.Context, owner primitive.ObjectID) error {
	if _, err := s.col.DeleteMany(ctx, bson.M{"userId": owner}); err != nil {
		return errors.Wrap(err, "delete links")
	}
	return nil
}

func (s *Links) GetByHash(ctx context.Context, hash string) (*models.Link, error) {
	link := models.Link{}
	if err := s.col.FindOne(ctx, bson.M{"hash": hash}).Decode(&link); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "find link by hash")
	}
	return &link, nil
}
