package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/second-brain-labs/secondbrain-back/internal/db"
	"github.com/second-brain-labs/secondbrain-back/internal/models"
)

type Users struct {
	col *mongo.Collection
}

func NewUsers(database *mongo.Database) *Users {
	return &Users{col: database.Collection(db.UserCollection)}
}

// Create inserts a new user and returns its hex id. A username collision
// surfaces as ErrDuplicateKey.
func (s *Users) Create(ctx context.Context, username, passwordHash string) (string, error) {
	res, err := s.col.InsertOne(ctx, models.User{
		Username:  username,
		Password:  passwordHash,
		CreatedAt: time.Now(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicateKey
		}
		return "", errors.Wrap(err, "insert user")
	}
	oid := res.InsertedID.(primitive.ObjectID)
	return oid.Hex(), nil
}

func (s *Users) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user := models.User{}
	if err := s.col.FindOne(ctx, bson.M{"username": username}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "find user by username")
	}
	return &user, nil
}

func (s *Users) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user := models.User{}
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "find user by id")
	}
	return &user, nil
}
