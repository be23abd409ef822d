package service

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/second-brain-labs/secondbrain-back/internal/models"
)

var ErrBadContentID = errors.New("content id is not a valid object id")

type ContentStore interface {
	Create(ctx context.Context, owner primitive.ObjectID, link, typ, title string) (string, error)
	ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Content, error)
	DeleteOwned(ctx context.Context, id, owner primitive.ObjectID) error
}

type Content struct {
	contents ContentStore
}

func NewContent(contents ContentStore) *Content {
	return &Content{contents: contents}
}

func (s *Content) Add(ctx context.Context, owner primitive.ObjectID, link, typ, title string) (string, error) {
	return s.contents.Create(ctx, owner, link, typ, title)
}

func (s *Content) List(ctx context.Context, owner primitive.ObjectID) ([]models.Content, error) {
	return s.contents.ListByOwner(ctx, owner)
}

// Remove deletes a single record scoped to both id and owner, so an id
// guessed by another user never matches. Store-level ErrNotFound passes
// through; it covers "absent" and "not yours" alike.
func (s *Content) Remove(ctx context.Context, owner primitive.ObjectID, contentID string) error {
	id, err := primitive.ObjectIDFromHex(contentID)
	if err != nil {
		return ErrBadContentID
	}
	return s.contents.DeleteOwned(ctx, id, owner)
}
