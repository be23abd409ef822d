package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type (
	User struct {
		ID        primitive.ObjectID `bson:"_id,omitempty"`
		Username  string             `bson:"username"`
		Password  string             `bson:"password"`
		CreatedAt time.Time          `bson:"createdAt"`
	}

	Content struct {
		ID        primitive.ObjectID   `bson:"_id,omitempty"`
		Link      string               `bson:"link"`
		Type      string               `bson:"type"`
		Title     string               `bson:"title"`
		Tags      []primitive.ObjectID `bson:"tags"`
		UserID    primitive.ObjectID   `bson:"userId"`
		CreatedAt time.Time            `bson:"createdAt"`
	}

	// Tag is modeled but no operation creates or attaches one yet;
	// content documents always carry an empty tags array.
	Tag struct {
		ID    primitive.ObjectID `bson:"_id,omitempty"`
		Title string             `bson:"title"`
	}

	Link struct {
		ID     primitive.ObjectID `bson:"_id,omitempty"`
		Hash   string             `bson:"hash"`
		UserID primitive.ObjectID `bson:"userId"`
	}
)
