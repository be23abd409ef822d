package db

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/second-brain-labs/secondbrain-back/internal/config"
)

const (
	UserCollection    = "users"
	ContentCollection = "contents"
	TagCollection     = "tags"
	LinkCollection    = "links"
)

// NewMongoDatabase connects to the document store, ensures the indexes the
// stores rely on, and ties the client to the application lifecycle. The
// returned handle is the single owned connection; components receive it via
// injection, never through package state.
func NewMongoDatabase(lc fx.Lifecycle, cfg *config.Config, logger *zap.SugaredLogger) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, errors.Wrap(err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "ping mongo")
	}

	database := client.Database(cfg.MongoDB)

	if err := ensureIndexes(ctx, database); err != nil {
		return nil, errors.Wrap(err, "ensure indexes")
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("Disconnecting from mongo.")
			return client.Disconnect(ctx)
		},
	})

	return database, nil
}

func ensureIndexes(ctx context.Context, database *mongo.Database) error {
	_, err := database.Collection(UserCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Wrap(err, "users username index")
	}

	// the unique owner index is what makes the share-enable upsert an
	// atomic insert-if-absent: two concurrent enables cannot both insert
	_, err = database.Collection(LinkCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Wrap(err, "links userId index")
	}

	_, err = database.Collection(ContentCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}},
	})
	if err != nil {
		return errors.Wrap(err, "contents userId index")
	}

	return nil
}
