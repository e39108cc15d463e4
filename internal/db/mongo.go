package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names shared by the document repositories.
const (
	UsersCollection  = "users"
	VideosCollection = "videos"
)

// Mongo returns a lazy handle to the named database. Nothing is dialed until
// the first repository call.
func Mongo(uri, name string) *Handle[*mongo.Database] {
	return NewHandle(func(ctx context.Context) (*mongo.Database, error) {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetMaxPoolSize(10))
		if err != nil {
			return nil, fmt.Errorf("failed to connect: %w", err)
		}

		err = client.Ping(ctx, readpref.Primary())
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}

		database := client.Database(name)
		err = ensureIndexes(ctx, database)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}

		slog.Info("database connected", "driver", "mongo", "database", name)
		return database, nil
	})
}

func ensureIndexes(ctx context.Context, database *mongo.Database) error {
	_, err := database.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users.email index: %w", err)
	}

	_, err = database.Collection(VideosCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create videos.created_at index: %w", err)
	}
	return nil
}

// DisconnectMongo closes the client behind h if it was ever connected.
func DisconnectMongo(ctx context.Context, h *Handle[*mongo.Database]) error {
	database, ok := h.Peek()
	if !ok {
		return nil
	}
	return database.Client().Disconnect(ctx)
}
