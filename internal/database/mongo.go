package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/swapify/swapify-backend/internal/config"
	"github.com/swapify/swapify-backend/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// TextIndexName is the weighted text index used by SEARCH_MODE=text.
const TextIndexName = "TextSearchIndex"

// ConnectMongo opens a client and verifies it with a ping.
func ConnectMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.DBTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMaxPoolSize(50).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(5 * time.Minute)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	slog.Info("mongo connected", "database", cfg.MongoDB)
	return client, nil
}

// EnsureIndexes creates the indexes the query paths depend on. Creating an
// index that already exists with the same spec is a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		repository.UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		repository.ListingsCollection: {
			{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
			{
				Keys: bson.D{
					{Key: "title", Value: "text"},
					{Key: "description", Value: "text"},
					{Key: "location_display_name", Value: "text"},
					{Key: "city", Value: "text"},
					{Key: "state", Value: "text"},
				},
				Options: options.Index().SetName(TextIndexName).SetWeights(bson.D{
					{Key: "title", Value: 10},
					{Key: "description", Value: 5},
					{Key: "location_display_name", Value: 3},
					{Key: "city", Value: 2},
					{Key: "state", Value: 1},
				}),
			},
			{Keys: bson.D{{Key: "deleted", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "seller_id", Value: 1}}},
		},
		repository.ChatsCollection: {
			{Keys: bson.D{{Key: "participants", Value: 1}, {Key: "lastMessage", Value: -1}}},
			{Keys: bson.D{{Key: "listing", Value: 1}}},
		},
		repository.ReportsCollection: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}

	for coll, models := range indexes {
		names, err := db.Collection(coll).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
		slog.Info("indexes ensured", "collection", coll, "indexes", names)
	}
	return nil
}
