package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DB struct {
	client   *mongo.Client
	database *mongo.Database

	runs     *mongo.Collection
	attempts *mongo.Collection
}

type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

func New(cfg *Config) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(5).
		SetMaxConnIdleTime(30 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := fromDatabase(client.Database(cfg.Database))

	if err := db.createIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return db, nil
}

func fromDatabase(database *mongo.Database) *DB {
	return &DB{
		client:   database.Client(),
		database: database,
		runs:     database.Collection("runs"),
		attempts: database.Collection("attempts"),
	}
}

func (db *DB) createIndexes(ctx context.Context) error {
	runIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "started_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "state", Value: 1}, {Key: "started_at", Value: -1}},
		},
	}

	if _, err := db.runs.Indexes().CreateMany(ctx, runIndexes); err != nil {
		return fmt.Errorf("failed to create run indexes: %w", err)
	}

	attemptIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "run_id", Value: 1}, {Key: "index", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "outcome", Value: 1}, {Key: "created_at", Value: -1}},
		},
	}

	if _, err := db.attempts.Indexes().CreateMany(ctx, attemptIndexes); err != nil {
		return fmt.Errorf("failed to create attempt indexes: %w", err)
	}

	return nil
}

func (db *DB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return db.client.Disconnect(ctx)
}

func (db *DB) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return db.client.Ping(ctx, nil)
}
