package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig holds configuration for MongoDB connection
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// MongoClient wraps the MongoDB client and database
type MongoClient struct {
	client   *mongo.Client
	database *mongo.Database
	config   *MongoConfig
}

// NewMongoClient creates a new MongoDB client
func NewMongoClient(config *MongoConfig) (*MongoClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(config.URI).
		SetServerSelectionTimeout(config.Timeout)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoClient{
		client:   client,
		database: client.Database(config.Database),
		config:   config,
	}, nil
}

// GetDatabase returns the MongoDB database
func (mc *MongoClient) GetDatabase() *mongo.Database {
	return mc.database
}

// GetClient returns the underlying MongoDB client
func (mc *MongoClient) GetClient() *mongo.Client {
	return mc.client
}

// Ping verifies the connection is alive
func (mc *MongoClient) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), mc.config.Timeout)
	defer cancel()
	return mc.client.Ping(ctx, nil)
}

// Close closes the MongoDB connection
func (mc *MongoClient) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mc.config.Timeout)
	defer cancel()
	return mc.client.Disconnect(ctx)
}
