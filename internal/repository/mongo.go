package repository

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// MongoStore owns a lazily connected MongoDB client.
//
// The first call to Database connects and pings; later calls reuse the client.
// Close disconnects, and a subsequent Database call connects again.
type MongoStore struct {
	uri    string
	dbName string

	mu     sync.Mutex
	client *mongo.Client
}

// NewMongoStore creates a store handle. No connection is made until first use.
func NewMongoStore(uri, dbName string) *MongoStore {
	return &MongoStore{uri: uri, dbName: dbName}
}

var _ DB = (*MongoStore)(nil)

// Database returns the configured database, connecting on first use.
func (s *MongoStore) Database(ctx context.Context) (*mongo.Database, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		client, err := mongo.Connect(options.Client().ApplyURI(s.uri))
		if err != nil {
			return nil, fmt.Errorf("connect mongodb: %w", err)
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("ping mongodb: %w", err)
		}
		s.client = client
		slog.Info("connected to mongodb", "database", s.dbName)
	}
	return s.client.Database(s.dbName), nil
}

// Ping verifies the server is reachable.
func (s *MongoStore) Ping(ctx context.Context) error {
	db, err := s.Database(ctx)
	if err != nil {
		return err
	}
	return db.Client().Ping(ctx, readpref.Primary())
}

// Close disconnects the client if one is open. It is safe to call more than once.
func (s *MongoStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	err := s.client.Disconnect(ctx)
	s.client = nil
	if err != nil {
		return fmt.Errorf("disconnect mongodb: %w", err)
	}
	slog.Info("mongodb connection closed")
	return nil
}
