package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound reports that an identifier resolved to no document.
var ErrNotFound = errors.New("document not found")

const (
	connectTimeout         = 10 * time.Second
	serverSelectionTimeout = 5 * time.Second
)

// Store owns the process-wide Mongo client and exposes the typed collections
// the handlers work with. It is constructed once in main and injected; there
// is no package-level connection state.
type Store struct {
	client          *mongo.Client
	users           *mongo.Collection
	properties      *mongo.Collection
	recommendations *mongo.Collection
}

// Connect establishes the Mongo client within bounded timeouts and verifies
// the connection with a ping.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(serverSelectionTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping failed: %w", err)
	}

	db := client.Database(dbName)
	return &Store{
		client:          client,
		users:           db.Collection("users"),
		properties:      db.Collection("properties"),
		recommendations: db.Collection("recommendations"),
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Users() *mongo.Collection           { return s.users }
func (s *Store) Properties() *mongo.Collection      { return s.properties }
func (s *Store) Recommendations() *mongo.Collection { return s.recommendations }
