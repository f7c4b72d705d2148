// Package mongodb owns the shared MongoDB client for the Chefhut backend.
//
// All repositories read and write through the single connection pool opened
// here; there is no per-request connection handling.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/chefhut/config"
)

var (
	client *mongo.Client
	db     *mongo.Database
)

// Collection names. Kept in one place so repositories, index sync and
// seeders cannot drift apart.
const (
	ColUsers     = "users"
	ColMeals     = "meals"
	ColRequests  = "requests"
	ColOrders    = "orders"
	ColFavorites = "favorites"
	ColReviews   = "reviews"
	ColLogs      = "logs"
	ColFailed    = "failed_jobs"
)

// Connect opens the client and verifies the connection with a ping.
// Returns an error instead of exiting so the caller can shut down gracefully.
func Connect(ctx context.Context) error {
	opts := options.Client().ApplyURI(config.MongoURI()).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(25)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	c, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("mongodb: connect: %w", err)
	}

	if err := c.Ping(ctx, nil); err != nil {
		_ = c.Disconnect(context.Background())
		return fmt.Errorf("mongodb: ping: %w", err)
	}

	client = c
	db = c.Database(config.MongoDB())
	return nil
}

// DB returns the application database handle. Panics when called before
// Connect; repositories are only constructed after boot.
func DB() *mongo.Database {
	if db == nil {
		panic("mongodb: DB() called before Connect()")
	}
	return db
}

// Collection returns a named collection from the application database.
func Collection(name string) *mongo.Collection {
	return DB().Collection(name)
}

// Disconnect closes the client. Safe to call when Connect never succeeded.
func Disconnect(ctx context.Context) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return client.Disconnect(ctx)
}

// IsDup reports whether err is a unique-index violation.
func IsDup(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// IsNoDocuments reports whether err is a no-match from FindOne.
func IsNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
