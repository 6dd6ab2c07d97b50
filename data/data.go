// Package data manages the MongoDB and redis connections backing the
// application.
package data

import (
	"context"
	"fmt"
	"time"

	"github.com/gatherly/gatherly/config"
	"github.com/gatherly/gatherly/data/repository"
	"github.com/gatherly/gatherly/logging/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Data encapsulates all data layer dependencies.
type Data struct {
	client *mongo.Client
	db     *mongo.Database
	rc     *redis.Client

	EventRepo  repository.EventRepository
	FriendRepo repository.FriendRepository
	UserRepo   repository.UserRepository
}

// New creates a new Data instance with MongoDB and optional redis connections.
func New(cfg *config.Data, log *logger.Logger) (*Data, error) {
	if cfg == nil || cfg.Database == nil || cfg.Database.URI == "" {
		return nil, fmt.Errorf("database configuration is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Database.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.Database.Name)
	log.Info(ctx, "Connected to MongoDB", "database", cfg.Database.Name)

	var rc *redis.Client
	if cfg.Redis != nil && cfg.Redis.Addr != "" {
		rc = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rc.Ping(ctx).Err(); err != nil {
			log.Warn(ctx, "redis unreachable, caching disabled", "addr", cfg.Redis.Addr, "error", err)
			rc = nil
		}
	}

	return &Data{
		client:     client,
		db:         db,
		rc:         rc,
		EventRepo:  repository.NewEventRepository(db, log),
		FriendRepo: repository.NewFriendRepository(db, log),
		UserRepo:   repository.NewUserRepository(db, log),
	}, nil
}

// DB returns the MongoDB database instance.
func (d *Data) DB() *mongo.Database {
	return d.db
}

// Redis returns the redis client, nil when caching is disabled.
func (d *Data) Redis() *redis.Client {
	return d.rc
}

// Ping verifies the data stores are reachable.
func (d *Data) Ping(ctx context.Context) error {
	if err := d.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongodb ping failed: %w", err)
	}
	if d.rc != nil {
		if err := d.rc.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping failed: %w", err)
		}
	}
	return nil
}

// Close closes all connections.
func (d *Data) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if d.rc != nil {
		if err := d.rc.Close(); err != nil {
			return fmt.Errorf("error closing redis connection: %w", err)
		}
	}
	return d.client.Disconnect(ctx)
}
