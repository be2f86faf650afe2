// Package mongodb wraps the MongoDB driver client with bounded startup
// connection handling.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"userhub/internal/platform/config"
	"userhub/pkg/platform/sentinel"
)

// Client wraps the driver client with health checking capabilities.
type Client struct {
	*mongo.Client
}

// Connect dials the deployment and verifies it with a ping, retrying with
// doubling backoff up to cfg.MongoConnectAttempts. An unreachable deployment
// surfaces sentinel.ErrUnavailable instead of blocking startup indefinitely.
func Connect(ctx context.Context, cfg config.Config) (*Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("parse mongo URI: %w", err)
	}

	attempts := cfg.MongoConnectAttempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := cfg.MongoConnectBackoff

	for attempt := 1; attempt <= attempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, cfg.MongoPingTimeout)
		err = client.Ping(pingCtx, nil)
		cancel()
		if err == nil {
			return &Client{Client: client}, nil
		}
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("mongo ping: %w: %w", sentinel.ErrUnavailable, ctx.Err())
		case <-time.After(backoff):
			backoff *= 2
		}
	}

	_ = client.Disconnect(context.Background())
	return nil, fmt.Errorf("mongo ping after %d attempts: %w: %w", attempts, sentinel.ErrUnavailable, err)
}

// Collection returns the configured user collection.
func (c *Client) Collection(cfg config.Config) *mongo.Collection {
	return c.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
}

// Health checks if the deployment is reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx, nil)
}

// Close disconnects the client.
func (c *Client) Close(ctx context.Context) error {
	return c.Disconnect(ctx)
}
