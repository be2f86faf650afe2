// Package mongodb provides the document-store-backed user store.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"userhub/internal/user/models"
	"userhub/internal/user/store"
	"userhub/pkg/platform/sentinel"
)

// Store persists user records in a MongoDB collection. Identifiers are
// store-assigned ObjectIDs, exposed to callers as their hex form. Concurrency
// safety is delegated to the driver.
type Store struct {
	collection *mongo.Collection
}

// Config bounds the startup index creation. Attempts must be at least 1.
type Config struct {
	IndexAttempts int
	IndexBackoff  time.Duration
}

// New ensures the unique index on username and returns the store. Index
// creation retries with doubling backoff up to cfg.IndexAttempts; when the
// collection stays unreachable the error wraps sentinel.ErrUnavailable so the
// caller can fail startup instead of hanging.
func New(ctx context.Context, collection *mongo.Collection, cfg Config) (*Store, error) {
	attempts := cfg.IndexAttempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := cfg.IndexBackoff

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		_, err = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err == nil {
			return &Store{collection: collection}, nil
		}
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("create username index: %w: %w", sentinel.ErrUnavailable, ctx.Err())
		case <-time.After(backoff):
			backoff *= 2
		}
	}
	return nil, fmt.Errorf("create username index after %d attempts: %w: %w", attempts, sentinel.ErrUnavailable, err)
}

// userDoc is the persisted shape. The record ID lives in _id and is converted
// to and from hex at the store boundary.
type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Email     string             `bson:"email,omitempty"`
	Password  string             `bson:"password,omitempty"`
	FirstName string             `bson:"first_name,omitempty"`
	LastName  string             `bson:"last_name,omitempty"`
}

func (s *Store) Create(ctx context.Context, user *models.User) (string, error) {
	res, err := s.collection.InsertOne(ctx, userDoc{
		Username:  user.Username,
		Email:     user.Email,
		Password:  user.Password,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", sentinel.ErrConflict
		}
		return "", fmt.Errorf("insert user: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (s *Store) FindOne(ctx context.Context, filter store.Filter) (*models.User, error) {
	query, err := toQuery(filter)
	if err != nil {
		return nil, err
	}

	var doc userDoc
	if err := s.collection.FindOne(ctx, query).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &models.User{
		ID:        doc.ID.Hex(),
		Username:  doc.Username,
		Email:     doc.Email,
		Password:  doc.Password,
		FirstName: doc.FirstName,
		LastName:  doc.LastName,
	}, nil
}

// Health reports connectivity to the backing deployment.
func (s *Store) Health(ctx context.Context) error {
	return s.collection.Database().Client().Ping(ctx, nil)
}

// toQuery translates the store filter into a MongoDB query. An ID that is not
// valid ObjectID hex can never match a store-assigned identifier, so it maps
// to ErrNotFound rather than a query error.
func toQuery(filter store.Filter) (bson.M, error) {
	query := bson.M{}
	for field, value := range filter {
		switch field {
		case store.FieldID:
			oid, err := primitive.ObjectIDFromHex(value)
			if err != nil {
				return nil, sentinel.ErrNotFound
			}
			query["_id"] = oid
		case store.FieldUsername:
			query["username"] = value
		default:
			return nil, sentinel.ErrNotFound
		}
	}
	return query, nil
}
