package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"emaktab-snapshot/internal/account/repository"
	"emaktab-snapshot/pkg/log"
)

const collectionName = "accounts"

type implRepository struct {
	coll *mongo.Collection
	l    log.Logger
	now  func() time.Time
}

// New creates a MongoDB-backed Repository and ensures the unique login index.
func New(ctx context.Context, db *mongo.Database, l log.Logger) (repository.Repository, error) {
	if db == nil {
		panic("account/repository/mongo: db is required")
	}
	r := &implRepository{
		coll: db.Collection(collectionName),
		l:    l,
		now:  func() time.Time { return time.Now().UTC() },
	}
	if err := r.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *implRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "login", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_login"),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_name"),
		},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", r.dsn("ensureIndexes"), err)
	}
	return nil
}

// dsn is a helper to return a method-scoped context string for logging.
func (r *implRepository) dsn(method string) string {
	return fmt.Sprintf("account/repository/mongo.%s", method)
}
