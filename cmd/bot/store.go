package main

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo/readpref"

	"emaktab-snapshot/config"
	mongoConfig "emaktab-snapshot/config/mongo"
	sqliteConfig "emaktab-snapshot/config/sqlite"
	"emaktab-snapshot/internal/account/repository"
	accountMongo "emaktab-snapshot/internal/account/repository/mongo"
	accountSQLite "emaktab-snapshot/internal/account/repository/sqlite"
	"emaktab-snapshot/pkg/log"
)

// storeHandle is the configured account repository plus its lifecycle hooks.
type storeHandle struct {
	repo  repository.Repository
	ping  func(ctx context.Context) error
	close func()
}

func openStore(ctx context.Context, cfg *config.Config, logger log.Logger) (*storeHandle, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverSQLite:
		db, err := sqliteConfig.Connect(ctx, cfg.SQLite)
		if err != nil {
			return nil, fmt.Errorf("connect sqlite: %w", err)
		}
		logger.Infof(ctx, "SQLite account store at %s", cfg.SQLite.Path)
		return &storeHandle{
			repo: accountSQLite.New(db, logger),
			ping: db.Reader.PingContext,
			close: func() {
				if err := db.Close(); err != nil {
					logger.Warnf(ctx, "Close sqlite: %v", err)
				}
			},
		}, nil

	default:
		client, db, err := mongoConfig.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		repo, err := accountMongo.New(ctx, db, logger)
		if err != nil {
			_ = mongoConfig.Disconnect(ctx, client)
			return nil, fmt.Errorf("init mongo account repository: %w", err)
		}
		logger.Infof(ctx, "MongoDB account store: database %s", cfg.Mongo.Database)
		return &storeHandle{
			repo: repo,
			ping: func(ctx context.Context) error {
				return client.Ping(ctx, readpref.Primary())
			},
			close: func() {
				disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := mongoConfig.Disconnect(disconnectCtx, client); err != nil {
					logger.Warnf(ctx, "Disconnect mongo: %v", err)
				}
			},
		}, nil
	}
}
