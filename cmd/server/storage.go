package main

import (
	"context"
	"fmt"

	"github.com/Dias221467/SocialGraph/internal/config"
	"github.com/Dias221467/SocialGraph/internal/database"
	"github.com/Dias221467/SocialGraph/internal/repository"
)

// openRepository connects the snapshot backend named by STORAGE_BACKEND.
func openRepository(ctx context.Context, cfg *config.Config) (repository.SnapshotRepository, error) {
	switch cfg.StorageBackend {
	case "", "file":
		return repository.NewFileRepository(cfg.DataFile), nil

	case "badger":
		db, err := database.OpenBadger(database.BadgerConfig{Path: cfg.BadgerPath, SyncWrites: true})
		if err != nil {
			return nil, err
		}
		return repository.NewBadgerRepository(db), nil

	case "mongo":
		db, err := database.ConnectDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return repository.NewMongoRepository(db), nil

	case "redis":
		client, err := database.ConnectRedis(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return repository.NewRedisRepository(client), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
}
