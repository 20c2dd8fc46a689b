package main

import (
	"context"
	"fmt"
	"time"

	"cookcam_backend/internal/access"
	"cookcam_backend/internal/config"
	"cookcam_backend/internal/firebase"
	"cookcam_backend/internal/guard"
	"cookcam_backend/internal/identity"
	"cookcam_backend/internal/platform/cache"
	"cookcam_backend/internal/platform/database"
	"cookcam_backend/internal/profile"
	"cookcam_backend/internal/screen"

	"go.uber.org/zap"
)

func provideIdentityProvider(cfg *config.Config, fb *firebase.FirebaseService, logger *zap.Logger) identity.Provider {
	return identity.NewFirebaseProvider(fb.Auth(), fb.Toolkit(), cfg.IdentityRequestTimeout, logger)
}

// provideProfileRepository opens the store selected by PROFILE_STORE.
func provideProfileRepository(cfg *config.Config, fb *firebase.FirebaseService, logger *zap.Logger) (profile.Repository, func(), error) {
	switch cfg.ProfileStore {
	case config.ProfileStorePostgres:
		db, err := database.NewGORM(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		repo, err := profile.NewGORMRepository(db)
		if err != nil {
			database.CloseGORMDB(db, logger)
			return nil, nil, err
		}
		return repo, func() { database.CloseGORMDB(db, logger) }, nil
	default:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		client, err := fb.Firestore(ctx)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := client.Close(); err != nil {
				logger.Warn("Error closing Firestore client", zap.Error(err))
			}
		}
		return profile.NewFirestoreRepository(client, cfg.UsersCollection, cfg.OrphansCollection, logger), cleanup, nil
	}
}

// provideGuard uses Redis when REDIS_URL is set so concurrent submissions are rejected across replicas.
func provideGuard(cfg *config.Config, logger *zap.Logger) (guard.Guard, func(), error) {
	if cfg.RedisURL == "" {
		logger.Info("REDIS_URL not set, using in-process submit guard")
		return guard.NewLocal(), func() {}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect submit guard: %w", err)
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			logger.Warn("Error closing Redis client", zap.Error(err))
		}
	}
	return guard.NewRedis(client, cfg.SubmitLockTTL, logger), cleanup, nil
}

func provideScreenStore(cfg *config.Config, coord *access.Coordinator, g guard.Guard, logger *zap.Logger) *screen.Store {
	return screen.NewStore(coord, g, cfg.SessionTTL, logger)
}
