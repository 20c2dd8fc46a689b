// Package firebase initializes the Firebase Admin SDK clients.
package firebase

import (
	"context"
	"fmt"
	"path/filepath"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"cookcam_backend/internal/config"
)

// FirebaseService owns the Firebase clients used by the identity provider and the profile store.
type FirebaseService struct {
	app        *firebase.App
	authClient *auth.Client
	toolkit    *identitytoolkit.Service
	logger     *zap.Logger
}

// NewFirebaseService initializes the Firebase Admin SDK from the service account key.
func NewFirebaseService(cfg *config.Config, logger *zap.Logger) (*FirebaseService, error) {
	logger = logger.Named("Firebase")
	if cfg.FirebaseServiceAccountKeyPath == "" {
		logger.Error("Firebase service account key path is not configured.")
		return nil, fmt.Errorf("firebase service account key path is required")
	}

	cleanPath := filepath.Clean(cfg.FirebaseServiceAccountKeyPath)
	opt := option.WithCredentialsFile(cleanPath)

	var conf *firebase.Config
	if cfg.FirebaseProjectID != "" {
		conf = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}
	app, err := firebase.NewApp(context.Background(), conf, opt)
	if err != nil {
		logger.Error("Failed to initialize Firebase Admin SDK app", zap.Error(err), zap.String("keyPath", cleanPath))
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	authClient, err := app.Auth(context.Background())
	if err != nil {
		logger.Error("Failed to get Firebase Auth client", zap.Error(err))
		return nil, fmt.Errorf("error getting Firebase Auth client: %w", err)
	}

	// Password sign-in is a client API and authenticates with the web API key, not the service account.
	toolkit, err := identitytoolkit.NewService(context.Background(), option.WithAPIKey(cfg.FirebaseWebAPIKey))
	if err != nil {
		logger.Error("Failed to create Identity Toolkit client", zap.Error(err))
		return nil, fmt.Errorf("error creating Identity Toolkit client: %w", err)
	}

	logger.Info("Firebase Admin SDK initialized successfully.")
	return &FirebaseService{
		app:        app,
		authClient: authClient,
		toolkit:    toolkit,
		logger:     logger,
	}, nil
}

// Auth returns the admin auth client.
func (s *FirebaseService) Auth() *auth.Client {
	return s.authClient
}

// Toolkit returns the Identity Toolkit REST client.
func (s *FirebaseService) Toolkit() *identitytoolkit.Service {
	return s.toolkit
}

// Firestore opens a Firestore client. The caller closes it.
func (s *FirebaseService) Firestore(ctx context.Context) (*firestore.Client, error) {
	client, err := s.app.Firestore(ctx)
	if err != nil {
		s.logger.Error("Failed to get Firestore client", zap.Error(err))
		return nil, fmt.Errorf("error getting Firestore client: %w", err)
	}
	return client, nil
}
