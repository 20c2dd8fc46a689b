//go:build wireinject
// +build wireinject

package main

import (
	"cookcam_backend/internal/access"
	"cookcam_backend/internal/app"
	"cookcam_backend/internal/config"
	"cookcam_backend/internal/firebase"
	"cookcam_backend/internal/form"
	"cookcam_backend/internal/jobs"
	"cookcam_backend/internal/platform/logger"
	"cookcam_backend/internal/screen"

	"github.com/google/wire"
)

var domainSet = wire.NewSet(
	firebase.NewFirebaseService,
	provideIdentityProvider,
	provideProfileRepository,
	access.NewCoordinator,
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		logger.New,
		domainSet,
		provideGuard,
		wire.Bind(new(form.Dispatcher), new(*access.Coordinator)),
		provideScreenStore,
		wire.Bind(new(jobs.Sweeper), new(*screen.Store)),
		screen.NewHandler,
		jobs.NewOrphanReconcileJob,
		jobs.NewSessionSweepJob,
		app.NewServer,
	)
	return nil, nil, nil
}

// initializeReconcileJob builds only what a one-off reconcile run needs.
func initializeReconcileJob(cfg *config.Config) (*jobs.OrphanReconcileJob, func(), error) {
	wire.Build(
		logger.New,
		firebase.NewFirebaseService,
		provideIdentityProvider,
		provideProfileRepository,
		jobs.NewOrphanReconcileJob,
	)
	return nil, nil, nil
}
