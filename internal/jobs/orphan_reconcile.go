// Package jobs runs the background cron jobs.
package jobs

import (
	"context"
	"fmt"
	"time"

	"cookcam_backend/internal/config"
	"cookcam_backend/internal/identity"
	"cookcam_backend/internal/profile"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultReconcileBatchSize = 50

// OrphanReconcileJob deletes identity accounts whose profile write failed and whose
// compensating delete failed too.
type OrphanReconcileJob struct {
	provider      identity.Provider
	profiles      profile.Repository
	logger        *zap.Logger
	schedule      string
	batchSize     int
	cronScheduler *cron.Cron
}

// NewOrphanReconcileJob creates a new OrphanReconcileJob.
func NewOrphanReconcileJob(provider identity.Provider, profiles profile.Repository, logger *zap.Logger, cfg *config.Config) *OrphanReconcileJob {
	batchSize := cfg.ReconcileBatchSize
	if batchSize <= 0 {
		batchSize = defaultReconcileBatchSize
	}
	return &OrphanReconcileJob{
		provider:      provider,
		profiles:      profiles,
		logger:        logger.Named("OrphanReconcileJob"),
		schedule:      cfg.ReconcileJobSchedule,
		batchSize:     batchSize,
		cronScheduler: newScheduler(logger),
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *OrphanReconcileJob) SetupAndStart() error {
	if j.schedule == "" {
		j.logger.Warn("Orphan reconcile schedule not defined (RECONCILE_JOB_SCHEDULE). Job will not run.")
		return nil
	}
	jobID, err := j.cronScheduler.AddFunc(j.schedule, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule orphan reconcile job", zap.String("spec", j.schedule), zap.Error(err))
		return err
	}
	j.logger.Info("Orphan reconcile job scheduled", zap.String("spec", j.schedule), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

func (j *OrphanReconcileJob) runJob() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	resolved, err := j.RunOnce(ctx)
	if err != nil {
		j.logger.Error("Orphan reconcile run failed", zap.Error(err))
		return
	}
	if resolved > 0 {
		j.logger.Info("Orphan reconcile run completed", zap.Int("accounts_resolved", resolved))
	}
}

// RunOnce processes one batch of orphans and returns how many were resolved.
func (j *OrphanReconcileJob) RunOnce(ctx context.Context) (int, error) {
	orphans, err := j.profiles.ListOrphans(ctx, j.batchSize)
	if err != nil {
		return 0, fmt.Errorf("list orphaned accounts: %w", err)
	}

	resolved := 0
	for _, o := range orphans {
		if err := j.provider.DeleteAccount(ctx, identity.UserHandle(o.UID)); err != nil {
			j.logger.Warn("Orphan delete failed, will retry", zap.String("uid", o.UID), zap.Int("attempts", o.Attempts+1), zap.Error(err))
			if bumpErr := j.profiles.BumpOrphan(ctx, o.UID, err.Error()); bumpErr != nil {
				j.logger.Error("Failed to record orphan attempt", zap.String("uid", o.UID), zap.Error(bumpErr))
			}
			continue
		}
		if err := j.profiles.ResolveOrphan(ctx, o.UID); err != nil {
			j.logger.Error("Failed to resolve orphan record", zap.String("uid", o.UID), zap.Error(err))
			continue
		}
		resolved++
	}
	return resolved, nil
}

// Stop gracefully stops the cron scheduler.
func (j *OrphanReconcileJob) Stop() {
	j.logger.Info("Stopping orphan reconcile job scheduler...")
	stopScheduler(j.cronScheduler, j.logger)
}
