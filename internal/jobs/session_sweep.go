package jobs

import (
	"time"

	"cookcam_backend/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper evicts expired sessions. *screen.Store satisfies it.
type Sweeper interface {
	Sweep(now time.Time) int
}

// SessionSweepJob periodically evicts idle screen sessions.
type SessionSweepJob struct {
	sweeper       Sweeper
	logger        *zap.Logger
	schedule      string
	now           func() time.Time
	cronScheduler *cron.Cron
}

// NewSessionSweepJob creates a new SessionSweepJob.
func NewSessionSweepJob(sweeper Sweeper, logger *zap.Logger, cfg *config.Config) *SessionSweepJob {
	return &SessionSweepJob{
		sweeper:       sweeper,
		logger:        logger.Named("SessionSweepJob"),
		schedule:      cfg.SessionSweepSchedule,
		now:           time.Now,
		cronScheduler: newScheduler(logger),
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *SessionSweepJob) SetupAndStart() error {
	if j.schedule == "" {
		j.logger.Warn("Session sweep schedule not defined (SESSION_SWEEP_SCHEDULE). Job will not run.")
		return nil
	}
	if _, err := j.cronScheduler.AddFunc(j.schedule, func() { j.RunOnce() }); err != nil {
		j.logger.Error("Failed to schedule session sweep job", zap.String("spec", j.schedule), zap.Error(err))
		return err
	}
	j.logger.Info("Session sweep job scheduled", zap.String("spec", j.schedule))
	j.cronScheduler.Start()
	return nil
}

// RunOnce sweeps once and returns the number of evicted sessions.
func (j *SessionSweepJob) RunOnce() int {
	return j.sweeper.Sweep(j.now())
}

// Stop gracefully stops the cron scheduler.
func (j *SessionSweepJob) Stop() {
	j.logger.Info("Stopping session sweep job scheduler...")
	stopScheduler(j.cronScheduler, j.logger)
}
