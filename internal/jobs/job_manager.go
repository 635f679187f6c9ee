package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ReconciliationConfig schedules the reconciliation job.
type ReconciliationConfig struct {
	Schedule   string
	StaleAfter time.Duration
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	reconciliationJob *ReconciliationJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	reconcileHandler ReconcileFulfillmentsHandler,
	reconciliation ReconciliationConfig,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		reconciliationJob: NewReconciliationJob(
			reconcileHandler,
			reconciliation.Schedule,
			reconciliation.StaleAfter,
			logger,
		),
	}
}

// StartAll reconciles once and then starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll(ctx context.Context) error {
	jm.reconciliationJob.RunOnce(ctx)

	if err := jm.reconciliationJob.Start(); err != nil {
		return fmt.Errorf("failed to start reconciliation job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.reconciliationJob.Stop()
}
