package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ReconcileFulfillmentsHandler is the use case the reconciliation job drives.
type ReconcileFulfillmentsHandler interface {
	Handle(ctx context.Context, cmd commands.ReconcileFulfillmentsCommand) (commands.ReconcileFulfillmentsResult, error)
}

// ReconciliationJob finishes or flags confirm-and-ship attempts that stalled
// between the carrier call and the status write.
type ReconciliationJob struct {
	handler    ReconcileFulfillmentsHandler
	schedule   string
	staleAfter time.Duration
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewReconciliationJob creates the job. schedule is a six-field cron
// expression with seconds.
func NewReconciliationJob(
	handler ReconcileFulfillmentsHandler,
	schedule string,
	staleAfter time.Duration,
	logger *slog.Logger,
) *ReconciliationJob {
	return &ReconciliationJob{
		handler:    handler,
		schedule:   schedule,
		staleAfter: staleAfter,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "reconciliation_job"),
	}
}

// RunOnce reconciles everything that stalled for longer than staleAfter.
func (j *ReconciliationJob) RunOnce(ctx context.Context) {
	cmd, err := commands.NewReconcileFulfillmentsCommand(j.staleAfter)
	if err != nil {
		j.logger.ErrorContext(ctx, "Reconciliation job misconfigured", "error", err)
		return
	}

	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Reconciliation job failed",
			"confirmed", result.Confirmed, "flagged", result.Flagged, "error", err)
		return
	}

	if result.Confirmed > 0 || result.Flagged > 0 {
		j.logger.InfoContext(ctx, "Reconciliation finished",
			"confirmed", result.Confirmed, "flagged", result.Flagged)
	}
}

// Start schedules the job. It does not run it immediately.
func (j *ReconciliationJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Reconciliation job started", "schedule", j.schedule)
	return nil
}

// Stop stops scheduling and waits for a running reconciliation to finish.
func (j *ReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Reconciliation job stopped")
}
