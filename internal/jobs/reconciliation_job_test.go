package jobs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReconcileHandler struct{ mock.Mock }

func (m *MockReconcileHandler) Handle(
	ctx context.Context,
	cmd commands.ReconcileFulfillmentsCommand,
) (commands.ReconcileFulfillmentsResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.ReconcileFulfillmentsResult), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReconciliationJob_RunOncePassesStaleAfter(t *testing.T) {
	handler := new(MockReconcileHandler)
	handler.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ReconcileFulfillmentsCommand) bool {
		return cmd.StaleAfter() == 10*time.Minute
	})).Return(commands.ReconcileFulfillmentsResult{Confirmed: 1, Flagged: 2}, nil).Once()

	job := jobs.NewReconciliationJob(handler, "0 */5 * * * *", 10*time.Minute, discardLogger())
	job.RunOnce(context.Background())

	handler.AssertExpectations(t)
}

func TestReconciliationJob_RunOnceSurvivesHandlerError(t *testing.T) {
	handler := new(MockReconcileHandler)
	handler.On("Handle", mock.Anything, mock.Anything).
		Return(commands.ReconcileFulfillmentsResult{Flagged: 1}, errors.New("db down")).Once()

	job := jobs.NewReconciliationJob(handler, "0 */5 * * * *", time.Minute, discardLogger())

	assert.NotPanics(t, func() { job.RunOnce(context.Background()) })
	handler.AssertExpectations(t)
}

func TestReconciliationJob_InvalidStaleAfterSkipsHandler(t *testing.T) {
	handler := new(MockReconcileHandler)

	job := jobs.NewReconciliationJob(handler, "0 */5 * * * *", 0, discardLogger())
	job.RunOnce(context.Background())

	handler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestReconciliationJob_InvalidSchedule(t *testing.T) {
	job := jobs.NewReconciliationJob(new(MockReconcileHandler), "not a schedule", time.Minute, discardLogger())

	require.Error(t, job.Start())
}

func TestReconciliationJob_RunsOnSchedule(t *testing.T) {
	handler := new(MockReconcileHandler)
	called := make(chan struct{}, 1)
	handler.On("Handle", mock.Anything, mock.Anything).
		Return(commands.ReconcileFulfillmentsResult{}, nil).
		Run(func(mock.Arguments) {
			select {
			case called <- struct{}{}:
			default:
			}
		})

	job := jobs.NewReconciliationJob(handler, "* * * * * *", time.Minute, discardLogger())
	require.NoError(t, job.Start())
	defer job.Stop()

	select {
	case <-called:
	case <-time.After(3 * time.Second):
		t.Fatal("reconciliation did not run on schedule")
	}
}

func TestJobManager_StartAllReconcilesImmediately(t *testing.T) {
	handler := new(MockReconcileHandler)
	handler.On("Handle", mock.Anything, mock.Anything).
		Return(commands.ReconcileFulfillmentsResult{}, nil).Once()

	manager := jobs.NewJobManager(handler, jobs.ReconciliationConfig{
		Schedule:   "0 0 3 * * *",
		StaleAfter: time.Minute,
	}, discardLogger())

	require.NoError(t, manager.StartAll(context.Background()))
	manager.StopAll()

	handler.AssertNumberOfCalls(t, "Handle", 1)
}

func TestJobManager_StartAllRejectsBadSchedule(t *testing.T) {
	handler := new(MockReconcileHandler)
	handler.On("Handle", mock.Anything, mock.Anything).
		Return(commands.ReconcileFulfillmentsResult{}, nil).Once()

	manager := jobs.NewJobManager(handler, jobs.ReconciliationConfig{
		Schedule:   "every now and then",
		StaleAfter: time.Minute,
	}, discardLogger())

	err := manager.StartAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reconciliation job")
}
