package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// OverdueSweepJobName is the name of the overdue invoice sweep job
const OverdueSweepJobName = "overdue_sweep"

// DefaultSweepTimeout bounds a single sweep run
const DefaultSweepTimeout = 5 * time.Minute

// OverdueSweeper marks sent invoices past their due date as overdue.
// Implemented by the invoice service; the interface keeps the job from
// importing the service package directly.
type OverdueSweeper interface {
	SweepOverdueInvoices(ctx context.Context, asOf time.Time) (marked int, err error)
}

// OverdueSweepJob periodically flags invoices that have passed their due
// date without being settled.
type OverdueSweepJob struct {
	sweeper OverdueSweeper
	logger  *zap.Logger
	timeout time.Duration
}

// NewOverdueSweepJob creates a new overdue sweep job
func NewOverdueSweepJob(sweeper OverdueSweeper, logger *zap.Logger, timeout time.Duration) *OverdueSweepJob {
	if timeout <= 0 {
		timeout = DefaultSweepTimeout
	}
	return &OverdueSweepJob{
		sweeper: sweeper,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes a single sweep. Called by the scheduler according to the
// configured cron expression.
func (j *OverdueSweepJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()

	marked, err := j.sweeper.SweepOverdueInvoices(ctx, start.UTC())
	if err != nil {
		j.logger.Error("overdue invoice sweep failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("overdue invoice sweep completed",
		zap.Int("marked", marked),
		zap.Duration("duration", time.Since(start)))
}

// RegisterOverdueSweepJob registers the sweep with the scheduler.
// The cronExpr follows robfig/cron format with a seconds field
// (e.g. "0 5 0 * * *" for 00:05 every day).
func RegisterOverdueSweepJob(scheduler *Scheduler, sweeper OverdueSweeper, logger *zap.Logger, cronExpr string) error {
	job := NewOverdueSweepJob(sweeper, logger, DefaultSweepTimeout)
	return scheduler.AddJob(OverdueSweepJobName, cronExpr, job.Run)
}
