package jobs

import (
	"context"
	"log/slog"
	"time"

	"allocator/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// PurgeAllocationsHandler deletes allocation records created before a cutoff.
type PurgeAllocationsHandler interface {
	Handle(ctx context.Context, cmd commands.PurgeAllocationsCommand) (int64, error)
}

// AllocationRetentionJob removes allocation records older than the
// retention period on a cron schedule with seconds.
type AllocationRetentionJob struct {
	handler   PurgeAllocationsHandler
	schedule  string
	retention time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
	now       func() time.Time
}

// NewAllocationRetentionJob creates a new job for purging old allocation records.
func NewAllocationRetentionJob(
	handler PurgeAllocationsHandler,
	schedule string,
	retention time.Duration,
	logger *slog.Logger,
) *AllocationRetentionJob {
	return &AllocationRetentionJob{
		handler:   handler,
		schedule:  schedule,
		retention: retention,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "allocation_retention_job"),
		now:       time.Now,
	}
}

// Start registers the purge on the schedule and starts the scheduler.
// Returns an error if the schedule cannot be parsed.
func (j *AllocationRetentionJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		_, _ = j.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Allocation retention job started",
		"schedule", j.schedule,
		"retention", j.retention.String(),
	)
	return nil
}

// RunOnce purges records created before now minus the retention period.
func (j *AllocationRetentionJob) RunOnce(ctx context.Context) (int64, error) {
	cutoff := j.now().UTC().Add(-j.retention)

	cmd, err := commands.NewPurgeAllocationsCommand(cutoff)
	if err != nil {
		j.logger.ErrorContext(ctx, "Allocation retention job failed", "error", err)
		return 0, err
	}

	removed, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Allocation retention job failed", "error", err)
		return 0, err
	}

	if removed > 0 {
		j.logger.InfoContext(ctx, "Expired allocations purged", "removed", removed, "cutoff", cutoff)
	}
	return removed, nil
}

// Stop stops the scheduler and waits for a running purge to finish.
func (j *AllocationRetentionJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Allocation retention job stopped")
}
