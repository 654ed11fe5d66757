package jobs

import (
	"fmt"
	"log/slog"
	"time"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	allocationRetentionJob *AllocationRetentionJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	purgeAllocationsHandler PurgeAllocationsHandler,
	retentionSchedule string,
	retention time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		allocationRetentionJob: NewAllocationRetentionJob(purgeAllocationsHandler, retentionSchedule, retention, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.allocationRetentionJob.Start(); err != nil {
		return fmt.Errorf("failed to start allocation retention job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.allocationRetentionJob.Stop()
}
