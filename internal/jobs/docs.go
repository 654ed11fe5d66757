// Package jobs provides scheduled background tasks for the allocator service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. AllocationRetentionJob - Deletes allocation records older than the retention period
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(purgeHandler, "0 0 * * * *", 720*time.Hour, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules are cron expressions with a leading seconds field. The default
// "0 0 * * * *" runs the purge at the top of every hour.
//
// # Error Handling
//
// Failed purges are logged and retried on the next tick. An invalid schedule
// fails StartAll.
package jobs
