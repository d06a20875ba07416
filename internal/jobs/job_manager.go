package jobs

import (
	"fmt"
	"log/slog"
)

// Job is a scheduled background task.
type Job interface {
	Name() string
	Start() error
	Stop()
}

// Config holds the cron schedules. An empty schedule disables its job.
type Config struct {
	ZoneCacheWarmupSpec string
	ZoneStatisticsSpec  string
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	jobs    []Job
	started []Job
}

// NewJobManager creates a job manager for the configured jobs. A nil warmer
// means there is no zone cache and disables the warmup job.
func NewJobManager(cfg Config, warmer ZoneCacheWarmer, stats ZoneStatisticsReader, logger *slog.Logger) *JobManager {
	jm := &JobManager{}
	if warmer != nil && cfg.ZoneCacheWarmupSpec != "" {
		jm.jobs = append(jm.jobs, NewZoneCacheWarmupJob(cfg.ZoneCacheWarmupSpec, warmer, logger))
	}
	if stats != nil && cfg.ZoneStatisticsSpec != "" {
		jm.jobs = append(jm.jobs, NewZoneStatisticsJob(cfg.ZoneStatisticsSpec, stats, logger))
	}
	return jm
}

// Jobs lists the jobs the manager runs.
func (jm *JobManager) Jobs() []Job {
	return append([]Job(nil), jm.jobs...)
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	for _, job := range jm.jobs {
		if err := job.Start(); err != nil {
			// Stop already started jobs if this one fails
			jm.StopAll()
			return fmt.Errorf("failed to start %s job: %w", job.Name(), err)
		}
		jm.started = append(jm.started, job)
	}
	return nil
}

// StopAll stops all started jobs gracefully, waiting for running executions.
func (jm *JobManager) StopAll() {
	for i := len(jm.started) - 1; i >= 0; i-- {
		jm.started[i].Stop()
	}
	jm.started = nil
}
