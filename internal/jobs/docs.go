// Package jobs provides scheduled background tasks for the marketplace.
//
// Jobs are cron-based, using github.com/robfig/cron/v3 with a seconds field.
//
// # Available Jobs
//
// 1. ZoneCacheWarmupJob - reloads the active-zone snapshot into Redis
// 2. ZoneStatisticsJob - logs zone counts and orders per zone
//
// # Usage
//
//	jobManager := jobs.NewJobManager(jobs.Config{
//		ZoneCacheWarmupSpec: "0 */5 * * * *",
//		ZoneStatisticsSpec:  "0 0 * * * *",
//	}, cachedCatalog, statisticsHandler, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - A failed run is logged and retried at the next tick
// - Failed job starts will stop any already running jobs
package jobs
