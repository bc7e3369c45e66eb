// Package jobs provides scheduled background tasks for the dispatch service.
//
// Jobs are cron-based, built on github.com/robfig/cron/v3, and are managed
// through JobManager:
//
//	jobManager := jobs.NewJobManager(sweepHandler, store, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Available Jobs
//
// SweepJob ticks every second ("* * * * * *" with seconds enabled) and runs
// an automatic dispatch pass when the previous pass finished at least three
// minutes ago. A running flag and a finished-at cursor in the coordination
// store keep concurrent instances from sweeping over each other; the flag
// carries a TTL so a crashed instance cannot block dispatch forever.
package jobs
