package jobs

import (
	"fmt"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/ports"
)

// JobManager coordinates the application's scheduled jobs.
type JobManager struct {
	sweepJob *SweepJob
}

// NewJobManager creates a job manager with all required jobs.
func NewJobManager(sweepHandler commands.SweepCommandHandler,
	store ports.CoordinationStore, logger *slog.Logger) *JobManager {
	return &JobManager{
		sweepJob: NewSweepJob(sweepHandler, store, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.sweepJob.Start(); err != nil {
		return fmt.Errorf("failed to start sweep job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.sweepJob.Stop()
}
