package jobs

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/ports"

	"github.com/robfig/cron/v3"
)

const (
	// sweepGap is the minimum quiet period between two sweep passes,
	// measured from the end of the previous pass.
	sweepGap = 3 * time.Minute

	// sweepFlagTTL bounds how long a crashed instance can hold the
	// running flag before it expires on its own.
	sweepFlagTTL = 3 * time.Minute

	// sweepFirstRunLookback is the assumed age of the last pass when no
	// cursor exists yet, so a fresh deployment sweeps immediately.
	sweepFirstRunLookback = 4 * time.Minute
)

// sweepRunner runs one automatic dispatch pass.
type sweepRunner interface {
	Handle(ctx context.Context, command commands.SweepCommand) error
}

// SweepJob ticks every second and runs a dispatch pass when the previous one
// finished long enough ago. The running flag and the finished-at cursor live
// in the coordination store, so only one instance sweeps at a time.
type SweepJob struct {
	handler sweepRunner
	store   ports.CoordinationStore
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewSweepJob creates the sweep job over the given handler and store.
func NewSweepJob(handler sweepRunner, store ports.CoordinationStore,
	logger *slog.Logger) *SweepJob {
	return &SweepJob{
		handler: handler,
		store:   store,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "sweep_job"),
	}
}

// Start schedules the job to tick every second.
func (j *SweepJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		j.tick(context.Background(), time.Now())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("sweep job started")
	return nil
}

// Stop stops the job. A pass already in flight finishes.
func (j *SweepJob) Stop() {
	j.cron.Stop()
	j.logger.Info("sweep job stopped")
}

// tick decides whether a pass is due and, if it wins the flag, runs one.
func (j *SweepJob) tick(ctx context.Context, now time.Time) {
	running, found, err := j.store.Get(ctx, ports.SweepRunningKey)
	if err != nil {
		j.logger.ErrorContext(ctx, "sweep flag read failed", "error", err)
		return
	}
	if found && running == "true" {
		// Another instance is sweeping, or a crashed one left the flag
		// behind. The TTL clears the latter; no healing here.
		j.logger.DebugContext(ctx, "sweep flag is up, skipping tick")
		return
	}

	finishedAt, err := j.lastFinishedAt(ctx, now)
	if err != nil {
		j.logger.ErrorContext(ctx, "sweep cursor read failed", "error", err)
		return
	}
	if now.Before(finishedAt.Add(sweepGap)) {
		return
	}

	acquired, err := j.store.CompareAndSwap(ctx, ports.SweepRunningKey,
		running, "true", sweepFlagTTL.Truncate(time.Second))
	if err != nil {
		j.logger.ErrorContext(ctx, "sweep flag acquisition failed", "error", err)
		return
	}
	if !acquired {
		return
	}

	if err := j.handler.Handle(ctx, commands.NewSweepCommand()); err != nil {
		j.logger.ErrorContext(ctx, "sweep pass failed", "error", err)
	}

	// The flag drops and the cursor advances even after a failed pass;
	// retrying a broken pass every second would hammer the upstreams.
	if err := j.store.Set(ctx, ports.SweepRunningKey, "false",
		sweepFlagTTL.Truncate(time.Second)); err != nil {
		j.logger.ErrorContext(ctx, "sweep flag release failed", "error", err)
	}
	if err := j.store.Set(ctx, ports.SweepFinishedAtKey,
		time.Now().UTC().Format(time.RFC3339), 0); err != nil {
		j.logger.ErrorContext(ctx, "sweep cursor write failed", "error", err)
	}
}

// lastFinishedAt reads the cursor, assuming a pass old enough to sweep
// immediately when none was recorded yet.
func (j *SweepJob) lastFinishedAt(ctx context.Context, now time.Time) (time.Time, error) {
	raw, found, err := j.store.Get(ctx, ports.SweepFinishedAtKey)
	if err != nil {
		return time.Time{}, err
	}
	if !found {
		return now.Add(-sweepFirstRunLookback), nil
	}

	finishedAt, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		j.logger.WarnContext(ctx, "sweep cursor is malformed, resetting",
			"value", raw)
		return now.Add(-sweepFirstRunLookback), nil
	}
	return finishedAt, nil
}
