package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu     sync.Mutex
	values map[string]string
	ttls   map[string]time.Duration
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		values: make(map[string]string),
		ttls:   make(map[string]time.Duration),
	}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, found := s.values[key]
	return value, found, nil
}

func (s *memoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.ttls[key] = ttl
	return nil
}

func (s *memoryStore) CompareAndSwap(_ context.Context, key, oldValue, newValue string,
	ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values[key] != oldValue {
		return false, nil
	}
	s.values[key] = newValue
	s.ttls[key] = ttl
	return true, nil
}

type recordingRunner struct {
	err   error
	calls int
}

func (r *recordingRunner) Handle(_ context.Context, _ commands.SweepCommand) error {
	r.calls++
	return r.err
}

func newTestJob(runner sweepRunner, store ports.CoordinationStore) *SweepJob {
	return NewSweepJob(runner, store, slog.New(slog.DiscardHandler))
}

func TestSweepJob_Tick(t *testing.T) {
	t.Run("should sweep immediately when no cursor exists", func(t *testing.T) {
		store := newMemoryStore()
		runner := &recordingRunner{}
		job := newTestJob(runner, store)

		job.tick(context.Background(), time.Now())

		assert.Equal(t, 1, runner.calls)
	})

	t.Run("should release the flag and advance the cursor after a pass", func(t *testing.T) {
		store := newMemoryStore()
		job := newTestJob(&recordingRunner{}, store)

		job.tick(context.Background(), time.Now())

		flag, found, err := store.Get(context.Background(), ports.SweepRunningKey)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "false", flag)

		raw, found, err := store.Get(context.Background(), ports.SweepFinishedAtKey)
		require.NoError(t, err)
		require.True(t, found)
		finishedAt, err := time.Parse(time.RFC3339, raw)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), finishedAt, 2*time.Second)
	})

	t.Run("should skip when the previous pass finished recently", func(t *testing.T) {
		store := newMemoryStore()
		require.NoError(t, store.Set(context.Background(), ports.SweepFinishedAtKey,
			time.Now().Add(-time.Minute).UTC().Format(time.RFC3339), 0))
		runner := &recordingRunner{}
		job := newTestJob(runner, store)

		job.tick(context.Background(), time.Now())

		assert.Zero(t, runner.calls)
	})

	t.Run("should sweep when the quiet period has elapsed", func(t *testing.T) {
		store := newMemoryStore()
		require.NoError(t, store.Set(context.Background(), ports.SweepFinishedAtKey,
			time.Now().Add(-5*time.Minute).UTC().Format(time.RFC3339), 0))
		runner := &recordingRunner{}
		job := newTestJob(runner, store)

		job.tick(context.Background(), time.Now())

		assert.Equal(t, 1, runner.calls)
	})

	t.Run("should skip while the running flag is up", func(t *testing.T) {
		store := newMemoryStore()
		require.NoError(t, store.Set(context.Background(), ports.SweepRunningKey, "true", 0))
		runner := &recordingRunner{}
		job := newTestJob(runner, store)

		job.tick(context.Background(), time.Now())

		assert.Zero(t, runner.calls)

		flag, _, err := store.Get(context.Background(), ports.SweepRunningKey)
		require.NoError(t, err)
		assert.Equal(t, "true", flag, "a foreign flag must not be cleared")
	})

	t.Run("should hold consecutive ticks back until the quiet period passes", func(t *testing.T) {
		store := newMemoryStore()
		runner := &recordingRunner{}
		job := newTestJob(runner, store)

		job.tick(context.Background(), time.Now())
		require.Equal(t, 1, runner.calls)

		job.tick(context.Background(), time.Now())
		assert.Equal(t, 1, runner.calls, "the fresh cursor blocks the next tick")

		job.tick(context.Background(), time.Now().Add(sweepGap+time.Second))
		assert.Equal(t, 2, runner.calls)
	})

	t.Run("should advance the cursor even when the pass fails", func(t *testing.T) {
		store := newMemoryStore()
		runner := &recordingRunner{err: errors.New("order backend down")}
		job := newTestJob(runner, store)

		job.tick(context.Background(), time.Now())

		require.Equal(t, 1, runner.calls)

		flag, _, err := store.Get(context.Background(), ports.SweepRunningKey)
		require.NoError(t, err)
		assert.Equal(t, "false", flag)

		_, found, err := store.Get(context.Background(), ports.SweepFinishedAtKey)
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("should reset a malformed cursor and sweep", func(t *testing.T) {
		store := newMemoryStore()
		require.NoError(t, store.Set(context.Background(), ports.SweepFinishedAtKey,
			"not-a-timestamp", 0))
		runner := &recordingRunner{}
		job := newTestJob(runner, store)

		job.tick(context.Background(), time.Now())

		assert.Equal(t, 1, runner.calls)
	})

	t.Run("should bound the flag lifetime", func(t *testing.T) {
		store := newMemoryStore()
		job := newTestJob(&recordingRunner{}, store)

		job.tick(context.Background(), time.Now())

		store.mu.Lock()
		defer store.mu.Unlock()
		assert.Equal(t, sweepFlagTTL, store.ttls[ports.SweepRunningKey])
	})
}
