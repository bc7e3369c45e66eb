package services_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopGraph_IsReachable(t *testing.T) {
	now := time.Now()
	driverID := kernel.NewUUID()

	stopA := mustStop(t, driverID, mustCoordinates(t, 48.8566, 2.3522), now)
	stopB := mustStop(t, driverID, mustCoordinates(t, 48.8570, 2.3530), now)
	stopC := mustStop(t, driverID, mustCoordinates(t, 48.8580, 2.3540), now)
	stopD := mustStop(t, driverID, mustCoordinates(t, 48.8590, 2.3550), now)

	// First package runs A -> B, second B -> C. D is unrelated.
	first := mustAssignment(t, driverID, "pkg-1", now)
	second := mustAssignment(t, driverID, "pkg-2", now)
	third := mustAssignment(t, driverID, "pkg-3", now)

	tasks := []*delivery.Task{
		mustTask(t, stopA.ID(), first.ID(), delivery.TaskTypePickUp, now),
		mustTask(t, stopB.ID(), first.ID(), delivery.TaskTypeDropOff, now),
		mustTask(t, stopB.ID(), second.ID(), delivery.TaskTypePickUp, now),
		mustTask(t, stopC.ID(), second.ID(), delivery.TaskTypeDropOff, now),
		mustTask(t, stopD.ID(), third.ID(), delivery.TaskTypePickUp, now),
	}

	graph, err := services.NewStopGraph(
		[]*delivery.Stop{stopA, stopB, stopC, stopD}, tasks,
		[]*delivery.Assignment{first, second, third})
	require.NoError(t, err)

	t.Run("should reach transitively through shared stops", func(t *testing.T) {
		assert.True(t, graph.IsReachable(stopA.ID(), stopC.ID()))
		assert.True(t, graph.IsReachable(stopC.ID(), stopA.ID()))
	})

	t.Run("should not reach disconnected stops", func(t *testing.T) {
		assert.False(t, graph.IsReachable(stopA.ID(), stopD.ID()))
		assert.False(t, graph.IsReachable(stopD.ID(), stopC.ID()))
	})

	t.Run("should treat a stop as reachable from itself", func(t *testing.T) {
		assert.True(t, graph.IsReachable(stopB.ID(), stopB.ID()))
	})
}

func TestStopGraph_FindWithinRadius(t *testing.T) {
	now := time.Now()
	driverID := kernel.NewUUID()

	stop := mustStop(t, driverID, mustCoordinates(t, 48.8566, 2.3522), now)
	graph, err := services.NewStopGraph([]*delivery.Stop{stop}, nil, nil)
	require.NoError(t, err)

	t.Run("should match coordinates a few meters away", func(t *testing.T) {
		// Roughly 11 meters north.
		near := mustCoordinates(t, 48.8567, 2.3522)
		found, err := graph.FindWithinRadius(near, services.MatchRadiusMeters)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.True(t, found.ID().IsEqual(stop.ID()))
	})

	t.Run("should not match coordinates beyond the radius", func(t *testing.T) {
		// Roughly 110 meters north.
		far := mustCoordinates(t, 48.8576, 2.3522)
		found, err := graph.FindWithinRadius(far, services.MatchRadiusMeters)
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestStopGraph_ExcludedStops(t *testing.T) {
	now := time.Now()
	driverID := kernel.NewUUID()

	completedAt := now.Add(-time.Minute)
	ranking := 0
	concluded, err := delivery.RestoreStop(kernel.NewUUID(), driverID,
		mustCoordinates(t, 48.8566, 2.3522), &ranking, nil, nil, nil, nil, &completedAt, now)
	require.NoError(t, err)

	sibling := mustStop(t, driverID, mustCoordinates(t, 48.8570, 2.3530), now)
	unrelated := mustStop(t, driverID, mustCoordinates(t, 48.8580, 2.3540), now)

	confirmed := mustConfirmedAssignment(t, driverID, "pkg-1", now)
	pending := mustAssignment(t, driverID, "pkg-2", now)

	tasks := []*delivery.Task{
		mustTask(t, concluded.ID(), confirmed.ID(), delivery.TaskTypePickUp, now),
		mustTask(t, sibling.ID(), confirmed.ID(), delivery.TaskTypeDropOff, now),
		mustTask(t, unrelated.ID(), pending.ID(), delivery.TaskTypePickUp, now),
	}

	graph, err := services.NewStopGraph(
		[]*delivery.Stop{concluded, sibling, unrelated}, tasks,
		[]*delivery.Assignment{confirmed, pending})
	require.NoError(t, err)

	excluded := graph.ExcludedStops()

	t.Run("should exclude the concluded stop and its assignment siblings", func(t *testing.T) {
		assert.True(t, excluded[concluded.ID()])
		assert.True(t, excluded[sibling.ID()])
	})

	t.Run("should keep unrelated stops sortable", func(t *testing.T) {
		assert.False(t, excluded[unrelated.ID()])
	})

	t.Run("should not conclude a completed stop of a pending assignment", func(t *testing.T) {
		pendingStopCompleted, err := delivery.RestoreStop(kernel.NewUUID(), driverID,
			mustCoordinates(t, 48.8590, 2.3550), nil, nil, nil, nil, nil, &completedAt, now)
		require.NoError(t, err)

		pendingOnly := mustAssignment(t, driverID, "pkg-3", now)
		g, err := services.NewStopGraph(
			[]*delivery.Stop{pendingStopCompleted},
			[]*delivery.Task{mustTask(t, pendingStopCompleted.ID(), pendingOnly.ID(),
				delivery.TaskTypePickUp, now)},
			[]*delivery.Assignment{pendingOnly})
		require.NoError(t, err)

		assert.Empty(t, g.ExcludedStops())
	})
}
