package services_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteSequencer_Sequence(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	driverID := kernel.NewUUID()
	driverLocation := mustCoordinates(t, 48.8500, 2.3400)

	sequencer, err := services.NewRouteSequencer(haversineEstimator{metersPerSecond: 10})
	require.NoError(t, err)

	t.Run("should visit the pick up before its drop off", func(t *testing.T) {
		// Drop off is closer to the driver than the pick up.
		pickUp := mustStop(t, driverID, mustCoordinates(t, 48.8700, 2.3700), now)
		dropOff := mustStop(t, driverID, mustCoordinates(t, 48.8510, 2.3410), now)

		assignment := mustAssignment(t, driverID, "pkg-1", now)
		tasks := []*delivery.Task{
			mustTask(t, pickUp.ID(), assignment.ID(), delivery.TaskTypePickUp, now),
			mustTask(t, dropOff.ID(), assignment.ID(), delivery.TaskTypeDropOff, now),
		}
		graph, err := services.NewStopGraph([]*delivery.Stop{pickUp, dropOff}, tasks,
			[]*delivery.Assignment{assignment})
		require.NoError(t, err)

		ordered, err := sequencer.Sequence(ctx, driverLocation, graph, now)
		require.NoError(t, err)
		require.Len(t, ordered, 2)
		assert.True(t, ordered[0].ID().IsEqual(pickUp.ID()))
		assert.True(t, ordered[1].ID().IsEqual(dropOff.ID()))
		assert.Equal(t, 0, *pickUp.Ranking())
		assert.Equal(t, 1, *dropOff.Ranking())
	})

	t.Run("should interleave routes through a shared stop", func(t *testing.T) {
		// Package one goes A -> B, package two B -> C. B both receives a drop
		// off and feeds a pick up, so the only legal order is A, B, C.
		stopA := mustStop(t, driverID, mustCoordinates(t, 48.8600, 2.3500), now)
		stopB := mustStop(t, driverID, mustCoordinates(t, 48.8550, 2.3450), now)
		stopC := mustStop(t, driverID, mustCoordinates(t, 48.8510, 2.3410), now)

		first := mustAssignment(t, driverID, "pkg-1", now)
		second := mustAssignment(t, driverID, "pkg-2", now)
		tasks := []*delivery.Task{
			mustTask(t, stopA.ID(), first.ID(), delivery.TaskTypePickUp, now),
			mustTask(t, stopB.ID(), first.ID(), delivery.TaskTypeDropOff, now),
			mustTask(t, stopB.ID(), second.ID(), delivery.TaskTypePickUp, now),
			mustTask(t, stopC.ID(), second.ID(), delivery.TaskTypeDropOff, now),
		}
		graph, err := services.NewStopGraph([]*delivery.Stop{stopA, stopB, stopC}, tasks,
			[]*delivery.Assignment{first, second})
		require.NoError(t, err)

		ordered, err := sequencer.Sequence(ctx, driverLocation, graph, now)
		require.NoError(t, err)
		require.Len(t, ordered, 3)
		assert.True(t, ordered[0].ID().IsEqual(stopA.ID()))
		assert.True(t, ordered[1].ID().IsEqual(stopB.ID()))
		assert.True(t, ordered[2].ID().IsEqual(stopC.ID()))
	})

	t.Run("should continue ranking after excluded stops", func(t *testing.T) {
		completedAt := now.Add(-time.Minute)
		rankingZero := 0
		rankingOne := 1
		donePickUp, err := delivery.RestoreStop(kernel.NewUUID(), driverID,
			mustCoordinates(t, 48.8510, 2.3410), &rankingZero,
			nil, nil, nil, nil, &completedAt, now)
		require.NoError(t, err)
		doneDropOff, err := delivery.RestoreStop(kernel.NewUUID(), driverID,
			mustCoordinates(t, 48.8550, 2.3450), &rankingOne,
			nil, nil, nil, nil, &completedAt, now)
		require.NoError(t, err)

		freshPickUp := mustStop(t, driverID, mustCoordinates(t, 48.8600, 2.3500), now)
		freshDropOff := mustStop(t, driverID, mustCoordinates(t, 48.8650, 2.3550), now)

		concluded := mustConfirmedAssignment(t, driverID, "pkg-1", now)
		fresh := mustAssignment(t, driverID, "pkg-2", now)
		tasks := []*delivery.Task{
			mustTask(t, donePickUp.ID(), concluded.ID(), delivery.TaskTypePickUp, now),
			mustTask(t, doneDropOff.ID(), concluded.ID(), delivery.TaskTypeDropOff, now),
			mustTask(t, freshPickUp.ID(), fresh.ID(), delivery.TaskTypePickUp, now),
			mustTask(t, freshDropOff.ID(), fresh.ID(), delivery.TaskTypeDropOff, now),
		}
		graph, err := services.NewStopGraph(
			[]*delivery.Stop{donePickUp, doneDropOff, freshPickUp, freshDropOff}, tasks,
			[]*delivery.Assignment{concluded, fresh})
		require.NoError(t, err)

		ordered, err := sequencer.Sequence(ctx, driverLocation, graph, now)
		require.NoError(t, err)
		require.Len(t, ordered, 2)

		// Finished stops keep their rankings, new ones start after them.
		assert.Equal(t, 0, *donePickUp.Ranking())
		assert.Equal(t, 1, *doneDropOff.Ranking())
		assert.Equal(t, 2, *freshPickUp.Ranking())
		assert.Equal(t, 3, *freshDropOff.Ranking())
	})

	t.Run("should leave stops unranked when nothing bridges them to the frontier", func(t *testing.T) {
		// Packages two and three form a component where every stop hosts a
		// drop off, so none of its stops seed the frontier and package one
		// shares no stop with them. The walk exhausts component one and the
		// rest stays unranked until a later resequencing connects it.
		stopA := mustStop(t, driverID, mustCoordinates(t, 48.8600, 2.3500), now)
		stopB := mustStop(t, driverID, mustCoordinates(t, 48.8550, 2.3450), now)
		stopC := mustStop(t, driverID, mustCoordinates(t, 48.8510, 2.3410), now)
		stopD := mustStop(t, driverID, mustCoordinates(t, 48.8520, 2.3420), now)

		first := mustAssignment(t, driverID, "pkg-1", now)
		second := mustAssignment(t, driverID, "pkg-2", now)
		third := mustAssignment(t, driverID, "pkg-3", now)
		tasks := []*delivery.Task{
			mustTask(t, stopA.ID(), first.ID(), delivery.TaskTypePickUp, now),
			mustTask(t, stopB.ID(), first.ID(), delivery.TaskTypeDropOff, now),
			mustTask(t, stopC.ID(), second.ID(), delivery.TaskTypePickUp, now),
			mustTask(t, stopD.ID(), second.ID(), delivery.TaskTypeDropOff, now),
			mustTask(t, stopD.ID(), third.ID(), delivery.TaskTypePickUp, now),
			mustTask(t, stopC.ID(), third.ID(), delivery.TaskTypeDropOff, now),
		}
		graph, err := services.NewStopGraph([]*delivery.Stop{stopA, stopB, stopC, stopD}, tasks,
			[]*delivery.Assignment{first, second, third})
		require.NoError(t, err)

		ordered, err := sequencer.Sequence(ctx, driverLocation, graph, now)
		require.NoError(t, err)
		require.Len(t, ordered, 2)
		assert.True(t, ordered[0].ID().IsEqual(stopA.ID()))
		assert.True(t, ordered[1].ID().IsEqual(stopB.ID()))
		assert.Nil(t, stopC.Ranking())
		assert.Nil(t, stopD.Ranking())
	})

	t.Run("should require a graph", func(t *testing.T) {
		_, err := sequencer.Sequence(ctx, driverLocation, nil, now)
		assert.Error(t, err)
	})
}
