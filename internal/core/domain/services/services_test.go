package services_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/require"
)

// haversineEstimator turns straight line distance into travel time for tests.
type haversineEstimator struct {
	metersPerSecond float64
}

func (e haversineEstimator) EstimateDuration(_ context.Context, origin, destination kernel.Coordinates,
	_ time.Time) (time.Duration, error) {
	meters, err := origin.DistanceMeters(destination)
	if err != nil {
		return 0, err
	}
	return time.Duration(meters / e.metersPerSecond * float64(time.Second)), nil
}

// fixedEstimator returns a canned duration per origin, regardless of the
// destination. Unknown origins take no time at all.
type fixedEstimator struct {
	durations map[string]time.Duration
}

func (e fixedEstimator) EstimateDuration(_ context.Context, origin, _ kernel.Coordinates,
	_ time.Time) (time.Duration, error) {
	return e.durations[origin.String()], nil
}

func mustCoordinates(t *testing.T, latitude, longitude float64) kernel.Coordinates {
	t.Helper()
	coordinates, err := kernel.NewCoordinates(latitude, longitude)
	require.NoError(t, err)
	return coordinates
}

func mustStop(t *testing.T, driverID kernel.UUID, coordinates kernel.Coordinates,
	now time.Time) *delivery.Stop {
	t.Helper()
	stop, err := delivery.NewStop(kernel.NewUUID(), driverID, coordinates, now)
	require.NoError(t, err)
	return stop
}

func mustAssignment(t *testing.T, driverID kernel.UUID, packageID string,
	now time.Time) *delivery.Assignment {
	t.Helper()
	assignment, err := delivery.NewAssignment(kernel.NewUUID(), driverID, packageID,
		delivery.TypeAutomatic, now)
	require.NoError(t, err)
	return assignment
}

func mustConfirmedAssignment(t *testing.T, driverID kernel.UUID, packageID string,
	now time.Time) *delivery.Assignment {
	t.Helper()
	assignment := mustAssignment(t, driverID, packageID, now)
	require.NoError(t, assignment.Confirm(kernel.NewUUID(), now))
	return assignment
}

func mustTask(t *testing.T, stopID, assignmentID kernel.UUID, taskType delivery.TaskType,
	now time.Time) *delivery.Task {
	t.Helper()
	task, err := delivery.NewTask(kernel.NewUUID(), stopID, assignmentID, taskType, now)
	require.NoError(t, err)
	return task
}
