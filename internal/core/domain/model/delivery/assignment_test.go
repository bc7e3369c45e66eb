package delivery_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

func newPendingAssignment(t *testing.T, now time.Time) *delivery.Assignment {
	t.Helper()
	a, err := delivery.NewAssignment(kernel.NewUUID(), kernel.NewUUID(), "pkg-1",
		delivery.TypeManual, now)
	require.NoError(t, err)
	return a
}

func TestNewAssignment(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name           string
		id             kernel.UUID
		driverID       kernel.UUID
		packageID      string
		assignmentType delivery.Type
		wantErr        bool
	}{
		{
			name:           "valid manual assignment",
			id:             kernel.NewUUID(),
			driverID:       kernel.NewUUID(),
			packageID:      "pkg-1",
			assignmentType: delivery.TypeManual,
			wantErr:        false,
		},
		{
			name:           "valid automatic assignment",
			id:             kernel.NewUUID(),
			driverID:       kernel.NewUUID(),
			packageID:      "pkg-1",
			assignmentType: delivery.TypeAutomatic,
			wantErr:        false,
		},
		{
			name:           "invalid empty id",
			id:             kernel.UUID{},
			driverID:       kernel.NewUUID(),
			packageID:      "pkg-1",
			assignmentType: delivery.TypeManual,
			wantErr:        true,
		},
		{
			name:           "invalid empty package id",
			id:             kernel.NewUUID(),
			driverID:       kernel.NewUUID(),
			packageID:      "",
			assignmentType: delivery.TypeManual,
			wantErr:        true,
		},
		{
			name:           "invalid unknown type",
			id:             kernel.NewUUID(),
			driverID:       kernel.NewUUID(),
			packageID:      "pkg-1",
			assignmentType: delivery.Type("HYBRID"),
			wantErr:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := delivery.NewAssignment(tt.id, tt.driverID, tt.packageID,
				tt.assignmentType, now)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, delivery.StatusPending, a.Status())
			assert.Nil(t, a.ConfirmedAt())
			assert.Nil(t, a.ConfirmationLocationID())
		})
	}
}

func TestAssignment_Confirm(t *testing.T) {
	now := time.Now()

	t.Run("should confirm a pending assignment", func(t *testing.T) {
		a := newPendingAssignment(t, now)
		locationID := kernel.NewUUID()

		require.NoError(t, a.Confirm(locationID, now))

		assert.Equal(t, delivery.StatusConfirmed, a.Status())
		require.NotNil(t, a.ConfirmedAt())
		assert.Equal(t, now, *a.ConfirmedAt())
		require.NotNil(t, a.ConfirmationLocationID())
		assert.True(t, a.ConfirmationLocationID().IsEqual(locationID))
	})

	t.Run("should reject confirming twice", func(t *testing.T) {
		a := newPendingAssignment(t, now)
		require.NoError(t, a.Confirm(kernel.NewUUID(), now))

		err := a.Confirm(kernel.NewUUID(), now)
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})

	t.Run("should reject confirming an expired assignment", func(t *testing.T) {
		a := newPendingAssignment(t, now)
		require.NoError(t, a.Invalidate(delivery.StatusExpired, now))

		err := a.Confirm(kernel.NewUUID(), now)
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})

	t.Run("should reject an empty location id", func(t *testing.T) {
		a := newPendingAssignment(t, now)

		err := a.Confirm(kernel.UUID{}, now)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestAssignment_Invalidate(t *testing.T) {
	now := time.Now()

	t.Run("should expire a pending assignment", func(t *testing.T) {
		a := newPendingAssignment(t, now)

		require.NoError(t, a.Invalidate(delivery.StatusExpired, now))
		assert.Equal(t, delivery.StatusExpired, a.Status())
	})

	t.Run("should cancel a confirmed assignment", func(t *testing.T) {
		a := newPendingAssignment(t, now)
		require.NoError(t, a.Confirm(kernel.NewUUID(), now))

		require.NoError(t, a.Invalidate(delivery.StatusCanceled, now))
		assert.Equal(t, delivery.StatusCanceled, a.Status())
	})

	t.Run("should reject a non invalidation status", func(t *testing.T) {
		a := newPendingAssignment(t, now)

		err := a.Invalidate(delivery.StatusCompleted, now)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject invalidating a terminal assignment", func(t *testing.T) {
		a := newPendingAssignment(t, now)
		require.NoError(t, a.Invalidate(delivery.StatusCanceled, now))

		err := a.Invalidate(delivery.StatusExpired, now)
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})
}

func TestAssignment_Complete(t *testing.T) {
	now := time.Now()

	t.Run("should complete a confirmed assignment", func(t *testing.T) {
		a := newPendingAssignment(t, now)
		require.NoError(t, a.Confirm(kernel.NewUUID(), now))

		require.NoError(t, a.Complete(now))
		assert.Equal(t, delivery.StatusCompleted, a.Status())
	})

	t.Run("should reject completing a canceled assignment", func(t *testing.T) {
		a := newPendingAssignment(t, now)
		require.NoError(t, a.Invalidate(delivery.StatusCanceled, now))

		err := a.Complete(now)
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})
}

func TestAssignment_ExpiresAt(t *testing.T) {
	t.Run("should truncate sub second remainders", func(t *testing.T) {
		createdAt := time.Date(2026, 3, 14, 10, 30, 15, 700_000_000, time.UTC)
		a, err := delivery.NewAssignment(kernel.NewUUID(), kernel.NewUUID(), "pkg-1",
			delivery.TypeManual, createdAt)
		require.NoError(t, err)

		want := time.Date(2026, 3, 14, 10, 33, 15, 0, time.UTC)
		assert.Equal(t, want, a.ExpiresAt())
	})
}

func TestRestoreAssignment(t *testing.T) {
	now := time.Now()

	t.Run("should restore a confirmed assignment", func(t *testing.T) {
		confirmedAt := now.Add(-time.Minute)
		locationID := kernel.NewUUID()

		a, err := delivery.RestoreAssignment(kernel.NewUUID(), kernel.NewUUID(), "pkg-1",
			delivery.TypeAutomatic, delivery.StatusConfirmed, &confirmedAt, &locationID,
			now.Add(-2*time.Minute), now)
		require.NoError(t, err)

		assert.Equal(t, delivery.StatusConfirmed, a.Status())
		assert.Equal(t, delivery.TypeAutomatic, a.Type())
		require.NotNil(t, a.ConfirmationLocationID())
		assert.True(t, a.ConfirmationLocationID().IsEqual(locationID))
	})

	t.Run("should reject an unknown status", func(t *testing.T) {
		_, err := delivery.RestoreAssignment(kernel.NewUUID(), kernel.NewUUID(), "pkg-1",
			delivery.TypeManual, delivery.Status("LOST"), nil, nil, now, now)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestStatus(t *testing.T) {
	t.Run("should classify active statuses", func(t *testing.T) {
		assert.True(t, delivery.StatusPending.IsActive())
		assert.True(t, delivery.StatusConfirmed.IsActive())
		assert.False(t, delivery.StatusCompleted.IsActive())
		assert.False(t, delivery.StatusExpired.IsActive())
		assert.False(t, delivery.StatusCanceled.IsActive())
	})

	t.Run("should classify terminal statuses", func(t *testing.T) {
		assert.False(t, delivery.StatusPending.IsTerminal())
		assert.False(t, delivery.StatusConfirmed.IsTerminal())
		assert.True(t, delivery.StatusCompleted.IsTerminal())
		assert.True(t, delivery.StatusExpired.IsTerminal())
		assert.True(t, delivery.StatusCanceled.IsTerminal())
	})

	t.Run("should reject unknown values", func(t *testing.T) {
		assert.Error(t, delivery.Status("LOST").Validate())
		assert.Error(t, delivery.Type("HYBRID").Validate())
		assert.Error(t, delivery.TaskType("HANDOFF").Validate())
	})
}
