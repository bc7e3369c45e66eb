package driver_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

func mustCoordinates(t *testing.T, latitude, longitude float64) kernel.Coordinates {
	t.Helper()
	coords, err := kernel.NewCoordinates(latitude, longitude)
	require.NoError(t, err)
	return coords
}

func newLocation(t *testing.T, driverID kernel.UUID, reportedAt time.Time) *driver.Location {
	t.Helper()
	location, err := driver.NewLocation(kernel.NewUUID(), driverID,
		mustCoordinates(t, 41.0082, 28.9784), 0.9, reportedAt)
	require.NoError(t, err)
	return location
}

func TestNewDriver(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name        string
		id          kernel.UUID
		firstName   string
		lastName    string
		phoneNumber string
		wantErr     bool
	}{
		{
			name:        "valid driver",
			id:          kernel.NewUUID(),
			firstName:   "Ayla",
			lastName:    "Demir",
			phoneNumber: "+905551234567",
			wantErr:     false,
		},
		{
			name:        "invalid empty id",
			id:          kernel.UUID{},
			firstName:   "Ayla",
			lastName:    "Demir",
			phoneNumber: "+905551234567",
			wantErr:     true,
		},
		{
			name:        "invalid empty first name",
			id:          kernel.NewUUID(),
			firstName:   "",
			lastName:    "Demir",
			phoneNumber: "+905551234567",
			wantErr:     true,
		},
		{
			name:        "invalid empty last name",
			id:          kernel.NewUUID(),
			firstName:   "Ayla",
			lastName:    "",
			phoneNumber: "+905551234567",
			wantErr:     true,
		},
		{
			name:        "invalid empty phone number",
			id:          kernel.NewUUID(),
			firstName:   "Ayla",
			lastName:    "Demir",
			phoneNumber: "",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := driver.NewDriver(tt.id, tt.firstName, tt.lastName, tt.phoneNumber, now)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errs.ErrValueIsRequired)
				return
			}

			require.NoError(t, err)
			assert.NoError(t, d.Validate())
			assert.Equal(t, driver.StatusPending, d.Status())
			assert.False(t, d.IsAvailable())
			assert.Nil(t, d.LatestLocation())
			assert.Equal(t, "Ayla Demir", d.FullName())
		})
	}
}

func TestDriver_IsAssignable(t *testing.T) {
	now := time.Now()

	newActive := func(t *testing.T) *driver.Driver {
		t.Helper()
		d, err := driver.NewDriver(kernel.NewUUID(), "Ayla", "Demir", "+905551234567", now)
		require.NoError(t, err)
		d.Activate(now)
		d.SetAvailability(true, now)
		return d
	}

	t.Run("should assign an active available driver with a fresh location", func(t *testing.T) {
		d := newActive(t)
		require.NoError(t, d.ReportLocation(newLocation(t, d.ID(), now.Add(-time.Minute))))

		assert.True(t, d.IsAssignable(now))
	})

	t.Run("should not assign without any location", func(t *testing.T) {
		d := newActive(t)

		assert.False(t, d.IsAssignable(now))
	})

	t.Run("should not assign with a stale location", func(t *testing.T) {
		d := newActive(t)
		stale := now.Add(-driver.LocationFreshness - time.Second)
		require.NoError(t, d.ReportLocation(newLocation(t, d.ID(), stale)))

		assert.False(t, d.IsAssignable(now))
	})

	t.Run("should assign exactly at the freshness boundary", func(t *testing.T) {
		d := newActive(t)
		boundary := now.Add(-driver.LocationFreshness)
		require.NoError(t, d.ReportLocation(newLocation(t, d.ID(), boundary)))

		assert.True(t, d.IsAssignable(now))
	})

	t.Run("should not assign an unavailable driver", func(t *testing.T) {
		d := newActive(t)
		require.NoError(t, d.ReportLocation(newLocation(t, d.ID(), now)))
		d.SetAvailability(false, now)

		assert.False(t, d.IsAssignable(now))
	})

	t.Run("should not assign a deactivated driver", func(t *testing.T) {
		d := newActive(t)
		require.NoError(t, d.ReportLocation(newLocation(t, d.ID(), now)))
		d.Deactivate(now)

		assert.False(t, d.IsAssignable(now))
	})

	t.Run("should not assign a pending driver", func(t *testing.T) {
		d, err := driver.NewDriver(kernel.NewUUID(), "Ayla", "Demir", "+905551234567", now)
		require.NoError(t, err)
		d.SetAvailability(true, now)
		require.NoError(t, d.ReportLocation(newLocation(t, d.ID(), now)))

		assert.False(t, d.IsAssignable(now))
	})
}

func TestDriver_ReportLocation(t *testing.T) {
	now := time.Now()

	t.Run("should replace the latest location", func(t *testing.T) {
		d, err := driver.NewDriver(kernel.NewUUID(), "Ayla", "Demir", "+905551234567", now)
		require.NoError(t, err)

		first := newLocation(t, d.ID(), now.Add(-time.Minute))
		second := newLocation(t, d.ID(), now)
		require.NoError(t, d.ReportLocation(first))
		require.NoError(t, d.ReportLocation(second))

		assert.True(t, d.LatestLocation().ID().IsEqual(second.ID()))
	})

	t.Run("should reject a location of another driver", func(t *testing.T) {
		d, err := driver.NewDriver(kernel.NewUUID(), "Ayla", "Demir", "+905551234567", now)
		require.NoError(t, err)

		foreign := newLocation(t, kernel.NewUUID(), now)
		err = d.ReportLocation(foreign)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject an unconstructed location", func(t *testing.T) {
		d, err := driver.NewDriver(kernel.NewUUID(), "Ayla", "Demir", "+905551234567", now)
		require.NoError(t, err)

		assert.ErrorIs(t, d.ReportLocation(nil), driver.ErrLocationIsNotConstructed)
	})
}

func TestRestoreDriver(t *testing.T) {
	now := time.Now()

	t.Run("should restore every field", func(t *testing.T) {
		id := kernel.NewUUID()
		location := newLocation(t, id, now)

		d, err := driver.RestoreDriver(id, "Ayla", "Demir", "+905551234567", "+905559876543",
			driver.StatusActive, true, true, location, now.Add(-time.Hour), now)
		require.NoError(t, err)

		assert.Equal(t, driver.StatusActive, d.Status())
		assert.True(t, d.IsAvailable())
		assert.True(t, d.IsFullTime())
		assert.Equal(t, "+905559876543", d.SecondPhoneNumber())
		assert.True(t, d.LatestLocation().ID().IsEqual(location.ID()))
		assert.Equal(t, now.Add(-time.Hour), d.CreatedAt())
		assert.Equal(t, now, d.UpdatedAt())
	})

	t.Run("should reject an unknown status", func(t *testing.T) {
		_, err := driver.RestoreDriver(kernel.NewUUID(), "Ayla", "Demir", "+905551234567", "",
			driver.Status("RETIRED"), false, false, nil, now, now)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestDriver_Validate(t *testing.T) {
	t.Run("should reject the zero value", func(t *testing.T) {
		var d driver.Driver
		assert.ErrorIs(t, d.Validate(), driver.ErrDriverIsNotConstructed)
	})

	t.Run("should reject nil", func(t *testing.T) {
		var d *driver.Driver
		assert.ErrorIs(t, d.Validate(), driver.ErrDriverIsNotConstructed)
	})
}

func TestStatus_Validate(t *testing.T) {
	tests := []struct {
		name    string
		status  driver.Status
		wantErr bool
	}{
		{"pending", driver.StatusPending, false},
		{"active", driver.StatusActive, false},
		{"inactive", driver.StatusInactive, false},
		{"unknown", driver.Status("RETIRED"), true},
		{"empty", driver.Status(""), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.status.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
