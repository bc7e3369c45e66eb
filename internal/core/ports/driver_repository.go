// Package ports defines the contracts between the application core and the
// infrastructure adapters: repositories, the unit of work, and the clients
// for the order, routing, notification and coordination backends.
package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
)

// DriverRepository defines the persistence contract for driver aggregates.
type DriverRepository interface {
	// Add persists a new driver aggregate.
	Add(ctx context.Context, aggregate *driver.Driver) error

	// Update persists changes to an existing driver aggregate.
	Update(ctx context.Context, aggregate *driver.Driver) error

	// Get retrieves a driver with their latest reported location. Returns
	// an ObjectNotFound error when the driver does not exist.
	Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error)

	// GetAllAssignable retrieves the active, available drivers whose latest
	// location was reported within the freshness window ending at now.
	GetAllAssignable(ctx context.Context, now time.Time) ([]*driver.Driver, error)

	// AddLocation persists a newly reported location.
	AddLocation(ctx context.Context, location *driver.Location) error

	// GetLocation retrieves a reported location by id. Returns an
	// ObjectNotFound error when it does not exist.
	GetLocation(ctx context.Context, id kernel.UUID) (*driver.Location, error)

	// UpdateLocation persists changes to a location, such as consuming it
	// when a driver confirms their assignments.
	UpdateLocation(ctx context.Context, location *driver.Location) error
}
