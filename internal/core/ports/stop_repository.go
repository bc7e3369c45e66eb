package ports

import (
	"context"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
)

// StopRepository defines the persistence contract for stops and the delays
// recorded against them.
type StopRepository interface {
	// Add persists a new stop.
	Add(ctx context.Context, stop *delivery.Stop) error

	// Update persists changes to an existing stop.
	Update(ctx context.Context, stop *delivery.Stop) error

	// Get retrieves a stop by id. Returns an ObjectNotFound error when it
	// does not exist.
	Get(ctx context.Context, id kernel.UUID) (*delivery.Stop, error)

	// GetActiveByDriver retrieves the stops of a driver's active
	// assignments, oldest first. Includes completed stops of confirmed
	// assignments whose other stops are still open.
	GetActiveByDriver(ctx context.Context, driverID kernel.UUID) ([]*delivery.Stop, error)

	// GetConfirmedByDriver retrieves the ranked, uncompleted stops of a
	// driver's confirmed assignments ordered by ranking.
	GetConfirmedByDriver(ctx context.Context, driverID kernel.UUID) ([]*delivery.Stop, error)

	// Delete removes a stop once no task references it anymore.
	Delete(ctx context.Context, id kernel.UUID) error

	// AddDelay persists a delay recorded against a stop.
	AddDelay(ctx context.Context, delay *delivery.Delay) error
}
