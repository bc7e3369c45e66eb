package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// ETAService estimates road travel between two points. It satisfies the
// domain services' DurationEstimator contract.
type ETAService interface {
	// EstimateDuration returns the driving time from origin to destination
	// when leaving at departAt.
	EstimateDuration(ctx context.Context, origin, destination kernel.Coordinates,
		departAt time.Time) (time.Duration, error)

	// EstimateArrival returns the arrival time at the destination when
	// leaving the origin at departAt.
	EstimateArrival(ctx context.Context, origin, destination kernel.Coordinates,
		departAt time.Time) (time.Time, error)
}
