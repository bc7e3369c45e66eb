package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrNoAssignableDriver is returned when no candidate can take a package.
var ErrNoAssignableDriver = errors.New("no assignable driver found")

// DriverCandidate pairs a driver with the last time one of their assignments
// completed today. A nil LastCompletedAt means the driver has not finished
// anything yet today.
type DriverCandidate struct {
	Driver          *driver.Driver
	LastCompletedAt *time.Time
}

// DriverSelector picks the driver best placed to collect a package: the one
// who can reach the pick up fastest, with idle time breaking the ties.
type DriverSelector struct {
	estimator DurationEstimator
}

func NewDriverSelector(estimator DurationEstimator) (DriverSelector, error) {
	if estimator == nil {
		return DriverSelector{}, errs.NewValueIsRequiredError("estimator")
	}
	return DriverSelector{estimator: estimator}, nil
}

type rankedDriver struct {
	driver         *driver.Driver
	etaMinutes     int
	lastCompletion time.Time
}

// Select ranks the candidates by travel time to the pick up, rounded down to
// whole minutes so that near ties collapse, then by how long the driver has
// been without a completed assignment. Drivers without a completion today
// count as busy right now, pushing them behind anyone who has been idle.
//
// It returns ErrNoAssignableDriver when the candidate list is empty.
func (s DriverSelector) Select(ctx context.Context, candidates []DriverCandidate,
	pickUp kernel.Coordinates, now time.Time) (*driver.Driver, error) {
	if len(candidates) == 0 {
		return nil, ErrNoAssignableDriver
	}

	ranked := make([]rankedDriver, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Driver == nil {
			return nil, errs.NewValueIsRequiredError("candidate driver")
		}
		location := candidate.Driver.LatestLocation()
		if location == nil {
			return nil, errs.NewInvalidRequestError("driver has no reported location")
		}

		eta, err := s.estimator.EstimateDuration(ctx, location.Coordinates(), pickUp, now)
		if err != nil {
			return nil, err
		}

		lastCompletion := now
		if candidate.LastCompletedAt != nil {
			lastCompletion = *candidate.LastCompletedAt
		}
		ranked = append(ranked, rankedDriver{
			driver:         candidate.Driver,
			etaMinutes:     int(eta.Minutes()),
			lastCompletion: lastCompletion,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].etaMinutes != ranked[j].etaMinutes {
			return ranked[i].etaMinutes < ranked[j].etaMinutes
		}
		if !ranked[i].lastCompletion.Equal(ranked[j].lastCompletion) {
			return ranked[i].lastCompletion.Before(ranked[j].lastCompletion)
		}
		return ranked[i].driver.ID().String() < ranked[j].driver.ID().String()
	})

	return ranked[0].driver, nil
}
