package services

import (
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
)

// MatchRadiusMeters is how close two addresses have to be before their tasks
// share a single physical stop.
const MatchRadiusMeters = 25.0

// StopMatch names the existing stops a new package should be folded into.
// A nil field means a fresh stop has to be created for that end.
type StopMatch struct {
	PickUp  *delivery.Stop
	DropOff *delivery.Stop
}

// StopMatcher decides whether the pick up and drop off of a new package can
// reuse stops already on a driver's route.
type StopMatcher struct{}

func NewStopMatcher() StopMatcher {
	return StopMatcher{}
}

// Match looks for reusable stops near the pick up and drop off coordinates.
//
// The pick up anchors the decision: when no open stop sits within
// MatchRadiusMeters of the pick up, both ends get fresh stops, even if the
// drop off would have matched. When the pick up matches, the drop off match
// is kept only if routing through it would not close a cycle back to the
// pick up, otherwise the shared drop off is dropped and a new stop is created
// for it.
func (m StopMatcher) Match(graph *StopGraph, pickUp, dropOff kernel.Coordinates) (StopMatch, error) {
	pickUpStop, err := graph.FindWithinRadius(pickUp, MatchRadiusMeters)
	if err != nil {
		return StopMatch{}, err
	}
	if pickUpStop == nil || pickUpStop.IsCompleted() {
		return StopMatch{}, nil
	}

	dropOffStop, err := graph.FindWithinRadius(dropOff, MatchRadiusMeters)
	if err != nil {
		return StopMatch{}, err
	}
	if dropOffStop == nil {
		return StopMatch{PickUp: pickUpStop}, nil
	}
	if graph.IsReachable(dropOffStop.ID(), pickUpStop.ID()) {
		return StopMatch{PickUp: pickUpStop}, nil
	}

	return StopMatch{PickUp: pickUpStop, DropOff: dropOffStop}, nil
}
