package services

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// DurationEstimator answers how long driving between two points takes when
// leaving at a given moment.
type DurationEstimator interface {
	EstimateDuration(ctx context.Context, origin, destination kernel.Coordinates,
		departAt time.Time) (time.Duration, error)
}

// RouteSequencer assigns rankings to a driver's stops with a greedy
// nearest-neighbor walk. Pick up stops are visitable at once; a drop off only
// becomes visitable after a stop of the same assignment has been chosen, so
// the walk never schedules a delivery before its collection.
type RouteSequencer struct {
	estimator DurationEstimator
}

func NewRouteSequencer(estimator DurationEstimator) (RouteSequencer, error) {
	if estimator == nil {
		return RouteSequencer{}, errs.NewValueIsRequiredError("estimator")
	}
	return RouteSequencer{estimator: estimator}, nil
}

// Sequence ranks the sortable stops of the graph and returns them in visiting
// order. Stops excluded by the graph keep their existing rankings and the new
// rankings continue after the highest excluded one.
//
// When the graph has excluded stops the walk starts from the highest ranked of
// them, otherwise from the driver's location.
//
// A stop whose assignments never connect to the frontier stays unranked; it
// will be picked up by a later sequencing round once new packages bridge it to
// the rest of the route.
func (rs RouteSequencer) Sequence(ctx context.Context, driverLocation kernel.Coordinates,
	graph *StopGraph, now time.Time) ([]*delivery.Stop, error) {
	if graph == nil {
		return nil, errs.NewValueIsRequiredError("graph")
	}

	excluded := graph.ExcludedStops()

	var sortable []*delivery.Stop
	for _, stop := range graph.Stops() {
		if !excluded[stop.ID()] {
			sortable = append(sortable, stop)
		}
	}
	if len(sortable) == 0 {
		return nil, nil
	}

	origin, nextRanking := rs.startPoint(driverLocation, graph, excluded)

	frontier := initialFrontier(graph, sortable)

	visited := make(map[kernel.UUID]bool, len(sortable))
	ordered := make([]*delivery.Stop, 0, len(sortable))
	for len(frontier) > 0 {
		selected, err := rs.closest(ctx, origin, frontier, now)
		if err != nil {
			return nil, err
		}

		selected.SetRanking(nextRanking)
		nextRanking++
		ordered = append(ordered, selected)
		visited[selected.ID()] = true
		origin = selected.Coordinates()

		frontier = removeStop(frontier, selected.ID())
		for _, assignmentID := range graph.AssignmentsAt(selected.ID()) {
			for _, stopID := range graph.StopsOf(assignmentID) {
				if visited[stopID] || excluded[stopID] || containsStop(frontier, stopID) {
					continue
				}
				frontier = append(frontier, graph.Stop(stopID))
			}
		}
	}

	return ordered, nil
}

// startPoint returns where the walk begins and the first ranking to hand out.
func (rs RouteSequencer) startPoint(driverLocation kernel.Coordinates, graph *StopGraph,
	excluded map[kernel.UUID]bool) (kernel.Coordinates, int) {
	var anchor *delivery.Stop
	maxRanking := -1
	for id := range excluded {
		stop := graph.Stop(id)
		if stop == nil || stop.Ranking() == nil {
			continue
		}
		if *stop.Ranking() > maxRanking {
			maxRanking = *stop.Ranking()
			anchor = stop
		}
	}
	if anchor == nil {
		return driverLocation, 0
	}
	return anchor.Coordinates(), maxRanking + 1
}

// closest picks the frontier stop with the shortest travel time from the
// origin. Equal durations keep the earlier frontier entry, which makes the
// choice deterministic for a fixed stop load order.
func (rs RouteSequencer) closest(ctx context.Context, origin kernel.Coordinates,
	frontier []*delivery.Stop, now time.Time) (*delivery.Stop, error) {
	if len(frontier) == 1 {
		return frontier[0], nil
	}

	var best *delivery.Stop
	var bestDuration time.Duration
	for _, candidate := range frontier {
		duration, err := rs.estimator.EstimateDuration(ctx, origin, candidate.Coordinates(), now)
		if err != nil {
			return nil, err
		}
		if best == nil || duration < bestDuration {
			best = candidate
			bestDuration = duration
		}
	}
	return best, nil
}

// initialFrontier seeds the walk with pure pick up stops. When every stop
// already mixes in a drop off, all sortable stops are visitable right away.
func initialFrontier(graph *StopGraph, sortable []*delivery.Stop) []*delivery.Stop {
	var frontier []*delivery.Stop
	for _, stop := range sortable {
		if isPickUpOnly(graph.TasksAt(stop.ID())) {
			frontier = append(frontier, stop)
		}
	}
	if len(frontier) == 0 {
		frontier = append(frontier, sortable...)
	}
	return frontier
}

func isPickUpOnly(tasks []*delivery.Task) bool {
	hasPickUp := false
	for _, task := range tasks {
		switch task.Type() {
		case delivery.TaskTypeDropOff:
			return false
		case delivery.TaskTypePickUp:
			hasPickUp = true
		}
	}
	return hasPickUp
}

func removeStop(stops []*delivery.Stop, id kernel.UUID) []*delivery.Stop {
	for i, stop := range stops {
		if stop.ID().IsEqual(id) {
			return append(stops[:i], stops[i+1:]...)
		}
	}
	return stops
}

func containsStop(stops []*delivery.Stop, id kernel.UUID) bool {
	for _, stop := range stops {
		if stop.ID().IsEqual(id) {
			return true
		}
	}
	return false
}
