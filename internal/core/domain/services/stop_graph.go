package services

import (
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// StopGraph is an in-memory index over one driver's active stops, the tasks
// scheduled at them and the assignments those tasks belong to. Two stops are
// connected when at least one assignment has tasks at both of them, which is
// the case for every pick up / drop off pair.
//
// The graph is built per dispatch attempt and discarded afterwards. It is not
// safe for concurrent use.
type StopGraph struct {
	stops       map[kernel.UUID]*delivery.Stop
	stopOrder   []kernel.UUID
	assignments map[kernel.UUID]*delivery.Assignment

	tasksByStop       map[kernel.UUID][]*delivery.Task
	stopsByAssignment map[kernel.UUID][]kernel.UUID
	assignmentsByStop map[kernel.UUID][]kernel.UUID
}

func NewStopGraph(stops []*delivery.Stop, tasks []*delivery.Task,
	assignments []*delivery.Assignment) (*StopGraph, error) {
	g := &StopGraph{
		stops:             make(map[kernel.UUID]*delivery.Stop, len(stops)),
		stopOrder:         make([]kernel.UUID, 0, len(stops)),
		assignments:       make(map[kernel.UUID]*delivery.Assignment, len(assignments)),
		tasksByStop:       make(map[kernel.UUID][]*delivery.Task),
		stopsByAssignment: make(map[kernel.UUID][]kernel.UUID),
		assignmentsByStop: make(map[kernel.UUID][]kernel.UUID),
	}

	for _, stop := range stops {
		if stop == nil {
			return nil, errs.NewValueIsRequiredError("stops")
		}
		if _, ok := g.stops[stop.ID()]; ok {
			continue
		}
		g.stops[stop.ID()] = stop
		g.stopOrder = append(g.stopOrder, stop.ID())
	}

	for _, assignment := range assignments {
		if assignment == nil {
			return nil, errs.NewValueIsRequiredError("assignments")
		}
		g.assignments[assignment.ID()] = assignment
	}

	for _, task := range tasks {
		if task == nil {
			return nil, errs.NewValueIsRequiredError("tasks")
		}
		if _, ok := g.stops[task.StopID()]; !ok {
			continue
		}
		g.tasksByStop[task.StopID()] = append(g.tasksByStop[task.StopID()], task)
		g.stopsByAssignment[task.AssignmentID()] = appendUnique(
			g.stopsByAssignment[task.AssignmentID()], task.StopID())
		g.assignmentsByStop[task.StopID()] = appendUnique(
			g.assignmentsByStop[task.StopID()], task.AssignmentID())
	}

	return g, nil
}

// Stop returns the indexed stop with the given id, or nil.
func (g *StopGraph) Stop(id kernel.UUID) *delivery.Stop {
	return g.stops[id]
}

// Stops returns every indexed stop in insertion order.
func (g *StopGraph) Stops() []*delivery.Stop {
	result := make([]*delivery.Stop, 0, len(g.stopOrder))
	for _, id := range g.stopOrder {
		result = append(result, g.stops[id])
	}
	return result
}

// TasksAt returns the tasks scheduled at the given stop.
func (g *StopGraph) TasksAt(stopID kernel.UUID) []*delivery.Task {
	return g.tasksByStop[stopID]
}

// AssignmentsAt returns the ids of the assignments that have a task at the
// given stop.
func (g *StopGraph) AssignmentsAt(stopID kernel.UUID) []kernel.UUID {
	return g.assignmentsByStop[stopID]
}

// StopsOf returns the ids of the stops touched by the given assignment.
func (g *StopGraph) StopsOf(assignmentID kernel.UUID) []kernel.UUID {
	return g.stopsByAssignment[assignmentID]
}

// IsReachable reports whether a walk along shared-assignment edges leads from
// one stop to another. It answers the question "would a new package segment
// from `from` back to `to` close a cycle in the route".
func (g *StopGraph) IsReachable(from, to kernel.UUID) bool {
	if from.IsEqual(to) {
		return true
	}

	visited := map[kernel.UUID]bool{from: true}
	queue := []kernel.UUID{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, assignmentID := range g.assignmentsByStop[current] {
			for _, stopID := range g.stopsByAssignment[assignmentID] {
				if visited[stopID] {
					continue
				}
				if stopID.IsEqual(to) {
					return true
				}
				visited[stopID] = true
				queue = append(queue, stopID)
			}
		}
	}
	return false
}

// FindWithinRadius returns the first stop, in insertion order, whose
// coordinates lie within radiusMeters of the given point. It returns nil when
// no stop is close enough.
func (g *StopGraph) FindWithinRadius(coordinates kernel.Coordinates,
	radiusMeters float64) (*delivery.Stop, error) {
	for _, id := range g.stopOrder {
		stop := g.stops[id]
		distance, err := stop.Coordinates().DistanceMeters(coordinates)
		if err != nil {
			return nil, err
		}
		if distance <= radiusMeters {
			return stop, nil
		}
	}
	return nil, nil
}

// ConcludedStops returns the stops whose work is finished for good: the stop
// is completed and at least one of its tasks belongs to a confirmed
// assignment. A completed stop of a still pending assignment is not concluded,
// the assignment may yet expire and release the stop.
func (g *StopGraph) ConcludedStops() []kernel.UUID {
	var concluded []kernel.UUID
	for _, id := range g.stopOrder {
		stop := g.stops[id]
		if stop.CompletedAt() == nil {
			continue
		}
		for _, assignmentID := range g.assignmentsByStop[id] {
			assignment := g.assignments[assignmentID]
			if assignment != nil && assignment.Status() == delivery.StatusConfirmed {
				concluded = append(concluded, id)
				break
			}
		}
	}
	return concluded
}

// ExcludedStops expands the concluded set to every stop that shares an
// assignment with a concluded stop. Those stops keep their current rankings
// and are skipped by the sequencer.
func (g *StopGraph) ExcludedStops() map[kernel.UUID]bool {
	excluded := make(map[kernel.UUID]bool)
	for _, concludedID := range g.ConcludedStops() {
		excluded[concludedID] = true
		for _, assignmentID := range g.assignmentsByStop[concludedID] {
			for _, stopID := range g.stopsByAssignment[assignmentID] {
				excluded[stopID] = true
			}
		}
	}
	return excluded
}

func appendUnique(ids []kernel.UUID, id kernel.UUID) []kernel.UUID {
	for _, existing := range ids {
		if existing.IsEqual(id) {
			return ids
		}
	}
	return append(ids, id)
}
