package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// emissionTimeout bounds the post-commit notification calls.
const emissionTimeout = 10 * time.Second

// attachPackages folds the given packages into the driver's route inside the
// caller's open transaction: matches or creates stops, creates an assignment
// with its pick up and drop off tasks per package, resequences the route once
// for the whole batch, and writes the package linkage back to the order
// backend. Any failure leaves the transaction dirty; the caller rolls back.
func attachPackages(ctx context.Context, uow DispatchUoW, orderService ports.OrderService,
	eta ports.ETAService, assignee *driver.Driver, packages []*ports.Package,
	assignmentType delivery.Type, now time.Time) ([]*delivery.Assignment, error) {
	assignmentRepo := uow.AssignmentRepository()
	stopRepo := uow.StopRepository()

	stops, err := stopRepo.GetActiveByDriver(ctx, assignee.ID())
	if err != nil {
		return nil, err
	}
	assignments, err := assignmentRepo.GetActiveByDriver(ctx, assignee.ID())
	if err != nil {
		return nil, err
	}
	tasks, err := assignmentRepo.GetTasksByAssignments(ctx, assignmentIDs(assignments))
	if err != nil {
		return nil, err
	}

	matcher := services.NewStopMatcher()
	created := make([]*delivery.Assignment, 0, len(packages))
	for _, pkg := range packages {
		graph, err := services.NewStopGraph(stops, tasks, assignments)
		if err != nil {
			return nil, err
		}
		match, err := matcher.Match(graph, pkg.PickUp.Coordinates, pkg.DropOff.Coordinates)
		if err != nil {
			return nil, err
		}

		assignment, err := delivery.NewAssignment(kernel.NewUUID(), assignee.ID(), pkg.ID,
			assignmentType, now)
		if err != nil {
			return nil, err
		}
		if err := assignmentRepo.Add(ctx, assignment); err != nil {
			return nil, err
		}

		pickUpStop := match.PickUp
		if pickUpStop == nil {
			pickUpStop, err = delivery.NewStop(kernel.NewUUID(), assignee.ID(),
				pkg.PickUp.Coordinates, now)
			if err != nil {
				return nil, err
			}
			if err := stopRepo.Add(ctx, pickUpStop); err != nil {
				return nil, err
			}
			stops = append(stops, pickUpStop)
		}

		dropOffStop := match.DropOff
		if dropOffStop == nil {
			dropOffStop, err = delivery.NewStop(kernel.NewUUID(), assignee.ID(),
				pkg.DropOff.Coordinates, now)
			if err != nil {
				return nil, err
			}
			if err := stopRepo.Add(ctx, dropOffStop); err != nil {
				return nil, err
			}
			stops = append(stops, dropOffStop)
		}

		pickUpTask, err := delivery.NewTask(kernel.NewUUID(), pickUpStop.ID(),
			assignment.ID(), delivery.TaskTypePickUp, now)
		if err != nil {
			return nil, err
		}
		dropOffTask, err := delivery.NewTask(kernel.NewUUID(), dropOffStop.ID(),
			assignment.ID(), delivery.TaskTypeDropOff, now)
		if err != nil {
			return nil, err
		}
		if err := assignmentRepo.AddTask(ctx, pickUpTask); err != nil {
			return nil, err
		}
		if err := assignmentRepo.AddTask(ctx, dropOffTask); err != nil {
			return nil, err
		}

		tasks = append(tasks, pickUpTask, dropOffTask)
		assignments = append(assignments, assignment)
		created = append(created, assignment)
	}

	if err := resequenceRoute(ctx, stopRepo, eta, assignee, stops, tasks, assignments, now); err != nil {
		return nil, err
	}

	linkage := ports.PackageLinkage{
		DriverID:    assignee.ID(),
		DriverName:  assignee.FullName(),
		DriverPhone: assignee.PhoneNumber(),
	}
	for i, pkg := range packages {
		linkage.AssignmentID = created[i].ID()
		if err := orderService.SetLinkage(ctx, pkg.ID, linkage); err != nil {
			return nil, err
		}
	}

	return created, nil
}

// resequenceRoute reranks the driver's stops and persists the changed ones.
func resequenceRoute(ctx context.Context, stopRepo ports.StopRepository, eta ports.ETAService,
	assignee *driver.Driver, stops []*delivery.Stop, tasks []*delivery.Task,
	assignments []*delivery.Assignment, now time.Time) error {
	location := assignee.LatestLocation()
	if location == nil {
		return errs.NewInvalidRequestError("driver has no reported location")
	}

	graph, err := services.NewStopGraph(stops, tasks, assignments)
	if err != nil {
		return err
	}
	sequencer, err := services.NewRouteSequencer(eta)
	if err != nil {
		return err
	}
	ordered, err := sequencer.Sequence(ctx, location.Coordinates(), graph, now)
	if err != nil {
		return err
	}

	for _, stop := range ordered {
		if err := stopRepo.Update(ctx, stop); err != nil {
			return err
		}
	}
	return nil
}

// removeAssignments takes the given assignments out of the route inside the
// caller's open transaction: flips their status, deletes their tasks, drops
// stops left without tasks, and detaches the packages at the order backend.
func removeAssignments(ctx context.Context, uow DispatchUoW, orderService ports.OrderService,
	assignments []*delivery.Assignment, newStatus delivery.Status, now time.Time) error {
	assignmentRepo := uow.AssignmentRepository()
	stopRepo := uow.StopRepository()

	for _, assignment := range assignments {
		if err := assignment.Invalidate(newStatus, now); err != nil {
			return err
		}
		if err := assignmentRepo.Update(ctx, assignment); err != nil {
			return err
		}
	}

	tasks, err := assignmentRepo.GetTasksByAssignments(ctx, assignmentIDs(assignments))
	if err != nil {
		return err
	}
	touchedStops := make([]kernel.UUID, 0, len(tasks))
	for _, task := range tasks {
		if err := assignmentRepo.DeleteTask(ctx, task.ID()); err != nil {
			return err
		}
		touchedStops = appendUniqueID(touchedStops, task.StopID())
	}

	for _, stopID := range touchedStops {
		remaining, err := assignmentRepo.GetTasksByStop(ctx, stopID)
		if err != nil {
			return err
		}
		if len(remaining) == 0 {
			if err := stopRepo.Delete(ctx, stopID); err != nil {
				return err
			}
		}
	}

	for _, assignment := range assignments {
		if err := orderService.ClearLinkage(ctx, assignment.PackageID()); err != nil {
			return err
		}
	}
	return nil
}

// eventTarget is a package paired with the assignment a milestone belongs to.
type eventTarget struct {
	packageID    string
	assignmentID kernel.UUID
}

// eventTargets pairs each assignment's package with the assignment itself.
func eventTargets(assignments []*delivery.Assignment) []eventTarget {
	targets := make([]eventTarget, 0, len(assignments))
	for _, assignment := range assignments {
		targets = append(targets, eventTarget{
			packageID:    assignment.PackageID(),
			assignmentID: assignment.ID(),
		})
	}
	return targets
}

// packagesAtStop resolves the packages collected and delivered at a stop,
// split by task type, for milestone reporting.
func packagesAtStop(ctx context.Context, assignmentRepo ports.AssignmentRepository,
	stopID kernel.UUID) (pickUps, dropOffs []eventTarget, err error) {
	tasks, err := assignmentRepo.GetTasksByStop(ctx, stopID)
	if err != nil {
		return nil, nil, err
	}

	for _, task := range tasks {
		assignment, err := assignmentRepo.Get(ctx, task.AssignmentID())
		if err != nil {
			return nil, nil, err
		}
		target := eventTarget{packageID: assignment.PackageID(), assignmentID: assignment.ID()}
		if task.Type() == delivery.TaskTypeDropOff {
			dropOffs = append(dropOffs, target)
		} else {
			pickUps = append(pickUps, target)
		}
	}
	return pickUps, dropOffs, nil
}

// emitPackageEvents reports a milestone for each package in the background.
// Failures are logged and forgotten; event delivery is best effort.
func emitPackageEvents(orderService ports.OrderService, event ports.PackageEvent,
	targets ...eventTarget) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), emissionTimeout)
		defer cancel()

		for _, target := range targets {
			if err := orderService.SendEvent(ctx, target.packageID, event, target.assignmentID); err != nil {
				slog.Error("package event emission failed",
					"package_id", target.packageID, "event", string(event), "error", err)
			}
		}
	}()
}

// sendPush notifies a driver in the background, best effort.
func sendPush(notifier ports.NotificationService, driverID kernel.UUID, title, body string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), emissionTimeout)
		defer cancel()

		if err := notifier.SendPush(ctx, driverID, title, body); err != nil {
			slog.Error("push notification failed", "driver_id", driverID.String(), "error", err)
		}
	}()
}

func assignmentIDs(assignments []*delivery.Assignment) []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(assignments))
	for _, assignment := range assignments {
		ids = append(ids, assignment.ID())
	}
	return ids
}

func appendUniqueID(ids []kernel.UUID, id kernel.UUID) []kernel.UUID {
	for _, existing := range ids {
		if existing.IsEqual(id) {
			return ids
		}
	}
	return append(ids, id)
}
