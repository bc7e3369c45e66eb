package commands

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// stopDwellAllowance is the handling time budgeted at each stop when
// computing travel windows. The first leg gets none, the driver is already
// moving.
const stopDwellAllowance = 5 * time.Minute

// windowRecomputeTimeout bounds the background travel window recalculation.
const windowRecomputeTimeout = 2 * time.Minute

// ConfirmAssignmentsCommandHandler moves pending assignments to confirmed,
// consumes the confirmation location, and then recomputes the driver's travel
// windows in the background.
type ConfirmAssignmentsCommandHandler struct {
	uowFactory   DispatchUoWFactory
	orderService ports.OrderService
	etaService   ports.ETAService
}

func NewConfirmAssignmentsCommandHandler(uowFactory DispatchUoWFactory,
	orderService ports.OrderService, etaService ports.ETAService) ConfirmAssignmentsCommandHandler {
	return ConfirmAssignmentsCommandHandler{
		uowFactory:   uowFactory,
		orderService: orderService,
		etaService:   etaService,
	}
}

// Handle confirms each assignment in one transaction. Only pending
// assignments confirm; one expired assignment fails the whole batch so the
// driver sees a consistent refusal instead of a partial acceptance.
func (h ConfirmAssignmentsCommandHandler) Handle(ctx context.Context,
	command ConfirmAssignmentsCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	now := time.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	driverRepo := uow.DriverRepository()
	assignmentRepo := uow.AssignmentRepository()

	location, err := driverRepo.GetLocation(ctx, command.LocationID())
	if err != nil {
		return err
	}

	if err := uow.LockDriver(ctx, location.DriverID()); err != nil {
		return err
	}

	confirmed := make([]*delivery.Assignment, 0, len(command.AssignmentIDs()))
	for _, assignmentID := range command.AssignmentIDs() {
		assignment, err := assignmentRepo.Get(ctx, assignmentID)
		if err != nil {
			return err
		}
		if !assignment.DriverID().IsEqual(location.DriverID()) {
			return errs.NewInvalidRequestError("assignment belongs to another driver")
		}
		if err := assignment.Confirm(location.ID(), now); err != nil {
			return err
		}
		if err := assignmentRepo.Update(ctx, assignment); err != nil {
			return err
		}
		confirmed = append(confirmed, assignment)
	}

	location.Consume()
	if err := driverRepo.UpdateLocation(ctx, location); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	emitPackageEvents(h.orderService, ports.EventDriverConfirmed, eventTargets(confirmed)...)

	go h.recomputeTravelWindows(location.DriverID(), location.Coordinates())

	return nil
}

// recomputeTravelWindows walks the driver's confirmed stops in rank order and
// refreshes their depart by / arrive by targets, starting the clock at the
// confirmation location. Runs after the commit; failures only cost window
// accuracy, so they are logged and dropped.
func (h ConfirmAssignmentsCommandHandler) recomputeTravelWindows(driverID kernel.UUID,
	origin kernel.Coordinates) {
	ctx, cancel := context.WithTimeout(context.Background(), windowRecomputeTimeout)
	defer cancel()

	if err := h.doRecomputeTravelWindows(ctx, driverID, origin); err != nil {
		slog.Error("travel window recompute failed",
			"driver_id", driverID.String(), "error", err)
	}
}

func (h ConfirmAssignmentsCommandHandler) doRecomputeTravelWindows(ctx context.Context,
	driverID kernel.UUID, origin kernel.Coordinates) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.LockDriver(ctx, driverID); err != nil {
		return err
	}

	stopRepo := uow.StopRepository()
	stops, err := stopRepo.GetConfirmedByDriver(ctx, driverID)
	if err != nil {
		return err
	}

	departAt := time.Now()
	for i, stop := range stops {
		if i > 0 {
			departAt = departAt.Add(stopDwellAllowance)
		}
		arriveBy, err := h.etaService.EstimateArrival(ctx, origin, stop.Coordinates(), departAt)
		if err != nil {
			return err
		}

		stop.SetTravelWindow(departAt, arriveBy)
		if err := stopRepo.Update(ctx, stop); err != nil {
			return err
		}

		origin = stop.Coordinates()
		departAt = arriveBy
	}

	return uow.Commit(ctx)
}
