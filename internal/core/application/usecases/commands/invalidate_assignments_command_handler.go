package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/ports"
)

// InvalidateAssignmentsCommandHandler voids assignments and unwinds their
// footprint on the route: tasks go away, stops left without tasks go away,
// and the packages return to the dispatchable pool. The whole batch succeeds
// or rolls back together.
type InvalidateAssignmentsCommandHandler struct {
	uowFactory   DispatchUoWFactory
	orderService ports.OrderService
}

func NewInvalidateAssignmentsCommandHandler(uowFactory DispatchUoWFactory,
	orderService ports.OrderService) InvalidateAssignmentsCommandHandler {
	return InvalidateAssignmentsCommandHandler{
		uowFactory:   uowFactory,
		orderService: orderService,
	}
}

func (h InvalidateAssignmentsCommandHandler) Handle(ctx context.Context,
	command InvalidateAssignmentsCommand) error {
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

	assignmentRepo := uow.AssignmentRepository()

	assignments := make([]*delivery.Assignment, 0, len(command.AssignmentIDs()))
	for _, assignmentID := range command.AssignmentIDs() {
		assignment, err := assignmentRepo.Get(ctx, assignmentID)
		if err != nil {
			return err
		}
		assignments = append(assignments, assignment)
	}

	if len(assignments) > 0 {
		if err := uow.LockDriver(ctx, assignments[0].DriverID()); err != nil {
			return err
		}
	}

	if err := removeAssignments(ctx, uow, h.orderService, assignments,
		command.NewStatus(), now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
