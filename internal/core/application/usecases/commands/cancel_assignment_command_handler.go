package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// CancelAssignmentCommandHandler cancels one active assignment and tells the
// driver about it. Terminal assignments read as not found, cancellation of an
// already finished delivery has nothing left to act on.
type CancelAssignmentCommandHandler struct {
	uowFactory   DispatchUoWFactory
	orderService ports.OrderService
	notifier     ports.NotificationService
}

func NewCancelAssignmentCommandHandler(uowFactory DispatchUoWFactory,
	orderService ports.OrderService,
	notifier ports.NotificationService) CancelAssignmentCommandHandler {
	return CancelAssignmentCommandHandler{
		uowFactory:   uowFactory,
		orderService: orderService,
		notifier:     notifier,
	}
}

func (h CancelAssignmentCommandHandler) Handle(ctx context.Context,
	command CancelAssignmentCommand) error {
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

	assignment, err := uow.AssignmentRepository().Get(ctx, command.AssignmentID())
	if err != nil {
		return err
	}
	if !assignment.Status().IsActive() {
		return errs.NewObjectNotFoundError("assignmentID", command.AssignmentID())
	}

	if err := uow.LockDriver(ctx, assignment.DriverID()); err != nil {
		return err
	}

	if err := removeAssignments(ctx, uow, h.orderService,
		[]*delivery.Assignment{assignment}, delivery.StatusCanceled, now); err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	sendPush(h.notifier, assignment.DriverID(), "Delivery canceled",
		"One of your deliveries was canceled and removed from your route")

	return nil
}
