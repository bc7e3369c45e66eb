package commands

import (
	"context"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// CreateAssignmentsCommandHandler attaches packages to a driver's route.
//
// Manual batches are refused while a sweep pass is running, because the sweep
// may be about to hand the same packages to someone else; callers get a
// retryable InvalidRequest and try again after the pass.
type CreateAssignmentsCommandHandler struct {
	uowFactory   DispatchUoWFactory
	orderService ports.OrderService
	etaService   ports.ETAService
	notifier     ports.NotificationService
	coordination ports.CoordinationStore
}

func NewCreateAssignmentsCommandHandler(uowFactory DispatchUoWFactory,
	orderService ports.OrderService, etaService ports.ETAService,
	notifier ports.NotificationService,
	coordination ports.CoordinationStore) CreateAssignmentsCommandHandler {
	return CreateAssignmentsCommandHandler{
		uowFactory:   uowFactory,
		orderService: orderService,
		etaService:   etaService,
		notifier:     notifier,
		coordination: coordination,
	}
}

// Handle attaches the batch inside one transaction: per-driver lock, stop
// matching, task creation, one resequencing pass, synchronous package
// linkage. Events and the push go out after the commit.
func (h CreateAssignmentsCommandHandler) Handle(ctx context.Context,
	command CreateAssignmentsCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	if command.AssignmentType() == delivery.TypeManual {
		if err := h.refuseDuringSweep(ctx); err != nil {
			return err
		}
	}

	now := time.Now()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.LockDriver(ctx, command.DriverID()); err != nil {
		return err
	}

	assignee, err := uow.DriverRepository().Get(ctx, command.DriverID())
	if err != nil {
		return err
	}

	packages := make([]*ports.Package, 0, len(command.PackageIDs()))
	for _, packageID := range command.PackageIDs() {
		pkg, err := h.orderService.GetPackage(ctx, packageID)
		if err != nil {
			return err
		}

		existing, err := uow.AssignmentRepository().GetActiveByPackageID(ctx, packageID)
		if err != nil {
			return err
		}
		if existing != nil {
			return errs.NewInvalidRequestError(
				fmt.Sprintf("package %s already has an active assignment", packageID))
		}

		packages = append(packages, pkg)
	}

	created, err := attachPackages(ctx, uow, h.orderService, h.etaService, assignee,
		packages, command.AssignmentType(), now)
	if err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	emitPackageEvents(h.orderService, ports.EventDriverAssigned, eventTargets(created)...)
	sendPush(h.notifier, assignee.ID(), "New deliveries",
		fmt.Sprintf("%d package(s) added to your route", len(created)))

	return nil
}

func (h CreateAssignmentsCommandHandler) refuseDuringSweep(ctx context.Context) error {
	running, found, err := h.coordination.Get(ctx, ports.SweepRunningKey)
	if err != nil {
		return err
	}
	if found && running == "true" {
		return errs.NewRetryableInvalidRequestError("dispatch sweep in progress, retry shortly")
	}
	return nil
}
