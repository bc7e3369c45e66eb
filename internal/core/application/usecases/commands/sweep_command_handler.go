package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// Readiness offsets relative to a package's pick up window start. Express
// packages dispatch shortly before the window opens; standard ones wait well
// into it so a passing driver can still scoop them up manually.
const (
	expressReadyLead  = 20 * time.Minute
	standardReadyWait = 35 * time.Minute
)

// SweepCommandHandler runs one automatic dispatch pass.
type SweepCommandHandler struct {
	uowFactory   DispatchUoWFactory
	orderService ports.OrderService
	etaService   ports.ETAService
	notifier     ports.NotificationService
}

func NewSweepCommandHandler(uowFactory DispatchUoWFactory, orderService ports.OrderService,
	etaService ports.ETAService, notifier ports.NotificationService) SweepCommandHandler {
	return SweepCommandHandler{
		uowFactory:   uowFactory,
		orderService: orderService,
		etaService:   etaService,
		notifier:     notifier,
	}
}

// Handle first expires every pending assignment past its confirmation window,
// then walks the dispatchable packages in pick up order and assigns each
// ready one to a driver. The pass stops early when no driver can take a
// package; whoever freed up would get the same answer for the rest of the
// list.
func (h SweepCommandHandler) Handle(ctx context.Context, command SweepCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	now := time.Now()

	if err := h.expireStalePending(ctx, now); err != nil {
		return err
	}

	packages, err := h.orderService.GetDispatchablePackages(ctx)
	if err != nil {
		return err
	}

	for _, pkg := range packages {
		if !packageReady(pkg, now) {
			continue
		}

		err := h.dispatchPackage(ctx, pkg, now)
		if errors.Is(err, services.ErrNoAssignableDriver) {
			slog.Info("sweep pass stopped, no assignable driver",
				"package_id", pkg.ID)
			return nil
		}
		if err != nil {
			slog.Error("sweep could not dispatch package",
				"package_id", pkg.ID, "error", err)
		}
	}

	return nil
}

// expireStalePending flips timed out pending assignments to EXPIRED and
// unwinds their stops and linkage, one transaction per driver so a poisoned
// route does not block the rest.
func (h SweepCommandHandler) expireStalePending(ctx context.Context, now time.Time) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	pending, err := uow.AssignmentRepository().GetAllPending(ctx)
	if rollbackErr := uow.Rollback(ctx); rollbackErr != nil && err == nil {
		err = rollbackErr
	}
	if err != nil {
		return err
	}

	expiredByDriver := make(map[kernel.UUID][]*delivery.Assignment)
	var driverOrder []kernel.UUID
	for _, assignment := range pending {
		if now.Before(assignment.ExpiresAt()) {
			continue
		}
		if _, ok := expiredByDriver[assignment.DriverID()]; !ok {
			driverOrder = append(driverOrder, assignment.DriverID())
		}
		expiredByDriver[assignment.DriverID()] = append(
			expiredByDriver[assignment.DriverID()], assignment)
	}

	for _, driverID := range driverOrder {
		if err := h.expireForDriver(ctx, driverID, expiredByDriver[driverID], now); err != nil {
			slog.Error("sweep could not expire assignments",
				"driver_id", driverID.String(), "error", err)
		}
	}
	return nil
}

func (h SweepCommandHandler) expireForDriver(ctx context.Context, driverID kernel.UUID,
	assignments []*delivery.Assignment, now time.Time) error {
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
	if err := removeAssignments(ctx, uow, h.orderService, assignments,
		delivery.StatusExpired, now); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// dispatchPackage assigns one package to the best placed driver inside its
// own transaction.
func (h SweepCommandHandler) dispatchPackage(ctx context.Context, pkg *ports.Package,
	now time.Time) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	existing, err := uow.AssignmentRepository().GetActiveByPackageID(ctx, pkg.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	assignee, err := h.selectDriver(ctx, uow, pkg, now)
	if err != nil {
		return err
	}

	if err := uow.LockDriver(ctx, assignee.ID()); err != nil {
		return err
	}

	created, err := attachPackages(ctx, uow, h.orderService, h.etaService, assignee,
		[]*ports.Package{pkg}, delivery.TypeAutomatic, now)
	if err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	emitPackageEvents(h.orderService, ports.EventDriverAssigned, eventTargets(created)...)
	sendPush(h.notifier, assignee.ID(), "New delivery",
		fmt.Sprintf("Package %s added to your route", pkg.TrackingNumber))

	return nil
}

func (h SweepCommandHandler) selectDriver(ctx context.Context, uow DispatchUoW,
	pkg *ports.Package, now time.Time) (*driver.Driver, error) {
	assignable, err := uow.DriverRepository().GetAllAssignable(ctx, now)
	if err != nil {
		return nil, err
	}

	// Automatic dispatch never stacks onto a driver who already carries a
	// pending or confirmed assignment; only manual creation may batch.
	drivers := make([]*driver.Driver, 0, len(assignable))
	for _, d := range assignable {
		active, err := uow.AssignmentRepository().GetActiveByDriver(ctx, d.ID())
		if err != nil {
			return nil, err
		}
		if len(active) > 0 {
			continue
		}
		drivers = append(drivers, d)
	}
	if len(drivers) == 0 {
		return nil, services.ErrNoAssignableDriver
	}

	driverIDs := make([]kernel.UUID, 0, len(drivers))
	for _, d := range drivers {
		driverIDs = append(driverIDs, d.ID())
	}
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	completions, err := uow.AssignmentRepository().GetLatestCompletionsToday(ctx,
		driverIDs, startOfDay)
	if err != nil {
		return nil, err
	}

	candidates := make([]services.DriverCandidate, 0, len(drivers))
	for _, d := range drivers {
		candidate := services.DriverCandidate{Driver: d}
		if completedAt, ok := completions[d.ID()]; ok {
			at := completedAt
			candidate.LastCompletedAt = &at
		}
		candidates = append(candidates, candidate)
	}

	selector, err := services.NewDriverSelector(h.etaService)
	if err != nil {
		return nil, err
	}
	return selector.Select(ctx, candidates, pkg.PickUp.Coordinates, now)
}

// packageReady reports whether a package has entered its dispatch window.
func packageReady(pkg *ports.Package, now time.Time) bool {
	if pkg.IsExpress {
		return !now.Before(pkg.PickUpStart.Add(-expressReadyLead))
	}
	return !now.Before(pkg.PickUpStart.Add(standardReadyWait))
}
