package commands

import (
	"context"
	"time"

	"dispatch/internal/core/ports"
)

// DepartStopCommandHandler stamps the actual departure toward a stop and
// tells the packages' owners their driver is moving.
type DepartStopCommandHandler struct {
	uowFactory   DispatchUoWFactory
	orderService ports.OrderService
}

func NewDepartStopCommandHandler(uowFactory DispatchUoWFactory,
	orderService ports.OrderService) DepartStopCommandHandler {
	return DepartStopCommandHandler{
		uowFactory:   uowFactory,
		orderService: orderService,
	}
}

func (h DepartStopCommandHandler) Handle(ctx context.Context, command DepartStopCommand) error {
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

	stopRepo := uow.StopRepository()
	stop, err := stopRepo.Get(ctx, command.StopID())
	if err != nil {
		return err
	}

	if err := uow.LockDriver(ctx, stop.DriverID()); err != nil {
		return err
	}

	stop.RecordDeparture(now)
	if err := stopRepo.Update(ctx, stop); err != nil {
		return err
	}

	pickUps, dropOffs, err := packagesAtStop(ctx, uow.AssignmentRepository(), stop.ID())
	if err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	emitPackageEvents(h.orderService, ports.EventDriverDepartingPickUp, pickUps...)
	emitPackageEvents(h.orderService, ports.EventDriverDepartingDropOff, dropOffs...)

	return nil
}
