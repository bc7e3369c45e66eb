package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// ArriveAtStopCommandHandler stamps the actual arrival at a stop. When the
// leg overran its estimated window beyond the tolerance, a delay is recorded
// against the stop in the same transaction so the review queue never misses
// one.
type ArriveAtStopCommandHandler struct {
	uowFactory   DispatchUoWFactory
	orderService ports.OrderService
}

func NewArriveAtStopCommandHandler(uowFactory DispatchUoWFactory,
	orderService ports.OrderService) ArriveAtStopCommandHandler {
	return ArriveAtStopCommandHandler{
		uowFactory:   uowFactory,
		orderService: orderService,
	}
}

func (h ArriveAtStopCommandHandler) Handle(ctx context.Context, command ArriveAtStopCommand) error {
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

	stop.RecordArrival(now)
	if err := stopRepo.Update(ctx, stop); err != nil {
		return err
	}

	if stop.ExceededTravelWindow() {
		delay, err := delivery.NewStopDelay(kernel.NewUUID(), stop.DriverID(), stop.ID(), now)
		if err != nil {
			return err
		}
		if err := stopRepo.AddDelay(ctx, delay); err != nil {
			return err
		}
	}

	pickUps, dropOffs, err := packagesAtStop(ctx, uow.AssignmentRepository(), stop.ID())
	if err != nil {
		return err
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	emitPackageEvents(h.orderService, ports.EventDriverArrivedPickUp, pickUps...)
	emitPackageEvents(h.orderService, ports.EventDriverArrivedDropOff, dropOffs...)

	return nil
}
