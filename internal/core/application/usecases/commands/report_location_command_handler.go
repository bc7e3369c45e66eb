package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
)

// ReportLocationCommandHandler appends a fresh location for a driver. The
// newest unconsumed location becomes the one dispatching works from.
type ReportLocationCommandHandler struct {
	uowFactory DriverUoWFactory
}

func NewReportLocationCommandHandler(uowFactory DriverUoWFactory) ReportLocationCommandHandler {
	return ReportLocationCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h ReportLocationCommandHandler) Handle(ctx context.Context,
	command ReportLocationCommand) error {
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
	reporting, err := driverRepo.Get(ctx, command.DriverID())
	if err != nil {
		return err
	}

	location, err := driver.NewLocation(kernel.NewUUID(), reporting.ID(),
		command.Coordinates(), command.BatteryLevel(), now)
	if err != nil {
		return err
	}
	if err := reporting.ReportLocation(location); err != nil {
		return err
	}

	if err := driverRepo.AddLocation(ctx, location); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
