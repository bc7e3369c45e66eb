package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrReportLocationCommandIsNotConstructed = errors.New(
	"ReportLocationCommand must be created via NewReportLocationCommand constructor",
)

// ReportLocationCommand carries a position update from a driver's phone.
type ReportLocationCommand struct { //nolint:recvcheck //using for validation
	driverID     kernel.UUID
	coordinates  kernel.Coordinates
	batteryLevel float64

	guard guard.ConstructorGuard
}

func NewReportLocationCommand(driverID kernel.UUID, coordinates kernel.Coordinates,
	batteryLevel float64) (ReportLocationCommand, error) {
	command := ReportLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setDriverID(driverID),
		command.setCoordinates(coordinates),
		command.setBatteryLevel(batteryLevel),
	); err != nil {
		return ReportLocationCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ReportLocationCommand) Validate() error {
	return c.guard.Validate(ErrReportLocationCommandIsNotConstructed)
}

// DriverID returns the reporting driver.
func (c ReportLocationCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Coordinates returns the reported position.
func (c ReportLocationCommand) Coordinates() kernel.Coordinates {
	return c.coordinates
}

// BatteryLevel returns the phone's battery percentage at report time.
func (c ReportLocationCommand) BatteryLevel() float64 {
	return c.batteryLevel
}

func (c *ReportLocationCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *ReportLocationCommand) setCoordinates(coordinates kernel.Coordinates) error {
	if err := coordinates.Validate(); err != nil {
		return err
	}

	c.coordinates = coordinates
	return nil
}

func (c *ReportLocationCommand) setBatteryLevel(batteryLevel float64) error {
	if batteryLevel < 0 || batteryLevel > 100 {
		return errs.NewValueIsOutOfRangeError("batteryLevel", batteryLevel, 0, 100)
	}

	c.batteryLevel = batteryLevel
	return nil
}
