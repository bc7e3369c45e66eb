package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrDepartStopCommandIsNotConstructed = errors.New(
	"DepartStopCommand must be created via NewDepartStopCommand constructor",
)

// DepartStopCommand records that a driver started driving toward a stop.
type DepartStopCommand struct { //nolint:recvcheck //using for validation
	stopID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDepartStopCommand(stopID kernel.UUID) (DepartStopCommand, error) {
	command := DepartStopCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setStopID(stopID); err != nil {
		return DepartStopCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c DepartStopCommand) Validate() error {
	return c.guard.Validate(ErrDepartStopCommandIsNotConstructed)
}

// StopID returns the stop the driver is heading to.
func (c DepartStopCommand) StopID() kernel.UUID {
	return c.stopID
}

func (c *DepartStopCommand) setStopID(stopID kernel.UUID) error {
	if err := stopID.Validate(); err != nil {
		return err
	}

	c.stopID = stopID
	return nil
}
