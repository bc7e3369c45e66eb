package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrArriveAtStopCommandIsNotConstructed = errors.New(
	"ArriveAtStopCommand must be created via NewArriveAtStopCommand constructor",
)

// ArriveAtStopCommand records that a driver reached a stop.
type ArriveAtStopCommand struct { //nolint:recvcheck //using for validation
	stopID kernel.UUID

	guard guard.ConstructorGuard
}

func NewArriveAtStopCommand(stopID kernel.UUID) (ArriveAtStopCommand, error) {
	command := ArriveAtStopCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setStopID(stopID); err != nil {
		return ArriveAtStopCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ArriveAtStopCommand) Validate() error {
	return c.guard.Validate(ErrArriveAtStopCommandIsNotConstructed)
}

// StopID returns the stop the driver arrived at.
func (c ArriveAtStopCommand) StopID() kernel.UUID {
	return c.stopID
}

func (c *ArriveAtStopCommand) setStopID(stopID kernel.UUID) error {
	if err := stopID.Validate(); err != nil {
		return err
	}

	c.stopID = stopID
	return nil
}
