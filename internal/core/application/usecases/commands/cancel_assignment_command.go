package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCancelAssignmentCommandIsNotConstructed = errors.New(
	"CancelAssignmentCommand must be created via NewCancelAssignmentCommand constructor",
)

// CancelAssignmentCommand withdraws one active assignment from its driver.
type CancelAssignmentCommand struct { //nolint:recvcheck //using for validation
	assignmentID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCancelAssignmentCommand(assignmentID kernel.UUID) (CancelAssignmentCommand, error) {
	command := CancelAssignmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := command.setAssignmentID(assignmentID); err != nil {
		return CancelAssignmentCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrCancelAssignmentCommandIsNotConstructed)
}

// AssignmentID returns the assignment to cancel.
func (c CancelAssignmentCommand) AssignmentID() kernel.UUID {
	return c.assignmentID
}

func (c *CancelAssignmentCommand) setAssignmentID(assignmentID kernel.UUID) error {
	if err := assignmentID.Validate(); err != nil {
		return err
	}

	c.assignmentID = assignmentID
	return nil
}
