package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrInvalidateAssignmentsCommandIsNotConstructed = errors.New(
		"InvalidateAssignmentsCommand must be created via NewInvalidateAssignmentsCommand constructor",
	)
	ErrInvalidationStatusIsInvalid = errors.New(
		"invalidation status must be EXPIRED or CANCELED",
	)
)

// InvalidateAssignmentsCommand voids a batch of active assignments, either
// because their confirmation window lapsed or because someone canceled them.
type InvalidateAssignmentsCommand struct { //nolint:recvcheck //using for validation
	newStatus     delivery.Status
	assignmentIDs []kernel.UUID

	guard guard.ConstructorGuard
}

func NewInvalidateAssignmentsCommand(newStatus delivery.Status,
	assignmentIDs []kernel.UUID) (InvalidateAssignmentsCommand, error) {
	command := InvalidateAssignmentsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setNewStatus(newStatus),
		command.setAssignmentIDs(assignmentIDs),
	); err != nil {
		return InvalidateAssignmentsCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c InvalidateAssignmentsCommand) Validate() error {
	return c.guard.Validate(ErrInvalidateAssignmentsCommandIsNotConstructed)
}

// NewStatus returns the terminal status to apply.
func (c InvalidateAssignmentsCommand) NewStatus() delivery.Status {
	return c.newStatus
}

// AssignmentIDs returns the assignments to void.
func (c InvalidateAssignmentsCommand) AssignmentIDs() []kernel.UUID {
	return c.assignmentIDs
}

func (c *InvalidateAssignmentsCommand) setNewStatus(newStatus delivery.Status) error {
	if newStatus != delivery.StatusExpired && newStatus != delivery.StatusCanceled {
		return ErrInvalidationStatusIsInvalid
	}

	c.newStatus = newStatus
	return nil
}

func (c *InvalidateAssignmentsCommand) setAssignmentIDs(assignmentIDs []kernel.UUID) error {
	if len(assignmentIDs) == 0 {
		return ErrAssignmentIDsAreRequired
	}
	for _, id := range assignmentIDs {
		if err := id.Validate(); err != nil {
			return err
		}
	}

	c.assignmentIDs = assignmentIDs
	return nil
}
