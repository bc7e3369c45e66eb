package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrConfirmAssignmentsCommandIsNotConstructed = errors.New(
		"ConfirmAssignmentsCommand must be created via NewConfirmAssignmentsCommand constructor",
	)
	// ErrAssignmentIDsAreRequired rejects an empty batch. It carries the
	// value-is-required kind so transports can classify it.
	ErrAssignmentIDsAreRequired error = errs.NewValueIsRequiredError("assignmentIds")
)

// ConfirmAssignmentsCommand carries a driver's acceptance of pending
// assignments, witnessed by the location they reported while confirming.
type ConfirmAssignmentsCommand struct { //nolint:recvcheck //using for validation
	locationID    kernel.UUID
	assignmentIDs []kernel.UUID

	guard guard.ConstructorGuard
}

func NewConfirmAssignmentsCommand(locationID kernel.UUID,
	assignmentIDs []kernel.UUID) (ConfirmAssignmentsCommand, error) {
	command := ConfirmAssignmentsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setLocationID(locationID),
		command.setAssignmentIDs(assignmentIDs),
	); err != nil {
		return ConfirmAssignmentsCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmAssignmentsCommand) Validate() error {
	return c.guard.Validate(ErrConfirmAssignmentsCommandIsNotConstructed)
}

// LocationID returns the location reported at confirmation time.
func (c ConfirmAssignmentsCommand) LocationID() kernel.UUID {
	return c.locationID
}

// AssignmentIDs returns the assignments being confirmed.
func (c ConfirmAssignmentsCommand) AssignmentIDs() []kernel.UUID {
	return c.assignmentIDs
}

func (c *ConfirmAssignmentsCommand) setLocationID(locationID kernel.UUID) error {
	if err := locationID.Validate(); err != nil {
		return err
	}

	c.locationID = locationID
	return nil
}

func (c *ConfirmAssignmentsCommand) setAssignmentIDs(assignmentIDs []kernel.UUID) error {
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
