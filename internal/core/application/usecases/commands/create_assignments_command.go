package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrCreateAssignmentsCommandIsNotConstructed = errors.New(
		"CreateAssignmentsCommand must be created via NewCreateAssignmentsCommand constructor",
	)
	ErrPackageIDsAreRequired = errors.New("at least one package id is required")
)

// CreateAssignmentsCommand requests that a batch of packages be attached to
// one driver's route. Every package gets its own assignment; the batch shares
// a single resequencing pass.
type CreateAssignmentsCommand struct { //nolint:recvcheck //using for validation
	driverID       kernel.UUID
	assignmentType delivery.Type
	packageIDs     []string

	guard guard.ConstructorGuard
}

// NewCreateAssignmentsCommand validates the driver id, the assignment type
// and the package list.
func NewCreateAssignmentsCommand(driverID kernel.UUID, assignmentType delivery.Type,
	packageIDs []string) (CreateAssignmentsCommand, error) {
	command := CreateAssignmentsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setDriverID(driverID),
		command.setAssignmentType(assignmentType),
		command.setPackageIDs(packageIDs),
	); err != nil {
		return CreateAssignmentsCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateAssignmentsCommand) Validate() error {
	return c.guard.Validate(ErrCreateAssignmentsCommandIsNotConstructed)
}

// DriverID returns the driver receiving the packages.
func (c CreateAssignmentsCommand) DriverID() kernel.UUID {
	return c.driverID
}

// AssignmentType returns whether the batch was placed manually or by the sweep.
func (c CreateAssignmentsCommand) AssignmentType() delivery.Type {
	return c.assignmentType
}

// PackageIDs returns the packages to attach.
func (c CreateAssignmentsCommand) PackageIDs() []string {
	return c.packageIDs
}

func (c *CreateAssignmentsCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *CreateAssignmentsCommand) setAssignmentType(assignmentType delivery.Type) error {
	if err := assignmentType.Validate(); err != nil {
		return err
	}

	c.assignmentType = assignmentType
	return nil
}

func (c *CreateAssignmentsCommand) setPackageIDs(packageIDs []string) error {
	if len(packageIDs) == 0 {
		return ErrPackageIDsAreRequired
	}
	for _, packageID := range packageIDs {
		if packageID == "" {
			return ErrPackageIDsAreRequired
		}
	}

	c.packageIDs = packageIDs
	return nil
}
