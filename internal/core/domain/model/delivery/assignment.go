package delivery

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrAssignmentIsNotConstructed is returned when an Assignment instance was
// not created through NewAssignment or RestoreAssignment.
var ErrAssignmentIsNotConstructed = errors.New(
	"Assignment must be created via NewAssignment or RestoreAssignment")

// PendingTTL is how long an assignment may stay Pending before the sweep
// expires it.
const PendingTTL = 3 * time.Minute

// Assignment binds one driver to one package for one delivery attempt. The
// package itself lives in the external order service and is referenced by an
// opaque id; the assignment carries the local lifecycle: confirmation time
// and evidence location, creation and update stamps, and the status machine
// documented on Status.
type Assignment struct {
	id                     kernel.UUID
	driverID               kernel.UUID
	packageID              string
	assignmentType         Type
	status                 Status
	confirmedAt            *time.Time
	confirmationLocationID *kernel.UUID
	createdAt              time.Time
	updatedAt              time.Time

	isConstructed bool
}

// NewAssignment creates a Pending assignment for the given driver/package
// pair.
func NewAssignment(
	id kernel.UUID, driverID kernel.UUID, packageID string, assignmentType Type, now time.Time,
) (*Assignment, error) {
	a := &Assignment{
		status:        StatusPending,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		a.setID(id),
		a.setDriverID(driverID),
		a.setPackageID(packageID),
		a.setType(assignmentType),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// RestoreAssignment reconstructs an assignment from persistence.
func RestoreAssignment(
	id kernel.UUID,
	driverID kernel.UUID,
	packageID string,
	assignmentType Type,
	status Status,
	confirmedAt *time.Time,
	confirmationLocationID *kernel.UUID,
	createdAt, updatedAt time.Time,
) (*Assignment, error) {
	a, err := NewAssignment(id, driverID, packageID, assignmentType, createdAt)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}

	if confirmationLocationID != nil {
		if err = confirmationLocationID.Validate(); err != nil {
			return nil, err
		}
	}

	a.status = status
	a.confirmedAt = confirmedAt
	a.confirmationLocationID = confirmationLocationID
	a.updatedAt = updatedAt
	return a, nil
}

// Validate ensures the Assignment was created through a constructor.
func (a *Assignment) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAssignmentIsNotConstructed
	}
	return nil
}

// IsEqual compares two assignments by identifier.
func (a *Assignment) IsEqual(other *Assignment) bool {
	return other != nil && a.id.IsEqual(other.id)
}

// ID returns the assignment identifier.
func (a *Assignment) ID() kernel.UUID {
	return a.id
}

// DriverID returns the assigned driver's identifier.
func (a *Assignment) DriverID() kernel.UUID {
	return a.driverID
}

// PackageID returns the opaque external package identifier.
func (a *Assignment) PackageID() string {
	return a.packageID
}

// Type returns whether the assignment was created manually or by the sweep.
func (a *Assignment) Type() Type {
	return a.assignmentType
}

// Status returns the current lifecycle status.
func (a *Assignment) Status() Status {
	return a.status
}

// ConfirmedAt returns when the driver confirmed, or nil.
func (a *Assignment) ConfirmedAt() *time.Time {
	return a.confirmedAt
}

// ConfirmationLocationID returns the location used as confirmation evidence,
// or nil.
func (a *Assignment) ConfirmationLocationID() *kernel.UUID {
	return a.confirmationLocationID
}

// CreatedAt returns when the assignment was created.
func (a *Assignment) CreatedAt() time.Time {
	return a.createdAt
}

// UpdatedAt returns when the assignment last changed.
func (a *Assignment) UpdatedAt() time.Time {
	return a.updatedAt
}

// ExpiresAt returns the moment the sweep may expire a still-Pending
// assignment. The creation time is truncated to whole seconds first so a
// sub-second remainder cannot push an assignment past an expiry pass.
func (a *Assignment) ExpiresAt() time.Time {
	return a.createdAt.Truncate(time.Second).Add(PendingTTL)
}

// Confirm transitions Pending -> Confirmed, stamping the confirmation time
// and the evidence location.
func (a *Assignment) Confirm(locationID kernel.UUID, now time.Time) error {
	if err := locationID.Validate(); err != nil {
		return err
	}

	if a.status != StatusPending {
		return errs.NewInvalidRequestError("assignment is no longer valid")
	}

	a.status = StatusConfirmed
	a.confirmedAt = &now
	a.confirmationLocationID = &locationID
	a.updatedAt = now
	return nil
}

// Invalidate transitions an active assignment to Expired or Canceled.
func (a *Assignment) Invalidate(newStatus Status, now time.Time) error {
	if newStatus != StatusExpired && newStatus != StatusCanceled {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid", fmt.Errorf("%s is not an invalidation status", newStatus))
	}

	if !a.status.IsActive() {
		return errs.NewInvalidRequestError("assignment is no longer valid")
	}

	a.status = newStatus
	a.updatedAt = now
	return nil
}

// Complete marks the assignment Completed once both tasks are done.
func (a *Assignment) Complete(now time.Time) error {
	if !a.status.IsActive() {
		return errs.NewInvalidRequestError("assignment is no longer valid")
	}

	a.status = StatusCompleted
	a.updatedAt = now
	return nil
}

func (a *Assignment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Assignment) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	a.driverID = driverID
	return nil
}

func (a *Assignment) setPackageID(packageID string) error {
	if packageID == "" {
		return errs.NewValueIsRequiredError("packageID")
	}
	a.packageID = packageID
	return nil
}

func (a *Assignment) setType(assignmentType Type) error {
	if err := assignmentType.Validate(); err != nil {
		return err
	}
	a.assignmentType = assignmentType
	return nil
}
