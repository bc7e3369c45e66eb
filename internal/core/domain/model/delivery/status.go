package delivery

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of an assignment.
//
// An assignment starts Pending, then moves to Confirmed once the driver
// accepts it. It becomes Completed when both of its tasks (pickup and
// dropoff) are completed. Expired marks assignments the driver did not
// confirm within the allotted time; Canceled marks assignments revoked by
// staff or customers. Expired and Canceled are reachable from both Pending
// and Confirmed:
//
//	Pending ──> Confirmed ──> Completed
//	    │            │
//	    └──> Expired / Canceled
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusExpired   Status = "EXPIRED"
	StatusCanceled  Status = "CANCELED"
)

// Validate checks that the status is one of the known values.
func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusExpired, StatusCanceled:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid", fmt.Errorf("%q is not a valid assignment status", string(s)))
	}
}

// IsActive reports whether the assignment still occupies the driver.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal reports whether the assignment lifecycle has ended.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusExpired || s == StatusCanceled
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// Type distinguishes how an assignment was created.
type Type string

const (
	// TypeManual marks assignments created by staff, possibly batched.
	TypeManual Type = "MANUAL"
	// TypeAutomatic marks assignments created by the dispatch sweep.
	TypeAutomatic Type = "AUTOMATIC"
)

// Validate checks that the type is one of the known values.
func (t Type) Validate() error {
	switch t {
	case TypeManual, TypeAutomatic:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"type is invalid", fmt.Errorf("%q is not a valid assignment type", string(t)))
	}
}

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// TaskType distinguishes the two obligations of every assignment.
type TaskType string

const (
	TaskTypePickUp  TaskType = "PICK_UP"
	TaskTypeDropOff TaskType = "DROP_OFF"
)

// Validate checks that the task type is one of the known values.
func (t TaskType) Validate() error {
	switch t {
	case TaskTypePickUp, TaskTypeDropOff:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"type is invalid", fmt.Errorf("%q is not a valid task type", string(t)))
	}
}

// String implements fmt.Stringer.
func (t TaskType) String() string {
	return string(t)
}

// DelayType classifies what a recorded delay applies to.
type DelayType string

const (
	DelayTypeStop       DelayType = "STOP"
	DelayTypeAssignment DelayType = "ASSIGNMENT"
)

// DelayStatus tracks the review state of a recorded delay.
type DelayStatus string

const (
	DelayStatusPending   DelayStatus = "PENDING"
	DelayStatusConfirmed DelayStatus = "CONFIRMED"
	DelayStatusJustified DelayStatus = "JUSTIFIED"
)
