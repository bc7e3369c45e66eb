package driver

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the operational state of a driver account.
type Status string

const (
	// StatusPending marks a driver whose onboarding is not finished.
	StatusPending Status = "PENDING"
	// StatusActive marks a driver cleared to receive assignments.
	StatusActive Status = "ACTIVE"
	// StatusInactive marks a driver removed from dispatch.
	StatusInactive Status = "INACTIVE"
)

// Validate checks that the status is one of the known values.
func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusActive, StatusInactive:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid", fmt.Errorf("%q is not a valid driver status", string(s)))
	}
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}
