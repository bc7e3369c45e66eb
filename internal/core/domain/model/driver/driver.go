package driver

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrDriverIsNotConstructed is returned when a Driver instance was not
// created through the NewDriver or RestoreDriver factory functions.
var ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver or RestoreDriver")

// Driver is the aggregate root for a delivery driver: identity, operational
// status, availability toggle and the most recent reported location.
//
// A driver is assignable only when all three hold:
//   - status is Active
//   - the driver flagged themselves available
//   - their latest location was reported within LocationFreshness
type Driver struct {
	id                kernel.UUID
	firstName         string
	lastName          string
	phoneNumber       string
	secondPhoneNumber string
	status            Status
	isAvailable       bool
	isFullTime        bool
	latestLocation    *Location
	createdAt         time.Time
	updatedAt         time.Time

	isConstructed bool
}

// NewDriver creates a driver in Pending status, unavailable, with no
// reported location.
func NewDriver(id kernel.UUID, firstName, lastName, phoneNumber string, now time.Time) (*Driver, error) {
	d := &Driver{
		status:        StatusPending,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(firstName, lastName),
		d.setPhoneNumber(phoneNumber),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDriver reconstructs a driver from persistence.
func RestoreDriver(
	id kernel.UUID,
	firstName, lastName, phoneNumber, secondPhoneNumber string,
	status Status,
	isAvailable, isFullTime bool,
	latestLocation *Location,
	createdAt, updatedAt time.Time,
) (*Driver, error) {
	d, err := NewDriver(id, firstName, lastName, phoneNumber, createdAt)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}

	if latestLocation != nil {
		if err = latestLocation.Validate(); err != nil {
			return nil, err
		}
	}

	d.secondPhoneNumber = secondPhoneNumber
	d.status = status
	d.isAvailable = isAvailable
	d.isFullTime = isFullTime
	d.latestLocation = latestLocation
	d.updatedAt = updatedAt
	return d, nil
}

// Validate ensures the Driver was created through a constructor.
func (d *Driver) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDriverIsNotConstructed
	}
	return nil
}

// IsEqual compares two drivers by identifier.
func (d *Driver) IsEqual(other *Driver) bool {
	return other != nil && d.id.IsEqual(other.id)
}

// ID returns the driver identifier.
func (d *Driver) ID() kernel.UUID {
	return d.id
}

// FirstName returns the driver's first name.
func (d *Driver) FirstName() string {
	return d.firstName
}

// LastName returns the driver's last name.
func (d *Driver) LastName() string {
	return d.lastName
}

// FullName returns "First Last" for notifications and logs.
func (d *Driver) FullName() string {
	return fmt.Sprintf("%s %s", d.firstName, d.lastName)
}

// PhoneNumber returns the driver's primary phone number.
func (d *Driver) PhoneNumber() string {
	return d.phoneNumber
}

// SecondPhoneNumber returns the optional secondary phone number.
func (d *Driver) SecondPhoneNumber() string {
	return d.secondPhoneNumber
}

// Status returns the driver's operational status.
func (d *Driver) Status() Status {
	return d.status
}

// IsAvailable reports whether the driver flagged themselves available.
func (d *Driver) IsAvailable() bool {
	return d.isAvailable
}

// IsFullTime reports whether the driver works full time.
func (d *Driver) IsFullTime() bool {
	return d.isFullTime
}

// LatestLocation returns the most recent reported location, or nil if the
// driver never reported one.
func (d *Driver) LatestLocation() *Location {
	return d.latestLocation
}

// CreatedAt returns when the driver record was created.
func (d *Driver) CreatedAt() time.Time {
	return d.createdAt
}

// UpdatedAt returns when the driver record last changed.
func (d *Driver) UpdatedAt() time.Time {
	return d.updatedAt
}

// IsAssignable reports whether the driver can receive a new assignment:
// active, available, and holding a fresh location.
func (d *Driver) IsAssignable(now time.Time) bool {
	if d.status != StatusActive || !d.isAvailable {
		return false
	}

	if d.latestLocation == nil {
		return false
	}

	return d.latestLocation.IsFresh(now)
}

// SetAvailability toggles the driver's availability flag.
func (d *Driver) SetAvailability(isAvailable bool, now time.Time) {
	d.isAvailable = isAvailable
	d.updatedAt = now
}

// Activate moves the driver into Active status.
func (d *Driver) Activate(now time.Time) {
	d.status = StatusActive
	d.updatedAt = now
}

// Deactivate removes the driver from dispatch.
func (d *Driver) Deactivate(now time.Time) {
	d.status = StatusInactive
	d.updatedAt = now
}

// ReportLocation records a new position as the driver's latest location.
func (d *Driver) ReportLocation(location *Location) error {
	if err := location.Validate(); err != nil {
		return err
	}

	if !location.DriverID().IsEqual(d.id) {
		return errs.NewValueIsInvalidError("location belongs to another driver")
	}

	d.latestLocation = location
	return nil
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setName(firstName, lastName string) error {
	if firstName == "" {
		return errs.NewValueIsRequiredError("firstName")
	}
	if lastName == "" {
		return errs.NewValueIsRequiredError("lastName")
	}
	d.firstName = firstName
	d.lastName = lastName
	return nil
}

func (d *Driver) setPhoneNumber(phoneNumber string) error {
	if phoneNumber == "" {
		return errs.NewValueIsRequiredError("phoneNumber")
	}
	d.phoneNumber = phoneNumber
	return nil
}
