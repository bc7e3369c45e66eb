package delivery

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// ErrDelayIsNotConstructed is returned when a Delay instance was not created
// through NewStopDelay or RestoreDelay.
var ErrDelayIsNotConstructed = errors.New("Delay must be created via NewStopDelay or RestoreDelay")

// Delay records that a driver overran the estimated travel window for a
// stop. It is created pending justification; review happens elsewhere.
type Delay struct {
	id          kernel.UUID
	driverID    kernel.UUID
	stopID      kernel.UUID
	delayType   DelayType
	delayStatus DelayStatus
	createdAt   time.Time

	isConstructed bool
}

// NewStopDelay creates a pending stop-level delay.
func NewStopDelay(id kernel.UUID, driverID kernel.UUID, stopID kernel.UUID, now time.Time) (*Delay, error) {
	if err := errors.Join(id.Validate(), driverID.Validate(), stopID.Validate()); err != nil {
		return nil, err
	}

	return &Delay{
		id:            id,
		driverID:      driverID,
		stopID:        stopID,
		delayType:     DelayTypeStop,
		delayStatus:   DelayStatusPending,
		createdAt:     now,
		isConstructed: true,
	}, nil
}

// RestoreDelay reconstructs a delay from persistence.
func RestoreDelay(
	id kernel.UUID,
	driverID kernel.UUID,
	stopID kernel.UUID,
	delayType DelayType,
	delayStatus DelayStatus,
	createdAt time.Time,
) (*Delay, error) {
	d, err := NewStopDelay(id, driverID, stopID, createdAt)
	if err != nil {
		return nil, err
	}

	d.delayType = delayType
	d.delayStatus = delayStatus
	return d, nil
}

// Validate ensures the Delay was created through a constructor.
func (d *Delay) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDelayIsNotConstructed
	}
	return nil
}

// ID returns the delay identifier.
func (d *Delay) ID() kernel.UUID {
	return d.id
}

// DriverID returns the delayed driver.
func (d *Delay) DriverID() kernel.UUID {
	return d.driverID
}

// StopID returns the stop whose travel window was overrun.
func (d *Delay) StopID() kernel.UUID {
	return d.stopID
}

// Type returns what the delay applies to.
func (d *Delay) Type() DelayType {
	return d.delayType
}

// Status returns the delay's review state.
func (d *Delay) Status() DelayStatus {
	return d.delayStatus
}

// CreatedAt returns when the delay was recorded.
func (d *Delay) CreatedAt() time.Time {
	return d.createdAt
}
