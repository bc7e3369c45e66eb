package driver

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// ErrLocationIsNotConstructed is returned when a Location instance was not
// created through NewLocation or RestoreLocation.
var ErrLocationIsNotConstructed = errors.New("Location must be created via NewLocation or RestoreLocation")

// LocationFreshness is how recently a driver must have reported a position
// for it to count toward assignability.
const LocationFreshness = 3 * time.Minute

// Location is a driver-reported position. Once a location has been used as
// confirmation evidence for an assignment it is marked consumed so that
// newer reports do not silently overwrite it.
type Location struct {
	id          kernel.UUID
	driverID    kernel.UUID
	coordinates kernel.Coordinates
	isConsumed  bool
	battery     float64
	reportedAt  time.Time

	isConstructed bool
}

// NewLocation creates a freshly reported driver location.
func NewLocation(
	id kernel.UUID, driverID kernel.UUID, coordinates kernel.Coordinates, battery float64, reportedAt time.Time,
) (*Location, error) {
	if err := errors.Join(id.Validate(), driverID.Validate(), coordinates.Validate()); err != nil {
		return nil, err
	}

	return &Location{
		id:            id,
		driverID:      driverID,
		coordinates:   coordinates,
		battery:       battery,
		reportedAt:    reportedAt,
		isConstructed: true,
	}, nil
}

// RestoreLocation reconstructs a location from persistence.
func RestoreLocation(
	id kernel.UUID,
	driverID kernel.UUID,
	coordinates kernel.Coordinates,
	isConsumed bool,
	battery float64,
	reportedAt time.Time,
) (*Location, error) {
	loc, err := NewLocation(id, driverID, coordinates, battery, reportedAt)
	if err != nil {
		return nil, err
	}

	loc.isConsumed = isConsumed
	return loc, nil
}

// Validate ensures the Location was created through a constructor.
func (l *Location) Validate() error {
	if l == nil || !l.isConstructed {
		return ErrLocationIsNotConstructed
	}
	return nil
}

// ID returns the location identifier.
func (l *Location) ID() kernel.UUID {
	return l.id
}

// DriverID returns the reporting driver's identifier.
func (l *Location) DriverID() kernel.UUID {
	return l.driverID
}

// Coordinates returns the reported position.
func (l *Location) Coordinates() kernel.Coordinates {
	return l.coordinates
}

// BatteryLevel returns the device battery level at report time.
func (l *Location) BatteryLevel() float64 {
	return l.battery
}

// ReportedAt returns when the driver reported this position.
func (l *Location) ReportedAt() time.Time {
	return l.reportedAt
}

// IsConsumed reports whether this location backs an assignment confirmation.
func (l *Location) IsConsumed() bool {
	return l.isConsumed
}

// Consume marks the location as confirmation evidence.
func (l *Location) Consume() {
	l.isConsumed = true
}

// IsFresh reports whether the location was reported within LocationFreshness
// of now.
func (l *Location) IsFresh(now time.Time) bool {
	return !l.reportedAt.Add(LocationFreshness).Before(now)
}
