package delivery

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// ErrStopIsNotConstructed is returned when a Stop instance was not created
// through NewStop or RestoreStop.
var ErrStopIsNotConstructed = errors.New("Stop must be created via NewStop or RestoreStop")

// delayTolerance scales the actual travel duration before comparing it with
// the estimated window; a stop counts as delayed once the scaled actual
// exceeds the estimate.
const delayTolerance = 1.05

// Stop is a physical location one driver visits. Stops may be shared by
// tasks from several assignments when their addresses coincide, so a stop
// lives until its last task is deleted. Ranking, when set, is the stop's
// position in the driver's route; a nil ranking means the stop has not been
// sequenced yet.
type Stop struct {
	id          kernel.UUID
	driverID    kernel.UUID
	coordinates kernel.Coordinates
	ranking     *int
	departBy    *time.Time
	arriveBy    *time.Time
	departedAt  *time.Time
	arrivedAt   *time.Time
	completedAt *time.Time
	createdAt   time.Time

	isConstructed bool
}

// NewStop creates an unranked stop for the given driver.
func NewStop(id kernel.UUID, driverID kernel.UUID, coordinates kernel.Coordinates, now time.Time) (*Stop, error) {
	if err := errors.Join(id.Validate(), driverID.Validate(), coordinates.Validate()); err != nil {
		return nil, err
	}

	return &Stop{
		id:            id,
		driverID:      driverID,
		coordinates:   coordinates,
		createdAt:     now,
		isConstructed: true,
	}, nil
}

// RestoreStop reconstructs a stop from persistence.
func RestoreStop(
	id kernel.UUID,
	driverID kernel.UUID,
	coordinates kernel.Coordinates,
	ranking *int,
	departBy, arriveBy, departedAt, arrivedAt, completedAt *time.Time,
	createdAt time.Time,
) (*Stop, error) {
	s, err := NewStop(id, driverID, coordinates, createdAt)
	if err != nil {
		return nil, err
	}

	s.ranking = ranking
	s.departBy = departBy
	s.arriveBy = arriveBy
	s.departedAt = departedAt
	s.arrivedAt = arrivedAt
	s.completedAt = completedAt
	return s, nil
}

// Validate ensures the Stop was created through a constructor.
func (s *Stop) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrStopIsNotConstructed
	}
	return nil
}

// ID returns the stop identifier.
func (s *Stop) ID() kernel.UUID {
	return s.id
}

// DriverID returns the driver this stop belongs to.
func (s *Stop) DriverID() kernel.UUID {
	return s.driverID
}

// Coordinates returns the stop's physical position.
func (s *Stop) Coordinates() kernel.Coordinates {
	return s.coordinates
}

// Ranking returns the stop's route position, or nil when unsequenced.
func (s *Stop) Ranking() *int {
	return s.ranking
}

// DepartBy returns the target departure time toward this stop, or nil.
func (s *Stop) DepartBy() *time.Time {
	return s.departBy
}

// ArriveBy returns the target arrival time at this stop, or nil.
func (s *Stop) ArriveBy() *time.Time {
	return s.arriveBy
}

// DepartedAt returns when the driver actually departed toward this stop.
func (s *Stop) DepartedAt() *time.Time {
	return s.departedAt
}

// ArrivedAt returns when the driver actually arrived at this stop.
func (s *Stop) ArrivedAt() *time.Time {
	return s.arrivedAt
}

// CompletedAt returns when the last task at this stop finished, or nil.
func (s *Stop) CompletedAt() *time.Time {
	return s.completedAt
}

// CreatedAt returns when the stop was created.
func (s *Stop) CreatedAt() time.Time {
	return s.createdAt
}

// IsCompleted reports whether every task at this stop has finished.
func (s *Stop) IsCompleted() bool {
	return s.completedAt != nil
}

// SetRanking places the stop at the given position in the driver's route.
func (s *Stop) SetRanking(ranking int) {
	s.ranking = &ranking
}

// SetTravelWindow records the estimated departure/arrival targets computed
// from the stop sequence.
func (s *Stop) SetTravelWindow(departBy, arriveBy time.Time) {
	s.departBy = &departBy
	s.arriveBy = &arriveBy
}

// RecordDeparture stamps the actual departure toward this stop.
func (s *Stop) RecordDeparture(now time.Time) {
	s.departedAt = &now
}

// RecordArrival stamps the actual arrival at this stop.
func (s *Stop) RecordArrival(now time.Time) {
	s.arrivedAt = &now
}

// MarkCompleted stamps the stop once all of its tasks are done.
func (s *Stop) MarkCompleted(now time.Time) {
	s.completedAt = &now
}

// ExceededTravelWindow reports whether the actual leg duration overran the
// estimated window by more than the tolerance. It is false until both the
// actual timestamps and the estimated window are present.
func (s *Stop) ExceededTravelWindow() bool {
	if s.departedAt == nil || s.arrivedAt == nil || s.departBy == nil || s.arriveBy == nil {
		return false
	}

	actual := s.arrivedAt.Sub(*s.departedAt).Seconds()
	expected := s.arriveBy.Sub(*s.departBy).Seconds()
	return actual*delayTolerance > expected
}
