package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetDriverAssignmentsQueryIsNotConstructed = errors.New(
	"GetDriverAssignmentsQuery must be created via NewGetDriverAssignmentsQuery constructor",
)

// GetDriverAssignmentsQuery lists a driver's assignments, optionally filtered
// by status. An empty filter returns everything.
type GetDriverAssignmentsQuery struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID
	statuses []delivery.Status

	guard guard.ConstructorGuard
}

func NewGetDriverAssignmentsQuery(driverID kernel.UUID,
	statuses []delivery.Status) (GetDriverAssignmentsQuery, error) {
	query := GetDriverAssignmentsQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		query.setDriverID(driverID),
		query.setStatuses(statuses),
	); err != nil {
		return GetDriverAssignmentsQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDriverAssignmentsQuery) Validate() error {
	return q.guard.Validate(ErrGetDriverAssignmentsQueryIsNotConstructed)
}

// DriverID returns the driver whose assignments are requested.
func (q GetDriverAssignmentsQuery) DriverID() kernel.UUID {
	return q.driverID
}

// Statuses returns the status filter, empty meaning all.
func (q GetDriverAssignmentsQuery) Statuses() []delivery.Status {
	return q.statuses
}

func (q *GetDriverAssignmentsQuery) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	q.driverID = driverID
	return nil
}

func (q *GetDriverAssignmentsQuery) setStatuses(statuses []delivery.Status) error {
	for _, status := range statuses {
		if err := status.Validate(); err != nil {
			return err
		}
	}

	q.statuses = statuses
	return nil
}

// GetDriverAssignmentsQueryResponse is one assignment in the driver's list.
type GetDriverAssignmentsQueryResponse struct {
	ID          kernel.UUID
	PackageID   string
	Type        string
	Status      string
	ConfirmedAt *time.Time
	ExpiresAt   time.Time
	CreatedAt   time.Time
}
