// Package queries contains the read side of the application: handlers that
// bypass the aggregates and read projection rows straight from the database.
package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetCurrentStopsQueryIsNotConstructed = errors.New(
	"GetCurrentStopsQuery must be created via NewGetCurrentStopsQuery constructor",
)

// GetCurrentStopsQuery asks for a driver's live route: the ranked,
// uncompleted stops of their confirmed assignments, in visiting order.
type GetCurrentStopsQuery struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetCurrentStopsQuery(driverID kernel.UUID) (GetCurrentStopsQuery, error) {
	query := GetCurrentStopsQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setDriverID(driverID); err != nil {
		return GetCurrentStopsQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCurrentStopsQuery) Validate() error {
	return q.guard.Validate(ErrGetCurrentStopsQueryIsNotConstructed)
}

// DriverID returns the driver whose route is requested.
func (q GetCurrentStopsQuery) DriverID() kernel.UUID {
	return q.driverID
}

func (q *GetCurrentStopsQuery) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	q.driverID = driverID
	return nil
}

// StopTaskResponse is one obligation at a stop.
type StopTaskResponse struct {
	ID           kernel.UUID
	AssignmentID kernel.UUID
	PackageID    string
	Type         string
	CompletedAt  *time.Time
}

// GetCurrentStopsQueryResponse is one stop of the driver's live route.
type GetCurrentStopsQueryResponse struct {
	ID         kernel.UUID
	Latitude   float64
	Longitude  float64
	Ranking    int
	DepartBy   *time.Time
	ArriveBy   *time.Time
	DepartedAt *time.Time
	ArrivedAt  *time.Time
	Tasks      []StopTaskResponse
}
