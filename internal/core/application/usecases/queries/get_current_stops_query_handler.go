package queries

import (
	"context"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetCurrentStopsQueryHandler reads a driver's live route from the database.
type GetCurrentStopsQueryHandler struct {
	db *gorm.DB
}

func NewGetCurrentStopsQueryHandler(db *gorm.DB) GetCurrentStopsQueryHandler {
	return GetCurrentStopsQueryHandler{db: db}
}

// Handle returns the ranked, uncompleted stops of the driver's confirmed
// assignments in visiting order, each with the tasks to perform there.
func (h GetCurrentStopsQueryHandler) Handle(
	ctx context.Context,
	query GetCurrentStopsQuery,
) ([]GetCurrentStopsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	stops := make([]GetCurrentStopsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT DISTINCT
			s.id,
			s.latitude,
			s.longitude,
			s.ranking,
			s.depart_by,
			s.arrive_by,
			s.departed_at,
			s.arrived_at
		FROM stops s
		JOIN tasks t ON t.stop_id = s.id
		JOIN assignments a ON a.id = t.assignment_id
		WHERE s.driver_id = ?
		  AND a.status = ?
		  AND s.completed_at IS NULL
		  AND s.ranking IS NOT NULL
		ORDER BY s.ranking
	`, query.DriverID().Bytes(), delivery.StatusConfirmed).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stopIDs := make([]uuid.UUID, 0)
	for rows.Next() {
		var stop GetCurrentStopsQueryResponse
		var id uuid.UUID

		if err = rows.Scan(&id, &stop.Latitude, &stop.Longitude, &stop.Ranking,
			&stop.DepartBy, &stop.ArriveBy, &stop.DepartedAt, &stop.ArrivedAt); err != nil {
			return nil, err
		}

		stopID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		stop.ID = stopID
		stop.Tasks = make([]StopTaskResponse, 0)

		stopIDs = append(stopIDs, id)
		stops = append(stops, stop)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	if len(stops) == 0 {
		return stops, nil
	}

	if err = h.loadTasks(ctx, stopIDs, stops); err != nil {
		return nil, err
	}
	return stops, nil
}

func (h GetCurrentStopsQueryHandler) loadTasks(ctx context.Context, stopIDs []uuid.UUID,
	stops []GetCurrentStopsQueryResponse) error {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			t.id,
			t.stop_id,
			t.assignment_id,
			a.package_id,
			t.type,
			t.completed_at
		FROM tasks t
		JOIN assignments a ON a.id = t.assignment_id
		WHERE t.stop_id IN ?
		  AND a.status = ?
		ORDER BY t.created_at
	`, stopIDs, delivery.StatusConfirmed).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	byStop := make(map[uuid.UUID]int, len(stops))
	for i, id := range stopIDs {
		byStop[id] = i
	}

	for rows.Next() {
		var task StopTaskResponse
		var id, stopID, assignmentID uuid.UUID

		if err = rows.Scan(&id, &stopID, &assignmentID, &task.PackageID,
			&task.Type, &task.CompletedAt); err != nil {
			return err
		}

		taskID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return idErr
		}
		task.ID = taskID

		taskAssignmentID, idErr := kernel.UUIDFromBytes(assignmentID[:])
		if idErr != nil {
			return idErr
		}
		task.AssignmentID = taskAssignmentID

		if i, ok := byStop[stopID]; ok {
			stops[i].Tasks = append(stops[i].Tasks, task)
		}
	}
	return rows.Err()
}
