package queries

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetDriverAssignmentsQueryHandler reads a driver's assignment list from the
// database.
type GetDriverAssignmentsQueryHandler struct {
	db *gorm.DB
}

func NewGetDriverAssignmentsQueryHandler(db *gorm.DB) GetDriverAssignmentsQueryHandler {
	return GetDriverAssignmentsQueryHandler{db: db}
}

// Handle returns the driver's assignments newest first, applying the status
// filter when one is set.
func (h GetDriverAssignmentsQueryHandler) Handle(
	ctx context.Context,
	query GetDriverAssignmentsQuery,
) ([]GetDriverAssignmentsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sql := `
		SELECT id, package_id, type, status, confirmed_at, created_at
		FROM assignments
		WHERE driver_id = ?
	`
	args := []interface{}{query.DriverID().Bytes()}
	if len(query.Statuses()) > 0 {
		sql += " AND status IN ?"
		args = append(args, query.Statuses())
	}
	sql += " ORDER BY created_at DESC"

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]GetDriverAssignmentsQueryResponse, 0)
	for rows.Next() {
		var assignment GetDriverAssignmentsQueryResponse
		var id uuid.UUID
		var createdAt time.Time

		if err = rows.Scan(&id, &assignment.PackageID, &assignment.Type,
			&assignment.Status, &assignment.ConfirmedAt, &createdAt); err != nil {
			return nil, err
		}

		assignmentID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		assignment.ID = assignmentID
		assignment.CreatedAt = createdAt
		assignment.ExpiresAt = createdAt.Truncate(time.Second).Add(delivery.PendingTTL)

		assignments = append(assignments, assignment)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}
