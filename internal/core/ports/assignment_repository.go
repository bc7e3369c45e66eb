package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
)

// AssignmentRepository defines the persistence contract for assignments and
// their tasks. Tasks are persisted individually because stop matching splits
// and merges them independently of their assignment.
type AssignmentRepository interface {
	// Add persists a new assignment.
	Add(ctx context.Context, aggregate *delivery.Assignment) error

	// Update persists changes to an existing assignment.
	Update(ctx context.Context, aggregate *delivery.Assignment) error

	// Get retrieves an assignment by id. Returns an ObjectNotFound error
	// when it does not exist.
	Get(ctx context.Context, id kernel.UUID) (*delivery.Assignment, error)

	// GetActiveByPackageID retrieves the pending or confirmed assignment
	// covering the given package, or nil when the package is unassigned.
	GetActiveByPackageID(ctx context.Context, packageID string) (*delivery.Assignment, error)

	// GetActiveByDriver retrieves a driver's pending and confirmed
	// assignments, oldest first.
	GetActiveByDriver(ctx context.Context, driverID kernel.UUID) ([]*delivery.Assignment, error)

	// GetAllPending retrieves every pending assignment, oldest first. The
	// sweep walks this list to expire the ones past their confirmation
	// window.
	GetAllPending(ctx context.Context) ([]*delivery.Assignment, error)

	// GetLatestCompletionsToday maps each given driver to the update time of
	// their most recently completed assignment since startOfDay. Drivers
	// without a completion are absent from the map.
	GetLatestCompletionsToday(ctx context.Context, driverIDs []kernel.UUID,
		startOfDay time.Time) (map[kernel.UUID]time.Time, error)

	// AddTask persists a new task.
	AddTask(ctx context.Context, task *delivery.Task) error

	// UpdateTask persists changes to an existing task.
	UpdateTask(ctx context.Context, task *delivery.Task) error

	// GetTask retrieves a task by id. Returns an ObjectNotFound error when
	// it does not exist.
	GetTask(ctx context.Context, id kernel.UUID) (*delivery.Task, error)

	// GetTasksByAssignments retrieves the tasks of the given assignments.
	GetTasksByAssignments(ctx context.Context, assignmentIDs []kernel.UUID) ([]*delivery.Task, error)

	// GetTasksByStop retrieves every task scheduled at the given stop.
	GetTasksByStop(ctx context.Context, stopID kernel.UUID) ([]*delivery.Task, error)

	// DeleteTask removes a task. Used when an assignment is invalidated.
	DeleteTask(ctx context.Context, id kernel.UUID) error
}
