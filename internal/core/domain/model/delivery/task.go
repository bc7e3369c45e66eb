package delivery

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrTaskIsNotConstructed is returned when a Task instance was not created
// through NewTask or RestoreTask.
var ErrTaskIsNotConstructed = errors.New("Task must be created via NewTask or RestoreTask")

// Task is one unit of work at one stop for one assignment: either the
// pickup or the dropoff. Every assignment owns exactly one of each, and
// (stop, assignment, type) is unique.
type Task struct {
	id           kernel.UUID
	stopID       kernel.UUID
	assignmentID kernel.UUID
	taskType     TaskType
	completedAt  *time.Time
	createdAt    time.Time

	isConstructed bool
}

// NewTask creates an incomplete task linking a stop to an assignment.
func NewTask(
	id kernel.UUID, stopID kernel.UUID, assignmentID kernel.UUID, taskType TaskType, now time.Time,
) (*Task, error) {
	if err := errors.Join(
		id.Validate(),
		stopID.Validate(),
		assignmentID.Validate(),
		taskType.Validate(),
	); err != nil {
		return nil, err
	}

	return &Task{
		id:            id,
		stopID:        stopID,
		assignmentID:  assignmentID,
		taskType:      taskType,
		createdAt:     now,
		isConstructed: true,
	}, nil
}

// RestoreTask reconstructs a task from persistence.
func RestoreTask(
	id kernel.UUID,
	stopID kernel.UUID,
	assignmentID kernel.UUID,
	taskType TaskType,
	completedAt *time.Time,
	createdAt time.Time,
) (*Task, error) {
	t, err := NewTask(id, stopID, assignmentID, taskType, createdAt)
	if err != nil {
		return nil, err
	}

	t.completedAt = completedAt
	return t, nil
}

// Validate ensures the Task was created through a constructor.
func (t *Task) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTaskIsNotConstructed
	}
	return nil
}

// ID returns the task identifier.
func (t *Task) ID() kernel.UUID {
	return t.id
}

// StopID returns the stop this task is performed at.
func (t *Task) StopID() kernel.UUID {
	return t.stopID
}

// AssignmentID returns the owning assignment.
func (t *Task) AssignmentID() kernel.UUID {
	return t.assignmentID
}

// Type returns whether this is the pickup or the dropoff obligation.
func (t *Task) Type() TaskType {
	return t.taskType
}

// CompletedAt returns when the task was completed, or nil.
func (t *Task) CompletedAt() *time.Time {
	return t.completedAt
}

// CreatedAt returns when the task was created.
func (t *Task) CreatedAt() time.Time {
	return t.createdAt
}

// IsCompleted reports whether the task has been completed.
func (t *Task) IsCompleted() bool {
	return t.completedAt != nil
}

// Complete stamps the completion time. Completing twice is rejected.
func (t *Task) Complete(now time.Time) error {
	if t.completedAt != nil {
		return errs.NewInvalidRequestError("task is already completed")
	}

	t.completedAt = &now
	return nil
}
