package assignmentrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAssignmentRepository implements AssignmentRepository using GORM.
type GormAssignmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormAssignmentRepository creates a new GORM assignment repository.
func NewGormAssignmentRepository(db *gorm.DB, tracker aggregateTracker) *GormAssignmentRepository {
	return &GormAssignmentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new assignment to the database.
func (r *GormAssignmentRepository) Add(ctx context.Context, aggregate *delivery.Assignment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing assignment to the database.
func (r *GormAssignmentRepository) Update(ctx context.Context, aggregate *delivery.Assignment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	result := r.db.WithContext(ctx).Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an assignment by ID.
func (r *GormAssignmentRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Assignment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AssignmentDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("assignment", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByPackageID retrieves the pending or confirmed assignment covering
// the given package, or nil when the package is unassigned.
func (r *GormAssignmentRepository) GetActiveByPackageID(
	ctx context.Context, packageID string,
) (*delivery.Assignment, error) {
	if packageID == "" {
		return nil, errs.NewValueIsRequiredError("packageID")
	}

	var dto AssignmentDTO
	err := r.db.WithContext(ctx).
		Where("package_id = ? AND status IN ?", packageID, activeStatuses()).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByDriver retrieves a driver's pending and confirmed assignments,
// oldest first.
func (r *GormAssignmentRepository) GetActiveByDriver(
	ctx context.Context, driverID kernel.UUID,
) ([]*delivery.Assignment, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	var dtos []AssignmentDTO
	if err := r.db.WithContext(ctx).
		Where("driver_id = ? AND status IN ?", driverID.Bytes(), activeStatuses()).
		Order("created_at").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetAllPending retrieves every pending assignment, oldest first.
func (r *GormAssignmentRepository) GetAllPending(ctx context.Context) ([]*delivery.Assignment, error) {
	var dtos []AssignmentDTO
	if err := r.db.WithContext(ctx).
		Where("status = ?", delivery.StatusPending.String()).
		Order("created_at").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetLatestCompletionsToday maps each given driver to the update time of
// their most recently completed assignment since startOfDay.
func (r *GormAssignmentRepository) GetLatestCompletionsToday(
	ctx context.Context, driverIDs []kernel.UUID, startOfDay time.Time,
) (map[kernel.UUID]time.Time, error) {
	completions := make(map[kernel.UUID]time.Time, len(driverIDs))
	if len(driverIDs) == 0 {
		return completions, nil
	}

	rawIDs := make([]uuid.UUID, 0, len(driverIDs))
	for _, id := range driverIDs {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		rawIDs = append(rawIDs, id.Bytes())
	}

	var rows []struct {
		DriverID    uuid.UUID
		CompletedAt time.Time
	}
	if err := r.db.WithContext(ctx).
		Raw(`SELECT driver_id, MAX(updated_at) AS completed_at
		     FROM assignments
		     WHERE status = ? AND driver_id IN ? AND updated_at >= ?
		     GROUP BY driver_id`,
			delivery.StatusCompleted.String(), rawIDs, startOfDay).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		driverID, err := kernel.UUIDFromBytes(row.DriverID[:])
		if err != nil {
			return nil, err
		}
		completions[driverID] = row.CompletedAt
	}

	return completions, nil
}

// AddTask saves a new task to the database.
func (r *GormAssignmentRepository) AddTask(ctx context.Context, task *delivery.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	dto := taskFromDomain(task)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// UpdateTask saves changes to an existing task.
func (r *GormAssignmentRepository) UpdateTask(ctx context.Context, task *delivery.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	dto := taskFromDomain(task)

	result := r.db.WithContext(ctx).Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// GetTask retrieves a task by ID.
func (r *GormAssignmentRepository) GetTask(ctx context.Context, id kernel.UUID) (*delivery.Task, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto TaskDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("task", id.String())
		}
		return nil, err
	}

	return taskToDomain(dto)
}

// GetTasksByAssignments retrieves the tasks of the given assignments.
func (r *GormAssignmentRepository) GetTasksByAssignments(
	ctx context.Context, assignmentIDs []kernel.UUID,
) ([]*delivery.Task, error) {
	if len(assignmentIDs) == 0 {
		return nil, nil
	}

	rawIDs := make([]uuid.UUID, 0, len(assignmentIDs))
	for _, id := range assignmentIDs {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		rawIDs = append(rawIDs, id.Bytes())
	}

	var dtos []TaskDTO
	if err := r.db.WithContext(ctx).
		Where("assignment_id IN ?", rawIDs).
		Order("created_at").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return tasksToDomainSlice(dtos)
}

// GetTasksByStop retrieves every task scheduled at the given stop.
func (r *GormAssignmentRepository) GetTasksByStop(
	ctx context.Context, stopID kernel.UUID,
) ([]*delivery.Task, error) {
	if err := stopID.Validate(); err != nil {
		return nil, err
	}

	var dtos []TaskDTO
	if err := r.db.WithContext(ctx).
		Where("stop_id = ?", stopID.Bytes()).
		Order("created_at").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	return tasksToDomainSlice(dtos)
}

// DeleteTask removes a task from the database.
func (r *GormAssignmentRepository) DeleteTask(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&TaskDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("task", id.String())
	}

	return nil
}

func activeStatuses() []string {
	return []string{delivery.StatusPending.String(), delivery.StatusConfirmed.String()}
}

func toDomainSlice(dtos []AssignmentDTO) ([]*delivery.Assignment, error) {
	assignments := make([]*delivery.Assignment, 0, len(dtos))
	for _, dto := range dtos {
		a, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, nil
}

func tasksToDomainSlice(dtos []TaskDTO) ([]*delivery.Task, error) {
	tasks := make([]*delivery.Task, 0, len(dtos))
	for _, dto := range dtos {
		t, err := taskToDomain(dto)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}
