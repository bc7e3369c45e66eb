// Package assignmentrepo provides data transfer objects and mapping functions for
// assignment and task persistence. Tasks are mapped as standalone rows rather
// than as an owned association because stop matching moves them between stops
// independently of their assignment's lifecycle.
package assignmentrepo

import (
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AssignmentDTO represents the database structure for persisting assignments.
type AssignmentDTO struct {
	ID                     uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DriverID               uuid.UUID  `gorm:"type:uuid;not null;index"`
	PackageID              string     `gorm:"type:varchar(64);not null;index"`
	Type                   string     `gorm:"type:varchar(16);not null"`
	Status                 string     `gorm:"type:varchar(16);not null;index"`
	ConfirmedAt            *time.Time `gorm:""`
	ConfirmationLocationID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt              time.Time  `gorm:"not null"`
	UpdatedAt              time.Time  `gorm:"not null"`
}

// TableName specifies the database table name for assignment entities.
// Overrides GORM's default naming convention to use "assignments" instead of "assignment_dtos".
func (AssignmentDTO) TableName() string {
	return "assignments"
}

// TaskDTO represents the database structure for persisting tasks.
// (StopID, AssignmentID, Type) is unique per the domain model.
type TaskDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	StopID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	AssignmentID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type         string     `gorm:"type:varchar(16);not null"`
	CompletedAt  *time.Time `gorm:""`
	CreatedAt    time.Time  `gorm:"not null"`
}

// TableName specifies the database table name for task entities.
// Overrides GORM's default naming convention to use "tasks" instead of "task_dtos".
func (TaskDTO) TableName() string {
	return "tasks"
}

// fromDomain converts an assignment domain aggregate to its database representation.
func fromDomain(a *delivery.Assignment) AssignmentDTO {
	var confirmationLocationID *uuid.UUID
	if a.ConfirmationLocationID() != nil {
		raw := a.ConfirmationLocationID().Bytes()
		confirmationLocationID = &raw
	}

	return AssignmentDTO{
		ID:                     a.ID().Bytes(),
		DriverID:               a.DriverID().Bytes(),
		PackageID:              a.PackageID(),
		Type:                   a.Type().String(),
		Status:                 a.Status().String(),
		ConfirmedAt:            a.ConfirmedAt(),
		ConfirmationLocationID: confirmationLocationID,
		CreatedAt:              a.CreatedAt(),
		UpdatedAt:              a.UpdatedAt(),
	}
}

// toDomain converts a database DTO to an assignment domain aggregate.
func toDomain(dto AssignmentDTO) (*delivery.Assignment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	driverID, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return nil, err
	}

	var confirmationLocationID *kernel.UUID
	if dto.ConfirmationLocationID != nil {
		locationID, locationErr := kernel.UUIDFromBytes((*dto.ConfirmationLocationID)[:])
		if locationErr != nil {
			return nil, locationErr
		}
		confirmationLocationID = &locationID
	}

	return delivery.RestoreAssignment(
		id,
		driverID,
		dto.PackageID,
		delivery.Type(dto.Type),
		delivery.Status(dto.Status),
		dto.ConfirmedAt,
		confirmationLocationID,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}

// taskFromDomain converts a task domain entity to its database representation.
func taskFromDomain(t *delivery.Task) TaskDTO {
	return TaskDTO{
		ID:           t.ID().Bytes(),
		StopID:       t.StopID().Bytes(),
		AssignmentID: t.AssignmentID().Bytes(),
		Type:         t.Type().String(),
		CompletedAt:  t.CompletedAt(),
		CreatedAt:    t.CreatedAt(),
	}
}

// taskToDomain converts a task DTO to the domain entity.
func taskToDomain(dto TaskDTO) (*delivery.Task, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	stopID, err := kernel.UUIDFromBytes(dto.StopID[:])
	if err != nil {
		return nil, err
	}

	assignmentID, err := kernel.UUIDFromBytes(dto.AssignmentID[:])
	if err != nil {
		return nil, err
	}

	return delivery.RestoreTask(
		id, stopID, assignmentID, delivery.TaskType(dto.Type), dto.CompletedAt, dto.CreatedAt)
}
