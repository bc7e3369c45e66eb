// Package stoprepo provides data transfer objects and mapping functions for stop
// and delay persistence.
package stoprepo

import (
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// StopDTO represents the database structure for persisting stops.
// Ranking is nullable; stops that have not been sequenced yet carry NULL and
// are excluded from route reads.
type StopDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DriverID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Latitude    float64    `gorm:"type:double precision;not null"`
	Longitude   float64    `gorm:"type:double precision;not null"`
	Ranking     *int       `gorm:"type:int"`
	DepartBy    *time.Time `gorm:""`
	ArriveBy    *time.Time `gorm:""`
	DepartedAt  *time.Time `gorm:""`
	ArrivedAt   *time.Time `gorm:""`
	CompletedAt *time.Time `gorm:""`
	CreatedAt   time.Time  `gorm:"not null"`
}

// TableName specifies the database table name for stop entities.
// Overrides GORM's default naming convention to use "stops" instead of "stop_dtos".
func (StopDTO) TableName() string {
	return "stops"
}

// DelayDTO represents the database structure for persisting recorded delays.
type DelayDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	DriverID  uuid.UUID `gorm:"type:uuid;not null;index"`
	StopID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Type      string    `gorm:"type:varchar(16);not null"`
	Status    string    `gorm:"type:varchar(16);not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName specifies the database table name for delay entities.
// Overrides GORM's default naming convention to use "delays" instead of "delay_dtos".
func (DelayDTO) TableName() string {
	return "delays"
}

// fromDomain converts a stop domain entity to its database representation.
func fromDomain(s *delivery.Stop) StopDTO {
	return StopDTO{
		ID:          s.ID().Bytes(),
		DriverID:    s.DriverID().Bytes(),
		Latitude:    s.Coordinates().Latitude(),
		Longitude:   s.Coordinates().Longitude(),
		Ranking:     s.Ranking(),
		DepartBy:    s.DepartBy(),
		ArriveBy:    s.ArriveBy(),
		DepartedAt:  s.DepartedAt(),
		ArrivedAt:   s.ArrivedAt(),
		CompletedAt: s.CompletedAt(),
		CreatedAt:   s.CreatedAt(),
	}
}

// toDomain converts a database DTO to a stop domain entity.
func toDomain(dto StopDTO) (*delivery.Stop, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	driverID, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return nil, err
	}

	coordinates, err := kernel.NewCoordinates(dto.Latitude, dto.Longitude)
	if err != nil {
		return nil, err
	}

	return delivery.RestoreStop(
		id,
		driverID,
		coordinates,
		dto.Ranking,
		dto.DepartBy,
		dto.ArriveBy,
		dto.DepartedAt,
		dto.ArrivedAt,
		dto.CompletedAt,
		dto.CreatedAt,
	)
}

// delayFromDomain converts a delay domain entity to its database representation.
func delayFromDomain(d *delivery.Delay) DelayDTO {
	return DelayDTO{
		ID:        d.ID().Bytes(),
		DriverID:  d.DriverID().Bytes(),
		StopID:    d.StopID().Bytes(),
		Type:      string(d.Type()),
		Status:    string(d.Status()),
		CreatedAt: d.CreatedAt(),
	}
}
