// Package driverrepo provides data transfer objects and mapping functions for driver persistence.
// This package implements the repository pattern for the driver domain aggregate, handling
// the conversion between domain entities and database representations.
package driverrepo

import (
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DriverDTO represents the database structure for persisting driver aggregates.
// The latest reported location lives in the locations table and is joined in
// on read; the drivers table itself carries no positional data.
type DriverDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName         string    `gorm:"type:varchar(255);not null"`
	LastName          string    `gorm:"type:varchar(255);not null"`
	PhoneNumber       string    `gorm:"type:varchar(32);not null"`
	SecondPhoneNumber string    `gorm:"type:varchar(32)"`
	Status            string    `gorm:"type:varchar(16);not null;index"`
	IsAvailable       bool      `gorm:"not null"`
	IsFullTime        bool      `gorm:"not null"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
}

// TableName specifies the database table name for driver entities.
// Overrides GORM's default naming convention to use "drivers" instead of "driver_dtos".
func (DriverDTO) TableName() string {
	return "drivers"
}

// LocationDTO represents the database structure for persisting reported locations.
// Locations are append-only; consumption is the only mutation after insert.
type LocationDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	DriverID   uuid.UUID `gorm:"type:uuid;not null;index:idx_locations_driver_reported"`
	Latitude   float64   `gorm:"type:double precision;not null"`
	Longitude  float64   `gorm:"type:double precision;not null"`
	IsConsumed bool      `gorm:"not null"`
	Battery    float64   `gorm:"type:double precision;not null"`
	ReportedAt time.Time `gorm:"not null;index:idx_locations_driver_reported"`
}

// TableName specifies the database table name for location entities.
// Overrides GORM's default naming convention to use "locations" instead of "location_dtos".
func (LocationDTO) TableName() string {
	return "locations"
}

// fromDomain converts a driver domain aggregate to its database representation.
// The latest location is persisted separately via AddLocation.
func fromDomain(d *driver.Driver) DriverDTO {
	return DriverDTO{
		ID:                d.ID().Bytes(),
		FirstName:         d.FirstName(),
		LastName:          d.LastName(),
		PhoneNumber:       d.PhoneNumber(),
		SecondPhoneNumber: d.SecondPhoneNumber(),
		Status:            d.Status().String(),
		IsAvailable:       d.IsAvailable(),
		IsFullTime:        d.IsFullTime(),
		CreatedAt:         d.CreatedAt(),
		UpdatedAt:         d.UpdatedAt(),
	}
}

// toDomain converts a database DTO to a driver domain aggregate.
// latestLocation may be nil when the driver never reported a position.
func toDomain(dto DriverDTO, latestLocation *driver.Location) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return driver.RestoreDriver(
		id,
		dto.FirstName,
		dto.LastName,
		dto.PhoneNumber,
		dto.SecondPhoneNumber,
		driver.Status(dto.Status),
		dto.IsAvailable,
		dto.IsFullTime,
		latestLocation,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}

// locationFromDomain converts a location domain entity to its database representation.
func locationFromDomain(l *driver.Location) LocationDTO {
	return LocationDTO{
		ID:         l.ID().Bytes(),
		DriverID:   l.DriverID().Bytes(),
		Latitude:   l.Coordinates().Latitude(),
		Longitude:  l.Coordinates().Longitude(),
		IsConsumed: l.IsConsumed(),
		Battery:    l.BatteryLevel(),
		ReportedAt: l.ReportedAt(),
	}
}

// locationToDomain converts a location DTO to the domain entity.
func locationToDomain(dto LocationDTO) (*driver.Location, error) {
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

	return driver.RestoreLocation(id, driverID, coordinates, dto.IsConsumed, dto.Battery, dto.ReportedAt)
}
