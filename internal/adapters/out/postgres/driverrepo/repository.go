package driverrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDriverRepository implements DriverRepository using GORM.
type GormDriverRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormDriverRepository creates a new GORM driver repository.
func NewGormDriverRepository(db *gorm.DB, tracker aggregateTracker) *GormDriverRepository {
	return &GormDriverRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new driver to the database.
func (r *GormDriverRepository) Add(ctx context.Context, aggregate *driver.Driver) error {
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

// Update saves an existing driver to the database.
func (r *GormDriverRepository) Update(ctx context.Context, aggregate *driver.Driver) error {
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

// Get retrieves a driver by ID together with their latest reported location.
func (r *GormDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DriverDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("driver", id.String())
		}
		return nil, err
	}

	locations, err := r.latestLocations(ctx, []DriverDTO{dto})
	if err != nil {
		return nil, err
	}

	return toDomain(dto, locations[dto.ID])
}

// GetAllAssignable retrieves the active, available drivers whose latest
// location was reported within the freshness window ending at now.
// The freshness check is applied in the domain so the repository and the
// aggregate cannot disagree on the cutoff.
func (r *GormDriverRepository) GetAllAssignable(ctx context.Context, now time.Time) ([]*driver.Driver, error) {
	var dtos []DriverDTO
	if err := r.db.WithContext(ctx).
		Where("status = ? AND is_available", driver.StatusActive.String()).
		Order("created_at").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	locations, err := r.latestLocations(ctx, dtos)
	if err != nil {
		return nil, err
	}

	drivers := make([]*driver.Driver, 0, len(dtos))
	for _, dto := range dtos {
		d, domainErr := toDomain(dto, locations[dto.ID])
		if domainErr != nil {
			return nil, domainErr
		}

		if d.IsAssignable(now) {
			drivers = append(drivers, d)
		}
	}

	return drivers, nil
}

// AddLocation saves a newly reported location to the database.
func (r *GormDriverRepository) AddLocation(ctx context.Context, location *driver.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}

	dto := locationFromDomain(location)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetLocation retrieves a reported location by ID.
func (r *GormDriverRepository) GetLocation(ctx context.Context, id kernel.UUID) (*driver.Location, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto LocationDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("location", id.String())
		}
		return nil, err
	}

	return locationToDomain(dto)
}

// UpdateLocation saves changes to a reported location, such as marking it
// consumed by a confirmation.
func (r *GormDriverRepository) UpdateLocation(ctx context.Context, location *driver.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}

	dto := locationFromDomain(location)

	result := r.db.WithContext(ctx).Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// latestLocations resolves the most recent reported location per driver.
// Drivers that never reported one are absent from the map.
func (r *GormDriverRepository) latestLocations(
	ctx context.Context, dtos []DriverDTO,
) (map[uuid.UUID]*driver.Location, error) {
	locations := make(map[uuid.UUID]*driver.Location, len(dtos))
	if len(dtos) == 0 {
		return locations, nil
	}

	driverIDs := make([]uuid.UUID, 0, len(dtos))
	for _, dto := range dtos {
		driverIDs = append(driverIDs, dto.ID)
	}

	var locationDTOs []LocationDTO
	if err := r.db.WithContext(ctx).
		Raw(`SELECT DISTINCT ON (driver_id) *
		     FROM locations
		     WHERE driver_id IN ?
		     ORDER BY driver_id, reported_at DESC`, driverIDs).
		Scan(&locationDTOs).Error; err != nil {
		return nil, err
	}

	for _, dto := range locationDTOs {
		location, err := locationToDomain(dto)
		if err != nil {
			return nil, err
		}
		locations[dto.DriverID] = location
	}

	return locations, nil
}
