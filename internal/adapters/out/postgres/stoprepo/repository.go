package stoprepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormStopRepository implements StopRepository using GORM.
type GormStopRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormStopRepository creates a new GORM stop repository.
func NewGormStopRepository(db *gorm.DB, tracker aggregateTracker) *GormStopRepository {
	return &GormStopRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new stop to the database.
func (r *GormStopRepository) Add(ctx context.Context, stop *delivery.Stop) error {
	if err := stop.Validate(); err != nil {
		return err
	}

	dto := fromDomain(stop)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(stop.ID(), stop)
	return nil
}

// Update saves an existing stop to the database.
func (r *GormStopRepository) Update(ctx context.Context, stop *delivery.Stop) error {
	if err := stop.Validate(); err != nil {
		return err
	}

	dto := fromDomain(stop)

	result := r.db.WithContext(ctx).Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(stop.ID(), stop)
	return nil
}

// Get retrieves a stop by ID.
func (r *GormStopRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Stop, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto StopDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("stop", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByDriver retrieves the stops of a driver's active assignments,
// oldest first. Completed stops stay in the result while their assignments
// remain active so route rebuilding can count them as visited.
func (r *GormStopRepository) GetActiveByDriver(
	ctx context.Context, driverID kernel.UUID,
) ([]*delivery.Stop, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	var dtos []StopDTO
	if err := r.db.WithContext(ctx).
		Raw(`SELECT DISTINCT s.*
		     FROM stops s
		     JOIN tasks t ON t.stop_id = s.id
		     JOIN assignments a ON a.id = t.assignment_id
		     WHERE s.driver_id = ? AND a.status IN ('PENDING', 'CONFIRMED')
		     ORDER BY s.created_at`, driverID.Bytes()).
		Scan(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetConfirmedByDriver retrieves the ranked, uncompleted stops of a driver's
// confirmed assignments ordered by ranking.
func (r *GormStopRepository) GetConfirmedByDriver(
	ctx context.Context, driverID kernel.UUID,
) ([]*delivery.Stop, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	var dtos []StopDTO
	if err := r.db.WithContext(ctx).
		Raw(`SELECT DISTINCT s.*
		     FROM stops s
		     JOIN tasks t ON t.stop_id = s.id
		     JOIN assignments a ON a.id = t.assignment_id
		     WHERE s.driver_id = ?
		       AND a.status = 'CONFIRMED'
		       AND s.completed_at IS NULL
		       AND s.ranking IS NOT NULL
		     ORDER BY s.ranking`, driverID.Bytes()).
		Scan(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// Delete removes a stop from the database.
func (r *GormStopRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&StopDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("stop", id.String())
	}

	return nil
}

// AddDelay saves a delay recorded against a stop.
func (r *GormStopRepository) AddDelay(ctx context.Context, delay *delivery.Delay) error {
	if err := delay.Validate(); err != nil {
		return err
	}

	dto := delayFromDomain(delay)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func toDomainSlice(dtos []StopDTO) ([]*delivery.Stop, error) {
	stops := make([]*delivery.Stop, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		stops = append(stops, s)
	}
	return stops, nil
}
