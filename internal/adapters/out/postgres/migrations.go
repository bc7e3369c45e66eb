package postgres

import (
	"dispatch/internal/adapters/out/postgres/assignmentrepo"
	"dispatch/internal/adapters/out/postgres/driverrepo"
	"dispatch/internal/adapters/out/postgres/stoprepo"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for every persisted aggregate.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&driverrepo.DriverDTO{},
		&driverrepo.LocationDTO{},
		&assignmentrepo.AssignmentDTO{},
		&assignmentrepo.TaskDTO{},
		&stoprepo.StopDTO{},
		&stoprepo.DelayDTO{},
	)
}
