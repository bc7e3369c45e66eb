package commands_test

import (
	"context"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) Add(ctx context.Context, aggregate *driver.Driver) error {
	return m.Called(ctx, aggregate).Error(0)
}
func (m *MockDriverRepository) Update(ctx context.Context, aggregate *driver.Driver) error {
	return m.Called(ctx, aggregate).Error(0)
}
func (m *MockDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}
func (m *MockDriverRepository) GetAllAssignable(ctx context.Context,
	now time.Time) ([]*driver.Driver, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*driver.Driver), args.Error(1)
}
func (m *MockDriverRepository) AddLocation(ctx context.Context, location *driver.Location) error {
	return m.Called(ctx, location).Error(0)
}
func (m *MockDriverRepository) GetLocation(ctx context.Context,
	id kernel.UUID) (*driver.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Location), args.Error(1)
}
func (m *MockDriverRepository) UpdateLocation(ctx context.Context,
	location *driver.Location) error {
	return m.Called(ctx, location).Error(0)
}

type MockAssignmentRepository struct{ mock.Mock }

func (m *MockAssignmentRepository) Add(ctx context.Context, aggregate *delivery.Assignment) error {
	return m.Called(ctx, aggregate).Error(0)
}
func (m *MockAssignmentRepository) Update(ctx context.Context,
	aggregate *delivery.Assignment) error {
	return m.Called(ctx, aggregate).Error(0)
}
func (m *MockAssignmentRepository) Get(ctx context.Context,
	id kernel.UUID) (*delivery.Assignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Assignment), args.Error(1)
}
func (m *MockAssignmentRepository) GetActiveByPackageID(ctx context.Context,
	packageID string) (*delivery.Assignment, error) {
	args := m.Called(ctx, packageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Assignment), args.Error(1)
}
func (m *MockAssignmentRepository) GetActiveByDriver(ctx context.Context,
	driverID kernel.UUID) ([]*delivery.Assignment, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.Assignment), args.Error(1)
}
func (m *MockAssignmentRepository) GetAllPending(ctx context.Context) ([]*delivery.Assignment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.Assignment), args.Error(1)
}
func (m *MockAssignmentRepository) GetLatestCompletionsToday(ctx context.Context,
	driverIDs []kernel.UUID, startOfDay time.Time) (map[kernel.UUID]time.Time, error) {
	args := m.Called(ctx, driverIDs, startOfDay)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[kernel.UUID]time.Time), args.Error(1)
}
func (m *MockAssignmentRepository) AddTask(ctx context.Context, task *delivery.Task) error {
	return m.Called(ctx, task).Error(0)
}
func (m *MockAssignmentRepository) UpdateTask(ctx context.Context, task *delivery.Task) error {
	return m.Called(ctx, task).Error(0)
}
func (m *MockAssignmentRepository) GetTask(ctx context.Context,
	id kernel.UUID) (*delivery.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Task), args.Error(1)
}
func (m *MockAssignmentRepository) GetTasksByAssignments(ctx context.Context,
	assignmentIDs []kernel.UUID) ([]*delivery.Task, error) {
	args := m.Called(ctx, assignmentIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.Task), args.Error(1)
}
func (m *MockAssignmentRepository) GetTasksByStop(ctx context.Context,
	stopID kernel.UUID) ([]*delivery.Task, error) {
	args := m.Called(ctx, stopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.Task), args.Error(1)
}
func (m *MockAssignmentRepository) DeleteTask(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockStopRepository struct{ mock.Mock }

func (m *MockStopRepository) Add(ctx context.Context, stop *delivery.Stop) error {
	return m.Called(ctx, stop).Error(0)
}
func (m *MockStopRepository) Update(ctx context.Context, stop *delivery.Stop) error {
	return m.Called(ctx, stop).Error(0)
}
func (m *MockStopRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Stop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Stop), args.Error(1)
}
func (m *MockStopRepository) GetActiveByDriver(ctx context.Context,
	driverID kernel.UUID) ([]*delivery.Stop, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.Stop), args.Error(1)
}
func (m *MockStopRepository) GetConfirmedByDriver(ctx context.Context,
	driverID kernel.UUID) ([]*delivery.Stop, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.Stop), args.Error(1)
}
func (m *MockStopRepository) Delete(ctx context.Context, id kernel.UUID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockStopRepository) AddDelay(ctx context.Context, delay *delivery.Delay) error {
	return m.Called(ctx, delay).Error(0)
}

type MockDispatchUoW struct{ mock.Mock }

func (m *MockDispatchUoW) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
func (m *MockDispatchUoW) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
func (m *MockDispatchUoW) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
func (m *MockDispatchUoW) LockDriver(ctx context.Context, driverID kernel.UUID) error {
	return m.Called(ctx, driverID).Error(0)
}
func (m *MockDispatchUoW) DriverRepository() ports.DriverRepository {
	return m.Called().Get(0).(ports.DriverRepository)
}
func (m *MockDispatchUoW) AssignmentRepository() ports.AssignmentRepository {
	return m.Called().Get(0).(ports.AssignmentRepository)
}
func (m *MockDispatchUoW) StopRepository() ports.StopRepository {
	return m.Called().Get(0).(ports.StopRepository)
}

type MockDispatchUoWFactory struct{ mock.Mock }

func (m *MockDispatchUoWFactory) Create() commands.DispatchUoW {
	return m.Called().Get(0).(commands.DispatchUoW)
}

type MockDriverUoW struct{ mock.Mock }

func (m *MockDriverUoW) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
func (m *MockDriverUoW) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
func (m *MockDriverUoW) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
func (m *MockDriverUoW) DriverRepository() ports.DriverRepository {
	return m.Called().Get(0).(ports.DriverRepository)
}

type MockDriverUoWFactory struct{ mock.Mock }

func (m *MockDriverUoWFactory) Create() commands.DriverUoW {
	return m.Called().Get(0).(commands.DriverUoW)
}

type MockOrderService struct{ mock.Mock }

func (m *MockOrderService) GetPackage(ctx context.Context, packageID string) (*ports.Package, error) {
	args := m.Called(ctx, packageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.Package), args.Error(1)
}
func (m *MockOrderService) GetDispatchablePackages(ctx context.Context) ([]*ports.Package, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ports.Package), args.Error(1)
}
func (m *MockOrderService) SetLinkage(ctx context.Context, packageID string,
	linkage ports.PackageLinkage) error {
	return m.Called(ctx, packageID, linkage).Error(0)
}
func (m *MockOrderService) ClearLinkage(ctx context.Context, packageID string) error {
	return m.Called(ctx, packageID).Error(0)
}
func (m *MockOrderService) SendEvent(ctx context.Context, packageID string,
	event ports.PackageEvent, assignmentID kernel.UUID) error {
	return m.Called(ctx, packageID, event, assignmentID).Error(0)
}

type MockETAService struct{ mock.Mock }

func (m *MockETAService) EstimateDuration(ctx context.Context, origin, destination kernel.Coordinates,
	departAt time.Time) (time.Duration, error) {
	args := m.Called(ctx, origin, destination, departAt)
	return args.Get(0).(time.Duration), args.Error(1)
}
func (m *MockETAService) EstimateArrival(ctx context.Context, origin, destination kernel.Coordinates,
	departAt time.Time) (time.Time, error) {
	args := m.Called(ctx, origin, destination, departAt)
	return args.Get(0).(time.Time), args.Error(1)
}

type MockNotificationService struct{ mock.Mock }

func (m *MockNotificationService) SendPush(ctx context.Context, driverID kernel.UUID,
	title, body string) error {
	return m.Called(ctx, driverID, title, body).Error(0)
}

type MockCoordinationStore struct{ mock.Mock }

func (m *MockCoordinationStore) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}
func (m *MockCoordinationStore) Set(ctx context.Context, key, value string,
	ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}
func (m *MockCoordinationStore) CompareAndSwap(ctx context.Context, key, oldValue, newValue string,
	ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, oldValue, newValue, ttl)
	return args.Bool(0), args.Error(1)
}
