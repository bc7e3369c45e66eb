package cmd

import (
	"fmt"
	"log/slog"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/googlemaps"
	"dispatch/internal/adapters/out/orderapi"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/push"
	redisout "dispatch/internal/adapters/out/redis"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CompositionRoot wires adapters to the application's handlers.
type CompositionRoot struct {
	gormDB       *gorm.DB
	uowFactory   postgres.GormUnitOfWorkFactory
	orderService ports.OrderService
	etaService   ports.ETAService
	notifier     ports.NotificationService
	coordination ports.CoordinationStore
}

func NewCompositionRoot(config Config, gormDB *gorm.DB,
	redisClient *goredis.Client) (CompositionRoot, error) {
	orderService, err := orderapi.NewClient(config.OrderServiceBaseURL, config.OrderServiceAPIKey)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("order service client: %w", err)
	}

	etaService, err := googlemaps.NewETAService(config.GoogleMapsAPIKey)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("eta service client: %w", err)
	}

	notifier, err := push.NewClient(config.PushGatewayBaseURL, config.PushGatewayAPIKey)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("push client: %w", err)
	}

	return CompositionRoot{
		gormDB:       gormDB,
		uowFactory:   *postgres.NewGormUnitOfWorkFactory(gormDB),
		orderService: orderService,
		etaService:   etaService,
		notifier:     notifier,
		coordination: redisout.NewCoordinationStore(redisClient),
	}, nil
}

func (c *CompositionRoot) dispatchUoWFactory() commands.DispatchUoWFactory {
	return FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) driverUoWFactory() commands.DriverUoWFactory {
	return FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateAssignmentsCommandHandler() commands.CreateAssignmentsCommandHandler {
	return commands.NewCreateAssignmentsCommandHandler(c.dispatchUoWFactory(),
		c.orderService, c.etaService, c.notifier, c.coordination)
}

func (c *CompositionRoot) CreateConfirmAssignmentsCommandHandler() commands.ConfirmAssignmentsCommandHandler {
	return commands.NewConfirmAssignmentsCommandHandler(c.dispatchUoWFactory(),
		c.orderService, c.etaService)
}

func (c *CompositionRoot) CreateCancelAssignmentCommandHandler() commands.CancelAssignmentCommandHandler {
	return commands.NewCancelAssignmentCommandHandler(c.dispatchUoWFactory(),
		c.orderService, c.notifier)
}

func (c *CompositionRoot) CreateCompleteTaskCommandHandler() commands.CompleteTaskCommandHandler {
	return commands.NewCompleteTaskCommandHandler(c.dispatchUoWFactory(), c.orderService)
}

func (c *CompositionRoot) CreateDepartStopCommandHandler() commands.DepartStopCommandHandler {
	return commands.NewDepartStopCommandHandler(c.dispatchUoWFactory(), c.orderService)
}

func (c *CompositionRoot) CreateArriveAtStopCommandHandler() commands.ArriveAtStopCommandHandler {
	return commands.NewArriveAtStopCommandHandler(c.dispatchUoWFactory(), c.orderService)
}

func (c *CompositionRoot) CreateReportLocationCommandHandler() commands.ReportLocationCommandHandler {
	return commands.NewReportLocationCommandHandler(c.driverUoWFactory())
}

func (c *CompositionRoot) CreateInvalidateAssignmentsCommandHandler() commands.InvalidateAssignmentsCommandHandler {
	return commands.NewInvalidateAssignmentsCommandHandler(c.dispatchUoWFactory(), c.orderService)
}

func (c *CompositionRoot) CreateSweepCommandHandler() commands.SweepCommandHandler {
	return commands.NewSweepCommandHandler(c.dispatchUoWFactory(), c.orderService,
		c.etaService, c.notifier)
}

func (c *CompositionRoot) CreateGetCurrentStopsQueryHandler() queries.GetCurrentStopsQueryHandler {
	return queries.NewGetCurrentStopsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDriverAssignmentsQueryHandler() queries.GetDriverAssignmentsQueryHandler {
	return queries.NewGetDriverAssignmentsQueryHandler(c.gormDB)
}

// CreateHTTPServer assembles the inbound HTTP surface.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateAssignmentsCommandHandler(),
		c.CreateConfirmAssignmentsCommandHandler(),
		c.CreateCancelAssignmentCommandHandler(),
		c.CreateCompleteTaskCommandHandler(),
		c.CreateDepartStopCommandHandler(),
		c.CreateArriveAtStopCommandHandler(),
		c.CreateReportLocationCommandHandler(),
		c.CreateGetCurrentStopsQueryHandler(),
		c.CreateGetDriverAssignmentsQueryHandler(),
	)
}

// CreateJobManager assembles the background jobs.
func (c *CompositionRoot) CreateJobManager(logger *slog.Logger) *jobs.JobManager {
	return jobs.NewJobManager(c.CreateSweepCommandHandler(), c.coordination, logger)
}

type FuncDispatchUoWFactory func() commands.DispatchUoW

func (f FuncDispatchUoWFactory) Create() commands.DispatchUoW {
	return f()
}

type FuncDriverUoWFactory func() commands.DriverUoW

func (f FuncDriverUoWFactory) Create() commands.DriverUoW {
	return f()
}
