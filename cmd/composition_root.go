package cmd

import (
	"context"
	"log/slog"

	"allocator/api"
	httpadapter "allocator/internal/adapters/in/http"
	"allocator/internal/adapters/out/kafka"
	"allocator/internal/adapters/out/postgres"
	"allocator/internal/core/application/usecases/commands"
	"allocator/internal/core/application/usecases/queries"
	"allocator/internal/core/domain/services"
	"allocator/internal/core/ports"
	"allocator/internal/jobs"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// EventPublisher is an allocation event publisher that owns a connection.
type EventPublisher interface {
	ports.AllocationEventPublisher
	Close() error
}

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	publisher  EventPublisher
	metrics    *httpadapter.Metrics
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		publisher:  newEventPublisher(config, logger),
		metrics:    httpadapter.NewMetrics(),
		logger:     logger,
	}
}

func newEventPublisher(config Config, logger *slog.Logger) EventPublisher {
	brokers := config.KafkaBrokers()
	if len(brokers) == 0 {
		logger.Info("KAFKA_HOST is not set, allocation events are disabled")
		return kafka.NoopPublisher{}
	}

	writer := kafka.NewWriter(brokers, config.KafkaAllocationTopic)
	return kafka.NewAllocationPublisher(writer, kafka.DefaultBreakerSettings(), logger)
}

func (c *CompositionRoot) allocationUoWFactory() commands.AllocationUoWFactory {
	return FuncAllocationUoWFactory(func() commands.AllocationUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateAllocateOrderCommandHandler() commands.AllocateOrderCommandHandler {
	return commands.NewAllocateOrderCommandHandler(
		c.allocationUoWFactory(),
		services.NewInventoryAllocator(c.logger),
		c.publisher,
		c.logger,
	)
}

func (c *CompositionRoot) CreatePurgeAllocationsCommandHandler() commands.PurgeAllocationsCommandHandler {
	return commands.NewPurgeAllocationsCommandHandler(c.allocationUoWFactory())
}

func (c *CompositionRoot) CreateGetAllocationQueryHandler() queries.GetAllocationQueryHandler {
	return queries.NewGetAllocationQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetRecentAllocationsQueryHandler() queries.GetRecentAllocationsQueryHandler {
	return queries.NewGetRecentAllocationsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	purgeHandler := c.CreatePurgeAllocationsCommandHandler()
	return jobs.NewJobManager(
		&purgeHandler,
		c.config.AllocationRetentionSchedule,
		c.config.AllocationRetention,
		c.logger,
	)
}

func (c *CompositionRoot) CreateHTTPServer() (*echo.Echo, error) {
	allocateHandler := c.CreateAllocateOrderCommandHandler()
	server := httpadapter.NewServer(
		&allocateHandler,
		c.CreateGetAllocationQueryHandler(),
		c.CreateGetRecentAllocationsQueryHandler(),
		c.metrics,
		c.config.AllocationAtomic,
	)
	return httpadapter.NewRouter(server, c.metrics, api.OpenAPI, c.logger)
}

// Close releases the event publisher.
func (c *CompositionRoot) Close(_ context.Context) error {
	return c.publisher.Close()
}

type FuncAllocationUoWFactory func() commands.AllocationUoW

func (f FuncAllocationUoWFactory) Create() commands.AllocationUoW {
	return f()
}
