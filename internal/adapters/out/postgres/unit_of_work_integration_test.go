package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "allocator/internal/adapters/out/postgres"
	"allocator/internal/core/domain/model/allocation"
	"allocator/internal/core/domain/model/order"
	"allocator/internal/core/domain/model/shipment"
	"allocator/internal/core/ports"
	"allocator/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite tests the GORM unit of work against a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30*time.Second)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE allocations, allocation_lines").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")
	suite.NotNil(uow1.AllocationRepository())
	suite.NotNil(uow2.AllocationRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "Multiple begin calls should be safe")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitPersists() {
	ctx := context.Background()
	uow := suite.factory.Create()
	record := createTestAllocation(suite)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.AllocationRepository().Add(ctx, record))

	inTx, err := uow.AllocationRepository().Get(ctx, record.ID())
	suite.Require().NoError(err)
	suite.True(record.IsEqual(inTx))

	suite.Require().NoError(uow.Commit(ctx))

	restored, err := suite.factory.Create().AllocationRepository().Get(ctx, record.ID())
	suite.Require().NoError(err)
	suite.True(record.IsEqual(restored))

	tracked := uow.(*postgres_adapter.GormUnitOfWork).TrackedIDs()
	suite.Require().Len(tracked, 1)
	suite.True(tracked[0].IsEqual(record.ID()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscards() {
	ctx := context.Background()
	uow := suite.factory.Create()
	record := createTestAllocation(suite)

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.AllocationRepository().Add(ctx, record))
	suite.Require().NoError(uow.Rollback(ctx))

	_, err := suite.factory.Create().AllocationRepository().Get(ctx, record.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	suite.Empty(uow.(*postgres_adapter.GormUnitOfWork).TrackedIDs())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoryIsolation() {
	ctx := context.Background()
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()
	record1 := createTestAllocation(suite)
	record2 := createTestAllocation(suite)

	suite.Require().NoError(uow1.Begin(ctx))
	suite.Require().NoError(uow2.Begin(ctx))
	suite.Require().NoError(uow1.AllocationRepository().Add(ctx, record1))
	suite.Require().NoError(uow2.AllocationRepository().Add(ctx, record2))

	_, err := uow1.AllocationRepository().Get(ctx, record2.ID())
	suite.Require().Error(err, "UOW1 should not see record2")
	_, err = uow2.AllocationRepository().Get(ctx, record1.ID())
	suite.Require().Error(err, "UOW2 should not see record1")

	suite.Require().NoError(uow1.Commit(ctx))
	suite.Require().NoError(uow2.Rollback(ctx))

	repo := suite.factory.Create().AllocationRepository()
	_, err = repo.Get(ctx, record1.ID())
	suite.Require().NoError(err)
	_, err = repo.Get(ctx, record2.ID())
	suite.Require().Error(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WithoutTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()
	record := createTestAllocation(suite)

	suite.Require().NoError(uow.AllocationRepository().Add(ctx, record))

	_, err := suite.factory.Create().AllocationRepository().Get(ctx, record.ID())
	suite.Require().NoError(err)
}

func createTestAllocation(suite *UnitOfWorkIntegrationTestSuite) *allocation.Allocation {
	o, err := order.NewOrder(order.Line{Item: "apple", Quantity: 2})
	suite.Require().NoError(err)

	c, err := shipment.NewContribution("owd", shipment.Line{Item: "apple", Quantity: 2})
	suite.Require().NoError(err)
	plan, err := shipment.NewPlan(c)
	suite.Require().NoError(err)

	record, err := allocation.NewAllocation(o, allocation.SingleWarehouse, plan, "", false, time.Now())
	suite.Require().NoError(err)
	return record
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
