package queries_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"allocator/internal/adapters/out/postgres"
	"allocator/internal/adapters/out/postgres/allocationrepo"
	"allocator/internal/core/application/usecases/queries"
	"allocator/internal/core/domain/model/allocation"
	"allocator/internal/core/domain/model/kernel"
	"allocator/internal/core/domain/model/order"
	"allocator/internal/core/domain/model/shipment"
	"allocator/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

type AllocationQueryHandlersTestSuite struct {
	suite.Suite
	container *pgcontainer.PostgresContainer
	db        *gorm.DB
	repo      *allocationrepo.GormAllocationRepository
}

func (suite *AllocationQueryHandlersTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := pgcontainer.Run(ctx,
		"postgres:15-alpine",
		pgcontainer.WithDatabase("testdb"),
		pgcontainer.WithUsername("testuser"),
		pgcontainer.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres.Migrate(db))
	suite.repo = allocationrepo.NewGormAllocationRepository(db, noopTracker{})
}

func (suite *AllocationQueryHandlersTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *AllocationQueryHandlersTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE allocations, allocation_lines").Error
	suite.Require().NoError(err)
}

func (suite *AllocationQueryHandlersTestSuite) addSplit(createdAt time.Time) *allocation.Allocation {
	o, err := order.FromMap(map[string]int{"apple": 9, "orange": 4})
	suite.Require().NoError(err)
	owd, err := shipment.NewContribution("owd",
		shipment.Line{Item: "apple", Quantity: 5},
		shipment.Line{Item: "orange", Quantity: 3},
	)
	suite.Require().NoError(err)
	dm, err := shipment.NewContribution("dm",
		shipment.Line{Item: "apple", Quantity: 4},
		shipment.Line{Item: "orange", Quantity: 1},
	)
	suite.Require().NoError(err)
	plan, err := shipment.NewPlan(owd, dm)
	suite.Require().NoError(err)

	record, err := allocation.NewAllocation(o, allocation.MultiWarehouse, plan, "", false, createdAt)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.Add(context.Background(), record))
	return record
}

func (suite *AllocationQueryHandlersTestSuite) addInsufficient(createdAt time.Time) *allocation.Allocation {
	o, err := order.FromMap(map[string]int{"apple": 1})
	suite.Require().NoError(err)

	record, err := allocation.NewAllocation(o, allocation.Insufficient, shipment.EmptyPlan(),
		"insufficient inventory: 1 of 1 apple missing", false, createdAt)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.Add(context.Background(), record))
	return record
}

func (suite *AllocationQueryHandlersTestSuite) TestGetAllocation_ReturnsReadModel() {
	createdAt := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	record := suite.addSplit(createdAt)
	handler := queries.NewGetAllocationQueryHandler(suite.db)
	query, err := queries.NewGetAllocationQuery(record.ID())
	suite.Require().NoError(err)

	response, err := handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.True(record.ID().IsEqual(response.ID))
	suite.Equal(allocation.MultiWarehouse, response.Outcome)
	suite.True(response.IsFulfilled())
	suite.Empty(response.Reason)
	suite.False(response.DryRun)
	suite.Equal([]order.Line{{Item: "apple", Quantity: 9}, {Item: "orange", Quantity: 4}}, response.Requested)
	suite.True(createdAt.Equal(response.CreatedAt))

	data, err := json.Marshal(response.Plan)
	suite.Require().NoError(err)
	suite.JSONEq(`[{"owd":{"apple":5,"orange":3}},{"dm":{"apple":4,"orange":1}}]`, string(data))
}

func (suite *AllocationQueryHandlersTestSuite) TestGetAllocation_UnfulfilledHasEmptyPlan() {
	record := suite.addInsufficient(time.Now())
	handler := queries.NewGetAllocationQueryHandler(suite.db)
	query, _ := queries.NewGetAllocationQuery(record.ID())

	response, err := handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Equal(allocation.Insufficient, response.Outcome)
	suite.False(response.IsFulfilled())
	suite.True(response.Plan.IsEmpty())
	suite.Contains(response.Reason, "insufficient inventory")
}

func (suite *AllocationQueryHandlersTestSuite) TestGetAllocation_NotFound() {
	handler := queries.NewGetAllocationQueryHandler(suite.db)
	query, _ := queries.NewGetAllocationQuery(kernel.NewUUID())

	_, err := handler.Handle(context.Background(), query)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *AllocationQueryHandlersTestSuite) TestGetAllocation_UnconstructedQuery() {
	handler := queries.NewGetAllocationQueryHandler(suite.db)

	_, err := handler.Handle(context.Background(), queries.GetAllocationQuery{})

	suite.Require().ErrorIs(err, queries.ErrGetAllocationQueryIsNotConstructed)
}

func (suite *AllocationQueryHandlersTestSuite) TestGetRecent_EmptyDatabase_ReturnsEmptySlice() {
	handler := queries.NewGetRecentAllocationsQueryHandler(suite.db)
	query, _ := queries.NewGetRecentAllocationsQuery(10)

	responses, err := handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.NotNil(responses)
	suite.Empty(responses)
}

func (suite *AllocationQueryHandlersTestSuite) TestGetRecent_NewestFirstWithinLimit() {
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	suite.addSplit(base)
	middle := suite.addInsufficient(base.Add(time.Minute))
	newest := suite.addSplit(base.Add(2 * time.Minute))
	handler := queries.NewGetRecentAllocationsQueryHandler(suite.db)
	query, _ := queries.NewGetRecentAllocationsQuery(2)

	responses, err := handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(responses, 2)
	suite.True(newest.ID().IsEqual(responses[0].ID))
	suite.Equal(2, responses[0].Plan.Len())
	suite.True(middle.ID().IsEqual(responses[1].ID))
	suite.True(responses[1].Plan.IsEmpty())
}

func TestAllocationQueryHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(AllocationQueryHandlersTestSuite))
}
