package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"allocator/internal/core/application/usecases/commands"
	"allocator/internal/core/application/usecases/queries"
	"allocator/internal/core/domain/model/allocation"
	"allocator/internal/core/domain/model/kernel"
	"allocator/internal/core/domain/model/order"
	"allocator/internal/core/domain/model/warehouse"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

var _ ServerInterface = (*Server)(nil)

type AllocateOrderHandler interface {
	Handle(ctx context.Context, cmd commands.AllocateOrderCommand) (*allocation.Allocation, error)
}

type GetAllocationHandler interface {
	Handle(ctx context.Context, query queries.GetAllocationQuery) (queries.AllocationResponse, error)
}

type GetRecentAllocationsHandler interface {
	Handle(ctx context.Context, query queries.GetRecentAllocationsQuery) ([]queries.AllocationResponse, error)
}

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	allocateHandler AllocateOrderHandler

	// Query handlers
	getAllocationHandler        GetAllocationHandler
	getRecentAllocationsHandler GetRecentAllocationsHandler

	metrics *Metrics
	// atomicByDefault makes every non dry-run request atomic.
	atomicByDefault bool
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	allocateHandler AllocateOrderHandler,
	getAllocationHandler GetAllocationHandler,
	getRecentAllocationsHandler GetRecentAllocationsHandler,
	metrics *Metrics,
	atomicByDefault bool,
) *Server {
	return &Server{
		allocateHandler:             allocateHandler,
		getAllocationHandler:        getAllocationHandler,
		getRecentAllocationsHandler: getRecentAllocationsHandler,
		metrics:                     metrics,
		atomicByDefault:             atomicByDefault,
	}
}

// CreateAllocation handles POST /api/v1/allocations - allocates an order.
// Rejected and insufficient orders are recorded and returned with 201 and an
// empty plan.
func (s *Server) CreateAllocation(ctx echo.Context) error {
	var req AllocationRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if err := ctx.Validate(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid allocation request: " + err.Error(),
		})
	}

	cmd, err := s.buildCommand(req)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid allocation request: " + err.Error(),
		})
	}

	record, err := s.allocateHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err, "Failed to allocate order")
	}

	if s.metrics != nil {
		s.metrics.RecordAllocation(record)
	}

	return ctx.JSON(http.StatusCreated, allocationFromRecord(record))
}

func (s *Server) buildCommand(req AllocationRequest) (commands.AllocateOrderCommand, error) {
	o, err := order.FromMap(req.Order)
	if err != nil {
		return commands.AllocateOrderCommand{}, err
	}

	warehouses := make([]*warehouse.Warehouse, 0, len(req.Warehouses))
	warehouseErrs := make([]error, 0)
	for i, w := range req.Warehouses {
		created, createErr := warehouse.NewWarehouseWithInventory(w.Name, w.Inventory)
		if createErr != nil {
			warehouseErrs = append(warehouseErrs, fmt.Errorf("warehouses[%d]: %w", i, createErr))
			continue
		}
		warehouses = append(warehouses, created)
	}
	if err = errors.Join(warehouseErrs...); err != nil {
		return commands.AllocateOrderCommand{}, err
	}

	atomic := req.Atomic || (s.atomicByDefault && !req.DryRun)
	return commands.NewAllocateOrderCommand(o, warehouses, req.DryRun, atomic)
}

// GetAllocation handles GET /api/v1/allocations/{id} - retrieves one allocation.
func (s *Server) GetAllocation(ctx echo.Context, id string) error {
	allocationID, err := kernel.ParseUUID(id)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid allocation id",
		})
	}

	query, err := queries.NewGetAllocationQuery(allocationID)
	if err != nil {
		return errorResponse(ctx, err, "Failed to retrieve allocation")
	}

	response, err := s.getAllocationHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err, "Failed to retrieve allocation")
	}

	return ctx.JSON(http.StatusOK, allocationFromResponse(response))
}

// ListAllocations handles GET /api/v1/allocations - retrieves recent allocations.
func (s *Server) ListAllocations(ctx echo.Context, params ListAllocationsParams) error {
	limit := queries.DefaultRecentAllocationsLimit
	if params.Limit != nil {
		limit = *params.Limit
	}

	query, err := queries.NewGetRecentAllocationsQuery(limit)
	if err != nil {
		return errorResponse(ctx, err, "Failed to retrieve allocations")
	}

	responses, err := s.getRecentAllocationsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err, "Failed to retrieve allocations")
	}

	result := make([]Allocation, len(responses))
	for i, response := range responses {
		result[i] = allocationFromResponse(response)
	}

	return ctx.JSON(http.StatusOK, result)
}

// NewRouter assembles the echo instance: health, metrics, swagger UI and the
// contract-validated allocation API.
func NewRouter(server *Server, metrics *Metrics, contract []byte, logger *slog.Logger) (*echo.Echo, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	doc, err := LoadContract(contract)
	if err != nil {
		return nil, err
	}

	contractValidator, err := ContractValidator(doc)
	if err != nil {
		return nil, err
	}

	if err = RegisterSwagger(doc); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger.With("component", "HTTPServer"))

	if metrics != nil {
		e.Use(metrics.Middleware())
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1", contractValidator)
	RegisterHandlersWithBaseURL(api, server, "")

	return e, nil
}
