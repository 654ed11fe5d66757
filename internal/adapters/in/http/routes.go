package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ListAllocationsParams defines parameters for ListAllocations.
type ListAllocationsParams struct {
	Limit *int `form:"limit,omitempty" json:"limit,omitempty"`
}

// ServerInterface represents all server handlers of the contract.
type ServerInterface interface {
	// Allocate an order
	// (POST /api/v1/allocations)
	CreateAllocation(ctx echo.Context) error
	// List recent allocations, newest first
	// (GET /api/v1/allocations)
	ListAllocations(ctx echo.Context, params ListAllocationsParams) error
	// Get an allocation
	// (GET /api/v1/allocations/{id})
	GetAllocation(ctx echo.Context, id string) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// CreateAllocation converts echo context to params.
func (w *ServerInterfaceWrapper) CreateAllocation(ctx echo.Context) error {
	return w.Handler.CreateAllocation(ctx)
}

// ListAllocations converts echo context to params.
func (w *ServerInterfaceWrapper) ListAllocations(ctx echo.Context) error {
	var params ListAllocationsParams

	err := runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %s", err))
	}

	return w.Handler.ListAllocations(ctx, params)
}

// GetAllocation converts echo context to params.
func (w *ServerInterfaceWrapper) GetAllocation(ctx echo.Context) error {
	var id string

	err := runtime.BindStyledParameterWithOptions("simple", "id", ctx.Param("id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter id: %s", err))
	}

	return w.Handler.GetAllocation(ctx, id)
}

// EchoRouter is satisfied by both *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlersWithBaseURL adds each server route to the router,
// prefixed by baseURL.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.POST(baseURL+"/allocations", wrapper.CreateAllocation)
	router.GET(baseURL+"/allocations", wrapper.ListAllocations)
	router.GET(baseURL+"/allocations/:id", wrapper.GetAllocation)
}
