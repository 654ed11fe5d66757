// Package http is the inbound HTTP adapter of the allocator service.
//
// Routes:
//
//	POST /api/v1/allocations       allocate an order and record the result
//	GET  /api/v1/allocations       list recent allocations
//	GET  /api/v1/allocations/{id}  get one allocation
//	GET  /health, /metrics, /swagger/*
//
// Requests under /api/v1 are checked against the embedded OpenAPI contract
// before reaching the Server.
package http
