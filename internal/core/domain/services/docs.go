// Package services provides domain services that orchestrate business operations
// across several domain entities of the allocator. It implements workflows that
// don't naturally belong to a single aggregate.
//
// The package includes:
//   - InventoryAllocator: allocates an order across a ranked list of warehouses
//     and assembles the shipment plan
//
// Domain services coordinate between aggregates, implementing business logic that
// spans several of them, following Domain-Driven Design principles.
package services
