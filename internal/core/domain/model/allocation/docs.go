// Package allocation records the results of allocation passes.
//
// The package includes:
//   - Outcome: the tagged result of a pass (Rejected, SingleWarehouse,
//     MultiWarehouse, Insufficient)
//   - Allocation: the aggregate root persisted for every pass run through the
//     service, holding the requested lines, the outcome and the shipment plan
//
// Key business rules:
//   - Only fulfilled outcomes carry a plan
//   - Warehouse stock is never part of a record
package allocation
