// Package warehouse provides the inventory ledger of a single warehouse.
//
// The package includes:
//   - Warehouse: on-hand stock per item plus the record of what was shipped
//     in the current allocation pass
//   - Snapshot: a captured ledger state used to undo a failed atomic allocation
//
// Key business rules:
//   - Availability of an unstocked item is zero, never an error
//   - Shipping is capped by availability and decrements on-hand stock
//   - Only warehouses that shipped something contribute to a shipment plan
package warehouse
