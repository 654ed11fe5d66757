// Package shipment holds the output of an allocation pass: the Plan, an
// ordered list of per-warehouse Contributions stating which warehouse ships
// which item quantities.
//
// A non-empty plan always ships exactly what was ordered, item by item.
// Rejected and unfillable orders produce an empty plan.
package shipment
