// Package cli runs allocation passes from the command line.
//
//	allocate --order apple:9,orange:4 -w owd=apple:5,orange:3 -w dm=apple:4,orange:1
//	allocate --file request.yml --json
//
// Warehouses are ranked in the order they are given. Nothing is persisted:
// the pass runs against the stock described by the invocation.
package cli
