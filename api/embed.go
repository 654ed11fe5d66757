// Package api holds the HTTP contract of the allocator service.
package api

import _ "embed"

// OpenAPI is the OpenAPI 3 document served and enforced by the HTTP adapter.
//
//go:embed openapi.yml
var OpenAPI []byte
