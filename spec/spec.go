// Package spec embeds the OpenAPI specification for the drivelog API.
// It is served at /openapi.yaml so the spec and the running code are always
// shipped together.
package spec

import _ "embed"

// OpenAPI contains the raw bytes of openapi.yaml, embedded at compile time.
//
//go:embed openapi.yaml
var OpenAPI []byte
