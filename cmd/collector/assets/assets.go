// Package assets embeds static files served by the collector.
package assets

import _ "embed"

// OpenAPIData is the OpenAPI document rendered by the Swagger UI.
//
//go:embed openapi.yaml
var OpenAPIData []byte
