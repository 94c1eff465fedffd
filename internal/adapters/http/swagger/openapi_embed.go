package swagger

import _ "embed"

// OpenAPI is the API description shipped with the binary.
//
//go:embed openapi.yaml
var OpenAPI []byte
