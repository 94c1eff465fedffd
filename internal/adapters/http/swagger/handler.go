// Package swagger serves the API reference: a ReDoc page and the OpenAPI
// document in YAML and JSON.
package swagger

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/knadh/koanf/parsers/yaml"
)

// RedocScriptURL is the ReDoc bundle loaded by the docs page.
const RedocScriptURL = "https://cdn.redoc.ly/redoc/v2.1.5/bundles/redoc.standalone.js"

// Register attaches the docs routes to r. It panics if r is nil or the
// embedded document does not parse.
//
//	GET /api-docs      -> ReDoc HTML
//	GET /openapi.yaml  -> embedded document
//	GET /openapi.json  -> the same document as JSON
func Register(r gin.IRoutes) {
	if r == nil {
		panic("router is nil")
	}
	asJSON, err := documentJSON(OpenAPI)
	if err != nil {
		panic(err)
	}

	r.GET("/api-docs", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
	})
	r.GET("/openapi.yaml", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml; charset=utf-8", OpenAPI)
	})
	r.GET("/openapi.json", func(c *gin.Context) {
		c.Data(http.StatusOK, gin.MIMEJSON+"; charset=utf-8", asJSON)
	})
}

// documentJSON converts the YAML document once at registration.
func documentJSON(doc []byte) ([]byte, error) {
	tree, err := yaml.Parser().Unmarshal(doc)
	if err != nil {
		return nil, fmt.Errorf("parsing openapi document: %w", err)
	}
	return json.Marshal(tree)
}

const indexHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Topic &amp; Skill API Docs</title>
    <style>body{margin:0;padding:0}</style>
  </head>
  <body>
    <redoc id="redoc-container"></redoc>
    <script src="` + RedocScriptURL + `"></script>
    <script>Redoc.init('/openapi.yaml', { suppressWarnings: true }, document.getElementById('redoc-container'));</script>
  </body>
</html>`
