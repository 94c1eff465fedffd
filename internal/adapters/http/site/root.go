// Package site serves the landing route of the service.
package site

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Greeting is the plain-text body served at /.
const Greeting = "Hello from Topic & Skill Service!"

// Index is the JSON form of the landing page, pointing at the docs.
type Index struct {
	Service string `json:"service"`
	Docs    string `json:"docs"`
	OpenAPI string `json:"openapi"`
	Health  string `json:"health"`
}

// Register attaches the landing route to r.
func Register(r gin.IRoutes) {
	if r == nil {
		panic("router is nil")
	}
	h := NewRootHandler()
	r.GET("/", h.HandleRoot)
	r.HEAD("/", h.HandleRoot)
}

// RootHandler answers GET / with the greeting, or the index for JSON clients.
type RootHandler struct {
	index Index
}

// NewRootHandler creates a root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{index: Index{
		Service: Greeting,
		Docs:    "/api-docs",
		OpenAPI: "/openapi.yaml",
		Health:  "/healthz",
	}}
}

func (h *RootHandler) HandleRoot(c *gin.Context) {
	switch c.NegotiateFormat(gin.MIMEPlain, gin.MIMEJSON) {
	case gin.MIMEJSON:
		c.JSON(http.StatusOK, h.index)
	default:
		c.String(http.StatusOK, Greeting)
	}
}
