package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okian/learnmap/internal/domain/model"
	"github.com/okian/learnmap/pkg/logger"
	"github.com/okian/learnmap/pkg/metrics"
)

// Error kinds used as metric labels.
const (
	kindValidation = "validation"
	kindNotFound   = "not_found"
	kindConflict   = "conflict"
	kindInternal   = "internal"
)

const msgInternal = "internal server error"

// classify maps an error to its HTTP status and metric kind.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusUnprocessableEntity, kindValidation
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, kindNotFound
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict, kindConflict
	default:
		return http.StatusInternalServerError, kindInternal
	}
}

type errorWriter struct {
	log logger.Logger
}

// write answers with {"error": msg}. Internal failures are logged and never
// leak their message.
func (w *errorWriter) write(c *gin.Context, err error) {
	status, kind := classify(err)
	metrics.RecordHTTPError(routeOf(c), kind)

	msg := model.Message(err)
	if status == http.StatusInternalServerError || msg == "" {
		w.log.Error(c.Request.Context(), "request failed",
			logger.String("method", c.Request.Method),
			logger.String("route", routeOf(c)),
			logger.Error(err),
		)
		status, msg = http.StatusInternalServerError, msgInternal
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: msg})
}

// routeOf returns the matched route pattern, which keeps metric label
// cardinality bounded.
func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}
