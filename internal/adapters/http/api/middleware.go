package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/okian/learnmap/pkg/logger"
	"github.com/okian/learnmap/pkg/metrics"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

const maxRequestIDLen = 128

// NewEngine builds a gin engine with the service middleware chain:
// recovery, request id, access log, metrics and CORS.
func NewEngine(log logger.Logger, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(RecoveryMiddleware(log))
	r.Use(RequestIDMiddleware())
	r.Use(AccessLogMiddleware(log))
	r.Use(MetricsMiddleware())
	if mw := CORSMiddleware(corsOrigins); mw != nil {
		r.Use(mw)
	}
	return r
}

// RequestIDMiddleware accepts a caller supplied X-Request-ID or generates
// one, echoes it back and attaches it to the request context for logging.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		c.Header(HeaderRequestID, id)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// AccessLogMiddleware writes one line per request through our logger.
func AccessLogMiddleware(log logger.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("duration", time.Since(start)),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			log.Warn(c.Request.Context(), "request", fields...)
			return
		}
		log.Info(c.Request.Context(), "request", fields...)
	}
}

// MetricsMiddleware records Prometheus metrics for every request.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		durationMs := float64(time.Since(start).Microseconds()) / 1000
		metrics.RecordHTTPRequest(routeOf(c), c.Request.Method, strconv.Itoa(c.Writer.Status()), durationMs)
	}
}

// RecoveryMiddleware turns a panic into a logged 500 with the usual error body.
func RecoveryMiddleware(log logger.Logger) gin.HandlerFunc {
	log = log.Named("recovery")
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error(c.Request.Context(), "panic while handling request",
			logger.String("path", c.Request.URL.Path),
			logger.Any("panic", recovered),
		)
		metrics.RecordHTTPError(routeOf(c), kindInternal)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Error: msgInternal})
	})
}

// CORSMiddleware allows browser calls from origins. It returns nil when no
// origin is configured; "*" allows any origin.
func CORSMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return nil
	}
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cors.New(cfg)
		}
	}
	cfg.AllowOrigins = origins
	return cors.New(cfg)
}
