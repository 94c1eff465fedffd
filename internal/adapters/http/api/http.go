// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okian/learnmap/internal/domain/model"
	"github.com/okian/learnmap/pkg/logger"
)

// TopicService is the topic use-case surface the handlers call.
type TopicService interface {
	List(ctx context.Context, f model.TopicFilter) (model.Page[model.Topic], error)
	Get(ctx context.Context, id string) (model.Topic, error)
	Create(ctx context.Context, in model.TopicInput) (model.Topic, error)
	Update(ctx context.Context, id string, p model.TopicPatch) (model.Topic, error)
	Delete(ctx context.Context, id string) error
}

// SkillService is the skill use-case surface the handlers call.
type SkillService interface {
	List(ctx context.Context, f model.SkillFilter) (model.Page[model.Skill], error)
	Get(ctx context.Context, id string) (model.Skill, error)
	Create(ctx context.Context, in model.SkillInput) (model.Skill, error)
	Update(ctx context.Context, id string, p model.SkillPatch) (model.Skill, error)
	Delete(ctx context.Context, id string) error
}

// Pinger reports backend readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies required by HTTP handlers. Using interfaces keeps the handler
// layer loosely coupled to implementations in other packages.
type Dependencies struct {
	Topics TopicService
	Skills SkillService
	Ready  Pinger
}

// Server wires HTTP routes for the catalog API.
type Server struct {
	healthHandler *HealthHandler
	topicsHandler *TopicsHandler
	skillsHandler *SkillsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, log logger.Logger) *Server {
	errs := &errorWriter{log: log.Named("api")}
	return &Server{
		healthHandler: NewHealthHandler(deps.Ready),
		topicsHandler: NewTopicsHandler(deps.Topics, errs),
		skillsHandler: NewSkillsHandler(deps.Skills, errs),
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r *gin.Engine) {
	if r == nil {
		panic("router is nil")
	}

	r.GET("/healthz", s.healthHandler.HandleHealth)
	r.GET("/readyz", s.healthHandler.HandleReady)
	r.GET("/metrics", s.healthHandler.HandleMetrics)

	topics := r.Group("/topics")
	topics.GET("", s.topicsHandler.HandleList)
	topics.POST("", s.topicsHandler.HandleCreate)
	topics.GET("/:id", s.topicsHandler.HandleGet)
	topics.PUT("/:id", s.topicsHandler.HandleUpdate)
	topics.DELETE("/:id", s.topicsHandler.HandleDelete)

	skills := r.Group("/skills")
	skills.GET("", s.skillsHandler.HandleList)
	skills.POST("", s.skillsHandler.HandleCreate)
	skills.GET("/:id", s.skillsHandler.HandleGet)
	skills.PUT("/:id", s.skillsHandler.HandleUpdate)
	skills.DELETE("/:id", s.skillsHandler.HandleDelete)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "Not found"})
	})
}

type errorResponse struct {
	Error string `json:"error"`
}
