package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okian/learnmap/internal/domain/model"
	"github.com/okian/learnmap/internal/domain/validate"
)

// TopicsHandler handles the /topics resource.
type TopicsHandler struct {
	topics TopicService
	errs   *errorWriter
}

// NewTopicsHandler creates a new topics handler.
func NewTopicsHandler(topics TopicService, errs *errorWriter) *TopicsHandler {
	return &TopicsHandler{topics: topics, errs: errs}
}

// HandleList handles GET /topics?q=&parentId=&limit=&offset=.
func (h *TopicsHandler) HandleList(c *gin.Context) {
	limit, offset, err := validate.ParsePage(c.Query("limit"), c.Query("offset"))
	if err != nil {
		h.errs.write(c, err)
		return
	}
	page, err := h.topics.List(c.Request.Context(), model.TopicFilter{
		Query:    c.Query("q"),
		ParentID: c.Query("parentId"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		h.errs.write(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// HandleGet handles GET /topics/:id.
func (h *TopicsHandler) HandleGet(c *gin.Context) {
	topic, err := h.topics.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.errs.write(c, err)
		return
	}
	c.JSON(http.StatusOK, topic)
}

// HandleCreate handles POST /topics.
func (h *TopicsHandler) HandleCreate(c *gin.Context) {
	var req topicRequest
	if err := bindBody(c, &req); err != nil {
		h.errs.write(c, err)
		return
	}

	topic, err := h.topics.Create(c.Request.Context(), req.input())
	if err != nil {
		h.errs.write(c, err)
		return
	}
	c.JSON(http.StatusCreated, topic)
}

// HandleUpdate handles PUT /topics/:id.
func (h *TopicsHandler) HandleUpdate(c *gin.Context) {
	var req topicRequest
	if err := bindBody(c, &req); err != nil {
		h.errs.write(c, err)
		return
	}

	topic, err := h.topics.Update(c.Request.Context(), c.Param("id"), req.patch())
	if err != nil {
		h.errs.write(c, err)
		return
	}
	c.JSON(http.StatusOK, topic)
}

// HandleDelete handles DELETE /topics/:id.
func (h *TopicsHandler) HandleDelete(c *gin.Context) {
	if err := h.topics.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.errs.write(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
