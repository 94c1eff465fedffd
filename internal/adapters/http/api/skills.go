package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okian/learnmap/internal/domain/model"
	"github.com/okian/learnmap/internal/domain/validate"
)

// SkillsHandler handles the /skills resource.
type SkillsHandler struct {
	skills SkillService
	errs   *errorWriter
}

// NewSkillsHandler creates a new skills handler.
func NewSkillsHandler(skills SkillService, errs *errorWriter) *SkillsHandler {
	return &SkillsHandler{skills: skills, errs: errs}
}

// HandleList handles GET /skills?q=&topicId=&limit=&offset=.
func (h *SkillsHandler) HandleList(c *gin.Context) {
	limit, offset, err := validate.ParsePage(c.Query("limit"), c.Query("offset"))
	if err != nil {
		h.errs.write(c, err)
		return
	}
	page, err := h.skills.List(c.Request.Context(), model.SkillFilter{
		Query:   c.Query("q"),
		TopicID: c.Query("topicId"),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		h.errs.write(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// HandleGet handles GET /skills/:id.
func (h *SkillsHandler) HandleGet(c *gin.Context) {
	skill, err := h.skills.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.errs.write(c, err)
		return
	}
	c.JSON(http.StatusOK, skill)
}

// HandleCreate handles POST /skills.
func (h *SkillsHandler) HandleCreate(c *gin.Context) {
	var req skillRequest
	if err := bindBody(c, &req); err != nil {
		h.errs.write(c, err)
		return
	}

	skill, err := h.skills.Create(c.Request.Context(), req.input())
	if err != nil {
		h.errs.write(c, err)
		return
	}
	c.JSON(http.StatusCreated, skill)
}

// HandleUpdate handles PUT /skills/:id.
func (h *SkillsHandler) HandleUpdate(c *gin.Context) {
	var req skillRequest
	if err := bindBody(c, &req); err != nil {
		h.errs.write(c, err)
		return
	}

	skill, err := h.skills.Update(c.Request.Context(), c.Param("id"), req.patch())
	if err != nil {
		h.errs.write(c, err)
		return
	}
	c.JSON(http.StatusOK, skill)
}

// HandleDelete handles DELETE /skills/:id.
func (h *SkillsHandler) HandleDelete(c *gin.Context) {
	if err := h.skills.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.errs.write(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
