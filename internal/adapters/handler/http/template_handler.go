package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/zen-producer/internal/core/services"
)

type TemplateHandler struct {
	svc *services.TrackerService
}

func NewTemplateHandler(svc *services.TrackerService) *TemplateHandler {
	return &TemplateHandler{svc: svc}
}

func (h *TemplateHandler) RegisterRoutes(router *gin.RouterGroup) {
	templates := router.Group("/templates")
	{
		templates.GET("", h.List)
		templates.POST("/:id/use", h.Use)
		templates.DELETE("/:id", h.Remove)
	}
}

// List godoc
// @Summary Saved templates, newest first
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.TaskTemplate
// @Router /templates [get]
func (h *TemplateHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	templates, err := h.svc.ListTemplates(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, templates)
}

// Use godoc
// @Summary Create a new undated task from a template
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Param id path string true "template id"
// @Success 201 {object} services.Outcome
// @Failure 404 {object} map[string]string
// @Router /templates/{id}/use [post]
func (h *TemplateHandler) Use(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	out, err := h.svc.UseTemplate(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, out)
}

// Remove godoc
// @Summary Delete a template
// @Tags templates
// @Security BearerAuth
// @Param id path string true "template id"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /templates/{id} [delete]
func (h *TemplateHandler) Remove(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.svc.RemoveTemplate(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
