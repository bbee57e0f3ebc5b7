package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/zen-producer/internal/core/services"
)

// StatsHandler serves the session bootstrap and the read-only progress view.
type StatsHandler struct {
	svc *services.TrackerService
}

func NewStatsHandler(svc *services.TrackerService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/session", h.Session)
	r.GET("/stats", h.Stats)
}

// Session godoc
// @Summary Start a session: expire a stale streak, apply penalties, return everything
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.Session
// @Router /session [get]
func (h *StatsHandler) Session(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	session, err := h.svc.Load(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// Stats godoc
// @Summary Level, XP, streak and derived progress
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.StatsView
// @Router /stats [get]
func (h *StatsHandler) Stats(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	view, err := h.svc.StatsView(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
