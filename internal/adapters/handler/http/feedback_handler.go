package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/zen-producer/internal/core/services"
)

type FeedbackHandler struct {
	svc *services.FeedbackService
}

func NewFeedbackHandler(svc *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

type feedbackRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=1000"`
}

func (h *FeedbackHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/feedback", h.Submit)
}

// Submit godoc
// @Summary Send a rating and an optional comment
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body feedbackRequest true "feedback"
// @Success 201 {object} domain.Feedback
// @Failure 400 {object} map[string]string
// @Router /feedback [post]
func (h *FeedbackHandler) Submit(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	fb, err := h.svc.Submit(c.Request.Context(), userID, req.Rating, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, fb)
}
