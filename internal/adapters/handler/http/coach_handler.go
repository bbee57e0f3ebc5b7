package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/zen-producer/internal/core/domain"
	"github.com/comitanigiacomo/zen-producer/internal/core/services"
)

type CoachHandler struct {
	svc *services.CoachService
}

func NewCoachHandler(svc *services.CoachService) *CoachHandler {
	return &CoachHandler{svc: svc}
}

type coachMessageRequest struct {
	Message string               `json:"message" binding:"required,max=4000"`
	History []domain.ChatMessage `json:"history" binding:"max=100"`
}

func (h *CoachHandler) RegisterRoutes(r *gin.RouterGroup) {
	coach := r.Group("/coach")
	{
		coach.GET("/greeting", h.Greeting)
		coach.POST("/messages", h.Ask)
	}
}

// Greeting godoc
// @Summary The coach's opening line for the current level
// @Tags coach
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.ChatMessage
// @Router /coach/greeting [get]
func (h *CoachHandler) Greeting(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	text, err := h.svc.Greeting(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, domain.ChatMessage{Role: domain.RoleModel, Text: text})
}

// Ask godoc
// @Summary Ask the coach; the answer is streamed as server-sent events
// @Description Events: "chunk" (partial text), "fallback" (static apology), "done".
// @Tags coach
// @Accept json
// @Produce text/event-stream
// @Security BearerAuth
// @Param body body coachMessageRequest true "message and prior turns"
// @Success 200 {string} string "event stream"
// @Failure 400 {object} map[string]string
// @Router /coach/messages [post]
func (h *CoachHandler) Ask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req coachMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ctx := c.Request.Context()
	started := false
	send := func(event string, data any) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !started {
			c.Header("Content-Type", "text/event-stream")
			c.Header("Cache-Control", "no-cache")
			c.Header("Connection", "keep-alive")
			c.Header("X-Accel-Buffering", "no")
			c.Status(http.StatusOK)
			started = true
		}
		c.SSEvent(event, data)
		c.Writer.Flush()
		return nil
	}

	usedFallback, err := h.svc.Ask(ctx, services.AskInput{
		UserID:  userID,
		History: req.History,
		Message: req.Message,
	},
		func(chunk string) error { return send("chunk", chunk) },
		func(message string) error { return send("fallback", message) },
	)
	if err != nil {
		if !started {
			respondError(c, err)
			return
		}
		_ = c.Error(err)
		return
	}

	_ = send("done", gin.H{"fallback": usedFallback})
}
