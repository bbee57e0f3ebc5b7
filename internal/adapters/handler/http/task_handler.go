package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/zen-producer/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/zen-producer/internal/core/domain"
	"github.com/comitanigiacomo/zen-producer/internal/core/services"
)

type TaskHandler struct {
	svc *services.TrackerService
}

func NewTaskHandler(svc *services.TrackerService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

type createTaskRequest struct {
	Text     string          `json:"text" binding:"required,max=500"`
	Priority domain.Priority `json:"priority" binding:"priority"`
	DueDate  string          `json:"due_date" binding:"isodate"`
}

// Absent fields keep their current value; an empty due_date clears it.
type updateTaskRequest struct {
	Text     *string          `json:"text" binding:"omitempty,max=500"`
	Priority *domain.Priority `json:"priority" binding:"omitempty,priority"`
	DueDate  *string          `json:"due_date" binding:"omitempty,isodate"`
}

func (h *TaskHandler) RegisterRoutes(router *gin.RouterGroup) {
	tasks := router.Group("/tasks")
	{
		tasks.GET("", h.List)
		tasks.POST("", h.Create)
		tasks.PUT("/:id", h.Update)
		tasks.DELETE("/:id", h.Delete)
		tasks.POST("/:id/complete", h.Complete)
		tasks.POST("/:id/template", h.SaveAsTemplate)
	}
}

func currentUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		_ = c.Error(errUserContextMissing)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return userID, ok
}

// List godoc
// @Summary Active tasks (sorted) and the most recent completed ones
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.TaskList
// @Router /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	list, err := h.svc.ListTasks(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// Create godoc
// @Summary Add a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body createTaskRequest true "task"
// @Success 201 {object} services.Outcome
// @Failure 400 {object} map[string]string
// @Router /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	out, err := h.svc.CreateTask(c.Request.Context(), services.CreateTaskInput{
		UserID:   userID,
		Text:     req.Text,
		Priority: req.Priority,
		DueDate:  req.DueDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, out)
}

// Update godoc
// @Summary Edit an active task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "task id"
// @Param body body updateTaskRequest true "fields to change"
// @Success 200 {object} services.Outcome
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	out, err := h.svc.UpdateTask(c.Request.Context(), services.UpdateTaskInput{
		ID:       c.Param("id"),
		UserID:   userID,
		Text:     req.Text,
		Priority: req.Priority,
		DueDate:  req.DueDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

// Complete godoc
// @Summary Complete a task and collect XP
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "task id"
// @Success 200 {object} services.Outcome
// @Failure 404 {object} map[string]string
// @Router /tasks/{id}/complete [post]
func (h *TaskHandler) Complete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	out, err := h.svc.CompleteTask(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

// Delete godoc
// @Summary Delete a task
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "task id"
// @Success 200 {object} services.Outcome
// @Failure 404 {object} map[string]string
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	out, err := h.svc.DeleteTask(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

// SaveAsTemplate godoc
// @Summary Save a task's text and priority as a reusable template
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Param id path string true "task id"
// @Success 201 {object} domain.TaskTemplate
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /tasks/{id}/template [post]
func (h *TaskHandler) SaveAsTemplate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	tmpl, err := h.svc.SaveTaskAsTemplate(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tmpl)
}
