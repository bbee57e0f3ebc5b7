package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/zen-producer/internal/core/domain"
	"github.com/comitanigiacomo/zen-producer/internal/core/services"
)

func TestCreateTask(t *testing.T) {
	t.Run("Success: 201 Created with defaults", func(t *testing.T) {
		app := setupApp(t, nil)

		w := app.do(http.MethodPost, "/tasks", "user-1", `{"text": "  Write report  "}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		out := decode[outcomeBody](t, w)
		require.NotNil(t, out.Task)
		assert.Equal(t, "Write report", out.Task.Text)
		assert.Equal(t, domain.PriorityMedium, out.Task.Priority)
		assert.Equal(t, 0, out.Penalized)
	})

	t.Run("Success: Already overdue task is penalized at once", func(t *testing.T) {
		app := setupApp(t, nil)
		warmUp := app.createTask(t, "user-1", map[string]any{"text": "Warm up", "priority": "high"})
		app.do(http.MethodPost, "/tasks/"+warmUp.ID+"/complete", "user-1", nil)

		w := app.do(http.MethodPost, "/tasks", "user-1", map[string]any{"text": "Late", "due_date": "2024-06-10"})

		require.Equal(t, http.StatusCreated, w.Code)
		out := decode[outcomeBody](t, w)
		assert.Equal(t, 1, out.Penalized)
		assert.True(t, out.Task.Penalized)
		assert.Equal(t, 1, out.Stats.Level)
		assert.Equal(t, 0, out.Stats.XP)
	})

	t.Run("Fail: 401 Unauthorized (Missing Header)", func(t *testing.T) {
		app := setupApp(t, nil)

		w := app.do(http.MethodPost, "/tasks", "", `{"text": "Gym"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	tests := []struct {
		name string
		body string
	}{
		{"Fail: 400 Missing text", `{"priority": "low"}`},
		{"Fail: 400 Blank text", `{"text": "   "}`},
		{"Fail: 400 Unknown priority", `{"text": "Gym", "priority": "urgent"}`},
		{"Fail: 400 Malformed due date", `{"text": "Gym", "due_date": "15/06/2024"}`},
		{"Fail: 400 Invalid JSON", `{"text": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupApp(t, nil)

			w := app.do(http.MethodPost, "/tasks", "user-1", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestListTasks(t *testing.T) {
	app := setupApp(t, nil)
	app.createTask(t, "user-1", map[string]any{"text": "Low", "priority": "low"})
	app.createTask(t, "user-1", map[string]any{"text": "High", "priority": "high"})
	done := app.createTask(t, "user-1", map[string]any{"text": "Done"})
	app.createTask(t, "user-2", map[string]any{"text": "Not mine"})
	app.do(http.MethodPost, "/tasks/"+done.ID+"/complete", "user-1", nil)

	w := app.do(http.MethodGet, "/tasks", "user-1", nil)

	require.Equal(t, http.StatusOK, w.Code)
	list := decode[services.TaskList](t, w)
	require.Len(t, list.Active, 2)
	assert.Equal(t, "High", list.Active[0].Text)
	assert.Equal(t, "Low", list.Active[1].Text)
	require.Len(t, list.Completed, 1)
	assert.Equal(t, "Done", list.Completed[0].Text)
}

func TestUpdateTask(t *testing.T) {
	t.Run("Success: 200 OK Partial Update", func(t *testing.T) {
		app := setupApp(t, nil)
		task := app.createTask(t, "user-1", map[string]any{"text": "Old", "priority": "low", "due_date": "2024-07-01"})

		w := app.do(http.MethodPut, "/tasks/"+task.ID, "user-1", `{"priority": "high"}`)

		require.Equal(t, http.StatusOK, w.Code)
		out := decode[outcomeBody](t, w)
		assert.Equal(t, "Old", out.Task.Text)
		assert.Equal(t, domain.PriorityHigh, out.Task.Priority)
		require.NotNil(t, out.Task.DueDate)
		assert.Equal(t, "2024-07-01", *out.Task.DueDate)
	})

	t.Run("Success: Empty due date clears it", func(t *testing.T) {
		app := setupApp(t, nil)
		task := app.createTask(t, "user-1", map[string]any{"text": "Dated", "due_date": "2024-07-01"})

		w := app.do(http.MethodPut, "/tasks/"+task.ID, "user-1", `{"due_date": ""}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, decode[outcomeBody](t, w).Task.DueDate)
	})

	t.Run("Fail: 404 Not Found (IDOR Protection)", func(t *testing.T) {
		app := setupApp(t, nil)
		task := app.createTask(t, "user-1", map[string]any{"text": "Secret"})

		w := app.do(http.MethodPut, "/tasks/"+task.ID, "user-2", `{"text": "Hacked"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
		stored, _ := app.tasks.GetByID(t.Context(), task.ID)
		assert.Equal(t, "Secret", stored.Text)
	})

	t.Run("Fail: 400 Completed tasks are read-only", func(t *testing.T) {
		app := setupApp(t, nil)
		task := app.createTask(t, "user-1", map[string]any{"text": "Done"})
		app.do(http.MethodPost, "/tasks/"+task.ID+"/complete", "user-1", nil)

		w := app.do(http.MethodPut, "/tasks/"+task.ID, "user-1", `{"text": "Again"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCompleteTask(t *testing.T) {
	t.Run("Success: Awards XP once", func(t *testing.T) {
		app := setupApp(t, nil)
		task := app.createTask(t, "user-1", map[string]any{"text": "Ship it", "priority": "high"})

		w := app.do(http.MethodPost, "/tasks/"+task.ID+"/complete", "user-1", nil)

		require.Equal(t, http.StatusOK, w.Code)
		out := decode[outcomeBody](t, w)
		assert.Equal(t, 50, out.XPGained)
		assert.Equal(t, 50, out.Stats.XP)
		assert.Equal(t, 1, out.Stats.Streak)
		assert.True(t, out.Task.Completed)

		w = app.do(http.MethodPost, "/tasks/"+task.ID+"/complete", "user-1", nil)

		require.Equal(t, http.StatusOK, w.Code)
		again := decode[outcomeBody](t, w)
		assert.Equal(t, 0, again.XPGained)
		assert.Equal(t, 50, again.Stats.XP)
	})

	t.Run("Success: Level up is reported", func(t *testing.T) {
		app := setupApp(t, nil)
		first := app.createTask(t, "user-1", map[string]any{"text": "One", "priority": "high"})
		second := app.createTask(t, "user-1", map[string]any{"text": "Two", "priority": "high"})
		app.do(http.MethodPost, "/tasks/"+first.ID+"/complete", "user-1", nil)

		w := app.do(http.MethodPost, "/tasks/"+second.ID+"/complete", "user-1", nil)

		out := decode[outcomeBody](t, w)
		assert.Equal(t, 2, out.Stats.Level)
		assert.Equal(t, 0, out.Stats.XP)
		assert.Equal(t, "up", out.LevelChange)
	})

	t.Run("Fail: 404 Unknown task", func(t *testing.T) {
		app := setupApp(t, nil)

		w := app.do(http.MethodPost, "/tasks/missing/complete", "user-1", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteTask(t *testing.T) {
	app := setupApp(t, nil)
	task := app.createTask(t, "user-1", map[string]any{"text": "Temp"})

	w := app.do(http.MethodDelete, "/tasks/"+task.ID, "user-2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(http.MethodDelete, "/tasks/"+task.ID, "user-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodDelete, "/tasks/"+task.ID, "user-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
