package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/zen-producer/internal/core/services"
)

func TestSessionHandler(t *testing.T) {
	t.Run("Success: New user gets defaults and presets", func(t *testing.T) {
		app := setupApp(t, nil)

		w := app.do(http.MethodGet, "/session", "user-1", nil)

		require.Equal(t, http.StatusOK, w.Code)
		session := decode[services.Session](t, w)
		assert.Equal(t, 1, session.Stats.Level)
		assert.Equal(t, 0, session.Stats.XP)
		assert.Len(t, session.Templates, 3)
		assert.Empty(t, session.ActiveTasks)
		assert.Equal(t, "Seeker", session.Progress.Rank.Title)
	})

	t.Run("Success: Reports tasks and penalties", func(t *testing.T) {
		app := setupApp(t, nil)
		app.createTask(t, "user-1", map[string]any{"text": "Open"})

		w := app.do(http.MethodGet, "/session", "user-1", nil)

		require.Equal(t, http.StatusOK, w.Code)
		session := decode[services.Session](t, w)
		require.Len(t, session.ActiveTasks, 1)
		assert.Equal(t, "Open", session.ActiveTasks[0].Text)
		assert.Equal(t, 0, session.Penalized)
	})

	t.Run("Fail: 401 without a user", func(t *testing.T) {
		app := setupApp(t, nil)

		assert.Equal(t, http.StatusUnauthorized, app.do(http.MethodGet, "/session", "", nil).Code)
	})
}

func TestStatsHandler(t *testing.T) {
	app := setupApp(t, nil)
	task := app.createTask(t, "user-1", map[string]any{"text": "Focus", "priority": "medium"})
	app.do(http.MethodPost, "/tasks/"+task.ID+"/complete", "user-1", nil)

	w := app.do(http.MethodGet, "/stats", "user-1", nil)

	require.Equal(t, http.StatusOK, w.Code)
	view := decode[services.StatsView](t, w)
	assert.Equal(t, 25, view.Stats.XP)
	assert.Equal(t, 1, view.Stats.Streak)
	assert.Equal(t, 100, view.Progress.XPToNextLevel)
	assert.InDelta(t, 25.0, view.Progress.ProgressPercent, 0.001)
	assert.Equal(t, 1.0, view.Progress.Multiplier)
}
