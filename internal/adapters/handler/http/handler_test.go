package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/comitanigiacomo/zen-producer/internal/adapters/handler/http"
	"github.com/comitanigiacomo/zen-producer/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/zen-producer/internal/adapters/repository"
	"github.com/comitanigiacomo/zen-producer/internal/core/domain"
	"github.com/comitanigiacomo/zen-producer/internal/core/services"
)

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type testApp struct {
	router    *gin.Engine
	tasks     *repository.InMemoryTaskRepository
	stats     *repository.InMemoryStatsRepository
	templates *repository.InMemoryTemplateRepository
	feedback  *repository.InMemoryFeedbackRepository
}

// setupApp wires the protected handlers over in-memory storage. The caller is
// identified by the X-User-ID header instead of a token.
func setupApp(t *testing.T, coach domain.Coach) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	adapterHTTP.RegisterValidators()

	app := &testApp{
		tasks:     repository.NewInMemoryTaskRepository(),
		stats:     repository.NewInMemoryStatsRepository(),
		templates: repository.NewInMemoryTemplateRepository(),
		feedback:  repository.NewInMemoryFeedbackRepository(),
	}

	tracker := services.NewTrackerService(app.tasks, app.stats, app.templates, time.UTC, nil).
		WithClock(func() time.Time { return testNow })
	coachSvc := services.NewCoachService(coach, tracker, time.Second, nil)

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(middleware.ContextUserIDKey, userID)
		c.Next()
	})

	adapterHTTP.NewTaskHandler(tracker).RegisterRoutes(api)
	adapterHTTP.NewTemplateHandler(tracker).RegisterRoutes(api)
	adapterHTTP.NewStatsHandler(tracker).RegisterRoutes(api)
	adapterHTTP.NewFeedbackHandler(services.NewFeedbackService(app.feedback)).RegisterRoutes(api)
	adapterHTTP.NewCoachHandler(coachSvc).RegisterRoutes(api)

	app.router = r
	return app
}

func (a *testApp) do(method, path, userID string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, _ := json.Marshal(b)
			reader = bytes.NewBuffer(raw)
		}
	}

	req, _ := http.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

type outcomeBody struct {
	Task        *domain.Task     `json:"task"`
	Stats       domain.UserStats `json:"stats"`
	XPGained    int              `json:"xp_gained"`
	Penalized   int              `json:"penalized"`
	LevelChange string           `json:"level_change"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (a *testApp) createTask(t *testing.T, userID string, body any) *domain.Task {
	t.Helper()
	w := a.do(http.MethodPost, "/tasks", userID, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	out := decode[outcomeBody](t, w)
	require.NotNil(t, out.Task)
	return out.Task
}
