package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitFeedback(t *testing.T) {
	t.Run("Success: 201 Created", func(t *testing.T) {
		app := setupApp(t, nil)

		w := app.do(http.MethodPost, "/feedback", "user-1", `{"rating": 5, "comment": "  Calm and focused  "}`)

		require.Equal(t, http.StatusCreated, w.Code)
		stored := app.feedback.All()
		require.Len(t, stored, 1)
		assert.Equal(t, "user-1", stored[0].UserID)
		assert.Equal(t, 5, stored[0].Rating)
		assert.Equal(t, "Calm and focused", stored[0].Comment)
	})

	tests := []struct {
		name string
		body string
	}{
		{"Fail: 400 Missing rating", `{"comment": "hi"}`},
		{"Fail: 400 Rating too high", `{"rating": 6}`},
		{"Fail: 400 Rating too low", `{"rating": -1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupApp(t, nil)

			w := app.do(http.MethodPost, "/feedback", "user-1", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, app.feedback.All())
		})
	}
}
