package controllerImp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catering/database"
)

func TestHealth(t *testing.T) {
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h := NewHealthCtrl(db, map[string]bool{"anthropic": true, "sendgrid": false})
	require.NoError(t, h.Health(echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success   bool            `json:"success"`
		Providers map[string]bool `json:"providers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.True(t, body.Providers["anthropic"])
}

func TestHealthWithoutDB(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, NewHealthCtrl(nil, nil).Health(echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
