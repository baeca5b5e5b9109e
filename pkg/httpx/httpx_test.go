package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catering/entities"
	"catering/pkg/apierr"
	"catering/pkg/logger"
)

type memSink struct{ rows []*entities.ErrorLog }

func (m *memSink) Record(_ context.Context, e *entities.ErrorLog) error {
	m.rows = append(m.rows, e)
	return nil
}

func newEcho(sink ErrorSink, dev bool) *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler(logger.Nop(), sink, dev)
	return e
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestOKWrapsPayload(t *testing.T) {
	e := newEcho(nil, false)
	e.GET("/x", func(c echo.Context) error { return OK(c, http.StatusCreated, map[string]any{"id": "abc"}) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "abc", body["id"])
}

func TestClientErrorNotPersisted(t *testing.T) {
	sink := &memSink{}
	e := newEcho(sink, false)
	e.GET("/x", func(c echo.Context) error { return apierr.Validation("Missing required fields", []string{"name"}) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Missing required fields", body["error"])
	assert.NotNil(t, body["details"])
	assert.Empty(t, sink.rows)
}

func TestServerErrorPersistedAndStackOnlyInDev(t *testing.T) {
	for _, dev := range []bool{true, false} {
		sink := &memSink{}
		e := newEcho(sink, dev)
		e.GET("/boom", func(c echo.Context) error { return errors.New("db exploded") })

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Len(t, sink.rows, 1)
		assert.Equal(t, "/boom", sink.rows[0].Path)
		body := decode(t, rec)
		_, hasStack := body["handlerStack"]
		assert.Equal(t, dev, hasStack)
		assert.NotContains(t, body, "stack")
		assert.Equal(t, "db exploded", body["error"])
		assert.True(t, strings.HasPrefix(sink.rows[0].Stack, "error handler stack:"))
	}
}

func failAtOrigin() error {
	return apierr.New(http.StatusInternalServerError, "internal", errors.New("ledger locked"))
}

func TestServerErrorStackPointsAtOrigin(t *testing.T) {
	sink := &memSink{}
	e := newEcho(sink, true)
	e.GET("/boom", func(c echo.Context) error { return failAtOrigin() })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "ledger locked", body["error"])
	stack, _ := body["stack"].(string)
	assert.Contains(t, stack, "failAtOrigin")
	require.Len(t, sink.rows, 1)
	assert.Contains(t, sink.rows[0].Stack, "failAtOrigin")
}

func TestBindValidates(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	e := newEcho(nil, false)
	e.POST("/x", func(c echo.Context) error {
		var body in
		if err := Bind(c, &body); err != nil {
			return err
		}
		return OK(c, http.StatusOK, nil)
	})

	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"email":"nope"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "email")
}
