package voice

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"catering/database"
	"catering/entities"
	"catering/pkg/apierr"
	auditRepoImp "catering/pkg/audit/repositoryImp"
	cateringRepoImp "catering/pkg/catering/repositoryImp"
	"catering/pkg/httpx"
	"catering/pkg/logger"
)

type fakeCaller struct {
	calls []Call
	err   error
}

func (f *fakeCaller) Call(_ context.Context, c Call) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.calls = append(f.calls, c)
	return "call-1", nil
}

func setup(t *testing.T, caller Caller, secret string) (*Service, *gorm.DB) {
	t.Helper()
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)
	require.NoError(t, db.Create(&entities.CateringRequest{ID: "r1", Name: "Jane", Email: "jane@x.com",
		Phone: "+15550001111", Status: entities.RequestPending}).Error)
	return NewService(cateringRepoImp.New(db), auditRepoImp.New(db), caller, secret, nil), db
}

func status(t *testing.T, db *gorm.DB) string {
	var r entities.CateringRequest
	require.NoError(t, db.First(&r, "id = ?", "r1").Error)
	return r.Status
}

func TestScheduleCallback(t *testing.T) {
	fc := &fakeCaller{}
	s, db := setup(t, fc, "")

	id, err := s.ScheduleCallback(context.Background(), "r1", "", "")
	require.NoError(t, err)
	assert.Equal(t, "call-1", id)
	require.Len(t, fc.calls, 1)
	assert.Equal(t, "+15550001111", fc.calls[0].Phone)
	assert.Equal(t, entities.RequestCallbackScheduled, status(t, db))

	var logs []entities.AdminLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "callback_scheduled", logs[0].Action)
	assert.Equal(t, "customer", logs[0].ActorID)
}

func TestScheduleCallbackPhoneOverride(t *testing.T) {
	fc := &fakeCaller{}
	s, _ := setup(t, fc, "")
	ctx := context.Background()

	_, err := s.ScheduleCallback(ctx, "r1", "+19990000000", "")
	require.NoError(t, err)
	_, err = s.ScheduleCallback(ctx, "r1", "+19990000000", "7")
	require.NoError(t, err)

	require.Len(t, fc.calls, 2)
	assert.Equal(t, "+15550001111", fc.calls[0].Phone)
	assert.Equal(t, "+19990000000", fc.calls[1].Phone)
}

func TestScheduleCallbackFailures(t *testing.T) {
	s, db := setup(t, &fakeCaller{err: errors.New("boom")}, "")
	_, err := s.ScheduleCallback(context.Background(), "r1", "", "admin")
	assert.Equal(t, http.StatusBadGateway, apierr.StatusOf(err))
	assert.Equal(t, entities.RequestPending, status(t, db))

	_, err = s.ScheduleCallback(context.Background(), "missing", "", "admin")
	assert.Equal(t, http.StatusNotFound, apierr.StatusOf(err))
}

func TestScheduleCallbackWithoutProvider(t *testing.T) {
	s, _ := setup(t, nil, "")
	_, err := s.ScheduleCallback(context.Background(), "r1", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, apierr.StatusOf(err))
}

func TestOutcome(t *testing.T) {
	cases := []struct {
		msg  Message
		want string
	}{
		{Message{Type: EventEndOfCall, EndedReason: "customer-ended-call"}, entities.RequestCallbackCompleted},
		{Message{Type: EventEndOfCall, EndedReason: "pipeline-error-openai-llm-failed"}, entities.RequestCallbackFailed},
		{Message{Type: EventEndOfCall, EndedReason: "customer-did-not-answer"}, entities.RequestCallbackFailed},
		{Message{Type: EventStatusUpdate, Status: "ended", EndedReason: "assistant-ended-call"}, entities.RequestCallbackCompleted},
		{Message{Type: EventStatusUpdate, Status: "failed"}, entities.RequestCallbackFailed},
		{Message{Type: EventStatusUpdate, Status: "in-progress"}, ""},
		{Message{Type: "transcript"}, ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Outcome(tc.msg), "%+v", tc.msg)
	}
}

func post(t *testing.T, s *Service, body, secret string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = httpx.ErrorHandler(logger.Nop(), nil, false)
	e.POST("/webhook/vapi", s.Webhook)
	req := httptest.NewRequest(http.MethodPost, "/webhook/vapi", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if secret != "" {
		req.Header.Set(secretHeader, secret)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestWebhookUpdatesRequest(t *testing.T) {
	s, db := setup(t, &fakeCaller{}, "shh")
	body := `{"message":{"type":"end-of-call-report","endedReason":"customer-ended-call","call":{"id":"c1","metadata":{"requestId":"r1","attempt":2}}}}`

	rec := post(t, s, body, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, entities.RequestPending, status(t, db))

	rec = post(t, s, body, "shh")
	require.Equal(t, http.StatusOK, rec.Code)
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, true, out["updated"])
	assert.Equal(t, entities.RequestCallbackCompleted, status(t, db))
}

func TestWebhookIgnoresProgress(t *testing.T) {
	s, db := setup(t, &fakeCaller{}, "")
	rec := post(t, s, `{"message":{"type":"status-update","status":"ringing","call":{"metadata":{"requestId":"r1"}}}}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entities.RequestPending, status(t, db))
}

func TestVapiClientPostsCall(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/call", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &got))
		_, _ = w.Write([]byte(`{"id":"abc","status":"queued"}`))
	}))
	defer srv.Close()

	c, err := NewVapi(logger.Nop(), VapiConfig{APIKey: "key", AssistantID: "asst", PhoneNumberID: "num", BaseURL: srv.URL})
	require.NoError(t, err)
	id, err := c.Call(context.Background(), Call{Phone: "+1555", Name: "Jane", RequestID: "r1"})
	require.NoError(t, err)
	assert.Equal(t, "abc", id)
	assert.Equal(t, "asst", got["assistantId"])
	assert.Equal(t, map[string]any{"requestId": "r1"}, got["metadata"])

	_, err = NewVapi(logger.Nop(), VapiConfig{APIKey: "key"})
	assert.Error(t, err)
}
