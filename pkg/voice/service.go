package voice

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"catering/entities"
	"catering/pkg/apierr"
	auditRepo "catering/pkg/audit/repository"
	cateringRepo "catering/pkg/catering/repository"
	"catering/pkg/httpx"
	"catering/pkg/logger"
	"catering/pkg/middleware"
)

const (
	EventEndOfCall    = "end-of-call-report"
	EventStatusUpdate = "status-update"
	secretHeader      = "X-Vapi-Secret"
)

type Service struct {
	requests cateringRepo.CateringRepository
	audit    auditRepo.AuditRepository
	caller   Caller
	secret   string
	log      *logger.Logger
}

// NewService wires the callback flow. caller may be nil when voice is not
// configured; secret, when set, must match the webhook header.
func NewService(requests cateringRepo.CateringRepository, audit auditRepo.AuditRepository, caller Caller, secret string, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{requests: requests, audit: audit, caller: caller, secret: secret, log: log}
}

func (s *Service) ScheduleCallback(ctx context.Context, requestID, phone, actor string) (string, error) {
	if s.caller == nil {
		return "", apierr.New(http.StatusServiceUnavailable, "voice_unavailable", errNotConfigured)
	}
	r, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return "", err
	}
	// only an admin may dial a number other than the one on file
	if phone = strings.TrimSpace(phone); phone == "" || actor == "" {
		phone = strings.TrimSpace(r.Phone)
	}
	if phone == "" {
		return "", apierr.Validation("phone is required", nil)
	}
	callID, err := s.caller.Call(ctx, Call{Phone: phone, Name: r.Name, RequestID: r.ID})
	if err != nil {
		return "", apierr.Upstream("vapi", err)
	}
	if err := s.requests.UpdateStatus(ctx, r.ID, entities.RequestCallbackScheduled); err != nil {
		return "", err
	}
	if actor == "" {
		actor = "customer"
	}
	err = s.audit.AddAdmin(ctx, &entities.AdminLog{
		Action:     "callback_scheduled",
		EntityType: "request",
		EntityID:   r.ID,
		ActorID:    actor,
		Metadata:   map[string]any{"callId": callID, "phone": phone},
	})
	if err != nil {
		return "", err
	}
	return callID, nil
}

// Message is the "message" object of a provider webhook.
type Message struct {
	Type        string `json:"type"`
	Status      string `json:"status"`
	EndedReason string `json:"endedReason"`
	Call        struct {
		ID       string         `json:"id"`
		Metadata map[string]any `json:"metadata"`
	} `json:"call"`
}

// Outcome maps a provider message to a request status. An empty result means
// the message does not finish the call.
func Outcome(m Message) string {
	switch m.Type {
	case EventEndOfCall:
	case EventStatusUpdate:
		switch strings.ToLower(m.Status) {
		case "ended":
		case "failed":
			return entities.RequestCallbackFailed
		default:
			return ""
		}
	default:
		return ""
	}
	if failedReason(m.EndedReason) {
		return entities.RequestCallbackFailed
	}
	return entities.RequestCallbackCompleted
}

func failedReason(reason string) bool {
	r := strings.ToLower(reason)
	switch r {
	case "customer-did-not-answer", "customer-busy", "voicemail":
		return true
	}
	return strings.Contains(r, "error") || strings.Contains(r, "failed")
}

// HandleWebhook applies one provider message. It reports whether a request
// status changed.
func (s *Service) HandleWebhook(ctx context.Context, m Message) (bool, error) {
	status := Outcome(m)
	if status == "" {
		return false, nil
	}
	reqID, _ := m.Call.Metadata["requestId"].(string)
	if reqID == "" {
		s.log.Warn("vapi webhook without request id", "call_id", m.Call.ID, "type", m.Type)
		return false, nil
	}
	if err := s.requests.UpdateStatus(ctx, reqID, status); err != nil {
		return false, err
	}
	s.log.Info("callback finished", "request_id", reqID, "call_id", m.Call.ID, "status", status, "reason", m.EndedReason)
	return true, nil
}

// Schedule serves POST /schedule-callback.
func (s *Service) Schedule(c echo.Context) error {
	var body struct {
		RequestID string `json:"requestId" validate:"required"`
		Phone     string `json:"phone"`
	}
	if err := httpx.Bind(c, &body); err != nil {
		return err
	}
	callID, err := s.ScheduleCallback(c.Request().Context(), body.RequestID, body.Phone, middleware.AdminID(c))
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, map[string]any{"callId": callID, "status": entities.RequestCallbackScheduled})
}

// Webhook serves POST /webhook/vapi.
func (s *Service) Webhook(c echo.Context) error {
	if s.secret != "" && c.Request().Header.Get(secretHeader) != s.secret {
		return apierr.Unauthorized("invalid webhook secret")
	}
	var body struct {
		Message Message `json:"message"`
	}
	if err := c.Bind(&body); err != nil {
		return apierr.Validation("bad json", nil)
	}
	updated, err := s.HandleWebhook(c.Request().Context(), body.Message)
	if err != nil {
		return err
	}
	return httpx.OK(c, http.StatusOK, map[string]any{"received": true, "updated": updated})
}

// Ping serves GET /webhook/vapi.
func (s *Service) Ping(c echo.Context) error {
	return httpx.OK(c, http.StatusOK, map[string]any{"status": "ok"})
}
