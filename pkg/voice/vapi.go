package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"catering/pkg/logger"
)

type Call struct {
	Phone     string
	Name      string
	RequestID string
}

type Caller interface {
	Call(ctx context.Context, c Call) (string, error)
}

type VapiConfig struct {
	APIKey        string
	AssistantID   string
	PhoneNumberID string
	BaseURL       string
	Timeout       time.Duration
}

type vapi struct {
	log        *logger.Logger
	cfg        VapiConfig
	httpClient *http.Client
}

func NewVapi(log *logger.Logger, cfg VapiConfig) (Caller, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing VAPI_API_KEY")
	}
	if cfg.AssistantID == "" || cfg.PhoneNumberID == "" {
		return nil, fmt.Errorf("missing VAPI_ASSISTANT_ID or VAPI_PHONE_NUMBER_ID")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.vapi.ai"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &vapi{
		log:        log.With("client", "Vapi"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type vapiCustomer struct {
	Number string `json:"number"`
	Name   string `json:"name,omitempty"`
}

type vapiCallRequest struct {
	AssistantID   string            `json:"assistantId"`
	PhoneNumberID string            `json:"phoneNumberId"`
	Customer      vapiCustomer      `json:"customer"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

func (v *vapi) Call(ctx context.Context, c Call) (string, error) {
	b, err := json.Marshal(vapiCallRequest{
		AssistantID:   v.cfg.AssistantID,
		PhoneNumberID: v.cfg.PhoneNumberID,
		Customer:      vapiCustomer{Number: c.Phone, Name: c.Name},
		Metadata:      map[string]string{"requestId": c.RequestID},
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.cfg.BaseURL+"/call", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+v.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("vapi: %w", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("vapi: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	var out struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("vapi: decode: %w", err)
	}
	v.log.Info("call queued", "call_id", out.ID, "status", out.Status, "request_id", c.RequestID)
	return out.ID, nil
}

var errNotConfigured = fmt.Errorf("voice calls are not configured")
