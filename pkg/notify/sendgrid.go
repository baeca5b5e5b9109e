package notify

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

type SendGridConfig struct {
	APIKey    string
	BaseURL   string
	FromEmail string
	FromName  string
	Timeout   time.Duration
}

type sendGrid struct {
	log        *logger.Logger
	cfg        SendGridConfig
	httpClient *http.Client
}

func NewSendGrid(log *logger.Logger, cfg SendGridConfig) (Mailer, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing SENDGRID_API_KEY")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.sendgrid.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &sendGrid{
		log:        log.With("client", "SendGrid"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type sgAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sgRequest struct {
	Personalizations []struct {
		To []sgAddress `json:"to"`
	} `json:"personalizations"`
	From    sgAddress   `json:"from"`
	Subject string      `json:"subject"`
	Content []sgContent `json:"content"`
}

func (c *sendGrid) Send(ctx context.Context, msg Email) error {
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("sendgrid: recipient required")
	}
	var body sgRequest
	body.Personalizations = append(body.Personalizations, struct {
		To []sgAddress `json:"to"`
	}{To: []sgAddress{{Email: msg.To, Name: msg.ToName}}})
	body.From = sgAddress{Email: c.cfg.FromEmail, Name: c.cfg.FromName}
	body.Subject = msg.Subject
	body.Content = []sgContent{{Type: "text/plain", Value: textOf(msg)}}
	if msg.HTML != "" {
		body.Content = append(body.Content, sgContent{Type: "text/html", Value: msg.HTML})
	}

	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v3/mail/send", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	c.log.Debug("email sent", "to", msg.To, "subject", msg.Subject, "message_id", resp.Header.Get("X-Message-Id"))
	return nil
}
