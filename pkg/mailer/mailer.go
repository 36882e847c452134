package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gradeseer/gradeseer-api/pkg/config"
)

// Message is a single outbound email.
type Message struct {
	ToEmail string
	ToName  string
	Subject string
	Text    string
}

// Sender delivers email messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Client talks to a SendGrid-compatible mail API.
type Client struct {
	cfg        config.MailConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient constructs a mail client from injected configuration.
func NewClient(cfg config.MailConfig, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("mailer: api key required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.sendgrid.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}, nil
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
}

type personalization struct {
	To []address `json:"to"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Send delivers a single plain-text email.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.ToEmail) == "" {
		return fmt.Errorf("mailer: recipient required")
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return fmt.Errorf("mailer: subject required")
	}

	payload := sendRequest{
		Personalizations: []personalization{{To: []address{{Email: msg.ToEmail, Name: msg.ToName}}}},
		From:             address{Email: c.cfg.FromEmail, Name: c.cfg.FromName},
		Subject:          msg.Subject,
		Content:          []content{{Type: "text/plain", Value: msg.Text}},
	}

	body := &bytes.Buffer{}
	if err := json.NewEncoder(body).Encode(payload); err != nil {
		return fmt.Errorf("mailer: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v3/mail/send", body)
	if err != nil {
		return fmt.Errorf("mailer: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mailer: send: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("mailer: http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	c.logger.Debug("email delivered",
		zap.String("to", msg.ToEmail),
		zap.String("message_id", resp.Header.Get("X-Message-Id")),
	)
	return nil
}

// NopSender discards messages; used when mail delivery is disabled.
type NopSender struct{}

// Send implements Sender.
func (NopSender) Send(ctx context.Context, msg Message) error {
	return nil
}
