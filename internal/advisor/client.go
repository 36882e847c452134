package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrModelsExhausted signals that every candidate model failed; the
// caller should render the local fallback instead.
var ErrModelsExhausted = errors.New("advisor: all candidate models failed")

// ErrUnauthorized signals a credential problem; retrying other models
// with the same key is pointless.
var ErrUnauthorized = errors.New("advisor: llm rejected credentials")

// ClientConfig is injected explicitly; the client never reads the
// process environment.
type ClientConfig struct {
	APIKey  string
	BaseURL string
	Models  []string
	Timeout time.Duration
}

// Client calls a Gemini-style text-generation API with an ordered
// model fallback list: try each candidate in order, advance on 404 or
// transient failure, abort immediately on 401/403, and report
// exhaustion when no candidate produced text.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
}

// NewClient builds an LLM client from explicit configuration.
func NewClient(cfg ClientConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("advisor: api key required")
	}
	if len(cfg.Models) == 0 {
		return nil, fmt.Errorf("advisor: at least one model candidate required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Role  string         `json:"role,omitempty"`
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *generateContent  `json:"systemInstruction,omitempty"`
	Contents          []generateContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
}

// Generate sends the prompt through the candidate list and returns the
// first text reply together with the model that produced it.
func (c *Client) Generate(ctx context.Context, system, prompt string) (string, string, error) {
	var lastErr error
	for _, model := range c.cfg.Models {
		text, err := c.generateWith(ctx, model, system, prompt)
		if err == nil && strings.TrimSpace(text) != "" {
			return text, model, nil
		}
		if errors.Is(err, ErrUnauthorized) {
			return "", "", err
		}
		if err == nil {
			err = fmt.Errorf("advisor: model %s returned no text", model)
		}
		lastErr = err
	}
	if lastErr != nil {
		return "", "", fmt.Errorf("%w: %v", ErrModelsExhausted, lastErr)
	}
	return "", "", ErrModelsExhausted
}

func (c *Client) generateWith(ctx context.Context, model, system, prompt string) (string, error) {
	payload := generateRequest{
		Contents: []generateContent{
			{Role: "user", Parts: []generatePart{{Text: prompt}}},
		},
	}
	if system != "" {
		payload.SystemInstruction = &generateContent{Parts: []generatePart{{Text: system}}}
	}

	body := &bytes.Buffer{}
	if err := json.NewEncoder(body).Encode(payload); err != nil {
		return "", fmt.Errorf("advisor: encode payload: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.cfg.BaseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", fmt.Errorf("advisor: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("advisor: call %s: %w", model, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("%w (http %d)", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("advisor: model %s http %d: %s", model, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("advisor: decode response: %w", err)
	}
	for _, cand := range decoded.Candidates {
		for _, part := range cand.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text, nil
			}
		}
	}
	return "", nil
}
