// Package ai phrases diagnostic summaries of the plant aggregates. It tries
// an ordered list of Gemini models and, whenever the external service cannot
// deliver, degrades to a deterministic rule-based generator. Callers never
// see an error from this package.
package ai

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

	"github.com/plantaops/planta-dashboard/internal/config"
	"github.com/plantaops/planta-dashboard/pkg/logger"
)

// Sentinel failures of a single model attempt. ErrModelUnavailable and
// ErrQuotaExceeded advance the loop to the next model; ErrInvalidAPIKey
// aborts it, since no model can succeed with a bad key.
var (
	ErrModelUnavailable = errors.New("model unavailable")
	ErrQuotaExceeded    = errors.New("quota exceeded")
	ErrInvalidAPIKey    = errors.New("api key invalid")
	ErrEmptyResponse    = errors.New("empty completion")
)

// Client calls the Gemini generateContent endpoint.
type Client struct {
	cfg    config.AIConfig
	client *http.Client
}

func NewClient(cfg config.AIConfig) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://generativelanguage.googleapis.com/v1beta/models"
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// HasCredentials reports whether an external call is possible at all.
func (c *Client) HasCredentials() bool {
	return c.cfg.APIKey != "" && len(c.cfg.Models) > 0
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Complete runs the prompt through the configured models in order and
// returns the first generated text. Model attempts are strictly sequential;
// the loop stops early when the key itself is rejected.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.HasCredentials() {
		return "", ErrInvalidAPIKey
	}

	var lastErr error
	for _, model := range c.cfg.Models {
		text, err := c.callModel(ctx, model, prompt)
		if err == nil {
			return text, nil
		}
		if errors.Is(err, ErrInvalidAPIKey) {
			logger.Log.Warn().Str("model", model).Msg("API key rejected, aborting model loop")
			return "", err
		}
		logger.Log.Debug().Str("model", model).Err(err).Msg("model attempt failed, trying next")
		lastErr = err
	}
	if lastErr == nil {
		lastErr = ErrEmptyResponse
	}
	return "", lastErr
}

func (c *Client) callModel(ctx context.Context, model, prompt string) (string, error) {
	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.cfg.Endpoint, model, c.cfg.APIKey)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyHTTPError(resp.StatusCode, string(respBody))
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	text := parsed.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// classifyHTTPError maps a non-2xx status onto the loop-control sentinels.
// A 400 is either a bad key (abort) or a model the key cannot use (advance).
func classifyHTTPError(status int, body string) error {
	switch {
	case status == http.StatusNotFound:
		return ErrModelUnavailable
	case status == http.StatusTooManyRequests:
		return ErrQuotaExceeded
	case status == http.StatusBadRequest &&
		(strings.Contains(body, "API key not valid") || strings.Contains(body, "API_KEY_INVALID")):
		return ErrInvalidAPIKey
	case status == http.StatusBadRequest:
		return ErrModelUnavailable
	default:
		return fmt.Errorf("completion API returned %d: %.200s", status, body)
	}
}
