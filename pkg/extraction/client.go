// Package extraction talks to the Gemini generateContent API to read text off
// ticket photographs.
package extraction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/exp/slog"
)

// Defaults used when Config leaves a field empty.
const (
	DefaultBaseURL        = "https://generativelanguage.googleapis.com"
	DefaultModel          = "gemini-1.5-pro"
	DefaultTimeout        = 60 * time.Second
	DefaultMaxRetries     = 3
	DefaultInitialBackoff = time.Second
)

var (
	// ErrNoAPIKeys is returned when the key ring is empty
	ErrNoAPIKeys = errors.New("no extraction API keys configured")
	// ErrRateLimited is returned once every retry and the rotation were spent on 429s
	ErrRateLimited = errors.New("extraction API rate limit exceeded")
	// ErrNoCandidates is returned when the API answered without generated text
	ErrNoCandidates = errors.New("no valid response from extraction API")
)

// APIError is a non-2xx answer from the extraction API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("extraction API request failed with status %d: %s", e.StatusCode, e.Body)
}

// Config configures a Client.
type Config struct {
	BaseURL        string
	Model          string
	Timeout        time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
}

// Client represents an extraction API client
type Client struct {
	BaseURL        string
	Model          string
	MaxRetries     int
	InitialBackoff time.Duration

	keys   *KeyRing
	client *http.Client

	// sleep and jitter are swapped out in tests
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func() time.Duration
}

// NewClient creates a new extraction client drawing keys from ring
func NewClient(cfg Config, ring *KeyRing) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = DefaultInitialBackoff
	}
	if ring == nil {
		ring = NewKeyRing(nil)
	}
	return &Client{
		BaseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		Model:          cfg.Model,
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		keys:           ring,
		client:         &http.Client{Timeout: cfg.Timeout},
		sleep:          sleepContext,
		jitter:         func() time.Duration { return time.Duration(rand.Int63n(int64(time.Second))) },
	}
}

// Keys returns the ring the client rotates through.
func (c *Client) Keys() *KeyRing {
	return c.keys
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Extract sends the image and prompt to the API and returns the generated text.
// On HTTP 429 it backs off and retries; once retries on the current key are
// spent it rotates the shared key ring and tries once more with the next key.
func (c *Client) Extract(ctx context.Context, image []byte, prompt string) (string, error) {
	if c.keys.Len() == 0 {
		return "", ErrNoAPIKeys
	}

	body, err := json.Marshal(generateRequest{Contents: []content{{Parts: []part{
		{Text: prompt},
		{InlineData: &inlineData{
			MimeType: imageMimeType(image),
			Data:     base64.StdEncoding.EncodeToString(image),
		}},
	}}}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	rotated := false
	for {
		index, key := c.keys.Current()
		text, err := c.extractWithKey(ctx, key, body)
		if !errors.Is(err, ErrRateLimited) || rotated {
			return text, err
		}
		next := c.keys.Advance(index)
		slog.Warn("Extraction API key exhausted, rotating", "from", index, "to", next)
		rotated = true
	}
}

// extractWithKey runs one key's worth of attempts
func (c *Client) extractWithKey(ctx context.Context, key string, body []byte) (string, error) {
	for attempt := 0; ; attempt++ {
		text, err := c.generate(ctx, key, body)
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusTooManyRequests {
			return text, err
		}
		if attempt >= c.MaxRetries {
			return "", fmt.Errorf("%w after %d retries", ErrRateLimited, attempt)
		}
		backoff := c.InitialBackoff*time.Duration(1<<attempt) + c.jitter()
		slog.Info("Extraction API rate limited, backing off", "attempt", attempt+1, "backoff", backoff)
		if err := c.sleep(ctx, backoff); err != nil {
			return "", err
		}
	}
}

func (c *Client) generate(ctx context.Context, key string, body []byte) (string, error) {
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.BaseURL, c.Model, url.QueryEscape(key))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", redactKey(err, key))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Body: truncate(string(respBody), 512)}
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", ErrNoCandidates
	}
	return strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text), nil
}

func imageMimeType(image []byte) string {
	mt := mimetype.Detect(image)
	if strings.HasPrefix(mt.String(), "image/") {
		return mt.String()
	}
	return "image/jpeg"
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// redactKey keeps the API key out of transport errors, which embed the URL.
func redactKey(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), key, "REDACTED"), err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...(truncated)"
}
