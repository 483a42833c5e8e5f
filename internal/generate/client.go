// Package generate talks to the remote image generation service.
package generate

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const DataURIPrefix = "data:image/png;base64,"

// User-facing notices.
const (
	NoticeOffline     = "Backend offline — restart colab & tunnel"
	NoticeEmptyPrompt = "Please enter a prompt!"
)

var (
	// ErrBackendOffline wraps every failure of the remote call: transport
	// errors, non-2xx answers and malformed bodies.
	ErrBackendOffline = errors.New("backend offline")
	ErrEmptyPrompt    = errors.New("empty prompt")
)

type request struct {
	Prompt string `json:"prompt"`
}

type response struct {
	Image *string `json:"image"`
}

// Result is one generated image.
type Result struct {
	Prompt string
	// Encoded is the base64 payload as sent by the service.
	Encoded string
	// PNG is the decoded payload.
	PNG  []byte
	Took time.Duration
}

// DataURI returns the image as an inline data URI.
func (r *Result) DataURI() string { return DataURIPrefix + r.Encoded }

// Client posts prompts to one endpoint. There is no retry and no client
// timeout; cancellation comes from the caller's context.
type Client struct {
	endpoint   string
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(endpoint string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{},
		log:        log,
	}
}

func (c *Client) Endpoint() string { return c.endpoint }

// Generate sends prompt and returns the generated image.
func (c *Client) Generate(ctx context.Context, prompt string) (*Result, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}
	start := time.Now()

	body, err := json.Marshal(request{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %w", ErrBackendOffline, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrBackendOffline, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrBackendOffline, resp.StatusCode)
	}

	var out response
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", ErrBackendOffline, err)
	}
	if out.Image == nil || *out.Image == "" {
		return nil, fmt.Errorf("%w: response has no image", ErrBackendOffline)
	}
	png, err := base64.StdEncoding.DecodeString(*out.Image)
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %v", ErrBackendOffline, err)
	}

	res := &Result{
		Prompt:  prompt,
		Encoded: *out.Image,
		PNG:     png,
		Took:    time.Since(start),
	}
	c.log.Info("image generated", "bytes", len(png), "took", res.Took.Round(time.Millisecond))
	return res, nil
}
