package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goliatone/go-autotranslate/internal/languages"
)

var (
	// ErrRateLimited signals an HTTP 429 from the remote provider.
	ErrRateLimited = errors.New("provider: rate limited")
	// ErrEmptyTranslation is returned when the provider answers without text.
	ErrEmptyTranslation = errors.New("provider: empty translation")
	// ErrUnavailable reports that the provider cannot be reached from this runtime.
	ErrUnavailable = errors.New("provider: unavailable")
)

// HTTPError captures a non-2xx provider response other than 429.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("provider: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("provider: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Request is a single text translation handed to a Transport.
type Request struct {
	Text   string
	Source languages.Code
	Target languages.Code
}

// Transport performs the remote call. Implementations must honour ctx.
type Transport interface {
	Translate(ctx context.Context, req Request) (string, error)
}

// TransportFunc adapts a function into a Transport.
type TransportFunc func(ctx context.Context, req Request) (string, error)

func (f TransportFunc) Translate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

type translatePayload struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error,omitempty"`
}

const maxErrorBody = 512

// HTTPTransport talks to a LibreTranslate-compatible endpoint.
type HTTPTransport struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPTransport builds a transport for endpoint. A nil client falls back
// to http.DefaultClient; per-call deadlines come from the context.
func NewHTTPTransport(endpoint, apiKey string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{
		endpoint: strings.TrimSpace(endpoint),
		apiKey:   strings.TrimSpace(apiKey),
		client:   client,
	}
}

func (t *HTTPTransport) Translate(ctx context.Context, req Request) (string, error) {
	if t.endpoint == "" || t.apiKey == "" {
		return "", ErrUnavailable
	}

	body, err := json.Marshal(translatePayload{
		Q:      req.Text,
		Source: string(req.Source),
		Target: string(req.Target),
		Format: "text",
	})
	if err != nil {
		return "", fmt.Errorf("provider: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("provider: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("provider: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	var decoded translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("provider: decode response: %w", err)
	}
	if strings.TrimSpace(decoded.TranslatedText) == "" {
		return "", ErrEmptyTranslation
	}
	return decoded.TranslatedText, nil
}
