// Package hubspot is a client for the HubSpot v4 associations API.
package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public HubSpot API.
const DefaultBaseURL = "https://api.hubapi.com"

// DefaultTimeout bounds every remote call.
const DefaultTimeout = 30 * time.Second

var (
	// ErrAuth means no usable access token was available. No request is sent.
	ErrAuth = errors.New("hubspot: no valid access token")
	// ErrTimeout means the call did not complete within the client timeout.
	ErrTimeout = errors.New("hubspot: request timed out")
)

// APIError is a non-2xx response from the CRM.
type APIError struct {
	Operation     string
	StatusCode    int
	Message       string
	Category      string
	CorrelationID string
}

func (e *APIError) Error() string {
	if e.Category != "" {
		return fmt.Sprintf("hubspot: %s: %d %s: %s", e.Operation, e.StatusCode, e.Category, e.Message)
	}
	return fmt.Sprintf("hubspot: %s: %d: %s", e.Operation, e.StatusCode, e.Message)
}

// errorBody is the error document the CRM returns.
type errorBody struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId"`
	Category      string `json:"category"`
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Tokens     TokenProvider
	HTTPClient *http.Client
}

// Client calls the CRM on behalf of tenants. It never retries.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenProvider
}

// New creates a Client. Zero options fall back to the public API and
// DefaultTimeout.
func New(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	tokens := opts.Tokens
	if tokens == nil {
		tokens = &TokenSources{}
	}
	return &Client{baseURL: base, http: hc, tokens: tokens}
}

func path(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return "/" + strings.Join(escaped, "/")
}

// do sends one request. body and out may be nil. A 204 or empty body leaves
// out untouched.
func (c *Client) do(ctx context.Context, customerID, op, method, p string, body, out any) error {
	tok, err := c.tokens.Token(ctx, customerID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tok == nil || !tok.Valid() {
		return fmt.Errorf("%s: token for customer %q is expired or empty: %w", op, customerID, ErrAuth)
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+p, rdr)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	tok.SetAuthHeader(req)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ue) && ue.Timeout()) {
			return fmt.Errorf("%s: %w", op, ErrTimeout)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	slog.Debug("hubspot call",
		"operation", op,
		"method", method,
		"path", p,
		"status", resp.StatusCode,
		"duration", time.Since(start).String(),
	)

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Operation: op, StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(data))}
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil && eb.Message != "" {
			apiErr.Message = eb.Message
			apiErr.Category = eb.Category
			apiErr.CorrelationID = eb.CorrelationID
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
