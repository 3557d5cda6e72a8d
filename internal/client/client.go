// Package client talks to the MythX analysis API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xab-mack/mythx-cli/internal/model"
)

const (
	DefaultBaseURL = "https://api.mythx.io"
	defaultRetries = 3
	defaultBackoff = 500 * time.Millisecond
	maxErrorBody   = 2048
)

// ErrAnalysisFailed is returned when the API reports an analysis in the
// Error state.
var ErrAnalysisFailed = errors.New("analysis failed")

// APIError is a non-2xx response of the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

// Options configures a Client.
type Options struct {
	BaseURL  string
	APIKey   string
	Username string
	Password string
	// HTTPClient defaults to a client with a 60s timeout.
	HTTPClient  *http.Client
	Logger      *zap.Logger
	Middlewares []Middleware
	// Retries bounds how often idempotent requests are retried on 429 and
	// 5xx responses.
	Retries int
	Backoff time.Duration
}

type Client struct {
	http        *http.Client
	baseURL     string
	log         *zap.Logger
	middlewares []Middleware
	retries     int
	backoff     time.Duration

	apiKey   string
	username string
	password string

	mu     sync.Mutex
	tokens tokens
}

// New validates the credentials and returns a client. Either an API key or
// a username and password pair is required.
func New(opts Options) (*Client, error) {
	if opts.APIKey == "" && (opts.Username == "" || opts.Password == "") {
		return nil, model.Usagef("Trial use of MythX is no longer supported. Please provide an API key " +
			"(--api-key or MYTHX_API_KEY) or a username and password (--username/--password or MYTHX_USERNAME/MYTHX_PASSWORD).")
	}
	c := &Client{
		http:        opts.HTTPClient,
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		log:         opts.Logger,
		middlewares: opts.Middlewares,
		retries:     opts.Retries,
		backoff:     opts.Backoff,
		apiKey:      opts.APIKey,
		username:    opts.Username,
		password:    opts.Password,
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 60 * time.Second}
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.retries <= 0 {
		c.retries = defaultRetries
	}
	if c.backoff <= 0 {
		c.backoff = defaultBackoff
	}
	return c, nil
}

// Use appends submission middlewares.
func (c *Client) Use(m ...Middleware) { c.middlewares = append(c.middlewares, m...) }

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// anonymous requests skip authentication (login, refresh).
	anonymous bool
}

func (r request) idempotent() bool {
	return r.method == http.MethodGet || r.method == http.MethodPut
}

// do sends the request and decodes a JSON response into out when non-nil.
func (c *Client) do(ctx context.Context, r request, out any) error {
	var payload []byte
	if r.body != nil {
		var err error
		if payload, err = json.Marshal(r.body); err != nil {
			return err
		}
	}
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	attempts := 1
	if r.idempotent() {
		attempts += c.retries
	}
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			wait := c.backoff << (attempt - 1)
			c.log.Debug("retrying request", zap.String("path", r.path), zap.Int("attempt", attempt), zap.Duration("wait", wait))
			if err := sleep(ctx, wait); err != nil {
				return err
			}
		}
		retry, err := c.send(ctx, r, u, payload, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry {
			return err
		}
	}
	return lastErr
}

func (c *Client) send(ctx context.Context, r request, u string, payload []byte, out any) (retry bool, err error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !r.anonymous {
		auth, err := c.authorization(ctx)
		if err != nil {
			return false, err
		}
		req.Header.Set("Authorization", auth)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	c.log.Debug("api request", zap.String("method", r.method), zap.String("path", r.path),
		zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
		return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500, apiErr
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("decode %s %s response: %w", r.method, r.path, err)
	}
	return false, nil
}

// errorMessage extracts the error text of an API error body.
func errorMessage(raw []byte) string {
	var body struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
		Details any    `json:"details"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if s, ok := body.Error.(string); ok && s != "" {
			return s
		}
		if body.Message != "" {
			return body.Message
		}
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		return "no details given"
	}
	return msg
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
