// Package remote implements store.Store against the learnboard HTTP API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/oodarncairodepil-spec/learning-dashboard/internal/api"
	"github.com/oodarncairodepil-spec/learning-dashboard/internal/store"
)

// ErrUnauthorized is returned when the server rejects the token or the
// login credentials.
var ErrUnauthorized = errors.New("unauthorized")

// Client is a thin HTTP client for the learnboard API. It handles Bearer
// token authentication, JSON marshaling, and retry with exponential
// backoff on HTTP 429 and 503.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	maxRetries int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMaxRetries sets how many times a throttled request is retried.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// NewClient creates a client for the server at baseURL using token.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: 3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login exchanges credentials for a token.
func Login(ctx context.Context, baseURL, email, password string, opts ...Option) (api.LoginResponse, error) {
	c := NewClient(baseURL, "", opts...)
	var resp api.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", api.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return api.LoginResponse{}, err
	}
	return resp, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result interface{}) error {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// do builds the request, handles auth and throttling, and decodes the
// JSON response. Error statuses are mapped onto the store sentinels.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	result interface{},
) error {
	var data []byte
	if body != nil {
		var err error
		if data, err = json.Marshal(body); err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		var bodyReader io.Reader
		if data != nil {
			bodyReader = bytes.NewReader(data)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		req.Header.Set("Accept", "application/json")
		if data != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("executing request %s %s: %w", method, path, err)
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return fmt.Errorf("reading response body: %w", readErr)
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
			lastErr = fmt.Errorf("throttled (%d) on %s %s", resp.StatusCode, method, path)
			if attempt == c.maxRetries {
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryAfterDuration(resp, attempt)):
				continue
			}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return statusError(resp.StatusCode, method, path, respBody)
		}

		if result == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
		}
		return nil
	}

	return fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, lastErr)
}

func statusError(code int, method, path string, body []byte) error {
	msg := strings.TrimSpace(string(body))
	var e api.ErrorBody
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		msg = e.Error
	}

	var sentinel error
	switch code {
	case http.StatusBadRequest:
		sentinel = store.ErrInvalid
	case http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case http.StatusNotFound:
		sentinel = store.ErrNotFound
	case http.StatusConflict:
		sentinel = store.ErrConflict
	default:
		return fmt.Errorf("unexpected status %d on %s %s: %s", code, method, path, msg)
	}
	return fmt.Errorf("%s %s: %s: %w", method, path, msg, sentinel)
}

// retryAfterDuration reads the Retry-After header and falls back to
// exponential backoff when it is missing.
func retryAfterDuration(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}
