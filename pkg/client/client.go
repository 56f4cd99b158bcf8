// Package client is the Go consumer of the inventory tracker REST API. It
// bundles the session store, an authenticating HTTP wrapper, typed service
// calls, and a reducer-driven state store for inventory views.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-inventory-tracker/pkg/apierror"
)

// ErrUnauthorized marks a request the server rejected with HTTP 401. The
// transport clears the session before returning it; deciding where to
// navigate afterwards is the application's job, optionally helped by the
// OnUnauthorized hook.
var ErrUnauthorized = errors.New("unauthorized")

// ErrAuthIncomplete is returned when a login succeeds at the transport level
// but does not yield a usable session (no access token, or no user profile
// after the single recovery fetch).
var ErrAuthIncomplete = errors.New("login did not produce a usable session")

const basePath = "/api/v1"

// Client wraps an http.Client with the base URL, bearer-token injection, and
// the global 401 handling. Every request is a single attempt: no retries, no
// backoff.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	session        SessionStore
	onUnauthorized func()
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithOnUnauthorized installs the hook invoked when a 401 transitions the
// session from authenticated to anonymous. It fires at most once per
// session; concurrent 401s race on the session clear and only the winner
// triggers it.
func WithOnUnauthorized(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func New(baseURL string, session SessionStore, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		session:    session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() SessionStore {
	return c.session
}

type envelope struct {
	Success bool               `json:"success"`
	Data    json.RawMessage    `json:"data"`
	Error   *apierror.APIError `json:"error"`
}

// do issues one request and decodes the response envelope into out. A token
// in the session store is attached as a bearer header; without one the
// request goes out unauthenticated and the server decides.
func (c *Client) do(ctx context.Context, method string, path string, query url.Values, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	target := c.baseURL + basePath + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if decodeErr := json.NewDecoder(resp.Body).Decode(&env); decodeErr != nil && resp.StatusCode < 400 {
		return fmt.Errorf("decode response: %w", decodeErr)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if c.session.Clear() && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		message := "authentication required"
		if env.Error != nil && env.Error.Message != "" {
			message = env.Error.Message
		}
		return fmt.Errorf("%w: %s", ErrUnauthorized, message)
	}

	if resp.StatusCode >= 400 {
		// Pass the server's error payload through untouched.
		if env.Error != nil {
			env.Error.HTTPStatus = resp.StatusCode
			return env.Error
		}
		return apierror.New("REQUEST_FAILED", http.StatusText(resp.StatusCode), "", resp.StatusCode)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
