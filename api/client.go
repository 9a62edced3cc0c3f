// Package api issues authenticated JSON requests against the relying-party
// API. It owns header construction (auth token, client package identifier)
// and the transport error taxonomy; endpoint semantics live with callers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/go-passkey-client/tokens"
)

const (
	headerAuthToken     = "X-Auth-Token"
	headerClientPackage = "X-Client-Package"

	defaultTimeout = 30 * time.Second
)

// Config carries the explicit configuration for a Client. Nothing is read
// from ambient process-wide state.
type Config struct {
	// BaseURL is the API origin, e.g. "https://api.example.org".
	BaseURL string
	// ClientPackage identifies the calling application; sent as
	// X-Client-Package when non-empty.
	ClientPackage string
	// Tokens supplies the bearer token for authenticated requests.
	// May be nil if only unauthenticated requests are made.
	Tokens tokens.Provider
	// HTTPClient overrides the underlying HTTP client. Optional.
	HTTPClient *http.Client
}

// Client is a thin JSON transport over the API.
type Client struct {
	baseURL       string
	clientPackage string
	tokens        tokens.Provider
	httpClient    *http.Client
}

// New creates a Client from cfg.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("api: base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("api: invalid base URL: %w", err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:       baseURL,
		clientPackage: cfg.ClientPackage,
		tokens:        cfg.Tokens,
		httpClient:    httpClient,
	}, nil
}

// HasToken reports whether an auth token is currently available, without
// performing any network I/O.
func (c *Client) HasToken(ctx context.Context) bool {
	if c.tokens == nil {
		return false
	}
	_, err := c.tokens.Token(ctx)
	return err == nil
}

// Request describes a single API call.
type Request struct {
	Method string
	// Path is appended to the base URL, e.g. "/passkeys".
	Path string
	// Query parameters, sent URL-encoded. Optional.
	Query url.Values
	// Body is JSON-encoded when non-nil.
	Body any
	// Authenticated requests carry the X-Auth-Token header and fail with
	// ErrAuthenticationRequired before any I/O if no token is available.
	Authenticated bool
}

// Get issues an authenticated GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query, Authenticated: true}, out)
}

// Post issues an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Query: query, Body: body, Authenticated: true}, out)
}

// Patch issues an authenticated PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Query: query, Body: body, Authenticated: true}, out)
}

// Delete issues an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path, Authenticated: true}, nil)
}

// Do executes req and decodes a JSON response into out when out is non-nil.
// Non-2xx responses become *ServerError; transport failures wrap ErrNetwork.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	token := ""
	if req.Authenticated {
		if c.tokens == nil {
			return ErrAuthenticationRequired
		}
		var err error
		token, err = c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrAuthenticationRequired, err)
		}
	}

	endpoint := c.baseURL + req.Path
	if len(req.Query) > 0 {
		endpoint += "?" + req.Query.Encode()
	}

	var bodyReader io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("api: encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set(headerAuthToken, token)
	}
	if c.clientPackage != "" {
		httpReq.Header.Set(headerClientPackage, c.clientPackage)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrNetwork, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &ServerError{StatusCode: resp.StatusCode, Body: respBody}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}
