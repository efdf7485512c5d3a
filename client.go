// Package folio is the Go client for the folio document archive API.
//
// A Client talks to a running folio server over HTTP. Queries are built
// either as a plain SearchRequest or through the fluent builder:
//
//	client, _ := folio.New("https://folio.internal", folio.WithAPIKey(key))
//	result, err := client.Query().
//		Text("annual budget").
//		Project("finance").
//		Page(0).
//		Do(ctx)
package folio

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
)

const (
	headerAccount      = "X-Folio-Account"
	headerOrganization = "X-Folio-Organization"

	defaultTimeout = 30 * time.Second
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	httpClient *http.Client
	apiKey     string

	accountID      int64
	organizationID int64
	hasIdentity    bool
}

// WithAPIKey sets the bearer token sent with every request.
func WithAPIKey(key string) Option {
	return optionFunc(func(c *clientConfig) {
		c.apiKey = key
	})
}

// WithIdentity sets the acting identity. Without it requests are anonymous
// and see only public documents.
func WithIdentity(accountID, organizationID int64) Option {
	return optionFunc(func(c *clientConfig) {
		c.accountID = accountID
		c.organizationID = organizationID
		c.hasIdentity = true
	})
}

// WithHTTPClient replaces the underlying HTTP client (timeouts, transport).
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// Client is the folio API client. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string

	accountID      int64
	organizationID int64
	hasIdentity    bool
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("folio: base URL required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("folio: parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("folio: base URL must be http or https, got %q", baseURL)
	}

	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpClient:     hc,
		apiKey:         cfg.apiKey,
		accountID:      cfg.accountID,
		organizationID: cfg.organizationID,
		hasIdentity:    cfg.hasIdentity,
	}, nil
}

// do executes one API call: marshals body, sets auth and identity headers,
// and decodes the reply into out. Non-2xx replies decode into *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("folio: encode request: %w", err)
		}
		rd = bytes.NewReader(buf)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, rd)
	if err != nil {
		return fmt.Errorf("folio: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if c.hasIdentity {
		req.Header.Set(headerAccount, strconv.FormatInt(c.accountID, 10))
		req.Header.Set(headerOrganization, strconv.FormatInt(c.organizationID, 10))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("folio: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("folio: decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Code:       "internal_error",
		Message:    http.StatusText(resp.StatusCode),
		RequestID:  resp.Header.Get("X-Request-ID"),
	}

	var envelope struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&envelope); err == nil && envelope.Code != "" {
		apiErr.Code = envelope.Code
		apiErr.Message = envelope.Message
	}
	return apiErr
}
