// ABOUTME: HTTP client for the Chargify REST API
// ABOUTME: Issues authenticated JSON requests and normalizes every response into a Result
package chargify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// baseURLFormat is filled with the site subdomain.
const baseURLFormat = "https://%s.chargify.com"

// Client issues one authenticated request per call against a single site.
// It has no retry or timeout policy of its own.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	requestLog *logrus.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL points the client at another host, e.g. an httptest server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithRequestLog writes every request/response pair to logger.
func WithRequestLog(logger *logrus.Logger) Option {
	return func(c *Client) {
		c.requestLog = logger
	}
}

// New creates a client for https://<subdomain>.chargify.com using the API
// key as the basic-auth user.
func New(subdomain, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: fmt.Sprintf(baseURLFormat, subdomain),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.requestLog != nil {
		hc := *c.httpClient
		next := hc.Transport
		if next == nil {
			next = http.DefaultTransport
		}
		hc.Transport = &requestLogTransport{next: next, logger: c.requestLog}
		c.httpClient = &hc
	}

	return c
}

// BaseURL returns the site root all paths are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues GET base+path with params as the query string.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (Result, error) {
	return c.do(ctx, http.MethodGet, path, params, nil)
}

// Post issues POST base+path with payload as the JSON body.
func (c *Client) Post(ctx context.Context, path string, payload any) (Result, error) {
	return c.do(ctx, http.MethodPost, path, nil, payload)
}

// Put issues PUT base+path with payload as the JSON body.
func (c *Client) Put(ctx context.Context, path string, payload any) (Result, error) {
	return c.do(ctx, http.MethodPut, path, nil, payload)
}

// Delete issues DELETE base+path with payload as the JSON body.
func (c *Client) Delete(ctx context.Context, path string, payload any) (Result, error) {
	return c.do(ctx, http.MethodDelete, path, nil, payload)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, payload any) (Result, error) {
	target := c.baseURL + path
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		target += sep + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Result{}, fmt.Errorf("failed to encode request payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return Result{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth(c.apiKey, "x")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("chargify: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	return Normalize(resp)
}
