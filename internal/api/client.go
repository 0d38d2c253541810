// Package api implements the HTTP client for the chat endpoint.
package api

import (
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	"github.com/diogo/chatview/internal/logging"
)

// DefaultTimeout bounds a request when no timeout is configured.
const DefaultTimeout = 60 * time.Second

// HTTPDoer is the part of tls_client.HttpClient the chat client uses.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client posts chat messages to a fixed endpoint.
// It is safe for concurrent use, though the chat view sends one request at a time.
type Client struct {
	httpClient HTTPDoer
	endpoint   string
	timeout    time.Duration
	proxy      string
	logger     *slog.Logger
	mu         sync.RWMutex
	closed     bool
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithTimeout sets the per-request deadline
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithProxy routes requests through the given proxy URL
func WithProxy(proxyURL string) ClientOption {
	return func(c *Client) {
		c.proxy = proxyURL
	}
}

// WithHTTPClient replaces the transport, mainly for tests
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// NewClient creates a Client for endpoint
func NewClient(endpoint string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q: expected an http(s) URL", endpoint)
	}

	client := &Client{
		endpoint: endpoint,
		timeout:  DefaultTimeout,
		logger:   logging.Discard(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.timeout <= 0 {
		client.timeout = DefaultTimeout
	}

	if client.httpClient == nil {
		if client.proxy == "" {
			client.proxy = ProxyForEndpoint(endpoint)
		}

		seconds := int(client.timeout / time.Second)
		if seconds < 1 {
			seconds = 1
		}
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(seconds),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}
		if client.proxy != "" {
			options = append(options, tls_client.WithProxyUrl(client.proxy))
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Endpoint returns the URL messages are posted to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Timeout returns the per-request deadline
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Proxy returns the proxy URL in use, if any
func (c *Client) Proxy() string {
	return c.proxy
}

// Close releases idle connections. Send fails after Close.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	if idler, ok := c.httpClient.(interface{ CloseIdleConnections() }); ok {
		idler.CloseIdleConnections()
	}
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
