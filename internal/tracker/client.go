// Package tracker provides the client for the external issue tracker's REST
// API: credential assembly, issue search, and due-date updates.
//
// The tracker is treated as an optional dependency of the composite API.
// Every failure talking to it (network errors, HTTP error statuses,
// malformed responses) is logged and suppressed, and an empty result is
// returned in place of an error. Results carry an explicit Suppressed flag
// so callers can still tell a failed upstream from a genuinely empty one.
package tracker

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/crmgate/crmgate/internal/secrets"
)

// Logical secret names the client depends on.
const (
	// SecretBaseURL holds the tracker's base REST URL.
	SecretBaseURL = "JIRA_URL"

	// SecretAPIKeyName holds the name of the secret that in turn holds the
	// literal API key. The indirection is historical; [resolveAPIKey] is the
	// only place that follows it.
	SecretAPIKeyName = "JIRA_API_KEY_ARN"

	// SecretUsername holds the Basic-auth username.
	SecretUsername = "JIRA_USER_NAME"
)

const (
	// DialTimeout is the connection timeout.
	DialTimeout = 5 * time.Second
	// TLSHandshakeTimeout is the TLS negotiation timeout.
	TLSHandshakeTimeout = 5 * time.Second
	// ResponseHeaderTimeout is time to wait for response headers.
	ResponseHeaderTimeout = 5 * time.Second
)

// Client calls the external issue tracker over HTTP with Basic auth.
// Create one with [NewClient]; the credential bundle is assembled once at
// construction and never logged.
//
// Client is safe for concurrent use by multiple goroutines.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
	logger     *slog.Logger
	clock      func() time.Time
}

// NewClient assembles tracker credentials from the secret store and returns
// a ready Client. Three secrets are read: the base URL, the username, and,
// through one level of indirection, the API key. A failure resolving any of
// them is returned as an error; unlike request-time tracker failures,
// misconfigured credentials are not suppressed here.
func NewClient(ctx context.Context, resolver secrets.Resolver, logger *slog.Logger, opts ...Option) (*Client, error) {
	options := newOptions()

	for _, o := range opts {
		o(options)
	}

	baseURL, err := resolver.Resolve(ctx, SecretBaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tracker base URL: %w", err)
	}

	username, err := resolver.Resolve(ctx, SecretUsername)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tracker username: %w", err)
	}

	apiKey, err := resolveAPIKey(ctx, resolver)
	if err != nil {
		return nil, err
	}

	credentials := base64.StdEncoding.EncodeToString([]byte(username + ":" + apiKey))

	c := &Client{
		baseURL:    baseURL,
		authHeader: "Basic " + credentials,
		httpClient: options.httpClient,
		logger:     logger,
		clock:      options.clock,
	}
	if c.httpClient == nil {
		c.httpClient = newHTTPClient(options.timeout)
	}

	return c, nil
}

// resolveAPIKey follows the API-key indirection: the value of
// [SecretAPIKeyName] is itself the name of the secret holding the literal
// key, which is resolved a second time.
func resolveAPIKey(ctx context.Context, resolver secrets.Resolver) (string, error) {
	keyName, err := resolver.Resolve(ctx, SecretAPIKeyName)
	if err != nil {
		return "", fmt.Errorf("failed to resolve tracker API key name: %w", err)
	}

	apiKey, err := resolver.Resolve(ctx, keyName)
	if err != nil {
		return "", fmt.Errorf("failed to resolve tracker API key: %w", err)
	}

	return apiKey, nil
}

// newHTTPClient creates an HTTP client configured for tracker calls. The
// total request timeout stays well under the invocation budget so a hung
// upstream cannot exhaust it.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   TLSHandshakeTimeout,
			ResponseHeaderTimeout: ResponseHeaderTimeout,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}

// setHeaders applies the standard tracker headers to an HTTP request.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.authHeader)
}
