// Package client is the REST client for the editor's credential and policy
// endpoints. It implements guard.API and policy.Source so the rest of the
// module never builds an HTTP request by hand.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/sierrasoftworks/humane-errors-go"

	"github.com/easelgate/easelgate/pkg/models"
)

// Client talks to one editor instance. It is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default 30s request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithTransport replaces the HTTP transport, used to inject the denial
// interception layer.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = rt
	}
}

// New creates a Client for the editor at baseURL. The client owns a cookie
// jar so the session token returned by login flows into later requests.
func New(baseURL string, opts ...Option) (*Client, humane.Error) {
	parsed, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, humane.Wrap(err, "invalid editor address",
			"Pass the editor base URL, e.g. http://localhost:8188",
		)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, humane.New(fmt.Sprintf("unsupported scheme %q in editor address", parsed.Scheme),
			"Pass the editor base URL, e.g. http://localhost:8188",
		)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, humane.Wrap(err, "failed to create cookie jar", "this indicates a bug; please report it")
	}

	c := &Client{
		baseURL: parsed,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the editor address the client was created with.
func (c *Client) BaseURL() string { return c.baseURL.String() }

func (c *Client) absolute(uri string) string {
	return c.baseURL.String() + uri
}

// doRequestAndDecode performs one request and decodes the JSON body into T.
// Status codes outside expectedStatus (200 when empty) become errors carrying
// whatever error envelope the server returned.
func doRequestAndDecode[T any](ctx context.Context, c *Client, method, uri string, body io.Reader, header http.Header, expectedStatus ...int) (*T, int, humane.Error) {
	okStatus := map[int]bool{}
	if len(expectedStatus) == 0 {
		okStatus[http.StatusOK] = true
	} else {
		for _, code := range expectedStatus {
			okStatus[code] = true
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.absolute(uri), body)
	if err != nil {
		return nil, 0, humane.Wrap(err, "failed to create request", "this indicates a bug; please report it")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, humane.Wrap(err, "failed to perform request",
			"ensure the editor is running and reachable at "+c.baseURL.String(),
		)
	}
	defer func() { _ = resp.Body.Close() }()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, humane.Wrap(err, "failed to read response body",
			"the server may have closed the connection unexpectedly",
		)
	}

	if !okStatus[resp.StatusCode] {
		return nil, resp.StatusCode, apiError(resp.StatusCode, respBytes)
	}

	var result T
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return nil, resp.StatusCode, humane.Wrap(err, "failed to decode response body",
			"the server returned an unexpected response format",
		)
	}

	return &result, resp.StatusCode, nil
}

func apiError(status int, body []byte) humane.Error {
	var errBody models.ErrorResponse
	if err := json.Unmarshal(body, &errBody); err == nil && errBody.Message != "" {
		return humane.Wrap(errBody.AsHumaneError(), fmt.Sprintf("HTTP %d", status),
			"check the error details for more information",
		)
	}

	var fallback map[string]any
	if err := json.Unmarshal(body, &fallback); err == nil {
		msg := fmt.Sprintf("HTTP %d", status)
		if m, ok := fallback["error"].(string); ok && m != "" {
			msg = m
		}
		return humane.New(msg, "check the editor logs for more details")
	}

	return humane.New(fmt.Sprintf("HTTP %d: %s", status, string(body)),
		"the server returned an unexpected error format",
	)
}
