// Package transport is the HTTP client shared by the remote sources.
// Any non-200 response is an error; there are no retries.
package transport

import (
	"context"
	"net/http"

	"github.com/agentstation/tokenmap/pkg/constants"
	"github.com/agentstation/tokenmap/pkg/errors"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// UserAgent is sent with every request.
const UserAgent = "tokenmap"

// Client provides HTTP client functionality with authentication.
type Client struct {
	http   *http.Client
	auth   Authenticator
	apiKey string
}

// New creates a new transport client with the specified authenticator.
// The key is only applied when it is non-empty.
func New(auth Authenticator, apiKey string) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	return &Client{
		http:   &http.Client{Timeout: DefaultHTTPTimeout},
		auth:   auth,
		apiKey: apiKey,
	}
}

// NewWithHTTPClient creates a transport client around an existing http.Client.
func NewWithHTTPClient(hc *http.Client, auth Authenticator, apiKey string) *Client {
	c := New(auth, apiKey)
	if hc != nil {
		c.http = hc
	}
	return c
}

// Do performs an HTTP request with authentication applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.apiKey != "" {
		c.auth.Apply(req, c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	return c.http.Do(req)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &errors.ValidationError{Field: "url", Value: url, Message: err.Error()}
	}
	return c.Do(req)
}

// GetJSON performs a GET request and decodes a 200 response into target.
// provider names the remote service in returned errors.
func (c *Client) GetJSON(ctx context.Context, provider, url string, target any) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return &errors.APIError{
			Provider: provider,
			Endpoint: url,
			Message:  "request failed",
			Err:      err,
		}
	}
	return DecodeResponse(resp, provider, url, target)
}
