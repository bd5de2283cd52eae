// Package rest adapts a JSON REST API to the gateway contract. Endpoints
// are configured per collection, so one client serves any backend exposing
// list/create/update/delete routes.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"nexussync/collection"
)

// DefaultTimeout bounds every gateway request.
const DefaultTimeout = 30 * time.Second

// Client handles HTTP communication with the remote gateway.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a gateway client. token may be empty for anonymous
// APIs; otherwise it is sent as a bearer token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// SetTimeout overrides the default request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	c.httpClient.Timeout = d
}

// BaseURL returns the configured gateway root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doJSON performs one request and decodes a JSON response into out (when
// out is non-nil and the response has a body). Non-2xx responses become a
// GatewayError carrying the status and body.
func (c *Client) doJSON(ctx context.Context, op, method, path string, headers map[string]string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", op, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return collection.NewGatewayError(op, 0, err.Error()).WithError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return collection.NewGatewayError(op, resp.StatusCode, "failed to read response body").WithError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return collection.NewGatewayError(op, resp.StatusCode, http.StatusText(resp.StatusCode)).
			WithBody(string(respBody))
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return collection.NewGatewayError(op, resp.StatusCode, "failed to decode response").
				WithBody(string(respBody)).WithError(err)
		}
	}
	return nil
}
