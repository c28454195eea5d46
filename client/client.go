// Package client is the typed Go client for the clubhub backend API:
// one exported operation per backend endpoint, cookie-based admin
// credentials, and validation-aware error shaping.
//
// The client applies no retries and no timeouts of its own; both are
// owned by the caller, via the injected http.Client and the ctx passed
// to every operation.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for the given base URL; "" means same-origin
// (bare paths). A nil httpClient gets a default one with a cookie jar,
// which carries the admin session cookie across requests, and a traced
// transport.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		jar, _ := cookiejar.New(nil)
		httpClient = &http.Client{
			Jar:       jar,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{
		baseURL:    ResolveBaseURL("", baseURL, ""),
		httpClient: httpClient,
	}
}

// buildURL prepends the base URL and makes sure the path carries
// exactly one leading slash.
func (c *Client) buildURL(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// doJSON sends a request with an optional JSON body and decodes a JSON
// response into out (skipped when out is nil). Extra headers are merged
// over the defaults, so a caller header wins over Content-Type.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}, headers http.Header) error {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for key, values := range headers {
		req.Header[key] = values
	}

	return c.send(req, out)
}

// send dispatches the request and classifies the response: 2xx decodes
// into out, anything else becomes a *ValidationError or *APIError.
// Transport failures propagate wrapped, unclassified.
func (c *Client) send(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	isJSON := strings.Contains(resp.Header.Get("Content-Type"), "application/json")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(respBytes, out); err != nil {
			return fmt.Errorf("decode response body: %w", err)
		}
		return nil
	}

	return responseError(resp.StatusCode, isJSON, respBytes)
}
