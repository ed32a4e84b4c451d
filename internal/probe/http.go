package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"probectl/internal/config"
)

const maxBodyBytes = 1 << 20

// Client performs requests against the backend's HTTP APIs
type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	http    *http.Client
}

// NewClient creates a Client from the backend configuration
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.Backend.URL, "/"),
		apiKey:  cfg.Backend.APIKey,
		timeout: cfg.ProbeTimeout,
		http:    &http.Client{},
	}
}

// Response is a fully read HTTP response
type Response struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
	Latency    time.Duration
	TLS        bool
	TLSVersion uint16
}

// JSON decodes the body into v
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%s: response is not JSON: %w", r.URL, err)
	}
	return nil
}

// OK reports whether the status is 2xx
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (c *Client) url(path string) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("%s is not configured", config.EnvBackendURL)
	}
	return c.baseURL + path, nil
}

// Get requests path, sending the API key when authenticated is set
func (c *Client) Get(ctx context.Context, path string, authenticated bool) (*Response, error) {
	target, err := c.url(path)
	if err != nil {
		return nil, err
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if authenticated && c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}

	out := &Response{
		URL:        target,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
		Latency:    time.Since(start),
	}
	if resp.TLS != nil {
		out.TLS = true
		out.TLSVersion = resp.TLS.Version
	}
	return out, nil
}

func summary(resp *Response) map[string]any {
	return map[string]any{
		"url":        resp.URL,
		"status":     resp.StatusCode,
		"latency_ms": resp.Latency.Milliseconds(),
	}
}

// Endpoint returns a probe that requires path to answer with a 2xx status
func (c *Client) Endpoint(path string) func(ctx context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		resp, err := c.Get(ctx, path, true)
		if err != nil {
			return nil, err
		}
		if !resp.OK() {
			return nil, fmt.Errorf("%s returned status %d", resp.URL, resp.StatusCode)
		}
		return summary(resp), nil
	}
}

// JSONEndpoint returns a probe that requires path to answer 2xx with a JSON body.
// check, when set, validates the decoded document.
func (c *Client) JSONEndpoint(path string, check func(doc any) error) func(ctx context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		resp, err := c.Get(ctx, path, true)
		if err != nil {
			return nil, err
		}
		if !resp.OK() {
			return nil, fmt.Errorf("%s returned status %d", resp.URL, resp.StatusCode)
		}
		var doc any
		if err := resp.JSON(&doc); err != nil {
			return nil, err
		}
		if check != nil {
			if err := check(doc); err != nil {
				return nil, fmt.Errorf("%s: %w", resp.URL, err)
			}
		}
		out := summary(resp)
		out["body"] = doc
		return out, nil
	}
}

// Rejected returns a probe that requires an anonymous request to path to be refused
func (c *Client) Rejected(path string) func(ctx context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		resp, err := c.Get(ctx, path, false)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusForbidden {
			return nil, fmt.Errorf("anonymous request to %s was not rejected (status %d)", resp.URL, resp.StatusCode)
		}
		return summary(resp), nil
	}
}

func isArray(doc any) error {
	if _, ok := doc.([]any); !ok {
		return fmt.Errorf("expected a JSON array")
	}
	return nil
}

func isObject(doc any) error {
	if _, ok := doc.(map[string]any); !ok {
		return fmt.Errorf("expected a JSON object")
	}
	return nil
}

// hasTimestamp requires a JSON object carrying a recovery point timestamp
func hasTimestamp(doc any) error {
	obj, ok := doc.(map[string]any)
	if !ok {
		return fmt.Errorf("expected a JSON object")
	}
	for _, key := range []string{"timestamp", "created_at", "recovery_point"} {
		raw, found := obj[key]
		if !found {
			continue
		}
		s, isString := raw.(string)
		if !isString {
			return fmt.Errorf("%s is not a string", key)
		}
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			return fmt.Errorf("%s is not an RFC3339 timestamp: %w", key, err)
		}
		return nil
	}
	return fmt.Errorf("no recovery point timestamp in response")
}
