package probe

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"strings"
)

// securityHeaders lists response headers every public endpoint is expected to set
var securityHeaders = []string{
	"Strict-Transport-Security",
	"X-Content-Type-Options",
	"X-Frame-Options",
}

// TLS requires the backend URL to use https and the connection to negotiate TLS
func (c *Client) TLS(path string) func(ctx context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		if c.baseURL != "" {
			u, err := url.Parse(c.baseURL)
			if err != nil {
				return nil, fmt.Errorf("parse backend url: %w", err)
			}
			if !strings.EqualFold(u.Scheme, "https") {
				return nil, fmt.Errorf("backend url uses %q, expected https", u.Scheme)
			}
		}
		resp, err := c.Get(ctx, path, true)
		if err != nil {
			return nil, err
		}
		if !resp.TLS {
			return nil, fmt.Errorf("%s was not served over TLS", resp.URL)
		}
		if resp.TLSVersion < tls.VersionTLS12 {
			return nil, fmt.Errorf("%s negotiated %s, expected TLS 1.2 or newer", resp.URL, tls.VersionName(resp.TLSVersion))
		}
		out := summary(resp)
		out["tls_version"] = tls.VersionName(resp.TLSVersion)
		return out, nil
	}
}

// Headers requires the security headers on the response for path
func (c *Client) Headers(path string) func(ctx context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		resp, err := c.Get(ctx, path, true)
		if err != nil {
			return nil, err
		}
		var missing []string
		present := map[string]string{}
		for _, h := range securityHeaders {
			if v := resp.Header.Get(h); v != "" {
				present[h] = v
				continue
			}
			missing = append(missing, h)
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("%s is missing security headers: %s", resp.URL, strings.Join(missing, ", "))
		}
		out := summary(resp)
		out["headers"] = present
		return out, nil
	}
}
