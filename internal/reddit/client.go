// Package reddit fetches raw JSON from the upstream site.
package reddit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
)

const (
	// DefaultBaseURL is the upstream API root.
	DefaultBaseURL = "https://www.reddit.com"

	// DefaultUserAgent identifies the proxy to the upstream.
	DefaultUserAgent = "redproxy/1.0"

	defaultTimeout = 30 * time.Second

	// maxBodySize caps upstream responses.
	maxBodySize = 32 << 20
)

// optInCookie opts a request into quarantined and gated communities.
var optInCookie = &http.Cookie{
	Name:  "_options",
	Value: url.QueryEscape(`{"pref_quarantine_optin":true,"pref_gated_sr_optin":true}`),
}

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	StatusCode int
	Reason     string
}

func (e *StatusError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("upstream status %d", e.StatusCode)
}

// APIError is returned when a 2xx response body carries an upstream error
// object ({"error": 403, "reason": "private"}).
type APIError struct {
	Code    int64
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream error %d: %s", e.Code, e.Message)
}

// Client is a minimal read-only client for the upstream JSON API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a new upstream client. Empty arguments fall back to
// DefaultBaseURL, DefaultUserAgent and a 30 second timeout.
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchJSON GETs path from the upstream and returns the response body.
// raw_json=1 is always added so bodies come back unescaped. Requests are not
// retried.
func (c *Client) FetchJSON(ctx context.Context, path string, bypassRestriction bool) ([]byte, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	q := u.Query()
	q.Set("raw_json", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if bypassRestriction {
		req.AddCookie(optInCookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Reason: gjson.GetBytes(body, "reason").String()}
	}

	if apiErr := gjson.GetBytes(body, "error"); apiErr.Exists() {
		return nil, &APIError{Code: apiErr.Int(), Message: upstreamMessage(body)}
	}

	return body, nil
}

func upstreamMessage(body []byte) string {
	for _, key := range []string{"reason", "message"} {
		if v := gjson.GetBytes(body, key); v.Exists() {
			return v.String()
		}
	}
	return "unknown"
}
