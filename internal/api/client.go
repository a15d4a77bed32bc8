// Package api is a thin client for the backend's REST resources: app and
// container inventories, historical stats, state timelines, thresholds and
// start/stop/restart control.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rileyhilliard/livetap/internal/errors"
	"github.com/rileyhilliard/livetap/internal/logger"
)

const maxErrorBody = 512

// Client talks to one backend.
type Client struct {
	base *url.URL
	http *http.Client
	log  logger.Logger

	maxSpan time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client (30s timeout).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithMaxSpan caps the time range of stats queries. Zero disables the cap.
func WithMaxSpan(d time.Duration) Option {
	return func(c *Client) { c.maxSpan = d }
}

// New returns a client for baseURL (http or https).
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid API base URL %q", baseURL),
			"Set api_base_url to something like http://localhost:8000")
	}
	u.Path = strings.TrimRight(u.Path, "/")

	c := &Client{
		base:    u,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     logger.Default(),
		maxSpan: DefaultMaxSpan,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = query.Encode()
	return u.String()
}

// do issues a request and decodes a JSON body into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, out any) error {
	target := c.endpoint(path, query)
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrAPI, "Couldn't build request for "+path, "")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrAPI,
			fmt.Sprintf("%s %s failed", method, path),
			"Check that the backend is running and api_base_url is correct")
	}
	defer resp.Body.Close()
	c.log.Debug("%s %s -> %d (%s)", method, target, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &errors.Error{
			Code:       errors.ErrAPI,
			Message:    fmt.Sprintf("%s %s returned HTTP %d", method, path, resp.StatusCode),
			Suggestion: suggestionFor(resp.StatusCode),
			Cause:      &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))},
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return errors.WrapWithCode(err, errors.ErrAPI,
			fmt.Sprintf("Couldn't decode response from %s %s", method, path), "")
	}
	return nil
}

// StatusError carries a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.Code)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Body)
}

func suggestionFor(code int) string {
	switch {
	case code == http.StatusNotFound:
		return "Check the app or container name with: livetap apps / livetap containers"
	case code >= 500:
		return "The backend reported an internal error; check its logs"
	default:
		return ""
	}
}
