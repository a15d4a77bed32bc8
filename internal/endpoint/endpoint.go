// Package endpoint builds the stream URLs that double as subscription keys.
// Two subscriptions share a key exactly when their resolved URLs are equal,
// so every builder emits query parameters in a fixed order.
package endpoint

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rileyhilliard/livetap/internal/errors"
)

// Builder resolves stream paths against a ws:// or wss:// base URL.
type Builder struct {
	base *url.URL
}

// New parses base and returns a Builder. http(s) bases are rewritten to ws(s).
func New(base string) (*Builder, error) {
	if strings.TrimSpace(base) == "" {
		return nil, errors.New(errors.ErrConfig,
			"Stream base URL is empty",
			"Set ws_base_url in .livetap.yaml or LIVETAP_WS_BASE_URL")
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid stream base URL %q", base),
			"Use a URL like ws://localhost:8000")
	}
	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unsupported stream URL scheme %q", u.Scheme),
			"Use ws://, wss://, http:// or https://")
	}
	u.Path = strings.TrimRight(u.Path, "/")
	return &Builder{base: u}, nil
}

// param is one ordered query pair. url.Values sorts keys, which would
// reorder the parameters the backend documents.
type param struct {
	key, value string
}

func (b *Builder) build(path string, params ...param) string {
	u := *b.base
	u.Path = b.base.Path + path
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, url.QueryEscape(p.key)+"="+url.QueryEscape(p.value))
	}
	u.RawQuery = strings.Join(parts, "&")
	return u.String()
}

func intervalMs(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10)
}

// SystemLive is the host-wide live feed.
func (b *Builder) SystemLive(interval time.Duration) string {
	return b.build("/ws/live",
		param{"mode", "system"},
		param{"interval_ms", intervalMs(interval)})
}

// ServiceLive is the live feed of one tracked service. Returns "" for an
// empty id so callers get an inert subscription instead of a bad URL.
func (b *Builder) ServiceLive(appID string, interval time.Duration) string {
	if appID == "" {
		return ""
	}
	return b.build("/ws/live",
		param{"mode", "service"},
		param{"app_id", appID},
		param{"interval_ms", intervalMs(interval)})
}

// ContainerLive is the live feed of one container.
func (b *Builder) ContainerLive(name string, interval time.Duration) string {
	if name == "" {
		return ""
	}
	return b.build("/ws/containers",
		param{"container", name},
		param{"interval_ms", intervalMs(interval)})
}

// Logs is the line-oriented log tail of one service.
func (b *Builder) Logs(service string) string {
	if service == "" {
		return ""
	}
	return b.build("/ws/logs", param{"service", service})
}

// Alerts is the service alert feed, optionally scoped to appID.
func (b *Builder) Alerts(limit int, appID string) string {
	params := []param{{"limit", strconv.Itoa(limit)}}
	if appID != "" {
		params = append(params, param{"app_id", appID})
	}
	return b.build("/ws/alerts", params...)
}

// ContainerAlerts is the container alert feed, optionally scoped to one container.
func (b *Builder) ContainerAlerts(limit int, container string) string {
	params := []param{{"limit", strconv.Itoa(limit)}}
	if container != "" {
		params = append(params, param{"container", container})
	}
	return b.build("/ws/container/alerts", params...)
}
