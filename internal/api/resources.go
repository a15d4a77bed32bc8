package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/rileyhilliard/livetap/internal/errors"
	"github.com/rileyhilliard/livetap/internal/telemetry"
)

// DefaultMaxSpan is the longest range a stats query may cover.
const DefaultMaxSpan = 24 * time.Hour

// DefaultMaxPoints is the point budget of a stats query.
const DefaultMaxPoints = 100

// Kind selects the resource family.
type Kind string

const (
	KindApps       Kind = "apps"
	KindContainers Kind = "containers"
)

// ParseKind accepts apps/app/service(s) and containers/container.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "apps", "app", "service", "services":
		return KindApps, nil
	case "containers", "container":
		return KindContainers, nil
	}
	return "", errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown resource kind %q", s),
		"Use 'app' or 'container'")
}

// wireID applies the "system" alias for apps.
func (k Kind) wireID(id string) string {
	if k == KindApps {
		return telemetry.WireAppID(id)
	}
	return id
}

// Action is a control verb.
type Action string

const (
	ActionStart   Action = "start"
	ActionStop    Action = "stop"
	ActionRestart Action = "restart"
)

// ParseAction validates a control verb.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionStart, ActionStop, ActionRestart:
		return a, nil
	}
	return "", errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown action %q", s),
		"Use start, stop or restart")
}

// Apps lists tracked services.
func (c *Client) Apps(ctx context.Context) ([]telemetry.App, error) {
	var m map[string]telemetry.App
	if err := c.do(ctx, "GET", "/apps", nil, &m); err != nil {
		return nil, err
	}
	return telemetry.AppsFromMap(m), nil
}

// Containers lists known containers.
func (c *Client) Containers(ctx context.Context) ([]telemetry.Container, error) {
	var m map[string]telemetry.Container
	if err := c.do(ctx, "GET", "/containers", nil, &m); err != nil {
		return nil, err
	}
	return telemetry.ContainersFromMap(m), nil
}

// Container returns one container from the inventory.
func (c *Client) Container(ctx context.Context, name string) (telemetry.Container, error) {
	var m map[string]telemetry.Container
	if err := c.do(ctx, "GET", "/containers", nil, &m); err != nil {
		return telemetry.Container{}, err
	}
	ct, ok := m[name]
	if !ok {
		return telemetry.Container{}, errors.New(errors.ErrAPI,
			fmt.Sprintf("Container %s not found", name),
			"List containers with: livetap containers")
	}
	ct.ContainerName = name
	return ct, nil
}

// StatsQuery is a historical range request.
type StatsQuery struct {
	Start     time.Time
	End       time.Time
	MaxPoints int
	Bucket    time.Duration
}

// Validate rejects empty, inverted or over-long ranges before any request
// is made.
func (q StatsQuery) Validate(maxSpan time.Duration) error {
	if q.Start.IsZero() || q.End.IsZero() {
		return errors.New(errors.ErrRange, "Stats range needs a start and an end", "")
	}
	if !q.End.After(q.Start) {
		return errors.New(errors.ErrRange,
			"Stats range ends before it starts",
			"Pass --start earlier than --end")
	}
	if maxSpan > 0 && q.End.Sub(q.Start) > maxSpan {
		return errors.New(errors.ErrRange,
			fmt.Sprintf("Time range cannot exceed %s", formatSpan(maxSpan)),
			"Narrow the window with --since or --start/--end")
	}
	return nil
}

// Stats fetches aggregated points for one app or container.
func (c *Client) Stats(ctx context.Context, kind Kind, id string, q StatsQuery) (telemetry.StatsResponse, error) {
	if err := q.Validate(c.maxSpan); err != nil {
		return telemetry.StatsResponse{}, err
	}
	if q.MaxPoints <= 0 {
		q.MaxPoints = DefaultMaxPoints
	}

	query := url.Values{}
	query.Set("start", strconv.FormatInt(q.Start.UnixMilli(), 10))
	query.Set("end", strconv.FormatInt(q.End.UnixMilli(), 10))
	query.Set("max_points", strconv.Itoa(q.MaxPoints))
	if q.Bucket > 0 {
		query.Set("bucket_ms", strconv.FormatInt(q.Bucket.Milliseconds(), 10))
	}

	var resp telemetry.StatsResponse
	path := fmt.Sprintf("/%s/%s/stats", kind, kind.wireID(id))
	if err := c.do(ctx, "GET", path, query, &resp); err != nil {
		return telemetry.StatsResponse{}, err
	}
	return resp, nil
}

// Control starts, stops or restarts an app or container.
func (c *Client) Control(ctx context.Context, kind Kind, id string, action Action) (map[string]any, error) {
	var out map[string]any
	path := fmt.Sprintf("/%s/%s/control/%s", kind, kind.wireID(id), action)
	if err := c.do(ctx, "POST", path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SystemThresholds fetches the host-wide alert thresholds.
func (c *Client) SystemThresholds(ctx context.Context) (telemetry.Thresholds, error) {
	var t telemetry.Thresholds
	if err := c.do(ctx, "GET", "/system/thresholds", nil, &t); err != nil {
		return nil, err
	}
	return t, nil
}

// StateTimeline fetches running/stopped spans between from and to.
func (c *Client) StateTimeline(ctx context.Context, kind Kind, id string, from, to time.Time) ([]telemetry.StateTimelineItem, error) {
	query := url.Values{}
	query.Set("ts_from", strconv.FormatInt(from.UnixMilli(), 10))
	query.Set("ts_to", strconv.FormatInt(to.UnixMilli(), 10))

	var items []telemetry.StateTimelineItem
	path := fmt.Sprintf("/%s/%s/state_timelines", kind, kind.wireID(id))
	if err := c.do(ctx, "GET", path, query, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func formatSpan(d time.Duration) string {
	if d%time.Hour == 0 {
		return fmt.Sprintf("%d hours", int(d.Hours()))
	}
	return d.String()
}
