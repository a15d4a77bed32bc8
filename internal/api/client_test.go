package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/livetap/internal/errors"
	"github.com/rileyhilliard/livetap/internal/logger"
	"github.com/rileyhilliard/livetap/internal/telemetry"
)

type recorded struct {
	method string
	path   string
	query  map[string]string
}

// fakeBackend answers fixed JSON per path and records requests.
type fakeBackend struct {
	mu       sync.Mutex
	requests []recorded
	routes   map[string]any
	status   int
}

func newFakeBackend(t *testing.T, routes map[string]any) (*fakeBackend, *Client) {
	t.Helper()
	fb := &fakeBackend{routes: routes}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := map[string]string{}
		for k := range r.URL.Query() {
			q[k] = r.URL.Query().Get(k)
		}
		fb.mu.Lock()
		fb.requests = append(fb.requests, recorded{method: r.Method, path: r.URL.Path, query: q})
		status := fb.status
		fb.mu.Unlock()

		if status != 0 {
			http.Error(w, "boom", status)
			return
		}
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/", WithLogger(logger.Noop()))
	require.NoError(t, err)
	return fb, c
}

func (fb *fakeBackend) last() recorded {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.requests[len(fb.requests)-1]
}

func (fb *fakeBackend) count() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return len(fb.requests)
}

func TestNew_Validation(t *testing.T) {
	for _, base := range []string{"", "ws://x", "not a url", "http://"} {
		_, err := New(base)
		require.Error(t, err, base)
		assert.True(t, errors.IsCode(err, errors.ErrConfig))
	}
}

func TestClient_Apps(t *testing.T) {
	_, c := newFakeBackend(t, map[string]any{
		"/apps": map[string]any{
			"web": map[string]any{"running": true, "trackable": true, "version": "1.2"},
			"api": map[string]any{"running": false},
		},
	})

	apps, err := c.Apps(context.Background())
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "api", apps[0].AppID)
	assert.Equal(t, "web", apps[1].AppID)
	assert.Equal(t, "1.2", apps[1].Version)
}

func TestClient_Containers(t *testing.T) {
	routes := map[string]any{
		"/containers": map[string]any{
			"redis": map[string]any{"running": true, "image": "redis", "mem_limit": 1024},
		},
	}
	_, c := newFakeBackend(t, routes)

	list, err := c.Containers(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "redis", list[0].ContainerName)

	one, err := c.Container(context.Background(), "redis")
	require.NoError(t, err)
	assert.Equal(t, "redis", one.Image)

	_, err = c.Container(context.Background(), "nope")
	assert.True(t, errors.IsCode(err, errors.ErrAPI))
}

func TestClient_Stats(t *testing.T) {
	fb, c := newFakeBackend(t, map[string]any{
		"/apps/__system__/stats": map[string]any{
			"points": []map[string]any{{"t": 1000, "cpu_avg": 12.5, "mem_max": 2048}},
		},
		"/containers/redis/stats": map[string]any{"points": []any{}},
	})

	end := time.UnixMilli(1_700_000_000_000)
	start := end.Add(-time.Hour)

	resp, err := c.Stats(context.Background(), KindApps, "system", StatsQuery{Start: start, End: end})
	require.NoError(t, err)
	require.Len(t, resp.Points, 1)
	assert.Equal(t, 12.5, resp.Points[0].CPUAvg)

	req := fb.last()
	assert.Equal(t, "/apps/__system__/stats", req.path)
	assert.Equal(t, "1699996400000", req.query["start"])
	assert.Equal(t, "1700000000000", req.query["end"])
	assert.Equal(t, "100", req.query["max_points"])
	_, hasBucket := req.query["bucket_ms"]
	assert.False(t, hasBucket)

	_, err = c.Stats(context.Background(), KindContainers, "redis", StatsQuery{
		Start: start, End: end, MaxPoints: 50, Bucket: time.Minute,
	})
	require.NoError(t, err)
	req = fb.last()
	assert.Equal(t, "/containers/redis/stats", req.path)
	assert.Equal(t, "50", req.query["max_points"])
	assert.Equal(t, "60000", req.query["bucket_ms"])
}

func TestClient_StatsRangeRejectedBeforeRequest(t *testing.T) {
	fb, c := newFakeBackend(t, map[string]any{})
	end := time.Now()

	tests := []struct {
		name  string
		query StatsQuery
	}{
		{name: "over 24h", query: StatsQuery{Start: end.Add(-25 * time.Hour), End: end}},
		{name: "inverted", query: StatsQuery{Start: end, End: end.Add(-time.Minute)}},
		{name: "missing start", query: StatsQuery{End: end}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Stats(context.Background(), KindApps, "web", tt.query)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrRange))
		})
	}
	assert.Equal(t, 0, fb.count())

	err := StatsQuery{Start: end.Add(-24 * time.Hour), End: end}.Validate(DefaultMaxSpan)
	assert.NoError(t, err, "exactly 24h is allowed")
	assert.Contains(t, StatsQuery{Start: end.Add(-48 * time.Hour), End: end}.Validate(DefaultMaxSpan).Error(), "24 hours")
}

func TestClient_Control(t *testing.T) {
	fb, c := newFakeBackend(t, map[string]any{
		"/containers/redis/control/restart": map[string]any{"ok": true},
		"/apps/web/control/stop":            map[string]any{"ok": true},
	})

	out, err := c.Control(context.Background(), KindContainers, "redis", ActionRestart)
	require.NoError(t, err)
	assert.Equal(t, true, out["ok"])
	assert.Equal(t, "POST", fb.last().method)

	_, err = c.Control(context.Background(), KindApps, "web", ActionStop)
	require.NoError(t, err)
	assert.Equal(t, "/apps/web/control/stop", fb.last().path)
}

func TestClient_ThresholdsAndTimeline(t *testing.T) {
	end := int64(5000)
	fb, c := newFakeBackend(t, map[string]any{
		"/system/thresholds": map[string]any{"cpu_percent": 85, "memory_percent": 90},
		"/apps/__system__/state_timelines": []telemetry.StateTimelineItem{
			{State: telemetry.StateRunning, StartTime: 1000, EndTime: &end},
			{State: telemetry.StateStopped, StartTime: 5000},
		},
	})

	th, err := c.SystemThresholds(context.Background())
	require.NoError(t, err)
	v, ok := th.Get("cpu_percent")
	require.True(t, ok)
	assert.Equal(t, 85.0, v)

	items, err := c.StateTimeline(context.Background(), KindApps, "system", time.UnixMilli(0), time.UnixMilli(9000))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Nil(t, items[1].EndTime)
	assert.Equal(t, "0", fb.last().query["ts_from"])
	assert.Equal(t, "9000", fb.last().query["ts_to"])
}

func TestClient_HTTPErrors(t *testing.T) {
	fb, c := newFakeBackend(t, map[string]any{"/apps": map[string]any{}})

	_, err := c.Stats(context.Background(), KindApps, "missing", StatsQuery{Start: time.UnixMilli(0), End: time.UnixMilli(1000)})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrAPI))
	assert.Contains(t, err.Error(), "HTTP 404")

	fb.mu.Lock()
	fb.status = http.StatusInternalServerError
	fb.mu.Unlock()

	_, err = c.Apps(context.Background())
	require.Error(t, err)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 500, se.Code)
	assert.Equal(t, "boom", se.Body)
}

func TestParseKindAndAction(t *testing.T) {
	k, err := ParseKind("service")
	require.NoError(t, err)
	assert.Equal(t, KindApps, k)

	k, err = ParseKind("container")
	require.NoError(t, err)
	assert.Equal(t, KindContainers, k)

	_, err = ParseKind("vm")
	assert.Error(t, err)

	a, err := ParseAction("restart")
	require.NoError(t, err)
	assert.Equal(t, ActionRestart, a)

	_, err = ParseAction("kill")
	assert.Error(t, err)
}
