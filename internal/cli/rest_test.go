package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/livetap/internal/api"
	"github.com/rileyhilliard/livetap/internal/errors"
	"github.com/rileyhilliard/livetap/internal/logger"
	"github.com/rileyhilliard/livetap/internal/telemetry"
)

// newBackend serves fixed JSON per path and counts requests.
func newBackend(t *testing.T, routes map[string]any) (*api.Client, *atomic.Int32) {
	t.Helper()
	hits := new(atomic.Int32)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		body, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)

	c, err := api.New(srv.URL, api.WithLogger(logger.Noop()))
	require.NoError(t, err)
	return c, hits
}

func TestRunStats(t *testing.T) {
	end := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	q := api.StatsQuery{Start: end.Add(-time.Hour), End: end, MaxPoints: 10}
	points := telemetry.StatsResponse{Points: []telemetry.StatsPoint{
		{T: end.Add(-time.Hour).UnixMilli(), CPUAvg: 10, CPUMin: 5, CPUMax: 20, MemAvg: 256 * 1024 * 1024, MemMax: 300 * 1024 * 1024, IORAvg: 2048, IOWAvg: 1024},
		{T: end.Add(-30 * time.Minute).UnixMilli(), CPUAvg: 40, CPUMin: 30, CPUMax: 55.5, MemAvg: 512 * 1024 * 1024, MemMax: 600 * 1024 * 1024},
	}}
	client, _ := newBackend(t, map[string]any{"GET /apps/__system__/stats": points})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, runStats(context.Background(), &buf, client, api.KindApps, "system", q, false))
		out := buf.String()
		assert.Contains(t, out, "apps system")
		assert.Contains(t, out, "(2 points)")
		assert.Contains(t, out, "peak 55.5%")
		assert.Contains(t, out, "peak 600.0 MB")
		assert.Contains(t, out, "256.0 MB")
		assert.Contains(t, out, "5.0/20.0")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, runStats(context.Background(), &buf, client, api.KindApps, "system", q, true))
		var env struct {
			Success bool                    `json:"success"`
			Data    telemetry.StatsResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
		assert.True(t, env.Success)
		assert.Len(t, env.Data.Points, 2)
	})

	t.Run("range over a day is rejected without a request", func(t *testing.T) {
		c, hits := newBackend(t, nil)
		var buf bytes.Buffer
		long := api.StatsQuery{Start: end.Add(-25 * time.Hour), End: end}
		err := runStats(context.Background(), &buf, c, api.KindContainers, "db", long, false)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrRange))
		assert.Zero(t, hits.Load())
	})

	t.Run("empty range", func(t *testing.T) {
		c, _ := newBackend(t, map[string]any{"GET /containers/db/stats": telemetry.StatsResponse{}})
		var buf bytes.Buffer
		require.NoError(t, runStats(context.Background(), &buf, c, api.KindContainers, "db", q, false))
		assert.Contains(t, buf.String(), "No data points in this range.")
	})
}

func TestListCommands(t *testing.T) {
	client, _ := newBackend(t, map[string]any{
		"GET /apps": map[string]telemetry.App{
			"web": {Running: false, Trackable: true},
			"api": {Running: true, Trackable: true, Version: "1.2"},
		},
		"GET /containers": map[string]telemetry.Container{
			"db": {Running: true, CPUPercent: 12.5, MemBytes: 128 * 1024 * 1024, Image: "postgres", Version: "16", VersionReal: "postgres:15"},
		},
	})

	var apps bytes.Buffer
	require.NoError(t, listApps(context.Background(), &apps, client, false))
	assert.Less(t, bytes.Index(apps.Bytes(), []byte("api")), bytes.Index(apps.Bytes(), []byte("web")))
	assert.Contains(t, apps.String(), "running")
	assert.Contains(t, apps.String(), "stopped")
	assert.Contains(t, apps.String(), "1.2")

	var containers bytes.Buffer
	require.NoError(t, listContainers(context.Background(), &containers, client, false))
	assert.Contains(t, containers.String(), "12.5%")
	assert.Contains(t, containers.String(), "128.0 MB")
	assert.Contains(t, containers.String(), "postgres:15", "version drift is shown")

	var raw bytes.Buffer
	require.NoError(t, listApps(context.Background(), &raw, client, true))
	var env struct {
		Data []telemetry.App `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw.Bytes(), &env))
	require.Len(t, env.Data, 2)
	assert.Equal(t, "api", env.Data[0].AppID)
}

func TestRunControl(t *testing.T) {
	tests := []struct {
		name     string
		confirm  confirmFunc
		wantHits int32
		wantOut  string
	}{
		{name: "confirmed", confirm: confirmAlways, wantHits: 1, wantOut: "container db: restart requested"},
		{name: "declined", confirm: func(string) (bool, error) { return false, nil }, wantHits: 0, wantOut: "Cancelled."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, hits := newBackend(t, map[string]any{
				"POST /containers/db/control/restart": map[string]any{"status": "ok"},
			})
			var buf bytes.Buffer
			require.NoError(t, runControl(context.Background(), &buf, client, api.KindContainers, "db", api.ActionRestart, tt.confirm))
			assert.Equal(t, tt.wantHits, hits.Load())
			assert.Contains(t, buf.String(), tt.wantOut)
		})
	}

	t.Run("backend 404", func(t *testing.T) {
		client, _ := newBackend(t, nil)
		var buf bytes.Buffer
		err := runControl(context.Background(), &buf, client, api.KindApps, "ghost", api.ActionStop, confirmAlways)
		require.Error(t, err)
		assert.Equal(t, ErrCodeNotFound, ErrorToJSON(err).Code)
	})
}

func TestRenderTimeline(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	end := now.Add(-time.Hour).UnixMilli()
	items := []telemetry.StateTimelineItem{
		{State: telemetry.StateRunning, StartTime: now.Add(-3 * time.Hour).UnixMilli(), EndTime: &end},
		{State: telemetry.StateStopped, StartTime: end},
	}

	var buf bytes.Buffer
	renderTimeline(&buf, items, now)
	out := buf.String()
	assert.Contains(t, out, "running")
	assert.Contains(t, out, "stopped")
	assert.Contains(t, out, "2h0m0s")
	assert.Contains(t, out, "now")

	buf.Reset()
	renderTimeline(&buf, nil, now)
	assert.Contains(t, buf.String(), "No state changes")
}
