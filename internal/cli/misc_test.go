package cli

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"runtime"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/livetap/internal/api"
	"github.com/rileyhilliard/livetap/internal/errors"
)

func TestIsUnknownCommandError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unknown command", stderrors.New(`unknown command "foo" for "livetap"`), true},
		{"unknown flag", stderrors.New(`unknown flag: --foo`), true},
		{"unknown shorthand", stderrors.New(`unknown shorthand flag: 'x' in -x`), true},
		{"other error", stderrors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUnknownCommandError(tt.err))
		})
	}
}

func TestExtractUnknownCommand(t *testing.T) {
	assert.Equal(t, "wach", extractUnknownCommand(stderrors.New(`unknown command "wach" for "livetap"`)))
	assert.Equal(t, "", extractUnknownCommand(stderrors.New("unknown command wach")))
}

func TestFormatVersion(t *testing.T) {
	tests := []struct{ in, want string }{
		{"dev", "dev"},
		{"", ""},
		{"1.2.3", "v1.2.3"},
		{"v1.2.3", "v1.2.3"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatVersion(tt.in))
	}
}

func TestWriteVersion(t *testing.T) {
	origVersion, origCommit, origDate := version, commit, date
	defer SetVersionInfo(origVersion, origCommit, origDate)
	SetVersionInfo("0.4.0", "abc123", "2024-05-01")

	var buf bytes.Buffer
	writeVersion(&buf, false)
	out := buf.String()
	assert.Contains(t, out, "livetap v0.4.0")
	assert.Contains(t, out, "commit: abc123")
	assert.Contains(t, out, "built: 2024-05-01")
	assert.Contains(t, out, fmt.Sprintf("os/arch: %s/%s", runtime.GOOS, runtime.GOARCH))

	buf.Reset()
	writeVersion(&buf, true)
	assert.Equal(t, "0.4.0\n", buf.String())
}

func TestWriteCompletion(t *testing.T) {
	root := &cobra.Command{Use: "livetap"}
	root.AddCommand(&cobra.Command{Use: "watch", Run: func(*cobra.Command, []string) {}})

	tests := []struct {
		shell string
		want  string
	}{
		{"bash", "__start_livetap"},
		{"zsh", "#compdef livetap"},
		{"fish", "complete -c livetap"},
		{"powershell", "Register-ArgumentCompleter"},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeCompletion(root, &buf, tt.shell))
			assert.Contains(t, buf.String(), tt.want)
		})
	}

	assert.Error(t, writeCompletion(root, &bytes.Buffer{}, "tcsh"))
}

func TestErrorToJSON(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"config", errors.New(errors.ErrConfig, "bad", ""), ErrCodeConfigInvalid},
		{"range", errors.New(errors.ErrRange, "too long", ""), ErrCodeRangeInvalid},
		{"stream", errors.New(errors.ErrStream, "gave up", ""), ErrCodeStreamFailed},
		{"capture", errors.New(errors.ErrCapture, "corrupt", ""), ErrCodeCaptureFailed},
		{"not found", &errors.Error{Code: errors.ErrAPI, Message: "404", Cause: &api.StatusError{Code: 404}}, ErrCodeNotFound},
		{"server error", &errors.Error{Code: errors.ErrAPI, Message: "500", Cause: &api.StatusError{Code: 500}}, ErrCodeBackendError},
		{"plain error", stderrors.New("boom"), ErrCodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorToJSON(tt.err).Code)
		})
	}
	assert.Nil(t, ErrorToJSON(nil))
}

func TestWriteJSONFromError(t *testing.T) {
	var buf bytes.Buffer
	err := &errors.Error{Code: errors.ErrAPI, Message: "GET /apps returned HTTP 404", Suggestion: "check", Cause: &api.StatusError{Code: 404, Body: "nope"}}
	require.NoError(t, WriteJSONFromError(&buf, err))

	var env JSONEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, ErrCodeNotFound, env.Error.Code)
	assert.Equal(t, "check", env.Error.Suggestion)
	details, ok := env.Error.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(404), details["status"])
}

func TestParseDurationFlag(t *testing.T) {
	d, err := ParseDurationFlag("since", "")
	require.NoError(t, err)
	assert.Zero(t, d)

	d, err = ParseDurationFlag("since", "90m")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d)

	for _, bad := range []string{"soon", "-5m", "0s"} {
		_, err := ParseDurationFlag("since", bad)
		assert.True(t, errors.IsCode(err, errors.ErrConfig), bad)
	}
}

func TestTimeRangeFlags_Resolve(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		flags     TimeRangeFlags
		wantStart time.Time
		wantEnd   time.Time
		wantErr   bool
	}{
		{name: "fallback", wantStart: now.Add(-time.Hour), wantEnd: now},
		{name: "since", flags: TimeRangeFlags{Since: "6h"}, wantStart: now.Add(-6 * time.Hour), wantEnd: now},
		{
			name:      "absolute",
			flags:     TimeRangeFlags{Start: "2024-05-01T00:00:00Z", End: "2024-05-01T06:00:00Z"},
			wantStart: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC),
		},
		{name: "since with end", flags: TimeRangeFlags{Since: "1h", End: "2024-05-01T06:00:00Z"}, wantStart: time.Date(2024, 5, 1, 5, 0, 0, 0, time.UTC), wantEnd: time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)},
		{name: "since and start", flags: TimeRangeFlags{Since: "1h", Start: "2024-05-01T00:00:00Z"}, wantErr: true},
		{name: "bad start", flags: TimeRangeFlags{Start: "yesterday"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := tt.flags.Resolve(now, time.Hour)
			if tt.wantErr {
				assert.True(t, errors.IsCode(err, errors.ErrConfig))
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.wantStart.Equal(start), "start %s", start)
			assert.True(t, tt.wantEnd.Equal(end), "end %s", end)
		})
	}
}
