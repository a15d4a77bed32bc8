package cli

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/livetap/internal/errors"
)

// ParseDurationFlag parses a duration flag value. An empty value is zero.
func ParseDurationFlag(name, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid --%s", value, name),
			"Try something like 500ms, 30s, 15m or 2h.")
	}
	return d, nil
}

// parseTimeFlag accepts RFC3339 or "2006-01-02 15:04" in local time.
func parseTimeFlag(name, value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", value, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, errors.New(errors.ErrConfig,
		fmt.Sprintf("'%s' doesn't look like a valid --%s time", value, name),
		"Use RFC3339 (2024-05-01T12:00:00Z) or '2024-05-01 12:00'.")
}

// TimeRangeFlags selects a historical window either relative to now
// (--since) or absolutely (--start/--end).
type TimeRangeFlags struct {
	Since string
	Start string
	End   string
}

// Resolve turns the flags into [start, end]. With no flags it covers the
// last fallback.
func (f TimeRangeFlags) Resolve(now time.Time, fallback time.Duration) (time.Time, time.Time, error) {
	if f.Since != "" && f.Start != "" {
		return time.Time{}, time.Time{}, errors.New(errors.ErrConfig,
			"--since and --start can't be used together",
			"Use --since for a relative window, or --start/--end for an absolute one.")
	}

	end := now
	if f.End != "" {
		t, err := parseTimeFlag("end", f.End)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = t
	}

	if f.Start != "" {
		start, err := parseTimeFlag("start", f.Start)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return start, end, nil
	}

	span := fallback
	if f.Since != "" {
		d, err := ParseDurationFlag("since", f.Since)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		span = d
	}
	return end.Add(-span), end, nil
}
