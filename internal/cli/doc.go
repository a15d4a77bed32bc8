// Package cli implements the livetap command-line interface.
//
// Each cobra command is a thin shell: it parses flags, resolves config and
// hands off to a function that takes its dependencies explicitly (an
// io.Writer, a *config.Config, an *api.Client). Tests call those functions
// directly against httptest servers.
//
// # Command Structure
//
//	livetap watch system|service ID|container NAME  - live telemetry
//	livetap tail SERVICE                            - live log tail
//	livetap alerts [--app ID | --container NAME]    - live alert feed
//	livetap stats KIND ID [--since 1h]              - historical stats
//	livetap timeline KIND ID [--since 24h]          - running/stopped spans
//	livetap apps | containers                       - list workloads
//	livetap control KIND ID start|stop|restart      - control a workload
//	livetap capture show FILE                       - print a stream trace
//	livetap init | config set KEY VALUE             - manage config
//
// Live commands open a full-screen view when stdout is a terminal and fall
// back to one line per update otherwise (or with --plain).
//
// # Flag Handling
//
// Global flags (--config, --no-color, --verbose, --capture) are defined on
// the root command. NO_COLOR in the environment has the same effect as --no-color.
package cli
