package cli

import (
	"net/http"
	"time"

	"github.com/rileyhilliard/livetap/internal/api"
	"github.com/rileyhilliard/livetap/internal/capture"
	"github.com/rileyhilliard/livetap/internal/config"
	"github.com/rileyhilliard/livetap/internal/endpoint"
	"github.com/rileyhilliard/livetap/internal/logger"
	"github.com/rileyhilliard/livetap/internal/stream"
)

// apiTimeout bounds each REST call.
const apiTimeout = 15 * time.Second

// newClient builds the REST client from config.
func newClient(cfg *config.Config) (*api.Client, error) {
	return api.New(cfg.APIBaseURL,
		api.WithHTTPClient(&http.Client{Timeout: apiTimeout}),
		api.WithMaxSpan(cfg.History.MaxSpan),
		api.WithLogger(logger.NewEnvLogger("[api]")),
	)
}

// newEndpoints builds the stream URL builder from config.
func newEndpoints(cfg *config.Config) (*endpoint.Builder, error) {
	return endpoint.New(cfg.WSBaseURL)
}

// streamOptions turns config into subscription options. The returned
// close func flushes the capture file, if any.
func streamOptions(cfg *config.Config, log logger.Logger) ([]stream.Option, func() error, error) {
	dialer := stream.NewWebSocketDialer(stream.WebSocketOptions{
		HandshakeTimeout: cfg.Stream.HandshakeTimeout,
		ReadTimeout:      cfg.Stream.ReadTimeout,
		Header:           http.Header{"User-Agent": []string{"livetap/" + version}},
	})

	recorders := []capture.Recorder{capture.NewLoggerAdapter(log)}
	closeFn := func() error { return nil }
	if cfg.Capture.Path != "" {
		fr, err := capture.NewFileRecorder(cfg.Capture.Path, capture.FileOptions{Payloads: cfg.Capture.Payloads})
		if err != nil {
			return nil, nil, err
		}
		recorders = append(recorders, fr)
		closeFn = fr.Close
	}

	opts := []stream.Option{
		stream.WithDialer(dialer),
		stream.WithReconnectPolicy(stream.ReconnectPolicy{
			Delay:       cfg.Stream.ReconnectDelay,
			MaxAttempts: cfg.Stream.MaxReconnects,
		}),
		stream.WithLogger(log),
		stream.WithLogLines(cfg.Stream.LogLines),
		stream.WithRecorder(capture.NewMulti(recorders...)),
	}
	return opts, closeFn, nil
}
