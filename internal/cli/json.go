package cli

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net"
	"net/http"

	"github.com/rileyhilliard/livetap/internal/api"
	"github.com/rileyhilliard/livetap/internal/errors"
)

// JSONEnvelope wraps command output in a consistent structure for machine parsing.
// All --json output should use this envelope.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

// Error codes for machine-readable output.
const (
	ErrCodeConfigInvalid = "CONFIG_INVALID"
	ErrCodeRangeInvalid  = "RANGE_INVALID"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeBackendError  = "BACKEND_ERROR"
	ErrCodeUnreachable   = "BACKEND_UNREACHABLE"
	ErrCodeStreamFailed  = "STREAM_FAILED"
	ErrCodeCaptureFailed = "CAPTURE_FAILED"
	ErrCodeUnknown       = "UNKNOWN"
)

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	return writeJSONEnvelope(w, JSONEnvelope{Success: true, Data: data})
}

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	return writeJSONEnvelope(w, JSONEnvelope{Success: false, Error: ErrorToJSON(err)})
}

func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON converts a Go error to a JSONError with appropriate code mapping.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	var status *api.StatusError
	hasStatus := stderrors.As(err, &status)
	var netErr net.Error
	unreachable := stderrors.As(err, &netErr)

	var lerr *errors.Error
	if !stderrors.As(err, &lerr) {
		return &JSONError{Code: ErrCodeUnknown, Message: err.Error()}
	}

	out := &JSONError{
		Code:       mapErrorCode(lerr.Code, status, unreachable),
		Message:    lerr.Message,
		Suggestion: lerr.Suggestion,
	}
	if hasStatus {
		out.Details = map[string]interface{}{"status": status.Code, "body": status.Body}
	}
	return out
}

func mapErrorCode(code string, status *api.StatusError, unreachable bool) string {
	switch code {
	case errors.ErrConfig:
		return ErrCodeConfigInvalid
	case errors.ErrRange:
		return ErrCodeRangeInvalid
	case errors.ErrStream:
		return ErrCodeStreamFailed
	case errors.ErrCapture:
		return ErrCodeCaptureFailed
	case errors.ErrAPI:
		switch {
		case unreachable:
			return ErrCodeUnreachable
		case status != nil && status.Code == http.StatusNotFound:
			return ErrCodeNotFound
		default:
			return ErrCodeBackendError
		}
	}
	return ErrCodeUnknown
}
