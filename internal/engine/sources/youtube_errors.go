package sources

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/anatolykoptev/go_playlist/internal/engine"
)

// UpstreamError is a failed YouTube Data API call.
// Status is the HTTP status code, or 0 when no usable response arrived
// (transport failure, timeout, undecodable body).
type UpstreamError struct {
	Endpoint string
	Status   int
	Reason   string // Google error reason, e.g. "quotaExceeded", "playlistNotFound"
	Message  string
	Err      error
}

func (e *UpstreamError) Error() string {
	var b strings.Builder
	b.WriteString("youtube ")
	b.WriteString(e.Endpoint)
	if e.Status > 0 {
		fmt.Fprintf(&b, " %d", e.Status)
	}
	if e.Reason != "" {
		b.WriteString(" ")
		b.WriteString(e.Reason)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil && e.Message == "" {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// googleErrorEnvelope is the error body returned by Google APIs.
type googleErrorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason  string `json:"reason"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}

// maxErrorMessage bounds how much of an upstream error body ends up in logs and responses.
const maxErrorMessage = 300

// parseUpstreamError reads a non-200 response into an UpstreamError.
func parseUpstreamError(endpoint string, resp *http.Response) *UpstreamError {
	ue := &UpstreamError{Endpoint: endpoint, Status: resp.StatusCode}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8*1024))
	var env googleErrorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Message != "" {
		ue.Message = env.Error.Message
		if len(env.Error.Errors) > 0 {
			ue.Reason = env.Error.Errors[0].Reason
		}
	} else {
		ue.Message = strings.TrimSpace(string(body))
	}
	if ue.Message == "" {
		ue.Message = http.StatusText(resp.StatusCode)
	}
	ue.Message = engine.TruncateRunes(ue.Message, maxErrorMessage, "...")
	return ue
}

// transportError converts a RetryHTTP failure into an UpstreamError.
// Retryable statuses that never cleared keep their status code.
func transportError(endpoint string, err error) *UpstreamError {
	var statusErr *engine.HTTPStatusError
	if errors.As(err, &statusErr) {
		return &UpstreamError{
			Endpoint: endpoint,
			Status:   statusErr.StatusCode,
			Message:  http.StatusText(statusErr.StatusCode),
			Err:      err,
		}
	}
	return &UpstreamError{Endpoint: endpoint, Err: err}
}
