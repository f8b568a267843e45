package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Error is a non-2xx response from the pipeline service.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	// Servers are expected to send {detail}, but its absence must not
	// produce a malformed message.
	return fmt.Sprintf("request failed: %s", http.StatusText(e.StatusCode))
}

// decodeError drains the body of a failed response and extracts the
// {detail} envelope when present.
func decodeError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apiErr
	}
	var envelope struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Detail = envelope.Detail
	}
	return apiErr
}
