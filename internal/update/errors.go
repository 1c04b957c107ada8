package update

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPError is returned for non-2xx responses from the update server.
// It supports errors.Is matching by status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

// Error returns the formatted error string.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("update: HTTP %d: %s", e.StatusCode, e.Message)
}

// Is supports errors.Is matching by status code.
// ErrServer (500) matches any 5xx status code.
func (e *HTTPError) Is(target error) bool {
	t, ok := target.(*HTTPError)
	if !ok {
		return false
	}
	if t.StatusCode == 500 && e.StatusCode >= 500 && e.StatusCode < 600 {
		return true
	}
	return e.StatusCode == t.StatusCode
}

// Sentinel errors for common HTTP error status codes.
var (
	ErrNotFound  = &HTTPError{StatusCode: 404, Message: "not found"}
	ErrForbidden = &HTTPError{StatusCode: 403, Message: "forbidden"}
	ErrServer    = &HTTPError{StatusCode: 500, Message: "server error"}
)

// maxErrorBody is the maximum number of bytes read from an error response body.
const maxErrorBody = 4096

func errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &HTTPError{
		StatusCode: resp.StatusCode,
		Message:    msg,
	}
}
