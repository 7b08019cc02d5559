package carms

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// ErrNotConfigured is returned when a request is attempted without a base URL.
var ErrNotConfigured = errors.New("carms base url is not configured")

// RequestError reports a non-2xx response from the inventory API.
type RequestError struct {
	Status     int
	StatusText string
	// Body is the response body when it could be read.
	Body string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("CARMS request failed: %d %s", e.Status, e.StatusText)
}

// NotFound reports whether the API answered 404.
func (e *RequestError) NotFound() bool {
	return e != nil && e.Status == http.StatusNotFound
}

// APIError is an envelope that came back with success set to false.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func newAPIError(errMsg, code string) *APIError {
	switch {
	case errMsg != "":
		return &APIError{Message: errMsg}
	case code != "":
		return &APIError{Message: code}
	default:
		return &APIError{Message: "Unknown CARMS API error"}
	}
}

// IsNotFound reports whether err carries a 404 from the inventory API.
func IsNotFound(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.NotFound()
}

// Message renders err for the advisory text of an inventory result: the error
// message, followed by the captured response body when there is one.
func Message(err error) string {
	if err == nil {
		return "Unexpected CARMS error"
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Body != "" {
		return fmt.Sprintf("%s - %s", err.Error(), reqErr.Body)
	}
	return err.Error()
}

// statusText returns the reason phrase the server sent, or the standard one.
func statusText(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, code)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
