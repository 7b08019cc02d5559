package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// Code classifies an error for the HTTP layer.
type Code string

const (
	CodeValidation       Code = "VALIDATION_ERROR"
	CodeNotFound         Code = "NOT_FOUND"
	CodeRateLimit        Code = "RATE_LIMIT_EXCEEDED"
	CodeUnsupportedMedia Code = "UNSUPPORTED_MEDIA_TYPE"
	CodeUpstream         Code = "UPSTREAM_ERROR"
	CodeInternal         Code = "INTERNAL_ERROR"
	CodeDependency       Code = "DEPENDENCY_ERROR"
)

// Metadata describes how a code is rendered to clients. When ExposeMessage
// is false the caller's message stays in the logs and Fallback is sent.
type Metadata struct {
	HTTPStatus    int
	Fallback      string
	ExposeMessage bool
	ExposeDetails bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:       {http.StatusBadRequest, "validation failed", true, true},
	CodeNotFound:         {http.StatusNotFound, "resource not found", true, false},
	CodeRateLimit:        {http.StatusTooManyRequests, "rate limit exceeded", true, false},
	CodeUnsupportedMedia: {http.StatusUnsupportedMediaType, "unsupported media type", true, true},
	CodeUpstream:         {http.StatusBadGateway, "upstream request failed", true, false},
	CodeInternal:         {http.StatusInternalServerError, "internal server error", false, false},
	CodeDependency:       {http.StatusServiceUnavailable, "dependency unavailable", false, true},
}

// MetadataFor returns the rendering rules for code. Unknown codes render as
// internal errors.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// Error is a coded error with an optional cause, details payload and
// status override.
type Error struct {
	code    Code
	message string
	details any
	status  int
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

// PublicMessage is the message safe to show a client.
func (e *Error) PublicMessage() string {
	meta := MetadataFor(e.Code())
	if meta.ExposeMessage && e.Message() != "" {
		return e.message
	}
	return meta.Fallback
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

// PublicDetails returns the details only for codes that expose them.
func (e *Error) PublicDetails() any {
	if !MetadataFor(e.Code()).ExposeDetails {
		return nil
	}
	return e.Details()
}

func (e *Error) WithDetails(details any) *Error {
	if e != nil {
		e.details = details
	}
	return e
}

// WithStatus overrides the status derived from the code, e.g. to pass an
// upstream 404 through. Values outside 400..599 are ignored.
func (e *Error) WithStatus(status int) *Error {
	if e != nil {
		e.status = status
	}
	return e
}

func (e *Error) HTTPStatus() int {
	if e == nil {
		return http.StatusInternalServerError
	}
	if e.status >= 400 && e.status <= 599 {
		return e.status
	}
	return MetadataFor(e.code).HTTPStatus
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil && e.message == "" {
		return fmt.Sprintf("%s: %v", e.code, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As finds the outermost *Error in err's chain, or nil.
func As(err error) *Error {
	var typed *Error
	if err != nil && stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// StatusOf is the status an HTTP handler should answer err with. Untyped
// errors are 500.
func StatusOf(err error) int {
	return As(err).HTTPStatus()
}
