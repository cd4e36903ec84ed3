package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized       = errors.New("authentication required")
	ErrRequestFailed      = errors.New("request failed")
	ErrParseFailure       = errors.New("unable to parse server response")
	ErrUnrecognizedShape  = errors.New("unrecognized response shape")
	ErrValidation         = errors.New("validation failed")
	ErrUnsupported        = errors.New("operation not supported by resource")
	ErrUnavailable        = errors.New("server unavailable")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptyData          = errors.New("data is empty")
)

// Messages shown to operators for the well-known failure classes.
const (
	MsgAuthRequired = "Authentication required"
	MsgParseFailure = "Unable to parse server response"
	MsgUnavailable  = "Server unavailable"
)

// RequestFailedError is returned when the remote API answers with a non-2xx
// status. ServerMessage holds the "message" field of the error body, if any.
type RequestFailedError struct {
	Status        int
	StatusText    string
	ServerMessage string
}

func (e *RequestFailedError) Error() string {
	if e.ServerMessage != "" {
		return e.ServerMessage
	}
	text := e.StatusText
	if text == "" {
		text = http.StatusText(e.Status)
	}
	return fmt.Sprintf("Request failed: %d %s", e.Status, text)
}

func (e *RequestFailedError) Unwrap() error { return ErrRequestFailed }

// Transient reports whether retrying the request later could succeed.
func (e *RequestFailedError) Transient() bool {
	return e.Status >= http.StatusInternalServerError || e.Status == http.StatusTooManyRequests
}

// ValidationError carries the joined field messages of a rejected payload.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ParseError wraps a decoding failure of a response body.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Reason == "" {
		return MsgParseFailure
	}
	return MsgParseFailure + ": " + e.Reason
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParseFailure}
	}
	return []error{ErrParseFailure, e.Err}
}

// Message turns err into the text stored in a store error state and shown in
// notifications. Unknown causes are replaced by fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var rf *RequestFailedError
	if errors.As(err, &rf) {
		return rf.Error()
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return MsgAuthRequired
	case errors.Is(err, ErrParseFailure):
		return MsgParseFailure
	case errors.Is(err, ErrUnavailable):
		return MsgUnavailable
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password"
	}
	return fallback
}

// IsNotFound reports whether err is a 404 answer from the remote API.
func IsNotFound(err error) bool {
	var rf *RequestFailedError
	return errors.As(err, &rf) && rf.Status == http.StatusNotFound
}
