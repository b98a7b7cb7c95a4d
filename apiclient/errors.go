package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var (
	ErrRequestFailed     = errors.New("apiclient: request failed")
	ErrAuthFailed        = errors.New("apiclient: authentication failed")
	ErrDecodeResponse    = errors.New("apiclient: failed to decode response")
	ErrUnsupportedMethod = errors.New("apiclient: unsupported method")
	ErrRateLimitWait     = errors.New("apiclient: rate limiter wait failed")

	ErrBadRequest           = errors.New("apiclient: bad request")
	ErrNotAuthorized        = errors.New("apiclient: not authorized")
	ErrNotFound             = errors.New("apiclient: not found")
	ErrThrottleLimitReached = errors.New("apiclient: throttle limit reached")
	ErrInternalError        = errors.New("apiclient: internal error")
)

const (
	notFoundMessage = "Resource Not Found"

	fieldValidationErrors = "validationErrors"
	fieldErrorDescription = "error_description"
	fieldThrottleError    = "error"
)

type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindBadRequest
	KindNotAuthorized
	KindNotFound
	KindThrottleLimitReached
	KindInternalError
)

func (k ErrorKind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindNotAuthorized:
		return "not_authorized"
	case KindNotFound:
		return "not_found"
	case KindThrottleLimitReached:
		return "throttle_limit_reached"
	case KindInternalError:
		return "internal_error"
	case KindUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindBadRequest:
		return ErrBadRequest
	case KindNotAuthorized:
		return ErrNotAuthorized
	case KindNotFound:
		return ErrNotFound
	case KindThrottleLimitReached:
		return ErrThrottleLimitReached
	case KindInternalError, KindUnknown:
		return ErrInternalError
	default:
		return ErrInternalError
	}
}

// Error is a non-2xx answer from the Help Scout API. Payload holds the body
// field selected for the kind (validationErrors, error_description or error)
// or the raw body for internal errors. RetryAfter is only set for throttling.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Payload    any
	RetryAfter int
	RequestID  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("apiclient: %s (status %d): %s", e.Kind, e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind.sentinel()
}

func (e *Error) RetryAfterDuration() time.Duration {
	return time.Duration(e.RetryAfter) * time.Second
}

func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	return nil, false
}

// KindOf returns the kind of an API error, or KindUnknown for anything else.
func KindOf(err error) ErrorKind {
	if apiErr, ok := AsError(err); ok {
		return apiErr.Kind
	}

	return KindUnknown
}

func newError(statusCode int, header http.Header, body map[string]any, rawBody []byte, requestID string) *Error {
	apiErr := &Error{
		Kind:       KindInternalError,
		StatusCode: statusCode,
		Message:    "",
		Payload:    nil,
		RetryAfter: 0,
		RequestID:  requestID,
	}

	switch statusCode {
	case http.StatusBadRequest:
		apiErr.Kind = KindBadRequest
		apiErr.Payload = body[fieldValidationErrors]
	case http.StatusUnauthorized:
		apiErr.Kind = KindNotAuthorized
		apiErr.Payload = body[fieldErrorDescription]
	case http.StatusNotFound:
		apiErr.Kind = KindNotFound
		apiErr.Message = notFoundMessage
	case http.StatusTooManyRequests:
		apiErr.Kind = KindThrottleLimitReached
		apiErr.Payload = body[fieldThrottleError]
		apiErr.RetryAfter = parseRetryAfter(header.Get(HeaderRateLimitRetryAfter))
	default:
		apiErr.Payload = string(rawBody)
	}

	if apiErr.Message == "" {
		apiErr.Message = payloadMessage(apiErr.Payload, statusCode)
	}

	return apiErr
}

// parseRetryAfter reads the throttle reset delay in seconds. Missing,
// malformed or negative values yield 0.
func parseRetryAfter(value string) int {
	seconds, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || seconds < 0 {
		return 0
	}

	return seconds
}

func payloadMessage(payload any, statusCode int) string {
	switch value := payload.(type) {
	case nil:
		return http.StatusText(statusCode)
	case string:
		if value == "" {
			return http.StatusText(statusCode)
		}

		return value
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}

		return string(data)
	}
}
