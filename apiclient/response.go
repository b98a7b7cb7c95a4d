package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response wraps a 2xx answer. Body is the decoded JSON object, or nil when
// the body is empty or not an object; RawBody always holds the bytes.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       map[string]any
	RawBody    []byte
	RequestID  string
}

func (r *Response) Decode(target any) error {
	if len(r.RawBody) == 0 {
		return nil
	}

	if err := json.Unmarshal(r.RawBody, target); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeResponse, err)
	}

	return nil
}

// ResourceID is the id Help Scout assigns to a resource created by POST.
func (r *Response) ResourceID() string {
	return r.Headers.Get(HeaderResourceID)
}

func (r *Response) Location() string {
	return r.Headers.Get(HeaderLocation)
}

func parseBody(rawBody []byte) map[string]any {
	if len(rawBody) == 0 {
		return nil
	}

	var body map[string]any
	if err := json.Unmarshal(rawBody, &body); err != nil {
		return nil
	}

	return body
}
