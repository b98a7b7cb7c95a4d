package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// JSONBody decodes the recorded request body into a generic map.
func (r RecordedRequest) JSONBody(t *testing.T) map[string]any {
	t.Helper()

	var body map[string]any

	err := json.Unmarshal(r.Body, &body)
	require.NoError(t, err, "Request body should be valid JSON")

	return body
}

// FormBody parses the recorded request body as URL-encoded form data.
func (r RecordedRequest) FormBody(t *testing.T) url.Values {
	t.Helper()

	values, err := url.ParseQuery(string(r.Body))
	require.NoError(t, err, "Request body should be valid form data")

	return values
}

type ScriptedResponse struct {
	Status int
	Header map[string]string
	Body   string
}

func JSONResponse(t *testing.T, status int, body any) ScriptedResponse {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	return ScriptedResponse{
		Status: status,
		Header: map[string]string{"Content-Type": "application/json"},
		Body:   string(data),
	}
}

func TextResponse(status int, body string) ScriptedResponse {
	return ScriptedResponse{
		Status: status,
		Header: map[string]string{"Content-Type": "text/plain"},
		Body:   body,
	}
}

// ScriptedServer answers requests with the scripted responses in order and
// keeps repeating the last one once the script runs out.
type ScriptedServer struct {
	*httptest.Server

	mu        sync.Mutex
	responses []ScriptedResponse
	requests  []RecordedRequest
}

func NewScriptedServer(t *testing.T, responses ...ScriptedResponse) *ScriptedServer {
	t.Helper()

	require.NotEmpty(t, responses, "ScriptedServer needs at least one response")

	server := &ScriptedServer{
		Server:    nil,
		mu:        sync.Mutex{},
		responses: responses,
		requests:  nil,
	}

	server.Server = httptest.NewServer(http.HandlerFunc(server.serve))
	t.Cleanup(server.Close)

	return server
}

func (s *ScriptedServer) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	idx := min(len(s.requests), len(s.responses)-1)
	resp := s.responses[idx]
	s.requests = append(s.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})
	s.mu.Unlock()

	for k, v := range resp.Header {
		w.Header().Set(k, v)
	}

	w.WriteHeader(resp.Status)
	_, _ = io.WriteString(w, resp.Body)
}

func (s *ScriptedServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]RecordedRequest(nil), s.requests...)
}

func (s *ScriptedServer) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.requests)
}

func (s *ScriptedServer) LastRequest(t *testing.T) RecordedRequest {
	t.Helper()

	requests := s.Requests()
	require.NotEmpty(t, requests, "ScriptedServer received no requests")

	return requests[len(requests)-1]
}
