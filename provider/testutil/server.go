package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// RecordedRequest is what a fake backend saw for one request.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	Body          map[string]any
}

// Recorder collects the requests made to a fake backend.
type Recorder struct {
	mu       sync.Mutex
	requests []RecordedRequest
}

func (r *Recorder) Requests() []RecordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RecordedRequest(nil), r.requests...)
}

// Last returns the most recent request; it fails the test if there is none.
func (r *Recorder) Last(t testing.TB) RecordedRequest {
	t.Helper()
	reqs := r.Requests()
	if len(reqs) == 0 {
		t.Fatal("backend received no requests")
	}
	return reqs[len(reqs)-1]
}

// NewServer starts a fake backend that records every request (JSON bodies are
// decoded) before passing it to handler. The server is closed on cleanup.
func NewServer(t testing.TB, handler http.HandlerFunc) (*httptest.Server, *Recorder) {
	t.Helper()
	rec := &Recorder{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorded := RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
		}
		if data, err := io.ReadAll(r.Body); err == nil && len(data) > 0 {
			_ = json.Unmarshal(data, &recorded.Body)
		}

		rec.mu.Lock()
		rec.requests = append(rec.requests, recorded)
		rec.mu.Unlock()

		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return srv, rec
}

// ChatChunk returns an OpenAI chat.completion.chunk carrying one content delta.
func ChatChunk(content string) string {
	chunk := map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion.chunk",
		"created": 1700000000,
		"model":   "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"delta":         map[string]any{"content": content},
			"finish_reason": nil,
		}},
	}
	data, _ := json.Marshal(chunk)
	return string(data)
}

// RoleChunk returns the opening chunk most servers send: a role and no content.
func RoleChunk() string {
	return `{"id":"chatcmpl-test","object":"chat.completion.chunk","created":1700000000,"model":"test-model","choices":[{"index":0,"delta":{"role":"assistant"},"finish_reason":null}]}`
}

// WriteSSE writes each event as an SSE data line, flushing after each, and
// terminates with [DONE].
func WriteSSE(w http.ResponseWriter, events ...string) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)

	for _, event := range events {
		fmt.Fprintf(w, "data: %s\n\n", event)
		if flusher != nil {
			flusher.Flush()
		}
	}
	fmt.Fprint(w, "data: [DONE]\n\n")
}

// WriteCompletion writes a non-streaming chat.completion. A nil content is
// encoded as JSON null.
func WriteCompletion(w http.ResponseWriter, content *string) {
	resp := map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "test-model",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// WriteJSON writes v as a JSON response.
func WriteJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// WriteNDJSON writes one JSON document per line, as Ollama streams.
func WriteNDJSON(w http.ResponseWriter, lines ...any) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	for _, line := range lines {
		_ = enc.Encode(line)
	}
}
