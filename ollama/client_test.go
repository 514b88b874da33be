package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ollama/ollama/api"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name        string
		baseURL     string
		wantURL     string
		expectError bool
	}{
		{name: "default", baseURL: "", wantURL: DefaultBaseURL},
		{name: "custom", baseURL: "http://gpu-box:11434", wantURL: "http://gpu-box:11434"},
		{name: "missing scheme", baseURL: "gpu-box", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.baseURL)
			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.BaseURL() != tt.wantURL {
				t.Errorf("BaseURL() = %q, want %q", c.BaseURL(), tt.wantURL)
			}
		})
	}
}

func TestClient_Generate(t *testing.T) {
	var got api.ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":   "llama3.1",
			"message": map[string]any{"role": "assistant", "content": "4"},
			"done":    true,
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	reply, err := c.Generate(context.Background(), "llama3.1", []api.Message{{Role: "user", Content: "2+2?"}})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if reply != "4" {
		t.Errorf("Generate() = %q, want 4", reply)
	}
	if got.Stream == nil || *got.Stream {
		t.Errorf("request stream = %v, want false", got.Stream)
	}
	if temp, _ := got.Options["temperature"].(float64); temp != 0 {
		t.Errorf("temperature = %v, want 0", got.Options["temperature"])
	}
}

func TestClient_Ping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}

	srv.Close()
	if err := c.Ping(context.Background()); err == nil {
		t.Error("Ping() against closed server should fail")
	}
}
