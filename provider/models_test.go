package provider

import (
	"context"
	"errors"
	"testing"

	"apibridge/config"
	"apibridge/provider/testutil"
)

func TestMatchModel(t *testing.T) {
	models := []string{"llama3.1:latest", "llama3.2:latest", "qwen2.5-coder:7b"}

	tests := []struct {
		name        string
		query       string
		want        string
		expectError bool
	}{
		{name: "exact match", query: "llama3.2:latest", want: "llama3.2:latest"},
		{name: "fuzzy match", query: "coder", want: "qwen2.5-coder:7b"},
		{name: "no match", query: "gemma", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatchModel(tt.query, models)
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("MatchModel(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestListModels(t *testing.T) {
	mock := testutil.NewMockHandler("mock-model")
	got, err := ListModels(context.Background(), mock)
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if len(got) != 1 || got[0] != "mock-model" {
		t.Errorf("ListModels() = %v", got)
	}

	mock.ListModelsFunc = func(ctx context.Context) ([]string, error) {
		return nil, errors.New("offline")
	}
	if _, err := ListModels(context.Background(), mock); err == nil {
		t.Error("expected error from lister")
	}
}

func TestListModels_Unsupported(t *testing.T) {
	h, err := NewAnthropicHandler(config.ApiConfiguration{APIKey: config.String("k")})
	if err != nil {
		t.Fatalf("NewAnthropicHandler() error = %v", err)
	}
	if _, err := ListModels(context.Background(), h); err == nil {
		t.Error("expected error for handler without model listing")
	}
}
