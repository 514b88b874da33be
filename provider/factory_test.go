package provider

import (
	"fmt"
	"strings"
	"testing"

	"apibridge/config"
)

func TestBuildHandler(t *testing.T) {
	tests := []struct {
		name        string
		config      config.ApiConfiguration
		expectError bool
		wantType    string
	}{
		{
			name:     "unset provider defaults to anythingllm",
			config:   config.ApiConfiguration{},
			wantType: "*provider.AnythingLLMHandler",
		},
		{
			name:     "empty provider defaults to anythingllm",
			config:   config.ApiConfiguration{APIProvider: config.String("")},
			wantType: "*provider.AnythingLLMHandler",
		},
		{
			name:     "anythingllm is case insensitive",
			config:   config.ApiConfiguration{APIProvider: config.String("AnythingLLM")},
			wantType: "*provider.AnythingLLMHandler",
		},
		{
			name: "openai provider",
			config: config.ApiConfiguration{
				APIProvider:  config.String("openai"),
				OpenAiAPIKey: config.String("test-key"),
			},
			wantType: "*provider.OpenAIHandler",
		},
		{
			name:        "openai provider without key",
			config:      config.ApiConfiguration{APIProvider: config.String("openai")},
			expectError: true,
		},
		{
			name:     "ollama provider with defaults",
			config:   config.ApiConfiguration{APIProvider: config.String("ollama")},
			wantType: "*provider.OllamaHandler",
		},
		{
			name: "anthropic provider",
			config: config.ApiConfiguration{
				APIProvider: config.String("anthropic"),
				APIKey:      config.String("test-key"),
			},
			wantType: "*provider.AnthropicHandler",
		},
		{
			name:        "anthropic provider without key",
			config:      config.ApiConfiguration{APIProvider: config.String("anthropic")},
			expectError: true,
		},
		{
			name:        "unknown provider type",
			config:      config.ApiConfiguration{APIProvider: config.String("bedrock")},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := BuildHandler(tt.config)

			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				if h != nil {
					t.Errorf("expected nil handler on error, got %T", h)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := fmt.Sprintf("%T", h); got != tt.wantType {
				t.Errorf("handler type = %s, want %s", got, tt.wantType)
			}
		})
	}
}

func TestBuildHandler_UnknownMessage(t *testing.T) {
	_, err := BuildHandler(config.ApiConfiguration{APIProvider: config.String("bedrock")})
	if err == nil || !strings.Contains(err.Error(), "unknown provider type: bedrock") {
		t.Errorf("error = %v", err)
	}
}

func TestSupportedProviderTypes(t *testing.T) {
	for _, pt := range SupportedProviderTypes() {
		cfg := config.ApiConfiguration{
			APIProvider:  config.String(string(pt)),
			APIKey:       config.String("k"),
			OpenAiAPIKey: config.String("k"),
		}
		if _, err := BuildHandler(cfg); err != nil {
			t.Errorf("BuildHandler(%s) error = %v", pt, err)
		}
	}
}
