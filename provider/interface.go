// Package provider implements model.Handler for each supported LLM backend.
//
// Every handler turns a provider-agnostic conversation ([]model.Message plus a
// system prompt) into its backend's wire format and relays the response as a
// model.Stream of chunks. Handlers are immutable after construction and can be
// shared between goroutines.
//
// # Handlers
//
//   - AnythingLLMHandler: local AnythingLLM server through its OpenAI-compatible
//     endpoint. Any failure surfaces as ErrAnythingLLM.
//   - OpenAIHandler: any OpenAI-compatible endpoint (OpenAI, LM Studio, vLLM).
//   - OllamaHandler: local Ollama server via the native API.
//   - AnthropicHandler: Anthropic Messages API.
//
// BuildHandler picks one from a config.ApiConfiguration.
//
// # Usage
//
//	h, err := provider.BuildHandler(cfg.API)
//	if err != nil {
//	    // handle error
//	}
//	for chunk, err := range h.CreateMessage(ctx, systemPrompt, messages) {
//	    if err != nil {
//	        // handle error
//	    }
//	    fmt.Print(chunk.Text)
//	}
package provider

// ProviderType identifies the handler implementation.
type ProviderType string

const (
	ProviderTypeAnythingLLM ProviderType = "anythingllm"
	ProviderTypeOpenAI      ProviderType = "openai"
	ProviderTypeOllama      ProviderType = "ollama"
	ProviderTypeAnthropic   ProviderType = "anthropic"
)

// DefaultProviderType is used when the configuration names no provider.
const DefaultProviderType = ProviderTypeAnythingLLM

// SupportedProviderTypes lists every type BuildHandler accepts.
func SupportedProviderTypes() []ProviderType {
	return []ProviderType{
		ProviderTypeAnythingLLM,
		ProviderTypeOpenAI,
		ProviderTypeOllama,
		ProviderTypeAnthropic,
	}
}
