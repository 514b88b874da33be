package config

// ApiConfiguration holds the user's provider selection, endpoints and
// credentials. Every field is optional: a nil pointer means "not configured",
// which is distinct from a configured empty string.
type ApiConfiguration struct {
	APIProvider *string `toml:"api_provider"`
	APIModelID  *string `toml:"api_model_id"`

	// Anthropic
	APIKey           *string `toml:"api_key"`
	AnthropicBaseURL *string `toml:"anthropic_base_url"`

	GlamaAPIKey      *string `toml:"glama_api_key"`
	OpenRouterAPIKey *string `toml:"openrouter_api_key"`

	// AWS Bedrock / GCP Vertex
	AwsRegion       *string `toml:"aws_region"`
	VertexProjectID *string `toml:"vertex_project_id"`

	// Generic OpenAI-compatible
	OpenAiAPIKey  *string `toml:"openai_api_key"`
	OpenAiBaseURL *string `toml:"openai_base_url"`
	OpenAiModelID *string `toml:"openai_model_id"`

	OllamaModelID *string `toml:"ollama_model_id"`
	OllamaBaseURL *string `toml:"ollama_base_url"`

	LmStudioModelID *string `toml:"lmstudio_model_id"`
	LmStudioBaseURL *string `toml:"lmstudio_base_url"`

	AnythingLLMModelID *string `toml:"anythingllm_model_id"`
	AnythingLLMBaseURL *string `toml:"anythingllm_base_url"`
	AnythingLLMAPIKey  *string `toml:"anythingllm_api_key"`

	GeminiAPIKey       *string `toml:"gemini_api_key"`
	OpenAiNativeAPIKey *string `toml:"openai_native_api_key"`
	DeepSeekAPIKey     *string `toml:"deepseek_api_key"`
	MistralAPIKey      *string `toml:"mistral_api_key"`

	VsCodeLmModelSelector *LanguageModelChatSelector `toml:"vscode_lm_model_selector"`
}

// LanguageModelChatSelector picks an editor-hosted language model.
type LanguageModelChatSelector struct {
	Vendor  string `toml:"vendor,omitempty"`
	Family  string `toml:"family,omitempty"`
	Version string `toml:"version,omitempty"`
	ID      string `toml:"id,omitempty"`
}

// String returns a pointer to s, for filling optional configuration fields.
func String(s string) *string {
	return &s
}

// Value dereferences an optional field, returning "" when it is unset.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ValueOr dereferences an optional field, returning fallback when it is unset
// or empty.
func ValueOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
