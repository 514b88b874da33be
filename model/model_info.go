package model

// ModelInfo describes the capabilities and pricing of a model.
type ModelInfo struct {
	MaxTokens           int // -1 means no explicit limit
	ContextWindow       int
	SupportsImages      bool
	SupportsPromptCache bool
	InputPrice          float64 // USD per million tokens
	OutputPrice         float64
	Description         string
}

// ModelDescriptor pairs a model identifier with its metadata. The ID is not
// validated; an empty string is legal.
type ModelDescriptor struct {
	ID   string
	Info ModelInfo
}

// OpenAIModelInfoSaneDefaults is used for OpenAI-compatible backends that do
// not report model metadata.
var OpenAIModelInfoSaneDefaults = ModelInfo{
	MaxTokens:           -1,
	ContextWindow:       128_000,
	SupportsImages:      true,
	SupportsPromptCache: false,
	InputPrice:          0,
	OutputPrice:         0,
}

// AnthropicDefaultModelInfo is reported by the Anthropic handler.
var AnthropicDefaultModelInfo = ModelInfo{
	MaxTokens:           8192,
	ContextWindow:       200_000,
	SupportsImages:      true,
	SupportsPromptCache: true,
	InputPrice:          3.0,
	OutputPrice:         15.0,
}
