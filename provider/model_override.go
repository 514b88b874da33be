package provider

import (
	"fmt"

	"apibridge/config"
)

// WithModel returns a copy of cfg with the model id of the selected provider
// replaced by modelID.
func WithModel(cfg config.ApiConfiguration, modelID string) (config.ApiConfiguration, error) {
	providerType := ProviderOf(cfg)
	switch providerType {
	case ProviderTypeAnythingLLM:
		cfg.AnythingLLMModelID = config.String(modelID)
	case ProviderTypeOpenAI:
		cfg.OpenAiModelID = config.String(modelID)
	case ProviderTypeOllama:
		cfg.OllamaModelID = config.String(modelID)
	case ProviderTypeAnthropic:
		cfg.APIModelID = config.String(modelID)
	default:
		return cfg, fmt.Errorf("unknown provider type: %s", providerType)
	}
	return cfg, nil
}
