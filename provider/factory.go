package provider

import (
	"fmt"
	"strings"

	"apibridge/config"
	"apibridge/model"
)

// BuildHandler creates the handler selected by cfg.APIProvider.
//
// An unset or empty provider selects AnythingLLM. Returns an error if the
// provider is unknown or its constructor rejects the configuration (e.g. a
// missing API key).
//
// Example:
//
//	cfg := config.ApiConfiguration{
//	    APIProvider:        config.String("anythingllm"),
//	    AnythingLLMModelID: config.String("my-workspace"),
//	}
//	h, err := provider.BuildHandler(cfg)
func BuildHandler(cfg config.ApiConfiguration) (model.Handler, error) {
	providerType := ProviderOf(cfg)
	config.Debugf("[Factory] Building %s handler", providerType)

	switch providerType {
	case ProviderTypeAnythingLLM:
		return NewAnythingLLMHandler(cfg), nil
	case ProviderTypeOpenAI:
		h, err := NewOpenAIHandler(cfg)
		if err != nil {
			return nil, err
		}
		return h, nil
	case ProviderTypeOllama:
		h, err := NewOllamaHandler(cfg)
		if err != nil {
			return nil, err
		}
		return h, nil
	case ProviderTypeAnthropic:
		h, err := NewAnthropicHandler(cfg)
		if err != nil {
			return nil, err
		}
		return h, nil
	default:
		return nil, fmt.Errorf("unknown provider type: %s", providerType)
	}
}

// ProviderOf normalizes cfg.APIProvider, falling back to the default.
func ProviderOf(cfg config.ApiConfiguration) ProviderType {
	return ProviderType(strings.ToLower(config.ValueOr(cfg.APIProvider, string(DefaultProviderType))))
}
