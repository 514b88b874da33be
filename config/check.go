package config

// CheckExistKey reports whether cfg carries at least one provider credential
// or model selector. A field set to the empty string counts as present.
//
// Add the credential field of every newly supported provider here.
func CheckExistKey(cfg *ApiConfiguration) bool {
	if cfg == nil {
		return false
	}

	keys := []*string{
		cfg.APIKey,
		cfg.GlamaAPIKey,
		cfg.OpenRouterAPIKey,
		cfg.AwsRegion,
		cfg.VertexProjectID,
		cfg.OpenAiAPIKey,
		cfg.OllamaModelID,
		cfg.LmStudioModelID,
		cfg.AnythingLLMModelID,
		cfg.GeminiAPIKey,
		cfg.OpenAiNativeAPIKey,
		cfg.DeepSeekAPIKey,
		cfg.MistralAPIKey,
		cfg.AnythingLLMAPIKey,
	}
	for _, key := range keys {
		if key != nil {
			return true
		}
	}

	return cfg.VsCodeLmModelSelector != nil
}
