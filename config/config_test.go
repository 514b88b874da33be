package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolateEnv points HOME at a temp dir and blanks every override variable.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for name := range (&Config{}).envOverrides() {
		t.Setenv(name, "")
	}
	t.Setenv("APIBRIDGE_DATA_DIR", "")
	t.Setenv("APIBRIDGE_SSH_PASSPHRASE", "")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoad_MissingSettingsUsesDefaults(t *testing.T) {
	isolateEnv(t)
	dataDir := t.TempDir()
	t.Setenv("APIBRIDGE_DATA_DIR", dataDir)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DataDir() != dataDir {
		t.Errorf("DataDir() = %q, want %q", cfg.DataDir(), dataDir)
	}
	if cfg.Security != SecurityPlainText {
		t.Errorf("Security = %q, want %q", cfg.Security, SecurityPlainText)
	}
	if CheckExistKey(&cfg.API) {
		t.Error("default configuration should not report a configured provider")
	}
}

func TestLoad_DecodesSettingsAndKeepsPresence(t *testing.T) {
	isolateEnv(t)
	dataDir := t.TempDir()
	settings := filepath.Join(t.TempDir(), "settings.toml")
	writeFile(t, settings, `
data_directory = "`+filepath.ToSlash(dataDir)+`"

[api]
api_provider = "anythingllm"
anythingllm_base_url = "http://gpu-box:3001"
anythingllm_model_id = ""

[api.vscode_lm_model_selector]
vendor = "copilot"
`)

	cfg, err := Load(settings)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := Value(cfg.API.APIProvider); got != "anythingllm" {
		t.Errorf("APIProvider = %q, want anythingllm", got)
	}
	if got := Value(cfg.API.AnythingLLMBaseURL); got != "http://gpu-box:3001" {
		t.Errorf("AnythingLLMBaseURL = %q", got)
	}
	if cfg.API.AnythingLLMModelID == nil {
		t.Error("AnythingLLMModelID should be present (empty string), got nil")
	}
	if cfg.API.OllamaModelID != nil {
		t.Errorf("OllamaModelID should be absent, got %q", *cfg.API.OllamaModelID)
	}
	if cfg.API.VsCodeLmModelSelector == nil || cfg.API.VsCodeLmModelSelector.Vendor != "copilot" {
		t.Errorf("VsCodeLmModelSelector = %+v", cfg.API.VsCodeLmModelSelector)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolateEnv(t)
	t.Setenv("APIBRIDGE_DATA_DIR", t.TempDir())
	t.Setenv("APIBRIDGE_ANYTHINGLLM_MODEL", "docs")
	t.Setenv("APIBRIDGE_PROVIDER", "ollama")

	settings := filepath.Join(t.TempDir(), "settings.toml")
	writeFile(t, settings, `
[api]
api_provider = "anythingllm"
anythingllm_model_id = "from-file"
`)

	cfg, err := Load(settings)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := Value(cfg.API.AnythingLLMModelID); got != "docs" {
		t.Errorf("AnythingLLMModelID = %q, want docs", got)
	}
	if got := Value(cfg.API.APIProvider); got != "ollama" {
		t.Errorf("APIProvider = %q, want ollama", got)
	}
}

func TestLoad_InvalidSettings(t *testing.T) {
	isolateEnv(t)
	settings := filepath.Join(t.TempDir(), "settings.toml")
	writeFile(t, settings, "[api\nbroken")

	if _, err := Load(settings); err == nil {
		t.Fatal("Load() expected error for malformed TOML")
	}
}

func TestLoad_OverlaysPlainTextCredentials(t *testing.T) {
	isolateEnv(t)
	dataDir := t.TempDir()
	t.Setenv("APIBRIDGE_DATA_DIR", dataDir)
	writeFile(t, filepath.Join(dataDir, "credentials.toml"), `
[credentials]
openai_api_key = "sk-stored"
anythingllm_api_key = ""
not_a_field = "x"
`)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := Value(cfg.API.OpenAiAPIKey); got != "sk-stored" {
		t.Errorf("OpenAiAPIKey = %q, want sk-stored", got)
	}
	if cfg.API.AnythingLLMAPIKey == nil {
		t.Error("AnythingLLMAPIKey should be present after overlay")
	}
	if !CheckExistKey(&cfg.API) {
		t.Error("CheckExistKey() = false after credential overlay")
	}
}

func TestSave_StripsCredentials(t *testing.T) {
	isolateEnv(t)
	settings := filepath.Join(t.TempDir(), "nested", "settings.toml")
	cfg := DefaultConfig()
	cfg.DataDirectory = t.TempDir()
	cfg.API.APIProvider = String("openai")
	cfg.API.OpenAiAPIKey = String("sk-secret")

	if err := Save(cfg, settings); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(settings)
	if err != nil {
		t.Fatalf("read settings: %v", err)
	}
	if strings.Contains(string(data), "sk-secret") {
		t.Errorf("settings file contains a credential:\n%s", data)
	}
	if !strings.Contains(string(data), `api_provider = "openai"`) {
		t.Errorf("settings file lost api_provider:\n%s", data)
	}
	if Value(cfg.API.OpenAiAPIKey) != "sk-secret" {
		t.Error("Save() must not modify the caller's configuration")
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	if got := ExpandPath("~/data"); got != filepath.Clean("/home/tester/data") {
		t.Errorf("ExpandPath(~/data) = %q", got)
	}
	if got := ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(\"\") = %q, want empty", got)
	}
}
