package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the decoded settings.toml plus the credential store that was
// overlaid onto API.
type Config struct {
	DataDirectory string           `toml:"data_directory"`
	Security      SecurityMethod   `toml:"security"`
	SSHKeyPath    string           `toml:"ssh_key_path"`
	API           ApiConfiguration `toml:"api"`

	CredentialStore *CredentialStore `toml:"-"`
}

var Debug = false
var DebugLog *log.Logger

// Debugf writes to the debug log when debug logging is enabled.
func Debugf(format string, args ...any) {
	if Debug && DebugLog != nil {
		DebugLog.Printf(format, args...)
	}
}

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func DefaultConfig() *Config {
	return &Config{
		DataDirectory: GetDefaultDataDir(),
		Security:      SecurityPlainText,
	}
}

// envOverrides maps environment variables onto the configuration fields they
// replace.
func (c *Config) envOverrides() map[string]**string {
	return map[string]**string{
		"APIBRIDGE_PROVIDER":             &c.API.APIProvider,
		"APIBRIDGE_ANYTHINGLLM_BASE_URL": &c.API.AnythingLLMBaseURL,
		"APIBRIDGE_ANYTHINGLLM_MODEL":    &c.API.AnythingLLMModelID,
		"APIBRIDGE_OLLAMA_BASE_URL":      &c.API.OllamaBaseURL,
		"APIBRIDGE_OLLAMA_MODEL":         &c.API.OllamaModelID,
		"APIBRIDGE_OPENAI_BASE_URL":      &c.API.OpenAiBaseURL,
		"APIBRIDGE_OPENAI_API_KEY":       &c.API.OpenAiAPIKey,
		"APIBRIDGE_OPENAI_MODEL":         &c.API.OpenAiModelID,
		"APIBRIDGE_ANTHROPIC_API_KEY":    &c.API.APIKey,
	}
}

func (c *Config) applyEnvOverrides() {
	for name, field := range c.envOverrides() {
		if value, ok := os.LookupEnv(name); ok && value != "" {
			*field = String(value)
		}
	}
	if dataDir := os.Getenv("APIBRIDGE_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
}

func CheckDebug() bool {
	debug := os.Getenv("APIBRIDGE_DEBUG")
	return debug == "true" || debug == "1"
}

func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// 0600: upstream errors may echo request content
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (APIBRIDGE_DEBUG=%s) ===", os.Getenv("APIBRIDGE_DEBUG"))
}

// Load reads settingsPath (GetSettingsFilePath() when empty), applies
// environment overrides and overlays stored credentials onto the API
// configuration. A missing settings file is not an error.
func Load(settingsPath string) (*Config, error) {
	if settingsPath == "" {
		settingsPath = GetSettingsFilePath()
	}

	cfg := DefaultConfig()
	if FileExists(settingsPath) {
		if _, err := toml.DecodeFile(settingsPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse settings: %w", err)
		}
	}
	cfg.applyEnvOverrides()

	if cfg.Security == "" {
		cfg.Security = SecurityPlainText
	}

	dataDir := cfg.DataDir()
	if err := EnsureDir(dataDir); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if cfg.Security == SecuritySSHKey && cfg.SSHKeyPath == "" {
		if keys := FindSSHKeys(); len(keys) > 0 {
			cfg.SSHKeyPath = keys[0]
			Debugf("[Config] No ssh_key_path set, using %s", cfg.SSHKeyPath)
		}
	}

	store := NewCredentialStore(cfg.Security, ExpandPath(cfg.SSHKeyPath))
	if passphrase := os.Getenv("APIBRIDGE_SSH_PASSPHRASE"); passphrase != "" {
		store.SetPassphrase(passphrase)
	}
	if err := store.Load(dataDir); err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	store.Apply(&cfg.API)
	cfg.CredentialStore = store

	return cfg, nil
}

// Save writes the non-secret settings back to settingsPath.
func Save(cfg *Config, settingsPath string) error {
	if settingsPath == "" {
		settingsPath = GetSettingsFilePath()
	}
	if err := EnsureDir(filepath.Dir(settingsPath)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(settingsPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create settings file: %w", err)
	}
	defer f.Close()

	stripped := *cfg
	stripped.API = withoutCredentials(cfg.API)
	if err := toml.NewEncoder(f).Encode(stripped); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return nil
}
