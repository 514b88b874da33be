package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
)

// SecurityMethod defines the credential storage method
type SecurityMethod string

const (
	SecurityPlainText SecurityMethod = "plaintext"
	SecuritySSHKey    SecurityMethod = "ssh_key"
)

// CredentialStore keeps provider secrets out of settings.toml. Keys are the
// TOML names of the ApiConfiguration fields they fill (e.g. "openai_api_key").
type CredentialStore struct {
	method      SecurityMethod
	credentials map[string]string
	sshKeyPath  string
	passphrase  string
	encManager  *EncryptionManager
}

func NewCredentialStore(method SecurityMethod, sshKeyPath string) *CredentialStore {
	return &CredentialStore{
		method:      method,
		credentials: make(map[string]string),
		sshKeyPath:  sshKeyPath,
	}
}

func (c *CredentialStore) Method() SecurityMethod {
	return c.method
}

// SSHKeyPath returns the key used for ssh_key security, if any.
func (c *CredentialStore) SSHKeyPath() string {
	return c.sshKeyPath
}

// SetPassphrase sets the passphrase for an encrypted SSH key.
func (c *CredentialStore) SetPassphrase(passphrase string) {
	c.passphrase = passphrase
	c.encManager = nil
}

func (c *CredentialStore) Load(dataDir string) error {
	var (
		creds map[string]string
		err   error
	)
	switch c.method {
	case SecurityPlainText:
		creds, err = loadPlainText(dataDir)
	case SecuritySSHKey:
		creds, err = c.loadSSHEncrypted(dataDir)
	default:
		return fmt.Errorf("unknown security method: %s", c.method)
	}
	if err != nil {
		return err
	}
	if creds == nil {
		creds = make(map[string]string)
	}
	c.credentials = creds
	return nil
}

func (c *CredentialStore) Save(dataDir string) error {
	switch c.method {
	case SecurityPlainText:
		return savePlainText(dataDir, c.credentials)
	case SecuritySSHKey:
		return c.saveSSHEncrypted(dataDir)
	default:
		return fmt.Errorf("unknown security method: %s", c.method)
	}
}

func (c *CredentialStore) Get(key string) (string, bool) {
	v, ok := c.credentials[key]
	return v, ok
}

// Set stores a credential. Only keys of secret ApiConfiguration fields are
// accepted.
func (c *CredentialStore) Set(key, value string) error {
	if _, ok := secretFields(&ApiConfiguration{})[key]; !ok {
		return fmt.Errorf("unknown credential key: %s", key)
	}
	c.credentials[key] = value
	return nil
}

func (c *CredentialStore) Delete(key string) {
	delete(c.credentials, key)
}

// Keys returns the stored credential keys in sorted order.
func (c *CredentialStore) Keys() []string {
	keys := make([]string, 0, len(c.credentials))
	for k := range c.credentials {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Apply fills the secret fields of api from the store. Stored values win over
// values from settings.toml; unknown keys are ignored.
func (c *CredentialStore) Apply(api *ApiConfiguration) {
	fields := secretFields(api)
	for key, value := range c.credentials {
		field, ok := fields[key]
		if !ok {
			Debugf("[Config] Ignoring unknown credential %q", key)
			continue
		}
		*field = String(value)
	}
}

// secretFields maps credential keys onto the ApiConfiguration fields they fill.
func secretFields(api *ApiConfiguration) map[string]**string {
	return map[string]**string{
		"api_key":               &api.APIKey,
		"glama_api_key":         &api.GlamaAPIKey,
		"openrouter_api_key":    &api.OpenRouterAPIKey,
		"openai_api_key":        &api.OpenAiAPIKey,
		"anythingllm_api_key":   &api.AnythingLLMAPIKey,
		"gemini_api_key":        &api.GeminiAPIKey,
		"openai_native_api_key": &api.OpenAiNativeAPIKey,
		"deepseek_api_key":      &api.DeepSeekAPIKey,
		"mistral_api_key":       &api.MistralAPIKey,
	}
}

// withoutCredentials returns a copy of api with every secret field cleared.
func withoutCredentials(api ApiConfiguration) ApiConfiguration {
	for _, field := range secretFields(&api) {
		*field = nil
	}
	return api
}

func credentialsPath(dataDir string) string {
	return filepath.Join(dataDir, "credentials.toml")
}

func encryptedCredentialsPath(dataDir string) string {
	return filepath.Join(dataDir, "credentials.enc")
}

type credentialsFile struct {
	Credentials map[string]string `toml:"credentials"`
}

func loadPlainText(dataDir string) (map[string]string, error) {
	path := credentialsPath(dataDir)
	if !FileExists(path) {
		return make(map[string]string), nil
	}

	var cf credentialsFile
	if _, err := toml.DecodeFile(path, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	return cf.Credentials, nil
}

func savePlainText(dataDir string, creds map[string]string) error {
	f, err := os.OpenFile(credentialsPath(dataDir), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create credentials file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(credentialsFile{Credentials: creds}); err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	return nil
}

func (c *CredentialStore) encryption() (*EncryptionManager, error) {
	if c.encManager != nil {
		return c.encManager, nil
	}
	m := NewEncryptionManager(c.sshKeyPath, c.passphrase)
	if err := m.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize encryption: %w", err)
	}
	c.encManager = m
	return m, nil
}

func (c *CredentialStore) loadSSHEncrypted(dataDir string) (map[string]string, error) {
	path := encryptedCredentialsPath(dataDir)
	if !FileExists(path) {
		return make(map[string]string), nil
	}

	m, err := c.encryption()
	if err != nil {
		return nil, err
	}

	encrypted, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read encrypted credentials: %w", err)
	}
	plaintext, err := m.Decrypt(encrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt credentials: %w", err)
	}

	var creds map[string]string
	if err := json.Unmarshal(plaintext, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse decrypted credentials: %w", err)
	}
	return creds, nil
}

func (c *CredentialStore) saveSSHEncrypted(dataDir string) error {
	m, err := c.encryption()
	if err != nil {
		return err
	}

	data, err := json.Marshal(c.credentials)
	if err != nil {
		return fmt.Errorf("failed to serialize credentials: %w", err)
	}
	encrypted, err := m.Encrypt(data)
	if err != nil {
		return fmt.Errorf("failed to encrypt credentials: %w", err)
	}
	if err := os.WriteFile(encryptedCredentialsPath(dataDir), encrypted, 0600); err != nil {
		return fmt.Errorf("failed to write encrypted credentials: %w", err)
	}
	return nil
}
