package config

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
)

const keyName = "apibridge_ed25519"

// FindSSHKeys scans ~/.ssh for SSH private keys usable for credential
// encryption. Prioritizes apibridge_ed25519 if it exists.
func FindSSHKeys() []string {
	sshDir := filepath.Join(GetHomeDir(), ".ssh")

	// Only keys with deterministic signatures derive a stable AES key.
	keyNames := []string{
		keyName,
		"id_ed25519",
		"id_rsa",
	}

	var foundKeys []string
	for _, name := range keyNames {
		keyPath := filepath.Join(sshDir, name)
		if isPrivateKey(keyPath) {
			foundKeys = append(foundKeys, keyPath)
		}
	}
	return foundKeys
}

// isPrivateKey checks if a file is likely an SSH private key
func isPrivateKey(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	content := string(data)
	return strings.Contains(content, "BEGIN") &&
		strings.Contains(content, "PRIVATE KEY")
}

// IsSSHKeyEncrypted checks if an SSH private key is encrypted without attempting to decrypt it
func IsSSHKeyEncrypted(keyPath string) (bool, error) {
	keyData, err := os.ReadFile(keyPath)
	if err != nil {
		return false, fmt.Errorf("failed to read SSH key: %w", err)
	}

	_, err = parseSSHKey(keyData, "")
	switch {
	case err == nil:
		return false, nil
	case err == errPassphraseRequired:
		return true, nil
	default:
		return false, err
	}
}

// CreateKey generates a new ED25519 key pair in ~/.ssh for credential
// encryption. The passphrase is optional. If apibridge_ed25519 already exists
// a dated name is used instead. Returns the private key path.
func CreateKey(passphrase string) (string, error) {
	sshDir := filepath.Join(GetHomeDir(), ".ssh")
	keyPath := filepath.Join(sshDir, keyName)

	if FileExists(keyPath) {
		dateStr := time.Now().Format("20060102")
		counter := 1
		for {
			keyPath = filepath.Join(sshDir, fmt.Sprintf("%s_%s%02d", keyName, dateStr, counter))
			if !FileExists(keyPath) {
				break
			}
			counter++
			if counter > 99 {
				return "", fmt.Errorf("exceeded maximum key creation limit for today (99)")
			}
		}
		Debugf("[SSH] Base key exists, using unique name: %s", filepath.Base(keyPath))
	}

	if err := EnsureDir(sshDir); err != nil {
		return "", fmt.Errorf("failed to create .ssh directory: %w", err)
	}

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to generate SSH key: %w", err)
	}

	const comment = "apibridge-encryption-key"
	var block *pem.Block
	if passphrase == "" {
		block, err = ssh.MarshalPrivateKey(priv, comment)
	} else {
		block, err = ssh.MarshalPrivateKeyWithPassphrase(priv, comment, []byte(passphrase))
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode SSH key: %w", err)
	}

	if err := os.WriteFile(keyPath, pem.EncodeToMemory(block), 0600); err != nil {
		return "", fmt.Errorf("failed to write SSH key: %w", err)
	}

	sshPub, err := ssh.NewPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("failed to encode public key: %w", err)
	}
	authorized := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(sshPub))) + " " + comment + "\n"
	if err := os.WriteFile(keyPath+".pub", []byte(authorized), 0644); err != nil {
		return "", fmt.Errorf("failed to write public key: %w", err)
	}

	Debugf("[SSH] Created encryption key at %s", keyPath)
	return keyPath, nil
}
