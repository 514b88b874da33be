package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/ssh"
)

// keyDerivationMessage is signed with the user's SSH key; the hash of the
// signature is the AES key. Changing it makes existing files unreadable.
var keyDerivationMessage = []byte("apibridge-credentials-key-v1")

// EncryptionManager encrypts credential files with an AES-256-GCM key derived
// from an SSH private key. Only keys with deterministic signatures (ed25519,
// RSA) produce a stable key.
type EncryptionManager struct {
	sshKeyPath string
	passphrase string
	aesKey     []byte
}

func NewEncryptionManager(sshKeyPath, passphrase string) *EncryptionManager {
	return &EncryptionManager{sshKeyPath: sshKeyPath, passphrase: passphrase}
}

// Initialize loads the SSH key and derives the AES key.
func (e *EncryptionManager) Initialize() error {
	if e.sshKeyPath == "" {
		return fmt.Errorf("ssh_key_path is required for %s security", SecuritySSHKey)
	}

	keyData, err := os.ReadFile(e.sshKeyPath)
	if err != nil {
		return fmt.Errorf("failed to read SSH key: %w", err)
	}

	signer, err := parseSSHKey(keyData, e.passphrase)
	if err != nil {
		return err
	}

	aesKey, err := DeriveAESKeyFromSSH(signer)
	if err != nil {
		return fmt.Errorf("failed to derive encryption key: %w", err)
	}
	e.aesKey = aesKey
	Debugf("[Config] Credential encryption initialized (key type %s)", signer.PublicKey().Type())
	return nil
}

var errPassphraseRequired = errors.New("SSH key is encrypted - passphrase required")

func parseSSHKey(keyData []byte, passphrase string) (ssh.Signer, error) {
	signer, err := ssh.ParsePrivateKey(keyData)
	if err == nil {
		return signer, nil
	}

	var missing *ssh.PassphraseMissingError
	if !errors.As(err, &missing) {
		return nil, fmt.Errorf("invalid SSH key: %w", err)
	}
	if passphrase == "" {
		return nil, errPassphraseRequired
	}

	signer, err = ssh.ParsePrivateKeyWithPassphrase(keyData, []byte(passphrase))
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt SSH key: %w", err)
	}
	return signer, nil
}

func (e *EncryptionManager) Encrypt(plaintext []byte) ([]byte, error) {
	if e.aesKey == nil {
		return nil, fmt.Errorf("encryption manager not initialized")
	}
	gcm, err := newGCM(e.aesKey)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	// [nonce][ciphertext+tag]
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func (e *EncryptionManager) Decrypt(ciphertext []byte) ([]byte, error) {
	if e.aesKey == nil {
		return nil, fmt.Errorf("encryption manager not initialized")
	}
	gcm, err := newGCM(e.aesKey)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}
	plaintext, err := gcm.Open(nil, ciphertext[:nonceSize], ciphertext[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// DeriveAESKeyFromSSH derives a 32-byte AES-256 key from an SSH key signature.
func DeriveAESKeyFromSSH(signer ssh.Signer) ([]byte, error) {
	signature, err := signer.Sign(rand.Reader, keyDerivationMessage)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}
	hash := sha256.Sum256(signature.Blob)
	return hash[:], nil
}
