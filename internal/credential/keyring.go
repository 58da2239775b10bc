package credential

import (
	"fmt"
	"os"

	"github.com/99designs/keyring"
)

const serviceName = "smartreach"

// Well-known credential keys.
const (
	KeyMailboxPassword = "mailbox-password"
	KeyAIAPIKey        = "ai-api-key"
)

// Environment fallbacks for headless deployments without a keyring.
var envFallbacks = map[string]string{
	KeyMailboxPassword: "SMARTREACH_MAILBOX_PASSWORD",
	KeyAIAPIKey:        "SMARTREACH_AI_API_KEY",
}

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/smartreach/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("smartreach-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Get retrieves a credential value by key from the system keyring.
func Get(key string) (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// Resolve returns the credential for key, consulting the environment
// fallback variable when the keyring has no entry. A credential that is
// found nowhere is a configuration error, fatal at startup.
func Resolve(key string) (string, error) {
	if value, err := Get(key); err == nil && value != "" {
		return value, nil
	}

	if env, ok := envFallbacks[key]; ok {
		if value := os.Getenv(env); value != "" {
			return value, nil
		}
	}

	return "", fmt.Errorf(
		"credential %q not found in keyring or environment", key,
	)
}

// Set stores a credential value by key in the system keyring.
func Set(key string, value string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// Delete removes a credential by key from the system keyring.
func Delete(key string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Remove(key)
	if err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}
