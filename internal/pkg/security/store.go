package security

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// ServiceName is the keyring service every diffcommit secret lives under.
const ServiceName = "diffcommit"

// ErrSecretNotFound is returned when no secret is stored under a key.
var ErrSecretNotFound = errors.New("secret not found")

// SecretStore persists credentials outside the config file.
type SecretStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// CredentialKey returns the secret store key for a hosted provider.
func CredentialKey(provider string) string {
	return provider + "-api-key"
}

// KeyringStore stores secrets in the operating system keyring.
type KeyringStore struct {
	service string
}

// NewKeyringStore creates a store scoped to the diffcommit keyring service.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{service: ServiceName}
}

// Get returns the secret stored under key, or ErrSecretNotFound.
func (s *KeyringStore) Get(key string) (string, error) {
	if key == "" {
		return "", errors.New("key is required")
	}
	value, err := keyring.Get(s.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrSecretNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s from keyring: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (s *KeyringStore) Set(key, value string) error {
	if key == "" {
		return errors.New("key is required")
	}
	if value == "" {
		return errors.New("value is empty")
	}
	if err := keyring.Set(s.service, key, value); err != nil {
		return fmt.Errorf("failed to write %s to keyring: %w", key, err)
	}
	return nil
}

// Delete removes the secret under key. Deleting a missing key returns ErrSecretNotFound.
func (s *KeyringStore) Delete(key string) error {
	if key == "" {
		return errors.New("key is required")
	}
	err := keyring.Delete(s.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrSecretNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s from keyring: %w", key, err)
	}
	return nil
}
