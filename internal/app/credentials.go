package app

import (
	"errors"
	"fmt"

	"github.com/diffcommit/diffcommit/internal/pkg/config"
	apperrors "github.com/diffcommit/diffcommit/internal/pkg/errors"
	"github.com/diffcommit/diffcommit/internal/pkg/security"
	"github.com/diffcommit/diffcommit/internal/pkg/ui"
)

// CredentialManager runs the API key lifecycle for hosted providers.
type CredentialManager struct {
	store     security.SecretStore
	uiManager ui.Manager
}

// NewCredentialManager creates a CredentialManager.
func NewCredentialManager(store security.SecretStore, uiManager ui.Manager) *CredentialManager {
	return &CredentialManager{
		store:     store,
		uiManager: uiManager,
	}
}

// Set prompts for a key, validates it and stores it.
func (c *CredentialManager) Set(provider config.Provider) (string, error) {
	key, err := c.uiManager.PromptSecret(fmt.Sprintf("Enter your %s API Key", provider.DisplayName()))
	if err != nil {
		return "", report(c.uiManager, apperrors.NewSecretStoreError("update API key in secure storage", err))
	}
	if key == "" {
		return "", report(c.uiManager, apperrors.NewMissingAPIKeyError())
	}

	if err := security.ValidateAPIKeyFormat(string(provider), key); err != nil {
		return "", report(c.uiManager, apperrors.Wrap(err, apperrors.ErrInvalidArguments, err.Error()))
	}

	if err := c.store.Set(security.CredentialKey(string(provider)), key); err != nil {
		apperrors.Error("secrets storage error: %v", err)
		return "", report(c.uiManager, apperrors.NewSecretStoreError("update API key in secure storage", err))
	}

	c.uiManager.ShowSuccess("API Key updated successfully")
	return key, nil
}

// Get returns the stored key, or "" when none is stored.
func (c *CredentialManager) Get(provider config.Provider) (string, error) {
	key, err := c.store.Get(security.CredentialKey(string(provider)))
	if errors.Is(err, security.ErrSecretNotFound) {
		return "", nil
	}
	if err != nil {
		apperrors.Error("secrets storage error: %v", err)
		return "", report(c.uiManager, apperrors.NewSecretStoreError("access secure storage", err))
	}
	return key, nil
}

// Delete removes the stored key. A missing key is a warning.
func (c *CredentialManager) Delete(provider config.Provider) error {
	key, err := c.Get(provider)
	if err != nil {
		return err
	}
	if key == "" {
		c.uiManager.ShowWarning("No API Key found to remove")
		return nil
	}

	err = c.store.Delete(security.CredentialKey(string(provider)))
	if err != nil && !errors.Is(err, security.ErrSecretNotFound) {
		apperrors.Error("secrets storage error: %v", err)
		return report(c.uiManager, apperrors.NewSecretStoreError("delete API key from secure storage", err))
	}

	c.uiManager.ShowSuccess("API Key deleted successfully")
	return nil
}

// Resolve returns the stored key, running the Set flow when there is none.
func (c *CredentialManager) Resolve(provider config.Provider) (string, error) {
	key, err := c.Get(provider)
	if err != nil {
		return "", err
	}
	if key != "" {
		return key, nil
	}

	return c.Set(provider)
}
