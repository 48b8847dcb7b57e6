package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/diffcommit/diffcommit/internal/pkg/config"
)

func TestProviderOptions(t *testing.T) {
	options := providerOptions()

	want := []config.Provider{config.ProviderAnthropic, config.ProviderOpenAI, config.ProviderOllama}
	if assert.Len(t, options, len(want)) {
		for i, o := range options {
			assert.Equal(t, want[i], o.Value)
			assert.True(t, o.Value.Valid())
		}
	}
}

func TestNewManager_NonInteractive(t *testing.T) {
	m := NewManager(true, false, "vim")
	_, ok := m.(*NonInteractiveManager)
	assert.True(t, ok, "got %T", m)
}

func TestNonInteractiveManager_PromptProvider(t *testing.T) {
	m := NewNonInteractiveManager(false)

	p, err := m.PromptProvider(config.ProviderOllama)
	assert.NoError(t, err)
	assert.Equal(t, config.ProviderOllama, p)

	p, err = m.PromptProvider("")
	assert.NoError(t, err)
	assert.Equal(t, config.DefaultProvider, p)
}
