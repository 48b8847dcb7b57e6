package ui

import (
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/diffcommit/diffcommit/internal/pkg/config"
)

// providerChoices lists the backends offered by the setup wizard.
var providerChoices = []struct {
	label    string
	provider config.Provider
}{
	{"Anthropic", config.ProviderAnthropic},
	{"OpenAI-compatible", config.ProviderOpenAI},
	{"Ollama (Local)", config.ProviderOllama},
}

func providerOptions() []huh.Option[config.Provider] {
	options := make([]huh.Option[config.Provider], 0, len(providerChoices))
	for _, c := range providerChoices {
		options = append(options, huh.NewOption(c.label, c.provider))
	}
	return options
}

// PromptProvider asks which backend generates messages.
func (m *DefaultManager) PromptProvider(current config.Provider) (config.Provider, error) {
	provider := current
	err := huh.NewSelect[config.Provider]().
		Title("Select AI Provider").
		Value(&provider).
		Options(providerOptions()...).
		Run()
	if err != nil {
		return "", ignoreAbort(err)
	}
	return provider, nil
}

// IsInteractive reports whether both stdin and stdout are terminals.
func IsInteractive() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// NewManager returns the interactive manager when a terminal is attached
// and nonInteractive is false.
func NewManager(nonInteractive, colorEnabled bool, editor string) Manager {
	if nonInteractive || !IsInteractive() {
		return NewNonInteractiveManager(colorEnabled)
	}
	return NewDefaultManager(colorEnabled, editor)
}
