package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/diffcommit/diffcommit/internal/pkg/config"
	apperrors "github.com/diffcommit/diffcommit/internal/pkg/errors"
)

// NonInteractiveManager implements Manager for --yes and for runs without a
// terminal, such as Git hooks. Prompts take their defaults.
type NonInteractiveManager struct {
	out    io.Writer
	errOut io.Writer
	in     io.Reader

	red    *color.Color
	yellow *color.Color
	green  *color.Color
	cyan   *color.Color
}

// NewNonInteractiveManager creates a new NonInteractiveManager.
func NewNonInteractiveManager(colorEnabled bool) *NonInteractiveManager {
	m := &NonInteractiveManager{
		out:    os.Stdout,
		errOut: os.Stderr,
		in:     os.Stdin,
		red:    color.New(color.FgRed, color.Bold),
		yellow: color.New(color.FgYellow),
		green:  color.New(color.FgGreen),
		cyan:   color.New(color.FgCyan),
	}
	if !colorEnabled {
		for _, c := range []*color.Color{m.red, m.yellow, m.green, m.cyan} {
			c.DisableColor()
		}
	}
	return m
}

// DisplayMessage prints the message as is.
func (m *NonInteractiveManager) DisplayMessage(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("message cannot be empty")
	}
	fmt.Fprintln(m.out, text)
	return nil
}

// PromptPreviewAction always saves in non-interactive mode.
func (m *NonInteractiveManager) PromptPreviewAction() (Action, error) {
	return ActionSave, nil
}

// EditMessage returns the message unchanged.
func (m *NonInteractiveManager) EditMessage(text string) (string, error) {
	return text, nil
}

// ShowSpinner returns a no-op spinner.
func (m *NonInteractiveManager) ShowSpinner(text string) Spinner {
	return &noopSpinner{}
}

// ShowError displays an error message.
func (m *NonInteractiveManager) ShowError(err error) {
	if err == nil {
		return
	}
	m.red.Fprintf(m.errOut, "Error: %s\n", apperrors.UserMessage(err))
}

// ShowWarning displays a warning.
func (m *NonInteractiveManager) ShowWarning(msg string) {
	m.yellow.Fprintf(m.errOut, "Warning: %s\n", msg)
}

// ShowSuccess displays a success message.
func (m *NonInteractiveManager) ShowSuccess(msg string) {
	m.green.Fprintln(m.errOut, msg)
}

// ShowInfo displays an informational message.
func (m *NonInteractiveManager) ShowInfo(msg string) {
	m.cyan.Fprintln(m.errOut, msg)
}

// PromptConfirm always returns true in non-interactive mode.
func (m *NonInteractiveManager) PromptConfirm(message string) (bool, error) {
	return true, nil
}

// PromptSecret reads one line from piped input, so a key can be set with
// `echo $KEY | diffcommit key set --yes`. A terminal is never read.
func (m *NonInteractiveManager) PromptSecret(title string) (string, error) {
	if f, ok := m.in.(*os.File); ok && isTerminal(f) {
		return "", nil
	}
	line, err := bufio.NewReader(m.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptHostname accepts current when it validates.
func (m *NonInteractiveManager) PromptHostname(current string, validate func(string) error) (string, error) {
	if validate != nil {
		if err := validate(current); err != nil {
			return "", err
		}
	}
	return current, nil
}

// PickModel keeps current when the server still offers it.
func (m *NonInteractiveManager) PickModel(models []string, current string) (string, error) {
	for _, name := range models {
		if name == current {
			return current, nil
		}
	}
	return "", ErrNonInteractive
}

// PromptProvider keeps the configured provider.
func (m *NonInteractiveManager) PromptProvider(current config.Provider) (config.Provider, error) {
	if current == "" {
		return config.DefaultProvider, nil
	}
	return current, nil
}
