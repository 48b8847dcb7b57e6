// Package ui provides the terminal notifications and prompts for diffcommit.
package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/diffcommit/diffcommit/internal/pkg/config"
	apperrors "github.com/diffcommit/diffcommit/internal/pkg/errors"
	"github.com/diffcommit/diffcommit/internal/pkg/message"
)

// ErrNonInteractive is returned by prompts that need an answer the
// non-interactive manager cannot supply.
var ErrNonInteractive = errors.New("input required but running non-interactively")

// Action represents what to do with a message in the preview.
type Action int

const (
	ActionSave Action = iota
	ActionEdit
	ActionClose
)

// String returns the string representation of an Action.
func (a Action) String() string {
	switch a {
	case ActionSave:
		return "save"
	case ActionEdit:
		return "edit"
	case ActionClose:
		return "close"
	default:
		return "unknown"
	}
}

// Spinner provides loading animation functionality.
type Spinner interface {
	Start()
	Stop()
	UpdateText(text string)
}

// Manager defines the interface for UI operations.
//
// Prompts return the zero value and a nil error when the operator cancels.
type Manager interface {
	DisplayMessage(message string) error
	PromptPreviewAction() (Action, error)
	EditMessage(message string) (string, error)
	ShowSpinner(text string) Spinner
	ShowError(err error)
	ShowWarning(message string)
	ShowSuccess(message string)
	ShowInfo(message string)
	PromptConfirm(message string) (bool, error)
	PromptSecret(title string) (string, error)
	PromptHostname(current string, validate func(string) error) (string, error)
	PickModel(models []string, current string) (string, error)
	PromptProvider(current config.Provider) (config.Provider, error)
}

// DefaultManager implements the Manager interface using charmbracelet libraries.
type DefaultManager struct {
	colorEnabled bool
	editor       string
	styles       *styles
	out          io.Writer
	errOut       io.Writer
}

// styles holds the lipgloss styles for UI rendering.
type styles struct {
	title      lipgloss.Style
	subject    lipgloss.Style
	body       lipgloss.Style
	footer     lipgloss.Style
	success    lipgloss.Style
	errorStyle lipgloss.Style
	warning    lipgloss.Style
	info       lipgloss.Style
	hint       lipgloss.Style
}

// NewDefaultManager creates a new DefaultManager with the specified options.
func NewDefaultManager(colorEnabled bool, editor string) *DefaultManager {
	m := &DefaultManager{
		colorEnabled: colorEnabled,
		editor:       editor,
		out:          os.Stdout,
		errOut:       os.Stderr,
	}
	m.initStyles()
	return m
}

// initStyles initializes the lipgloss styles.
func (m *DefaultManager) initStyles() {
	if !m.colorEnabled {
		plain := lipgloss.NewStyle()
		m.styles = &styles{
			title:      plain,
			subject:    plain,
			body:       plain,
			footer:     plain,
			success:    plain,
			errorStyle: plain,
			warning:    plain,
			info:       plain,
			hint:       plain,
		}
		return
	}

	m.styles = &styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1),
		subject: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220")),
		body: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true),
		success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")),
		errorStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
		warning: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")),
		info: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")),
		hint: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
	}
}

// DisplayMessage shows a commit message with its header highlighted.
func (m *DefaultManager) DisplayMessage(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("message cannot be empty")
	}

	header, rest, _ := strings.Cut(text, "\n")
	cm := message.Parse(text)

	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, m.styles.title.Render("Generated Commit Message"))
	fmt.Fprintln(m.out, strings.Repeat("-", 50))
	fmt.Fprintln(m.out, m.styles.subject.Render(header))

	switch {
	case cm.Body != "" || cm.Footer != "":
		if cm.Body != "" {
			fmt.Fprintln(m.out)
			fmt.Fprintln(m.out, m.styles.body.Render(cm.Body))
		}
		if cm.Footer != "" {
			fmt.Fprintln(m.out)
			fmt.Fprintln(m.out, m.styles.footer.Render(cm.Footer))
		}
	case strings.TrimSpace(rest) != "":
		fmt.Fprintln(m.out)
		fmt.Fprintln(m.out, m.styles.body.Render(strings.TrimSpace(rest)))
	}

	fmt.Fprintln(m.out, strings.Repeat("-", 50))
	fmt.Fprintln(m.out)

	return nil
}

// EditMessage opens an editor for the user to modify the commit message.
func (m *DefaultManager) EditMessage(text string) (string, error) {
	editor := m.getEditor()
	if editor != "" {
		edited, err := m.editWithExternalEditor(editor, text)
		if err == nil {
			return parseEditedMessage(edited), nil
		}
		apperrors.Debug("external editor %q failed: %v", editor, err)
		fmt.Fprintln(m.errOut, m.styles.info.Render("External editor not available, using inline editor..."))
	}

	edited, err := m.editWithInlineEditor(text)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return text, nil
		}
		return "", fmt.Errorf("failed to edit message: %w", err)
	}

	return parseEditedMessage(edited), nil
}

// getEditor returns the editor to use for editing messages.
func (m *DefaultManager) getEditor() string {
	if m.editor != "" {
		return m.editor
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	return ""
}

// editWithExternalEditor opens an external editor for editing. The editor
// setting may carry arguments, e.g. "code --wait".
func (m *DefaultManager) editWithExternalEditor(editor, content string) (string, error) {
	args := strings.Fields(editor)
	if len(args) == 0 {
		return "", fmt.Errorf("no editor configured")
	}

	tmpFile, err := os.CreateTemp("", "diffcommit-message-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.WriteString(content); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("failed to write to temp file: %w", err)
	}
	tmpFile.Close()

	cmd := exec.Command(args[0], append(args[1:], tmpPath)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor failed: %w", err)
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", fmt.Errorf("failed to read edited file: %w", err)
	}

	return string(edited), nil
}

// editWithInlineEditor uses huh text area for inline editing.
func (m *DefaultManager) editWithInlineEditor(content string) (string, error) {
	edited := content

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Edit Commit Message").
				Description("Press Tab then Enter to save. Esc to keep the message unchanged.").
				Value(&edited).
				CharLimit(0),
		),
	)

	if err := form.Run(); err != nil {
		return "", err
	}

	return edited, nil
}

// parseEditedMessage normalizes line endings and trims the edited text.
func parseEditedMessage(edited string) string {
	edited = strings.ReplaceAll(edited, "\r\n", "\n")
	return strings.TrimSpace(edited)
}

// ShowSpinner creates and returns a spinner for loading states.
func (m *DefaultManager) ShowSpinner(text string) Spinner {
	return newBubbleSpinner(text, m.errOut)
}

// ShowError displays the user-facing message of err, with its suggestion if any.
func (m *DefaultManager) ShowError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(m.errOut)
	fmt.Fprintln(m.errOut, m.styles.errorStyle.Render("Error: "+apperrors.UserMessage(err)))
	if appErr := apperrors.GetAppError(err); appErr != nil && appErr.Suggestion != "" {
		fmt.Fprintln(m.errOut, m.styles.hint.Render("  "+appErr.Suggestion))
	}
	fmt.Fprintln(m.errOut)
}

// ShowWarning displays a warning to the user.
func (m *DefaultManager) ShowWarning(msg string) {
	fmt.Fprintln(m.errOut, m.styles.warning.Render("Warning: "+msg))
}

// ShowSuccess displays a success message to the user.
func (m *DefaultManager) ShowSuccess(msg string) {
	fmt.Fprintln(m.errOut, m.styles.success.Render(msg))
}

// ShowInfo displays an informational message.
func (m *DefaultManager) ShowInfo(msg string) {
	fmt.Fprintln(m.errOut, m.styles.info.Render(msg))
}
