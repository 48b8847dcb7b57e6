package ui

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/diffcommit/diffcommit/internal/pkg/errors"
)

func newTestManager(editor string) (*DefaultManager, *bytes.Buffer, *bytes.Buffer) {
	m := NewDefaultManager(false, editor)
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	m.out, m.errOut = out, errOut
	return m, out, errOut
}

func TestActionString(t *testing.T) {
	tests := []struct {
		action   Action
		expected string
	}{
		{ActionSave, "save"},
		{ActionEdit, "edit"},
		{ActionClose, "close"},
		{Action(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.action.String(); got != tt.expected {
				t.Errorf("Action.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseEditedMessage(t *testing.T) {
	tests := []struct {
		name   string
		edited string
		want   string
	}{
		{"unchanged", "feat(ui): add preview", "feat(ui): add preview"},
		{"trailing newline from editor", "feat(ui): add preview\n", "feat(ui): add preview"},
		{"crlf", "fix(git): handle crlf\r\n\r\n- body\r\n", "fix(git): handle crlf\n\n- body"},
		{"whitespace only", "   \n\n   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseEditedMessage(tt.edited); got != tt.want {
				t.Errorf("parseEditedMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetEditor(t *testing.T) {
	tests := []struct {
		name   string
		config string
		editor string
		visual string
		want   string
	}{
		{"config wins", "vim", "nano", "code", "vim"},
		{"EDITOR", "", "nano", "code", "nano"},
		{"VISUAL", "", "", "code --wait", "code --wait"},
		{"none", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("EDITOR", tt.editor)
			t.Setenv("VISUAL", tt.visual)
			m := NewDefaultManager(false, tt.config)
			if got := m.getEditor(); got != tt.want {
				t.Errorf("getEditor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEditWithExternalEditor(t *testing.T) {
	m, _, _ := newTestManager("")

	// "true" leaves the file alone, so the content comes back unchanged.
	edited, err := m.editWithExternalEditor("true", "feat(ui): keep me")
	require.NoError(t, err)
	assert.Equal(t, "feat(ui): keep me", edited)

	_, err = m.editWithExternalEditor("   ", "x")
	assert.Error(t, err)

	_, err = m.editWithExternalEditor("diffcommit-no-such-editor", "x")
	assert.Error(t, err)
}

func TestNewDefaultManager(t *testing.T) {
	t.Run("with colors enabled", func(t *testing.T) {
		m := NewDefaultManager(true, "vim")
		require.NotNil(t, m)
		assert.True(t, m.colorEnabled)
		assert.Equal(t, "vim", m.editor)
		assert.NotNil(t, m.styles)
	})

	t.Run("with colors disabled", func(t *testing.T) {
		m := NewDefaultManager(false, "")
		require.NotNil(t, m)
		assert.False(t, m.colorEnabled)
		assert.NotNil(t, m.styles)
	})
}

func TestDefaultManager_DisplayMessage(t *testing.T) {
	m, out, _ := newTestManager("")

	err := m.DisplayMessage("feat(ui): add preview\n\n- show the header\n\nRefs: #12")
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "Generated Commit Message")
	assert.Contains(t, got, "feat(ui): add preview")
	assert.Contains(t, got, "- show the header")
	assert.Contains(t, got, "Refs: #12")

	assert.Error(t, m.DisplayMessage("  \n"))
}

func TestDefaultManager_Notifications(t *testing.T) {
	m, out, errOut := newTestManager("")

	m.ShowError(apperrors.NewAuthenticationError(errors.New("401 sk-ant-REDACTED")))
	m.ShowWarning("Commit message may be incomplete. Review it before committing.")
	m.ShowSuccess("API Key updated successfully")
	m.ShowInfo("Generating commit message...")

	got := errOut.String()
	assert.Contains(t, got, "Error: Invalid API key. Please update your API key and try again.")
	assert.Contains(t, got, "diffcommit key set")
	assert.NotContains(t, got, "abcdefghijklmnop")
	assert.Contains(t, got, "Warning: Commit message may be incomplete.")
	assert.Contains(t, got, "API Key updated successfully")
	assert.Contains(t, got, "Generating commit message...")
	assert.Empty(t, out.String(), "notifications must not reach stdout")
}

func TestShowErrorNil(t *testing.T) {
	m, _, errOut := newTestManager("")
	m.ShowError(nil)
	assert.Empty(t, errOut.String())
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestActionSelectModel(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want Action
	}{
		{"enter selects save", []string{"enter"}, ActionSave},
		{"down then enter", []string{"down", "enter"}, ActionEdit},
		{"cursor stops at last", []string{"down", "down", "down", "enter"}, ActionClose},
		{"cursor stops at first", []string{"up", "enter"}, ActionSave},
		{"quick select", []string{"2"}, ActionEdit},
		{"q closes", []string{"q"}, ActionClose},
		{"ctrl+c closes", []string{"ctrl+c"}, ActionClose},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var model tea.Model = newActionSelectModel()
			var cmd tea.Cmd
			for _, k := range tt.keys {
				model, cmd = model.Update(keyPress(k))
			}
			got := model.(actionSelectModel)
			assert.True(t, got.done)
			assert.NotNil(t, cmd, "expected a quit command")
			assert.Equal(t, tt.want, got.selected)
			assert.Empty(t, got.View())
		})
	}
}

func TestActionSelectModel_View(t *testing.T) {
	view := newActionSelectModel().View()
	for _, label := range []string{"Save", "Edit", "Close"} {
		assert.Contains(t, view, label)
	}
}

func TestConfirmModel(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want bool
	}{
		{"enter defaults to yes", []string{"enter"}, true},
		{"y", []string{"y"}, true},
		{"n", []string{"n"}, false},
		{"right then enter", []string{"l", "enter"}, false},
		{"ctrl+c", []string{"ctrl+c"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var model tea.Model = newConfirmModel("Overwrite?")
			for _, k := range tt.keys {
				model, _ = model.Update(keyPress(k))
			}
			got := model.(confirmModel)
			assert.True(t, got.done)
			assert.Equal(t, tt.want, got.confirmed)
		})
	}

	assert.Contains(t, newConfirmModel("Overwrite?").View(), "Overwrite?")
}

func TestDefaultSpinner(t *testing.T) {
	t.Run("Start and Stop", func(t *testing.T) {
		s := newBubbleSpinner("Loading...", io.Discard)
		s.Start()
		s.UpdateText("Still loading...")
		s.Stop()
	})

	t.Run("Double Start should not panic", func(t *testing.T) {
		s := newBubbleSpinner("Loading...", io.Discard)
		s.Start()
		s.Start()
		s.Stop()
	})

	t.Run("Stop without Start", func(t *testing.T) {
		s := newBubbleSpinner("Loading...", io.Discard)
		s.Stop()
		s.Stop()
	})
}

func TestNonInteractiveManager(t *testing.T) {
	newManager := func(input string) (*NonInteractiveManager, *bytes.Buffer, *bytes.Buffer) {
		m := NewNonInteractiveManager(false)
		out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
		m.out, m.errOut, m.in = out, errOut, strings.NewReader(input)
		return m, out, errOut
	}

	t.Run("preview saves and edit is identity", func(t *testing.T) {
		m, _, _ := newManager("")
		action, err := m.PromptPreviewAction()
		require.NoError(t, err)
		assert.Equal(t, ActionSave, action)

		edited, err := m.EditMessage("fix(x): y")
		require.NoError(t, err)
		assert.Equal(t, "fix(x): y", edited)
	})

	t.Run("DisplayMessage prints plain text", func(t *testing.T) {
		m, out, _ := newManager("")
		require.NoError(t, m.DisplayMessage("\nfeat(a): b\n"))
		assert.Equal(t, "feat(a): b\n", out.String())
	})

	t.Run("notifications go to stderr", func(t *testing.T) {
		m, out, errOut := newManager("")
		m.ShowError(apperrors.NewNoStagedChangesError())
		m.ShowWarning("No commit message was generated")
		m.ShowError(nil)
		assert.Equal(t, "Error: No changes detected\nWarning: No commit message was generated\n", errOut.String())
		assert.Empty(t, out.String())
	})

	t.Run("PromptSecret reads piped input", func(t *testing.T) {
		m, _, _ := newManager("  sk-ant-api03-piped  \nignored\n")
		secret, err := m.PromptSecret("Enter your Anthropic API Key")
		require.NoError(t, err)
		assert.Equal(t, "sk-ant-api03-piped", secret)

		m, _, _ = newManager("")
		secret, err = m.PromptSecret("Enter your Anthropic API Key")
		require.NoError(t, err)
		assert.Empty(t, secret)
	})

	t.Run("PromptHostname validates the current value", func(t *testing.T) {
		m, _, _ := newManager("")
		host, err := m.PromptHostname("http://localhost:11434", func(string) error { return nil })
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:11434", host)

		_, err = m.PromptHostname("nope", func(string) error { return errors.New("invalid") })
		assert.Error(t, err)
	})

	t.Run("PickModel keeps a listed model", func(t *testing.T) {
		m, _, _ := newManager("")
		model, err := m.PickModel([]string{"llama3.2", "qwen2.5-coder"}, "qwen2.5-coder")
		require.NoError(t, err)
		assert.Equal(t, "qwen2.5-coder", model)

		_, err = m.PickModel([]string{"llama3.2"}, "mistral")
		assert.ErrorIs(t, err, ErrNonInteractive)
	})

	t.Run("PromptConfirm always returns true", func(t *testing.T) {
		m, _, _ := newManager("")
		confirmed, err := m.PromptConfirm("Are you sure?")
		require.NoError(t, err)
		assert.True(t, confirmed)
	})

	t.Run("ShowSpinner is a no-op", func(t *testing.T) {
		m, _, _ := newManager("")
		s := m.ShowSpinner("test")
		_, ok := s.(*noopSpinner)
		assert.True(t, ok, "got %T", s)
		s.Start()
		s.UpdateText("x")
		s.Stop()
	})
}
