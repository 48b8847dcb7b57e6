package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// PromptPreviewAction asks what to do with the previewed message.
func (m *DefaultManager) PromptPreviewAction() (Action, error) {
	p := tea.NewProgram(newActionSelectModel(), tea.WithOutput(m.errOut))

	finalModel, err := p.Run()
	if err != nil {
		return ActionClose, err
	}

	return finalModel.(actionSelectModel).selected, nil
}

// actionSelectModel is the Bubble Tea model for the preview actions.
type actionSelectModel struct {
	choices  []actionChoice
	cursor   int
	selected Action
	done     bool
}

type actionChoice struct {
	action Action
	label  string
	icon   string
	desc   string
}

func newActionSelectModel() actionSelectModel {
	return actionSelectModel{
		choices: []actionChoice{
			{ActionSave, "Save", "›", "Write the message to the commit message file"},
			{ActionEdit, "Edit", "•", "Modify the message"},
			{ActionClose, "Close", "×", "Close the preview"},
		},
		selected: ActionClose,
	}
}

func (m actionSelectModel) Init() tea.Cmd {
	return nil
}

func (m actionSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		return m.choose(ActionClose)
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case "enter", " ":
		return m.choose(m.choices[m.cursor].action)
	case "1":
		return m.choose(ActionSave)
	case "2":
		return m.choose(ActionEdit)
	case "3":
		return m.choose(ActionClose)
	}
	return m, nil
}

func (m actionSelectModel) choose(a Action) (tea.Model, tea.Cmd) {
	m.selected = a
	m.done = true
	return m, tea.Quit
}

func (m actionSelectModel) View() string {
	if m.done {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39"))

	selectedStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("212"))

	normalStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("What would you like to do?"))
	sb.WriteString("\n\n")

	for i, choice := range m.choices {
		cursor := "  "
		style := normalStyle
		if m.cursor == i {
			cursor = "▸ "
			style = selectedStyle
		}

		sb.WriteString(fmt.Sprintf("%s%s %s", cursor, choice.icon, style.Render(choice.label)))
		sb.WriteString(descStyle.Render(fmt.Sprintf(" - %s", choice.desc)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(descStyle.Render("↑/↓ or j/k to move • Enter to select • 1-3 quick select • q to close"))

	return sb.String()
}

// PromptConfirm prompts the user for a yes/no confirmation using Bubble Tea.
func (m *DefaultManager) PromptConfirm(message string) (bool, error) {
	p := tea.NewProgram(newConfirmModel(message), tea.WithOutput(m.errOut))

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	return finalModel.(confirmModel).confirmed, nil
}

// confirmModel is the Bubble Tea model for yes/no confirmation.
type confirmModel struct {
	message   string
	cursor    int // 0 = Yes, 1 = No
	confirmed bool
	done      bool
}

func newConfirmModel(message string) confirmModel {
	return confirmModel{message: message}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "n", "N":
		m.confirmed = false
		m.done = true
		return m, tea.Quit
	case "y", "Y":
		m.confirmed = true
		m.done = true
		return m, tea.Quit
	case "left", "h":
		m.cursor = 0
	case "right", "l":
		m.cursor = 1
	case "enter", " ":
		m.confirmed = m.cursor == 0
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("220"))

	selectedStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("42"))

	normalStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	yesStyle, noStyle := normalStyle, normalStyle
	if m.cursor == 0 {
		yesStyle = selectedStyle
	} else {
		noStyle = selectedStyle
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.message))
	sb.WriteString(" ")
	sb.WriteString(yesStyle.Render("[Y]es"))
	sb.WriteString(" / ")
	sb.WriteString(noStyle.Render("[N]o"))

	return sb.String()
}

// PromptSecret asks for a value with masked input.
func (m *DefaultManager) PromptSecret(title string) (string, error) {
	var value string
	err := huh.NewInput().
		Title(title).
		Password(true).
		Value(&value).
		Run()
	if err != nil {
		return "", ignoreAbort(err)
	}
	return strings.TrimSpace(value), nil
}

// PromptHostname asks for a server URL prefilled with current. validate runs
// on submit and the prompt stays open until it passes.
func (m *DefaultManager) PromptHostname(current string, validate func(string) error) (string, error) {
	value := current
	input := huh.NewInput().
		Title("Enter the Ollama server hostname").
		Placeholder(current).
		Value(&value)
	if validate != nil {
		input = input.Validate(validate)
	}

	if err := input.Run(); err != nil {
		return "", ignoreAbort(err)
	}
	return strings.TrimSpace(value), nil
}

// PickModel lets the operator choose one of models. current is preselected when listed.
func (m *DefaultManager) PickModel(models []string, current string) (string, error) {
	if len(models) == 0 {
		return "", fmt.Errorf("no models to choose from")
	}

	selected := current
	err := huh.NewSelect[string]().
		Title("Select an Ollama model").
		Value(&selected).
		Options(huh.NewOptions(models...)...).
		Run()
	if err != nil {
		return "", ignoreAbort(err)
	}
	return selected, nil
}

// ignoreAbort turns a cancelled form into a zero answer.
func ignoreAbort(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return nil
	}
	return err
}
