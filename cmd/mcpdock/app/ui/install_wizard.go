package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/drydocklabs/mcpdock/pkg/catalog"
	"github.com/drydocklabs/mcpdock/pkg/installer"
)

// Styles for the wizard
var (
	wizardDocStyle     = lipgloss.NewStyle().Margin(1, 2)
	wizardTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	wizardHelpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	wizardPreviewStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
	wizardErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// WizardStep represents the current step in the wizard
type WizardStep int

const (
	// StepParameterEntry is the step where parameter values are typed in
	StepParameterEntry WizardStep = iota
	// StepConfirm is the step for reviewing and confirming the values
	StepConfirm
)

// ParameterPrompt is one parameter the wizard collects a value for.
type ParameterPrompt struct {
	Name string
	Spec catalog.MCPServerParameter
}

// InstallWizardModel is the bubbletea model for the install parameter wizard
type InstallWizardModel struct {
	ServerID string
	Prompts  []ParameterPrompt

	CurrentStep WizardStep
	Index       int
	Input       textinput.Model

	// Values holds the entered values keyed by parameter name. Prompts
	// left empty are absent; defaults are applied later at resolve time.
	Values map[string]string

	Quitting  bool
	Confirmed bool
	Error     string
}

// NewInstallWizardModel creates a wizard model for the given prompts.
func NewInstallWizardModel(serverID string, prompts []ParameterPrompt) *InstallWizardModel {
	input := textinput.New()
	input.Width = 60

	m := &InstallWizardModel{
		ServerID:    serverID,
		Prompts:     prompts,
		CurrentStep: StepParameterEntry,
		Input:       input,
		Values:      make(map[string]string),
	}
	m.configureInput()
	return m
}

// configureInput points the text input at the current prompt, restoring a
// previously entered value when the user navigated back.
func (m *InstallWizardModel) configureInput() {
	prompt := m.Prompts[m.Index]
	m.Input.SetValue(m.Values[prompt.Name])
	m.Input.Placeholder = parameterPlaceholder(prompt.Spec)
	if prompt.Spec.IsSecret() {
		m.Input.EchoMode = textinput.EchoPassword
		m.Input.EchoCharacter = '•'
	} else {
		m.Input.EchoMode = textinput.EchoNormal
	}
	m.Input.Focus()
}

func parameterPlaceholder(spec catalog.MCPServerParameter) string {
	if spec.Placeholder != "" {
		return spec.Placeholder
	}
	if spec.Default != "" {
		return fmt.Sprintf("default: %s", spec.Default)
	}
	return spec.Type
}

// Init implements tea.Model
func (*InstallWizardModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m *InstallWizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKeyPress(keyMsg)
	}

	if m.CurrentStep == StepParameterEntry {
		var cmd tea.Cmd
		m.Input, cmd = m.Input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *InstallWizardModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Global keys. Plain letters stay with the text input while a value
	// is being entered, so only ctrl+c cancels unconditionally.
	switch key {
	case keyCtrlC:
		m.Confirmed = false
		m.Quitting = true
		return m, tea.Quit
	case keyEsc:
		return m.handleEscape()
	}

	switch m.CurrentStep {
	case StepParameterEntry:
		return m.handleEntryKeys(key, msg)
	case StepConfirm:
		return m.handleConfirmKeys(key)
	}

	return m, nil
}

func (m *InstallWizardModel) handleEscape() (tea.Model, tea.Cmd) {
	switch m.CurrentStep {
	case StepConfirm:
		m.CurrentStep = StepParameterEntry
		m.Index = len(m.Prompts) - 1
		m.configureInput()
		return m, textinput.Blink
	case StepParameterEntry:
		if m.Index > 0 {
			m.Error = ""
			m.Index--
			m.configureInput()
			return m, textinput.Blink
		}
		m.Confirmed = false
		m.Quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *InstallWizardModel) handleEntryKeys(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key != keyEnter {
		var cmd tea.Cmd
		m.Input, cmd = m.Input.Update(msg)
		return m, cmd
	}

	prompt := m.Prompts[m.Index]
	value := strings.TrimSpace(m.Input.Value())

	if value == "" {
		if prompt.Spec.Required && prompt.Spec.Default == "" {
			m.Error = fmt.Sprintf("Parameter %s is required", prompt.Name)
			return m, nil
		}
		delete(m.Values, prompt.Name)
	} else {
		normalized, err := installer.ValidateParameterValue(prompt.Name, prompt.Spec, value)
		if err != nil {
			m.Error = err.Error()
			return m, nil
		}
		m.Values[prompt.Name] = normalized
	}

	m.Error = ""
	if m.Index < len(m.Prompts)-1 {
		m.Index++
		m.configureInput()
		return m, textinput.Blink
	}

	m.Input.Blur()
	m.CurrentStep = StepConfirm
	return m, nil
}

func (m *InstallWizardModel) handleConfirmKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case keyEnter, keyY:
		m.Confirmed = true
		m.Quitting = true
		return m, tea.Quit
	case keyE:
		m.CurrentStep = StepParameterEntry
		m.Index = 0
		m.configureInput()
		return m, textinput.Blink
	case keyN, keyQ:
		m.Confirmed = false
		m.Quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model
func (m *InstallWizardModel) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder

	switch m.CurrentStep {
	case StepParameterEntry:
		m.viewParameterEntry(&b)
	case StepConfirm:
		m.viewConfirm(&b)
	}

	return wizardDocStyle.Render(b.String())
}

func (m *InstallWizardModel) viewParameterEntry(b *strings.Builder) {
	prompt := m.Prompts[m.Index]

	b.WriteString(wizardTitleStyle.Render(fmt.Sprintf("Install %s", m.ServerID)) + "\n\n")
	fmt.Fprintf(b, "Parameter %d of %d: %s%s\n", m.Index+1, len(m.Prompts), prompt.Name, requiredMarker(prompt.Spec))
	if prompt.Spec.Description != "" {
		b.WriteString(wizardHelpStyle.Render(prompt.Spec.Description) + "\n")
	}
	b.WriteString("\n" + m.Input.View() + "\n")

	if m.Error != "" {
		b.WriteString("\n" + wizardErrorStyle.Render(m.Error) + "\n")
	}

	help := "Press 'enter' to continue, 'esc' to go back, 'ctrl+c' to cancel"
	if !prompt.Spec.Required || prompt.Spec.Default != "" {
		help = "Press 'enter' to continue (empty keeps the default), 'esc' to go back, 'ctrl+c' to cancel"
	}
	b.WriteString("\n" + wizardHelpStyle.Render(help))
}

func requiredMarker(spec catalog.MCPServerParameter) string {
	if spec.Required {
		return " (required)"
	}
	return " (optional)"
}

func (m *InstallWizardModel) viewConfirm(b *strings.Builder) {
	b.WriteString(wizardTitleStyle.Render(fmt.Sprintf("Install %s: review parameters", m.ServerID)) + "\n\n")

	var lines []string
	for _, prompt := range m.Prompts {
		value, ok := m.Values[prompt.Name]
		switch {
		case ok && prompt.Spec.IsSecret():
			value = "********"
		case !ok && prompt.Spec.Default != "":
			value = fmt.Sprintf("%s (default)", prompt.Spec.Default)
		case !ok:
			value = "(not set)"
		}
		lines = append(lines, fmt.Sprintf("%s = %s", prompt.Name, value))
	}
	b.WriteString(wizardPreviewStyle.Render(strings.Join(lines, "\n")) + "\n\n")

	b.WriteString(wizardHelpStyle.Render("[Enter/y] Install  [e] Edit  [n/q] Cancel"))
}

// IsConfirmed returns whether the user confirmed the values
func (m *InstallWizardModel) IsConfirmed() bool {
	return m.Confirmed
}

// RunInstallWizard prompts for the given parameters and returns the entered
// values. The second return reports whether the user confirmed; on cancel
// the values must be discarded.
func RunInstallWizard(serverID string, prompts []ParameterPrompt) (map[string]string, bool, error) {
	if len(prompts) == 0 {
		return map[string]string{}, true, nil
	}

	model := NewInstallWizardModel(serverID, prompts)

	p := tea.NewProgram(model)
	finalModel, err := p.Run()
	if err != nil {
		return nil, false, err
	}

	m := finalModel.(*InstallWizardModel)
	return m.Values, m.IsConfirmed(), nil
}
