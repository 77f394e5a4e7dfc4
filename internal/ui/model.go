package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertwitch/simfs/internal/shell"
)

const (
	maxLogLines    = 100
	maxOutputLines = 500
	maxHistory     = 50
)

//nolint:gochecknoglobals
var (
	// titleStyle defines the style for a panel's title.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	// borderStyle defines the style for a panel's borders.
	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4"))

	// commandStyle defines the style for echoed command lines.
	commandStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	// failureStyle defines the style for output of failed commands.
	failureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87"))

	// helpStyle defines the style for the help panel's text.
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Padding(0, 1)
)

// TeaModel is the principal [tea.Model] for the command-line user interface.
type TeaModel struct {
	width  int
	height int

	cancel context.CancelFunc

	uiHandler *Handler

	fullWidthWithBorders int

	input          textinput.Model
	outputViewport viewport.Model
	logsViewport   viewport.Model

	output []string
	logs   []string

	history    []string
	historyPos int

	ready bool
}

// NewTeaModel returns an initial new [TeaModel].
//
//nolint:mnd
func NewTeaModel(uiHandler *Handler, cancel context.CancelFunc) TeaModel {
	input := textinput.New()
	input.Prompt = "simfs> "
	input.Placeholder = "help"
	input.CharLimit = 256
	input.Focus()

	return TeaModel{
		uiHandler:      uiHandler,
		cancel:         cancel,
		input:          input,
		outputViewport: viewport.New(80, 20),
		logsViewport:   viewport.New(80, 10),
		output:         make([]string, 0, maxOutputLines),
		logs:           make([]string, 0, maxLogLines),
		history:        make([]string, 0, maxHistory),
	}
}

// Init initializes the model within a [tea.Program].
func (m TeaModel) Init() tea.Cmd {
	m.uiHandler.Initialized.Store(true)

	return tea.Batch(
		tea.EnterAltScreen,
		textinput.Blink,
	)
}

// Update is the principal message handling method of the model.
// It sets the internal state of the model, for later rendering.
//
//nolint:mnd,funlen,ireturn
func (m TeaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.cancel()

			return m, tea.Quit

		case tea.KeyEnter:
			if quit := m.execute(); quit {
				return m, tea.Quit
			}

			return m, nil

		case tea.KeyUp:
			m.browseHistory(-1)

			return m, nil

		case tea.KeyDown:
			m.browseHistory(1)

			return m, nil

		case tea.KeyPgUp:
			m.outputViewport.ViewUp()

			return m, nil

		case tea.KeyPgDown:
			m.outputViewport.ViewDown()

			return m, nil
		}

		// Keys go to the prompt only, the viewports would scroll on letters.
		m.input, cmd = m.input.Update(msg)

		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		m.fullWidthWithBorders = m.width - 2
		m.input.Width = m.fullWidthWithBorders - len(m.input.Prompt) - 1

		// The output panel takes about 60% of the height, minus the prompt
		// and help lines.
		upperHeight := (m.height - 4) * 3 / 5
		lowerHeight := m.height - 4 - upperHeight

		// Viewport heights: panel minus borders and title.
		m.outputViewport.Width = m.fullWidthWithBorders
		m.outputViewport.Height = max(upperHeight-3, 1)
		m.logsViewport.Width = m.fullWidthWithBorders
		m.logsViewport.Height = max(lowerHeight-3, 1)

		m.refreshOutput()
		m.refreshLogs()

		if !m.ready {
			m.ready = true
			m.uiHandler.Ready.Store(true)
		}

	case LogMsg:
		if len(m.logs) >= maxLogLines {
			m.logs = m.logs[1:]
		}
		m.logs = append(m.logs, string(msg))

		m.refreshLogs()
	}

	m.outputViewport, cmd = m.outputViewport.Update(msg)
	cmds = append(cmds, cmd)

	m.logsViewport, cmd = m.logsViewport.Update(msg)
	cmds = append(cmds, cmd)

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// execute runs the prompt's line in the shell and records its output. It
// returns true if the shell asked to exit.
func (m *TeaModel) execute() bool {
	line := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if line == "" {
		return false
	}

	if len(m.history) >= maxHistory {
		m.history = m.history[1:]
	}
	m.history = append(m.history, line)
	m.historyPos = len(m.history)

	out, err := m.uiHandler.shellHandler.Execute(line)
	if errors.Is(err, shell.ErrExit) {
		return true
	}

	m.appendOutput(commandStyle.Render(m.input.Prompt + line))

	if out != "" {
		if err != nil {
			out = failureStyle.Render(out)
		}
		m.appendOutput(strings.Split(out, "\n")...)
	}

	m.refreshOutput()

	return false
}

// browseHistory moves through the command history by delta and puts the
// selected command into the prompt.
func (m *TeaModel) browseHistory(delta int) {
	if len(m.history) == 0 {
		return
	}

	m.historyPos = min(max(m.historyPos+delta, 0), len(m.history))

	if m.historyPos == len(m.history) {
		m.input.SetValue("")

		return
	}

	m.input.SetValue(m.history[m.historyPos])
	m.input.CursorEnd()
}

func (m *TeaModel) appendOutput(lines ...string) {
	m.output = append(m.output, lines...)

	if over := len(m.output) - maxOutputLines; over > 0 {
		m.output = m.output[over:]
	}
}

func (m *TeaModel) refreshOutput() {
	if len(m.output) == 0 {
		return
	}

	m.outputViewport.SetContent(lipgloss.NewStyle().
		Width(m.outputViewport.Width).
		Render(strings.Join(m.output, "\n")))
	m.outputViewport.GotoBottom()
}

func (m *TeaModel) refreshLogs() {
	if len(m.logs) == 0 {
		return
	}

	m.logsViewport.SetContent(lipgloss.NewStyle().
		Width(m.logsViewport.Width).
		Render(strings.TrimSuffix(strings.Join(m.logs, ""), "\n")))
	m.logsViewport.GotoBottom()
}

// View is the principal rendering function of the model.
func (m TeaModel) View() string {
	if !m.ready {
		return "Loading the GUI..."
	}

	var s strings.Builder

	outputSection := m.panel("Shell", m.outputViewport.View())
	logsSection := m.panel("Logs", m.logsViewport.View())

	helpSection := helpStyle.
		Width(m.fullWidthWithBorders).
		Render("enter: run • up/down: history • pgup/pgdown: scroll • exit: quit shell • ctrl+c: quit program")

	s.WriteString(lipgloss.JoinVertical(
		lipgloss.Left,
		outputSection,
		m.input.View(),
		logsSection,
		helpSection,
	))

	return s.String()
}

// panel is a helper function for rendering a titled, bordered panel.
func (m TeaModel) panel(title string, content string) string {
	return borderStyle.
		Width(m.fullWidthWithBorders).
		Render(
			lipgloss.JoinVertical(
				lipgloss.Left,
				titleStyle.Width(m.fullWidthWithBorders).Render(title),
				lipgloss.NewStyle().Width(m.fullWidthWithBorders).Render(content),
			),
		)
}
