package components

import (
	"strings"

	"github.com/allbin/go-lin"
	"github.com/allbin/go-lin/internal/tui/colors"
	"github.com/allbin/go-lin/internal/tui/styles"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	placeholderRequest  = "Enter id and data in hex (e.g. 0x10 01 02)..."
	placeholderResponse = "Enter id and optional length (e.g. 0x20 4)..."
)

type Input struct {
	textInput     textinput.Model
	frameType     lin.FrameType
	history       []string
	historyIndex  int
	currentInput  string // Store current input when navigating history
	terminalWidth int    // Store terminal width for consistent sizing
}

func NewInput() *Input {
	ti := textinput.New()
	ti.Placeholder = placeholderRequest
	ti.CharLimit = 64
	ti.Prompt = "" // We handle prompt styling separately
	ti.Focus()

	return &Input{
		textInput:    ti,
		frameType:    lin.MasterRequest,
		history:      make([]string, 0),
		historyIndex: -1,
		currentInput: "",
	}
}

func (i *Input) SetWidth(width int) {
	i.terminalWidth = width
	// Account for: border(2) + padding(2) + prompt(1) + space(1) = 6 characters
	usableWidth := width - 6
	if usableWidth < 20 {
		usableWidth = 20
	}
	i.textInput.Width = usableWidth
}

func (i *Input) Focus() {
	i.textInput.Focus()
}

func (i *Input) Blur() {
	i.textInput.Blur()
}

func (i *Input) Value() string {
	return i.textInput.Value()
}

func (i *Input) SetValue(value string) {
	i.textInput.SetValue(value)
}

// ToggleFrameType switches between entering master requests and slave
// response requests
func (i *Input) ToggleFrameType() {
	switch i.frameType {
	case lin.MasterRequest:
		i.frameType = lin.SlaveResponse
		i.textInput.Placeholder = placeholderResponse
	default:
		i.frameType = lin.MasterRequest
		i.textInput.Placeholder = placeholderRequest
	}
}

func (i *Input) FrameType() lin.FrameType {
	return i.frameType
}

// FrameTypeString is the short label shown next to the input
func (i *Input) FrameTypeString() string {
	if i.frameType == lin.SlaveResponse {
		return "RX"
	}
	return "TX"
}

func (i *Input) Update(msg tea.Msg) (*Input, tea.Cmd) {
	var cmd tea.Cmd
	i.textInput, cmd = i.textInput.Update(msg)
	return i, cmd
}

func (i *Input) ViewWithMode(isInsertMode bool) string {
	var promptSymbol string
	var promptStyle lipgloss.Style
	if i.frameType == lin.SlaveResponse {
		promptSymbol = "?"
		promptStyle = lipgloss.NewStyle().
			Foreground(colors.RX).
			Bold(true)
	} else {
		promptSymbol = ">"
		promptStyle = lipgloss.NewStyle().
			Foreground(colors.TX).
			Bold(true)
	}

	styledPrompt := promptStyle.Render(promptSymbol)

	var inputContent string
	if isInsertMode {
		inputContent = lipgloss.JoinHorizontal(lipgloss.Left, styledPrompt, " ", i.textInput.View())
	} else {
		instruction := lipgloss.NewStyle().
			Foreground(colors.Overlay0).
			Render("Press 'i' to enter insert mode")
		inputContent = lipgloss.JoinHorizontal(lipgloss.Left, styledPrompt, " ", instruction)
	}

	// RoundedBorder adds 2 characters, padding (0,1) another 2
	adjustedWidth := i.terminalWidth - 4
	if adjustedWidth < 10 {
		adjustedWidth = 10
	}

	inputStyle := styles.InputStyle.
		Width(adjustedWidth).
		AlignHorizontal(lipgloss.Left)

	if isInsertMode {
		inputStyle = inputStyle.
			BorderForeground(colors.Green)
	}

	return inputStyle.Render(inputContent)
}

// AddToHistory adds a command to the history if it's not empty or a duplicate
func (i *Input) AddToHistory(command string) {
	command = strings.TrimSpace(command)
	if command == "" {
		return
	}

	if len(i.history) > 0 && i.history[len(i.history)-1] == command {
		return
	}

	i.history = append(i.history, command)

	// Keep only last 100 commands
	if len(i.history) > 100 {
		i.history = i.history[1:]
	}

	i.historyIndex = -1
	i.currentInput = ""
}

// NavigateHistoryUp moves up in command history
func (i *Input) NavigateHistoryUp() {
	if len(i.history) == 0 {
		return
	}

	// First time navigating: save current input
	if i.historyIndex == -1 {
		i.currentInput = i.textInput.Value()
		i.historyIndex = len(i.history) - 1
	} else if i.historyIndex > 0 {
		i.historyIndex--
	}

	i.textInput.SetValue(i.history[i.historyIndex])
}

// NavigateHistoryDown moves down in command history
func (i *Input) NavigateHistoryDown() {
	if len(i.history) == 0 || i.historyIndex == -1 {
		return
	}

	if i.historyIndex < len(i.history)-1 {
		i.historyIndex++
		i.textInput.SetValue(i.history[i.historyIndex])
	} else {
		// Back to current input
		i.historyIndex = -1
		i.textInput.SetValue(i.currentInput)
		i.currentInput = ""
	}
}
