package components

import (
	"fmt"

	"github.com/allbin/go-lin"
	"github.com/allbin/go-lin/internal/tui/colors"
	"github.com/charmbracelet/lipgloss"
)

// BusInfo is the static bus configuration shown in the status bar
type BusInfo struct {
	BaudRate int
	Version  lin.Version
	Break    lin.BreakMode
	TxEnable string
}

type StatusBar struct {
	portPath string
	status   string
	err      error
	width    int
	busInfo  *BusInfo
	stats    []uint64
	lastErr  lin.Error
}

func NewStatusBar(portPath string) *StatusBar {
	return &StatusBar{
		portPath: portPath,
		status:   "Initializing...",
	}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

func (sb *StatusBar) SetBusInfo(info *BusInfo) {
	sb.busInfo = info
}

// SetStats takes a Master.AllStats snapshot
func (sb *StatusBar) SetStats(stats []uint64) {
	sb.stats = stats
}

// SetLastError keeps the error bits of the most recent failed exchange
func (sb *StatusBar) SetLastError(e lin.Error) {
	sb.lastErr = e
}

func (sb *StatusBar) SetConnecting() {
	sb.status = "Connecting..."
	sb.err = nil
}

func (sb *StatusBar) SetConnected() {
	sb.status = "Connected"
	sb.err = nil
}

func (sb *StatusBar) SetDisconnected(err error) {
	if err != nil {
		sb.status = fmt.Sprintf("Connection failed: %v", err)
		sb.err = err
	} else {
		sb.status = "Disconnected"
		sb.err = nil
	}
}

func (sb *StatusBar) Status() string {
	return sb.status
}

func (sb *StatusBar) stat(c lin.Counter) uint64 {
	if int(c) < len(sb.stats) {
		return sb.stats[c]
	}
	return 0
}

// StatsText summarises the exchange counters
func (sb *StatusBar) StatsText() string {
	failed := sb.stat(lin.CntErrEcho) + sb.stat(lin.CntErrTimeout) + sb.stat(lin.CntErrChecksum) + sb.stat(lin.CntErrMisc)
	return fmt.Sprintf("%d/%d ok, %d err", sb.stat(lin.CntCompleted), sb.stat(lin.CntExchanges), failed)
}

// ComprehensiveStatusBar renders a comprehensive status bar with all connection info
func (sb *StatusBar) ComprehensiveStatusBar(inputMode, frameType, viewMode string, connected bool, timestamp string) string {
	terminalWidth := sb.width
	if terminalWidth <= 0 {
		terminalWidth = 80
	}

	// Section 1: Mode indicator (like NORMAL in nvim)
	modeStyle := lipgloss.NewStyle().
		Foreground(colors.Base).
		Bold(true).
		Padding(0, 1)
	switch inputMode {
	case "INSERT":
		modeStyle = modeStyle.Background(colors.Green)
	default:
		modeStyle = modeStyle.Background(colors.Blue)
		if viewMode == "VISUAL" {
			modeStyle = modeStyle.Background(colors.Mauve)
			inputMode = viewMode
		}
	}
	mode := modeStyle.Render(inputMode)

	// Section 2: Port path with connection indicator
	portStyle := lipgloss.NewStyle().
		Foreground(colors.Mauve).
		Bold(true).
		Padding(0, 1)
	port := portStyle.Render(sb.portPath)

	var connIndicator string
	var connStyle lipgloss.Style
	switch {
	case sb.err != nil:
		connStyle = lipgloss.NewStyle().Foreground(colors.Red)
		connIndicator = "✗"
	case connected:
		connStyle = lipgloss.NewStyle().Foreground(colors.Green)
		connIndicator = "●"
	case sb.status == "Connecting...":
		connStyle = lipgloss.NewStyle().Foreground(colors.Yellow)
		connIndicator = "○"
	default:
		connStyle = lipgloss.NewStyle().Foreground(colors.Red)
		connIndicator = "○"
	}
	connectionIndicator := connStyle.Render(connIndicator)

	// Section 3: Bus settings
	connInfo := "⚡ lin"
	if sb.busInfo != nil {
		connInfo = fmt.Sprintf("⚡ %d baud LIN %s %s break", sb.busInfo.BaudRate, sb.busInfo.Version, sb.busInfo.Break)
		if sb.busInfo.TxEnable != "" && sb.busInfo.TxEnable != "none" {
			connInfo += " txen:" + sb.busInfo.TxEnable
		}
	}
	connInfoStyle := lipgloss.NewStyle().
		Foreground(colors.Subtext0).
		Padding(0, 1)
	connectionDetails := connInfoStyle.Render(connInfo)

	// Section 4: Counters
	statsStyle := lipgloss.NewStyle().
		Foreground(colors.Subtext1).
		Padding(0, 1)
	stats := statsStyle.Render(sb.StatsText())

	timeStyle := lipgloss.NewStyle().
		Foreground(colors.Subtext1).
		Padding(0, 1)
	time := timeStyle.Render(timestamp)

	dividerStyle := lipgloss.NewStyle().
		Foreground(colors.Surface2).
		Padding(0, 1)
	divider := dividerStyle.Render("│")

	left := []string{mode, port, connectionIndicator}
	if inputMode == "INSERT" {
		frameTypeStyle := lipgloss.NewStyle().
			Foreground(colors.Peach).
			Bold(true).
			Padding(0, 1)
		left = append(left, frameTypeStyle.Render(fmt.Sprintf("[%s] Tab to toggle", frameType)))
	}
	if sb.lastErr != lin.NoError {
		lastErrStyle := lipgloss.NewStyle().
			Foreground(colors.Yellow).
			Padding(0, 1)
		left = append(left, lastErrStyle.Render("last: "+sb.lastErr.String()))
	}
	left = append(left, divider)
	leftSide := lipgloss.JoinHorizontal(lipgloss.Left, left...)

	rightSide := lipgloss.JoinHorizontal(lipgloss.Left, connectionDetails, divider, stats, divider, time)

	leftWidth := lipgloss.Width(leftSide)
	rightWidth := lipgloss.Width(rightSide)
	spacerWidth := terminalWidth - leftWidth - rightWidth
	if spacerWidth < 1 {
		spacerWidth = 1
	}

	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	statusBarStyle := lipgloss.NewStyle().
		Foreground(colors.Text).
		Background(colors.Surface0).
		Width(terminalWidth)

	content := lipgloss.JoinHorizontal(lipgloss.Left, leftSide, spacer, rightSide)
	return statusBarStyle.Render(content)
}
