package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/allbin/go-lin"
	"github.com/allbin/go-lin/internal/tui/colors"
	"github.com/charmbracelet/lipgloss"
)

// FrameLogMsg is one finished exchange, or a note when Note is set
type FrameLogMsg struct {
	Timestamp time.Time
	Frame     lin.Frame
	Error     lin.Error
	Note      string
}

type DisplayMode struct {
	ShowHex   bool
	ShowASCII bool
}

type DataFormatter struct {
	mode DisplayMode
}

func NewDataFormatter(showHex, showASCII bool) *DataFormatter {
	return &DataFormatter{
		mode: DisplayMode{
			ShowHex:   showHex,
			ShowASCII: showASCII,
		},
	}
}

func (df *DataFormatter) SetDisplayMode(showHex, showASCII bool) {
	df.mode.ShowHex = showHex
	df.mode.ShowASCII = showASCII
}

func (df *DataFormatter) GetDisplayMode() DisplayMode {
	return df.mode
}

func (df *DataFormatter) ToggleHex() {
	df.mode.ShowHex = !df.mode.ShowHex
}

func (df *DataFormatter) ToggleASCII() {
	df.mode.ShowASCII = !df.mode.ShowASCII
}

// Direction is the arrow and label for the frame's direction on the bus
func Direction(msg FrameLogMsg) string {
	switch {
	case msg.Note != "":
		return "·"
	case msg.Frame.Type == lin.MasterRequest:
		return "↗ TX"
	default:
		return "↙ RX"
	}
}

// StatusText is "OK" for a good frame, otherwise the error bits
func StatusText(msg FrameLogMsg) string {
	switch {
	case msg.Note != "":
		return ""
	case msg.Error == lin.NoError:
		return "OK"
	default:
		return strings.ToUpper(msg.Error.String())
	}
}

// StatusColor picks the colour for a frame row
func StatusColor(msg FrameLogMsg) lipgloss.Color {
	switch {
	case msg.Note != "":
		return colors.Subtext0
	case msg.Error.Has(lin.ErrorTimeout) && len(msg.Frame.Data) == 0:
		return colors.Yellow
	case msg.Error != lin.NoError:
		return colors.Fault
	case msg.Frame.Type == lin.MasterRequest:
		return colors.TX
	default:
		return colors.RX
	}
}

func FormatHex(data []byte) string {
	return strings.ToUpper(fmt.Sprintf("% X", data))
}

func FormatASCII(data []byte) string {
	var out strings.Builder
	for _, b := range data {
		if b >= 32 && b <= 126 {
			out.WriteByte(b)
		} else {
			out.WriteByte('.')
		}
	}
	return out.String()
}

// FormatMessage renders msg as a single line
func (df *DataFormatter) FormatMessage(msg FrameLogMsg) string {
	timestampStyled := lipgloss.NewStyle().
		Foreground(colors.Subtext0).
		Render(fmt.Sprintf("[%s]", msg.Timestamp.Format("15:04:05.000")))

	if msg.Note != "" {
		return fmt.Sprintf("%s %s", timestampStyled, msg.Note)
	}

	indicator := lipgloss.NewStyle().
		Foreground(StatusColor(msg)).
		Bold(true).
		Render(Direction(msg))

	parts := []string{fmt.Sprintf("ID: 0x%02X", msg.Frame.ID)}
	if df.mode.ShowHex {
		parts = append(parts, fmt.Sprintf("HEX: %s", FormatHex(msg.Frame.Data)))
	}
	if df.mode.ShowASCII {
		parts = append(parts, fmt.Sprintf("ASCII: %s", FormatASCII(msg.Frame.Data)))
	}
	if !df.mode.ShowHex && !df.mode.ShowASCII {
		parts = append(parts, fmt.Sprintf("BYTES: %d", len(msg.Frame.Data)))
	}
	parts = append(parts, StatusText(msg))

	return fmt.Sprintf("%s %s: %s", timestampStyled, indicator, strings.Join(parts, "  "))
}

func (df *DataFormatter) FormatMessages(messages []FrameLogMsg) []string {
	formatted := make([]string, len(messages))
	for i, msg := range messages {
		formatted[i] = df.FormatMessage(msg)
	}
	return formatted
}
