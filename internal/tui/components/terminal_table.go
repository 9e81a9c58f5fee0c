package components

import (
	"fmt"

	"github.com/allbin/go-lin/internal/tui/colors"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
)

type ViewMode int

const (
	ViewModeFollow ViewMode = iota
	ViewModeVisual
)

const (
	columnKeyTime   = "time"
	columnKeyDir    = "dir"
	columnKeyID     = "id"
	columnKeyPID    = "pid"
	columnKeyHex    = "hex"
	columnKeyASCII  = "ascii"
	columnKeyChk    = "chk"
	columnKeyStatus = "status"
)

// maxLogRows bounds the frame log kept in memory
const maxLogRows = 5000

type TerminalTable struct {
	table     table.Model
	formatter *DataFormatter
	viewMode  ViewMode
	rawData   []FrameLogMsg
	width     int
	height    int
}

func NewTerminalTable(width, height int) *TerminalTable {
	tt := &TerminalTable{
		formatter: NewDataFormatter(true, true),
		viewMode:  ViewModeFollow,
		rawData:   make([]FrameLogMsg, 0),
	}
	tt.SetSize(width, height)
	return tt
}

func (tt *TerminalTable) SetSize(width, height int) {
	// Ensure minimum dimensions for proper table initialization
	if width < 80 {
		width = 80
	}
	if height < 5 {
		height = 5
	}
	tt.width = width
	tt.height = height
	tt.rebuild()
}

func (tt *TerminalTable) columns() []table.Column {
	displayMode := tt.formatter.GetDisplayMode()

	columns := []table.Column{
		table.NewColumn(columnKeyTime, "Time", 14),
		table.NewColumn(columnKeyDir, "↕", 5),
		table.NewColumn(columnKeyID, "ID", 5),
		table.NewColumn(columnKeyPID, "PID", 4),
	}
	// Hex gets more space since it's typically longer
	if displayMode.ShowHex {
		columns = append(columns, table.NewFlexColumn(columnKeyHex, "Data", 3))
	}
	if displayMode.ShowASCII {
		columns = append(columns, table.NewFlexColumn(columnKeyASCII, "ASCII", 1))
	}
	return append(columns,
		table.NewColumn(columnKeyChk, "Chk", 4),
		table.NewFlexColumn(columnKeyStatus, "Status", 2),
	)
}

// rebuild recreates the table after a change of size, columns or rows
func (tt *TerminalTable) rebuild() {
	rows := make([]table.Row, len(tt.rawData))
	for i, msg := range tt.rawData {
		rows[i] = tt.formatMessageAsRow(msg)
	}

	// header, its border and the footer take four lines
	pageSize := tt.height - 4
	if pageSize < 1 {
		pageSize = 1
	}

	highlighted := 0
	if tt.viewMode == ViewModeVisual {
		highlighted = tt.table.GetHighlightedRowIndex()
	}

	tt.table = table.New(tt.columns()).
		WithRows(rows).
		WithTargetWidth(tt.width).
		WithPageSize(pageSize).
		WithBaseStyle(lipgloss.NewStyle().
			Foreground(colors.Text).
			BorderForeground(colors.Surface1).
			Align(lipgloss.Left)).
		HeaderStyle(lipgloss.NewStyle().
			Foreground(colors.Text).
			Bold(true)).
		HighlightStyle(lipgloss.NewStyle().
			Foreground(colors.Text).
			Background(colors.Surface1)).
		Focused(tt.viewMode == ViewModeVisual)

	if tt.viewMode == ViewModeFollow {
		tt.gotoBottom()
	} else if highlighted < len(rows) {
		tt.table = tt.table.WithHighlightedRow(highlighted)
	}
}

func (tt *TerminalTable) gotoBottom() {
	if n := len(tt.rawData); n > 0 {
		tt.table = tt.table.WithHighlightedRow(n - 1).PageLast()
	}
}

func (tt *TerminalTable) formatMessageAsRow(msg FrameLogMsg) table.Row {
	style := lipgloss.NewStyle().Foreground(StatusColor(msg))
	timestamp := msg.Timestamp.Format("15:04:05.000")

	if msg.Note != "" {
		return table.NewRow(table.RowData{
			columnKeyTime:   timestamp,
			columnKeyDir:    Direction(msg),
			columnKeyStatus: msg.Note,
		}).WithStyle(style)
	}

	f := msg.Frame
	data := table.RowData{
		columnKeyTime:   timestamp,
		columnKeyDir:    Direction(msg),
		columnKeyID:     fmt.Sprintf("0x%02X", f.ID),
		columnKeyPID:    fmt.Sprintf("%02X", f.PID),
		columnKeyHex:    FormatHex(f.Data),
		columnKeyASCII:  FormatASCII(f.Data),
		columnKeyStatus: StatusText(msg),
	}
	if len(f.Data) > 0 {
		data[columnKeyChk] = fmt.Sprintf("%02X", f.Checksum)
	}
	return table.NewRow(data).WithStyle(style)
}

func (tt *TerminalTable) AddMessage(msg FrameLogMsg) {
	tt.rawData = append(tt.rawData, msg)
	if len(tt.rawData) > maxLogRows {
		tt.rawData = tt.rawData[len(tt.rawData)-maxLogRows:]
	}
	tt.rebuild()
}

func (tt *TerminalTable) RefreshDisplayWithRawData(rawData []FrameLogMsg) {
	tt.rawData = rawData
	tt.rebuild()
}

func (tt *TerminalTable) Rows() int {
	return len(tt.rawData)
}

func (tt *TerminalTable) Clear() {
	tt.rawData = make([]FrameLogMsg, 0)
	tt.rebuild()
}

func (tt *TerminalTable) ToggleHex() {
	tt.formatter.ToggleHex()
	tt.rebuild()
}

func (tt *TerminalTable) ToggleASCII() {
	tt.formatter.ToggleASCII()
	tt.rebuild()
}

func (tt *TerminalTable) GetDisplayMode() DisplayMode {
	return tt.formatter.GetDisplayMode()
}

func (tt *TerminalTable) GetViewMode() ViewMode {
	return tt.viewMode
}

func (tt *TerminalTable) SetViewMode(mode ViewMode) {
	tt.viewMode = mode
	tt.table = tt.table.Focused(mode == ViewModeVisual)
	if mode == ViewModeFollow {
		tt.gotoBottom()
	}
}

func (tt *TerminalTable) GotoTop() {
	tt.table = tt.table.WithHighlightedRow(0).PageFirst()
}

func (tt *TerminalTable) GotoBottom() {
	tt.gotoBottom()
}

func (tt *TerminalTable) Init() tea.Cmd {
	return nil
}

func (tt *TerminalTable) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Only allow table navigation in visual mode
	if tt.viewMode == ViewModeVisual {
		tt.table, cmd = tt.table.Update(msg)
	}

	return tt, cmd
}

func (tt *TerminalTable) View() string {
	return tt.table.View()
}

func (tt *TerminalTable) GetViewModeString() string {
	switch tt.viewMode {
	case ViewModeVisual:
		return "VISUAL"
	default:
		return "FOLLOW"
	}
}
