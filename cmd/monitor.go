/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/allbin/go-lin"
	"github.com/allbin/go-lin/internal/tui/components"
	"github.com/allbin/go-lin/internal/tui/keys"
	"github.com/allbin/go-lin/internal/tui/models"
	"github.com/allbin/go-lin/internal/tui/styles"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Interactive LIN bus console",
	Long: `Open an interactive console on the LIN bus.

Frames typed into the input are sent as master requests, or, after
pressing Tab, as slave response requests. Every exchange is shown in a
frame log with its protected id, data, checksum and error bits, and the
status bar keeps a running count of completed and failed exchanges.

Example usage:
  lin monitor
  lin monitor --port /dev/ttyUSB1 --txen rts
  lin monitor -b 9600 -V 1`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		settings, err := loadBusSettings()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := runMonitorTUI(cmd.Context(), settings); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

type busCommandKind int

const (
	busRunFrame busCommandKind = iota
	busResetStats
)

// busCommand is sent from the TUI to the bus worker
type busCommand struct {
	kind  busCommandKind
	frame frameSpec
}

// busWorker owns the master. It runs the frames the user enters,
// reporting every exchange through send.
func busWorker(ctx context.Context, s busSettings, commands <-chan busCommand, send func(tea.Msg)) error {
	b, err := openBus(s)
	if err != nil {
		send(models.ConnectionStatusMsg{Connected: false, Error: err})
		<-ctx.Done()
		return nil
	}
	defer b.Close()
	send(models.ConnectionStatusMsg{Connected: true})

	return runBus(ctx, b.master, commands, send)
}

func runBus(ctx context.Context, m *lin.Master, commands <-chan busCommand, send func(tea.Msg)) error {
	for {
		var c busCommand
		select {
		case <-ctx.Done():
			return nil
		case c = <-commands:
		}

		if c.kind == busResetStats {
			m.ResetStats()
			send(models.StatsMsg{Stats: m.AllStats()})
			continue
		}

		m.ResetStateMachine()
		f, err := c.frame.run(ctx, m)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		send(components.FrameLogMsg{
			Timestamp: time.Now(),
			Frame:     f,
			Error:     lin.ErrorOf(err),
		})
		send(models.StatsMsg{Stats: m.AllStats()})
	}
}

// parseInputFrame turns a console line into a frame: "<id> <data>" for a
// master request, "<id> [len]" for a slave response.
func parseInputFrame(typ lin.FrameType, line string) (frameSpec, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return frameSpec{}, fmt.Errorf("empty input")
	}
	id, err := parseID(fields[0])
	if err != nil {
		return frameSpec{}, err
	}

	e := frameSpec{ID: id, Type: typ}
	switch typ {
	case lin.MasterRequest:
		if len(fields) < 2 {
			return e, fmt.Errorf("master request 0x%02X needs data", id)
		}
		if e.Data, err = parseFrameData(fields[1:]); err != nil {
			return e, err
		}
	default:
		if len(fields) > 2 {
			return e, fmt.Errorf("expected <id> [len], got %q", line)
		}
		if len(fields) == 2 {
			if e.Len, err = parseLen(fields[1]); err != nil {
				return e, err
			}
		}
	}
	return e, nil
}

// monitorModel represents the Bubble Tea model for the monitor command
type monitorModel struct {
	*models.BusModel
	table     *components.TerminalTable
	lines     *components.Terminal
	showLines bool
	statusBar *components.StatusBar
	input     *components.Input
	help      help.Model
	keys      keys.MonitorKeys
	commands  chan<- busCommand
}

func newMonitorModel(ctx context.Context, s busSettings, commands chan<- busCommand) *monitorModel {
	m := &monitorModel{
		BusModel:  models.NewBusModel(ctx, s.Port),
		table:     components.NewTerminalTable(0, 0), // Will be properly sized by WindowSizeMsg
		lines:     components.NewTerminal(0, 0),
		statusBar: components.NewStatusBar(s.Port),
		input:     components.NewInput(),
		help:      help.New(),
		keys:      keys.NewMonitorKeys(),
		commands:  commands,
	}
	m.statusBar.SetConnecting()
	m.statusBar.SetBusInfo(&components.BusInfo{
		BaudRate: s.Baud,
		Version:  s.Version,
		Break:    s.Break,
		TxEnable: s.TxEnable,
	})
	return m
}

func runMonitorTUI(ctx context.Context, s busSettings) error {
	commands := make(chan busCommand, 16)
	m := newMonitorModel(ctx, s, commands)
	defer m.Cleanup()

	g, gctx := errgroup.WithContext(m.GetContext())
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(gctx))

	g.Go(func() error {
		return busWorker(gctx, s, commands, p.Send)
	})
	g.Go(func() error {
		_, err := p.Run()
		// stop the worker once the console is gone
		m.Cleanup()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})

	return g.Wait()
}

func (m *monitorModel) Init() tea.Cmd {
	return nil
}

// submit queues a bus command without ever blocking the UI
func (m *monitorModel) submit(c busCommand) bool {
	select {
	case m.commands <- c:
		return true
	default:
		return false
	}
}

func (m *monitorModel) note(format string, args ...any) {
	msg := components.FrameLogMsg{
		Timestamp: time.Now(),
		Note:      fmt.Sprintf(format, args...),
	}
	m.addFrame(msg)
}

func (m *monitorModel) addFrame(msg components.FrameLogMsg) {
	m.AddRawData(msg)
	m.table.AddMessage(msg)
	m.lines.AddMessage(msg)
}

func (m *monitorModel) sendInput() {
	line := m.input.Value()
	if strings.TrimSpace(line) == "" {
		return
	}
	if !m.IsConnected() {
		m.note("Not connected")
		return
	}

	e, err := parseInputFrame(m.input.FrameType(), line)
	if err != nil {
		m.note("Invalid input: %v", err)
		return
	}
	if !m.submit(busCommand{kind: busRunFrame, frame: e}) {
		m.note("Bus busy, frame %s dropped", e)
		return
	}

	m.input.AddToHistory(line)
	m.input.SetValue("")
}

func (m *monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Input area height (includes border)
		inputHeight := 3
		// Status bar is single line, content border one more
		statusBarHeight := 1
		verticalMarginHeight := inputHeight + statusBarHeight + 1

		m.table.SetSize(msg.Width, msg.Height-verticalMarginHeight)
		m.lines.SetSize(msg.Width, msg.Height-verticalMarginHeight)
		m.input.SetWidth(msg.Width)
		m.statusBar.SetWidth(msg.Width)
		m.help.Width = msg.Width
		m.SetReady(true)

	case models.ConnectionStatusMsg:
		m.SetConnected(msg.Connected)
		if msg.Error != nil {
			m.SetError(msg.Error)
			m.statusBar.SetDisconnected(msg.Error)
		} else {
			m.statusBar.SetConnected()
		}

	case models.StatsMsg:
		m.SetStats(msg.Stats)
		m.statusBar.SetStats(msg.Stats)

	case components.FrameLogMsg:
		m.addFrame(msg)
		if msg.Error != lin.NoError {
			m.statusBar.SetLastError(msg.Error)
		}

	case tea.KeyMsg:
		if m.IsInInsertMode() {
			switch {
			case key.Matches(msg, m.keys.Escape):
				m.SetInputMode(models.InputModeNormal)
				m.input.Blur()
				return m, nil
			case key.Matches(msg, m.keys.Enter):
				m.sendInput()
				return m, nil
			case msg.String() == "up":
				m.input.NavigateHistoryUp()
				return m, nil
			case msg.String() == "down":
				m.input.NavigateHistoryDown()
				return m, nil
			case key.Matches(msg, m.keys.ToggleFrameType):
				m.input.ToggleFrameType()
				return m, nil
			}
		} else {
			switch {
			case key.Matches(msg, m.keys.Quit):
				m.Cleanup()
				return m, tea.Quit

			case key.Matches(msg, m.keys.Escape):
				m.table.SetViewMode(components.ViewModeFollow)

			case key.Matches(msg, m.keys.InsertMode):
				m.table.SetViewMode(components.ViewModeFollow)
				m.SetInputMode(models.InputModeInsert)
				m.input.Focus()
				return m, nil

			case key.Matches(msg, m.keys.VisualMode):
				m.table.SetViewMode(components.ViewModeVisual)

			case key.Matches(msg, m.keys.GotoTop):
				m.table.GotoTop()

			case key.Matches(msg, m.keys.GotoBottom):
				m.table.GotoBottom()

			case key.Matches(msg, m.keys.Clear):
				m.ClearData()
				m.table.Clear()
				m.lines.Clear()

			case key.Matches(msg, m.keys.Help):
				m.help.ShowAll = !m.help.ShowAll

			case key.Matches(msg, m.keys.ToggleHex):
				m.table.ToggleHex()
				m.lines.ToggleHex()
				m.lines.RefreshDisplayWithRawData(m.GetRawData())

			case key.Matches(msg, m.keys.ToggleASCII):
				m.table.ToggleASCII()
				m.lines.ToggleASCII()
				m.lines.RefreshDisplayWithRawData(m.GetRawData())

			case key.Matches(msg, m.keys.ToggleView):
				m.showLines = !m.showLines

			case key.Matches(msg, m.keys.ToggleFrameType):
				m.input.ToggleFrameType()

			case key.Matches(msg, m.keys.ResetStats):
				if m.submit(busCommand{kind: busResetStats}) {
					m.statusBar.SetLastError(lin.NoError)
				}

			default:
				// row navigation in visual mode
				_, cmd := m.table.Update(msg)
				cmds = append(cmds, cmd)
			}
		}
	}

	var cmd tea.Cmd
	if m.IsInInsertMode() {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	if _, isSize := msg.(tea.WindowSizeMsg); isSize {
		_, cmd = m.lines.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *monitorModel) View() string {
	var content string
	switch {
	case !m.IsReady():
		content = "Initializing..."
	case m.GetError() != nil:
		content = lipgloss.Place(m.lines.Width(), 5, lipgloss.Center, lipgloss.Center,
			styles.ErrorStyle.Render(m.statusBar.Status()))
	case m.showLines:
		content = m.lines.View()
	case m.table.Rows() == 0:
		content = lipgloss.Place(m.lines.Width(), 5, lipgloss.Center, lipgloss.Center,
			styles.InfoStyle.Render("Press 'i' and enter a frame, e.g. 0x10 01 02"))
	default:
		content = m.table.View()
	}

	input := m.input.ViewWithMode(m.IsInInsertMode())

	statusBar := m.statusBar.ComprehensiveStatusBar(
		m.GetInputMode().String(),
		m.input.FrameTypeString(),
		m.table.GetViewModeString(),
		m.IsConnected(),
		time.Now().Format("15:04:05"),
	)

	parts := []string{styles.ContentBorderStyle.Render(content), input, statusBar}
	if m.help.ShowAll {
		parts = append(parts, m.help.View(m.keys))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
