package keys

import "github.com/charmbracelet/bubbles/key"

// MonitorKeys are the bindings of the bus console
type MonitorKeys struct {
	ModeKeys
	LogKeys
	Enter           key.Binding
	ToggleFrameType key.Binding
	ResetStats      key.Binding
}

func NewMonitorKeys() MonitorKeys {
	return MonitorKeys{
		ModeKeys: NewModeKeys(),
		LogKeys:  NewLogKeys(),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send frame"),
		),
		ToggleFrameType: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "request/response"),
		),
		ResetStats: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset counters"),
		),
	}
}

func (k MonitorKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.InsertMode, k.VisualMode, k.ResetStats, k.Quit}
}

func (k MonitorKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.InsertMode, k.VisualMode, k.Escape, k.Clear},
		{k.ToggleHex, k.ToggleASCII, k.ToggleView, k.ToggleFrameType},
		{k.GotoTop, k.GotoBottom, k.Up, k.Down},
		{k.Enter, k.ResetStats},
		{k.Help, k.Quit},
	}
}
