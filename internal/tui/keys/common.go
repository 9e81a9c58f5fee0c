package keys

import "github.com/charmbracelet/bubbles/key"

// ModeKeys switch between the vim-like console modes
type ModeKeys struct {
	Quit       key.Binding
	Help       key.Binding
	InsertMode key.Binding
	VisualMode key.Binding
	Escape     key.Binding
}

func NewModeKeys() ModeKeys {
	return ModeKeys{
		Quit: key.NewBinding(
			key.WithKeys("q", "Q", "ctrl+c"),
			key.WithHelp("q/ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		InsertMode: key.NewBinding(
			key.WithKeys("i", "I"),
			key.WithHelp("i", "enter a frame"),
		),
		VisualMode: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "browse log"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "follow log"),
		),
	}
}

// LogKeys act on the frame log
type LogKeys struct {
	Clear       key.Binding
	ToggleHex   key.Binding
	ToggleASCII key.Binding
	ToggleView  key.Binding
	GotoTop     key.Binding
	GotoBottom  key.Binding
	Up          key.Binding
	Down        key.Binding
}

func NewLogKeys() LogKeys {
	return LogKeys{
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear frame log"),
		),
		ToggleHex: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "data hex"),
		),
		ToggleASCII: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "data ascii"),
		),
		ToggleView: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "table/lines"),
		),
		GotoTop: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "first frame"),
		),
		GotoBottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "last frame"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous frame"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next frame"),
		),
	}
}
