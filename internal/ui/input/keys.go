package input

import "github.com/charmbracelet/bubbles/key"

// KeyMap lists the bindings shown by the help bar
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Select   key.Binding
	Play     key.Binding
	Back     key.Binding
	First    key.Binding
	Rescan   key.Binding
	Toggle   key.Binding
	Inspect  key.Binding
	Settings key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the bindings of normal mode
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Play:     key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "play/pause")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		First:    key.NewBinding(key.WithKeys("g"), key.WithHelp("gg", "first item")),
		Rescan:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rescan")),
		Toggle:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "toggle navigation")),
		Inspect:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "inspect")),
		Settings: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "settings")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// PlaybackKeyMap returns the bindings active while a video plays
func PlaybackKeyMap() KeyMap {
	km := DefaultKeyMap()
	km.Left = key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "rewind"))
	km.Right = key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "forward"))
	km.Up = key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "volume up"))
	km.Down = key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "volume down"))
	return km
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Select, k.Play, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.First},
		{k.Select, k.Back, k.Play},
		{k.Rescan, k.Toggle, k.Inspect, k.Settings},
		{k.Help, k.Quit},
	}
}
