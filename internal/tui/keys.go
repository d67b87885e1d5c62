package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines keybindings
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Menu   key.Binding
	Home   key.Binding
	About  key.Binding
	Serv   key.Binding
	Reach  key.Binding
	Next   key.Binding
	Submit key.Binding
	Leave  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		Menu: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "menu"),
		),
		Home: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "home"),
		),
		About: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "about"),
		),
		Serv: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "services"),
		),
		Reach: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "contact"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Leave: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave form"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Menu, k.Next, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Menu},
		{k.Home, k.About, k.Serv, k.Reach},
		{k.Next, k.Submit, k.Leave},
		{k.Help, k.Quit},
	}
}
