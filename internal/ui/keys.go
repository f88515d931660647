package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the reader's key bindings
type keyMap struct {
	Down         key.Binding
	Up           key.Binding
	HalfPageDown key.Binding
	HalfPageUp   key.Binding
	Top          key.Binding
	Bottom       key.Binding
	Toggle       key.Binding
	Focus        key.Binding
	Navigate     key.Binding
	Filter       key.Binding
	NextDoc      key.Binding
	PrevDoc      key.Binding
	Help         key.Binding
	Back         key.Binding
	Quit         key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d", "pgdown", " "),
			key.WithHelp("pgdn", "page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u", "pgup"),
			key.WithHelp("pgup", "page up"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "outline"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "focus"),
		),
		Navigate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "go to"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "find heading"),
		),
		NextDoc: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next doc"),
		),
		PrevDoc: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev doc"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Toggle, k.Focus, k.Filter, k.Help, k.Quit}
}

// FullHelp returns every binding grouped by column
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Up, k.HalfPageDown, k.HalfPageUp, k.Top, k.Bottom},
		{k.Toggle, k.Focus, k.Navigate, k.Filter, k.Back},
		{k.NextDoc, k.PrevDoc, k.Help, k.Quit},
	}
}
