package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the viewer.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding

	// Navigation
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding
	ToggleFollow key.Binding

	// Search
	Search          key.Binding
	NextMatch       key.Binding
	PrevMatch       key.Binding
	ToggleRegex     key.Binding
	ToggleCase      key.Binding
	ToggleCrossLine key.Binding

	// Filter
	ToggleFilter  key.Binding
	ContextUp     key.Binding
	ContextDown   key.Binding
	Replacement   key.Binding
	TogglePreview key.Binding

	// Display and data
	CycleMode  key.Binding
	ToggleMeta key.Binding
	Export     key.Binding
	Clear      key.Binding

	// Input
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Clear search"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Scroll down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "Page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Half page down"),
		),
		ToggleFollow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Toggle follow"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		NextMatch: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Next match"),
		),
		PrevMatch: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "Previous match"),
		),
		ToggleRegex: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Regex on/off"),
		),
		ToggleCase: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Case sensitive on/off"),
		),
		ToggleCrossLine: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Cross-line on/off"),
		),

		ToggleFilter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Filter on/off"),
		),
		ContextUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "More context"),
		),
		ContextDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "Less context"),
		),
		Replacement: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Edit replacement"),
		),
		TogglePreview: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Replacement preview"),
		),

		CycleMode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "ASCII/HEX/MIXED"),
		),
		ToggleMeta: key.NewBinding(
			key.WithKeys("M"),
			key.WithHelp("M", "Timestamps on/off"),
		),
		Export: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "Export view"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "Clear records"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}

// ShortHelp returns key bindings for the command bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.NextMatch, k.ToggleFilter, k.ToggleFollow, k.Help, k.Quit}
}

// FullHelp returns key bindings grouped for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown, k.HalfPageUp, k.HalfPageDown, k.ToggleFollow},
		{k.Search, k.NextMatch, k.PrevMatch, k.ToggleRegex, k.ToggleCase, k.ToggleCrossLine, k.Escape},
		{k.ToggleFilter, k.ContextUp, k.ContextDown, k.Replacement, k.TogglePreview},
		{k.CycleMode, k.ToggleMeta, k.Export, k.Clear, k.CycleTheme, k.Help, k.Quit},
	}
}
