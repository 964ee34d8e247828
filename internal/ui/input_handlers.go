package ui

import (
	"log"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/portscope/internal/logtail"
	"github.com/five82/portscope/internal/match"
	"github.com/five82/portscope/internal/prefs"
)

// handleKey routes keyboard input: help overlay first, then an active line
// editor, then the global bindings.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch m.input {
	case inputSearch:
		return m.handleSearchKey(msg)
	case inputReplace:
		return m.handleReplaceKey(msg)
	}

	m.message = ""
	keys := m.keys
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, keys.Escape):
		m.searchInput.SetValue("")
		q := m.engine.Staged().Query
		q.Pattern = ""
		m.engine.SetQuery(q)
		m.engine.Flush()
		return m.scrolled()

	// Search
	case key.Matches(msg, keys.Search):
		m.input = inputSearch
		m.searchInput.SetValue(m.engine.Staged().Query.Pattern)
		m.searchInput.CursorEnd()
		cmd := m.searchInput.Focus()
		return m, cmd

	case key.Matches(msg, keys.NextMatch):
		m.engine.Next()
		return m.scrolled()

	case key.Matches(msg, keys.PrevMatch):
		m.engine.Prev()
		return m.scrolled()

	case key.Matches(msg, keys.ToggleRegex):
		return m.toggleQuery(func(q *match.Query) { q.Regex = !q.Regex })

	case key.Matches(msg, keys.ToggleCase):
		return m.toggleQuery(func(q *match.Query) { q.CaseSensitive = !q.CaseSensitive })

	case key.Matches(msg, keys.ToggleCrossLine):
		return m.toggleQuery(func(q *match.Query) { q.CrossLine = !q.CrossLine })

	// Filter
	case key.Matches(msg, keys.ToggleFilter):
		m.engine.SetFiltering(!m.engine.Filtering())
		return m.scrolled()

	case key.Matches(msg, keys.ContextUp):
		return m.stageContext(1)

	case key.Matches(msg, keys.ContextDown):
		return m.stageContext(-1)

	case key.Matches(msg, keys.Replacement):
		m.input = inputReplace
		m.replaceInput.SetValue(m.engine.Staged().Replacement)
		m.replaceInput.CursorEnd()
		cmd := m.replaceInput.Focus()
		return m, cmd

	case key.Matches(msg, keys.TogglePreview):
		m.engine.SetPreview(!m.engine.Preview())
		return m.scrolled()

	// Display and data
	case key.Matches(msg, keys.CycleMode):
		m.engine.SetMode(m.engine.Mode().Next())
		m.savePrefs()
		return m.scrolled()

	case key.Matches(msg, keys.ToggleMeta):
		m.showMeta = !m.showMeta
		m.savePrefs()
		return m, nil

	case key.Matches(msg, keys.Export):
		return m, m.exportCmd(time.Now())

	case key.Matches(msg, keys.Clear):
		m.engine.Store().Clear()
		m.engine.Sync()
		return m.scrolled()

	// Navigation
	case key.Matches(msg, keys.ToggleFollow):
		m.engine.ToggleFollow()
		return m.scrolled()
	}

	return m.handleNavKey(msg)
}

// handleNavKey moves the viewport. These are user scrolls: the list reports
// its new range and the scroll controller decides about follow.
func (m Model) handleNavKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	page := max(m.list.height, 1)
	if !isNavKey(msg, keys) {
		return m, nil
	}
	m.userScroll()
	switch {
	case key.Matches(msg, keys.Up):
		m.list.ScrollBy(-1)
	case key.Matches(msg, keys.Down):
		m.list.ScrollBy(1)
	case key.Matches(msg, keys.PageUp):
		m.list.ScrollBy(-page)
	case key.Matches(msg, keys.PageDown):
		m.list.ScrollBy(page)
	case key.Matches(msg, keys.HalfPageUp):
		m.list.ScrollBy(-page / 2)
	case key.Matches(msg, keys.HalfPageDown):
		m.list.ScrollBy(page / 2)
	case key.Matches(msg, keys.Top):
		m.list.Top()
	case key.Matches(msg, keys.Bottom):
		m.list.Bottom()
	}
	return m.scrolled()
}

func isNavKey(msg tea.KeyMsg, keys keyMap) bool {
	return key.Matches(msg, keys.Up, keys.Down, keys.PageUp, keys.PageDown,
		keys.HalfPageUp, keys.HalfPageDown, keys.Top, keys.Bottom)
}

// handleMouse scrolls on the wheel the same way the arrow keys do.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.userScroll()
		m.list.ScrollBy(-wheelStep)
	case tea.MouseButtonWheelDown:
		m.userScroll()
		m.list.ScrollBy(wheelStep)
	default:
		return m, nil
	}
	return m.scrolled()
}

// userScroll ends the window of an earlier scroll request before the user
// moves the list. The list applies requests synchronously, so anything it
// reports from here on is the user's position and must reach the follow
// heuristic.
func (m *Model) userScroll() {
	m.engine.Settle()
}

// handleSearchKey edits the pattern. Every keystroke stages a new query
// generation; only the last one survives the debounce.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.input = inputNone
		m.searchInput.Blur()
		m.engine.Flush()
		return m.scrolled()
	case msg.Type == tea.KeyEsc:
		m.input = inputNone
		m.searchInput.Blur()
		return m, nil
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() == before {
		return m, cmd
	}
	q := m.engine.Staged().Query
	q.Pattern = m.searchInput.Value()
	gen := m.engine.SetQuery(q)
	return m, tea.Batch(cmd, commitCmd(gen, m.cfg.InputDebounce))
}

func (m Model) handleReplaceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.input = inputNone
		m.replaceInput.Blur()
		m.engine.Flush()
		return m.scrolled()
	case msg.Type == tea.KeyEsc:
		m.input = inputNone
		m.replaceInput.Blur()
		return m, nil
	}

	before := m.replaceInput.Value()
	var cmd tea.Cmd
	m.replaceInput, cmd = m.replaceInput.Update(msg)
	if m.replaceInput.Value() == before {
		return m, cmd
	}
	gen := m.engine.SetReplacement(m.replaceInput.Value())
	return m, tea.Batch(cmd, commitCmd(gen, m.cfg.InputDebounce))
}

// toggleQuery flips a query flag and applies it at once.
func (m Model) toggleQuery(flip func(*match.Query)) (tea.Model, tea.Cmd) {
	q := m.engine.Staged().Query
	flip(&q)
	m.engine.SetQuery(q)
	m.engine.Flush()
	return m.scrolled()
}

// stageContext adjusts the context size through the debounce.
func (m Model) stageContext(delta int) (tea.Model, tea.Cmd) {
	gen := m.engine.SetContext(m.engine.Staged().Context + delta)
	return m, commitCmd(gen, m.cfg.InputDebounce)
}

func (m Model) exportCmd(now time.Time) tea.Cmd {
	path := m.cfg.ExportPath(now)
	recs := m.engine.Records()
	includeMeta := m.showMeta
	mode := m.engine.Mode()
	return func() tea.Msg {
		err := logtail.WriteFile(path, recs, includeMeta, mode)
		return exportMsg{path: path, err: err}
	}
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{
		Theme:        m.theme.Name,
		RenderMode:   m.engine.Mode(),
		HasMode:      true,
		ShowMetadata: m.showMeta,
	}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		log.Printf("save prefs failed: %v", err)
	}
}
