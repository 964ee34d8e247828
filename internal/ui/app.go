package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/portscope/internal/config"
	"github.com/five82/portscope/internal/engine"
	"github.com/five82/portscope/internal/prefs"
	"github.com/five82/portscope/internal/scroll"
)

// inputMode is the line editor currently holding focus.
type inputMode int

const (
	inputNone inputMode = iota
	inputSearch
	inputReplace
)

// Options configures the UI.
type Options struct {
	Engine    *engine.Engine
	Config    config.Config
	Prefs     prefs.Prefs
	PrefsPath string
	SyncEvery time.Duration
}

// Model is the root application state for Bubble Tea. The engine and row
// list are shared pointers; everything else is copied per update.
type Model struct {
	// Configuration
	engine    *engine.Engine
	cfg       config.Config
	prefsPath string
	syncEvery time.Duration

	// UI state
	list     *rowList
	keys     keyMap
	theme    Theme
	showMeta bool
	width    int
	height   int
	ready    bool
	showHelp bool
	message  string

	// Inputs
	input        inputMode
	searchInput  textinput.Model
	replaceInput textinput.Model

	// Scheduled ticks
	settling         bool
	visibleScheduled bool
}

// New creates a new Bubble Tea model and attaches its row list to the engine.
func New(opts Options) Model {
	syncEvery := opts.SyncEvery
	if syncEvery <= 0 {
		syncEvery = DefaultSyncInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	list := newRowList(opts.Engine.Len)
	opts.Engine.Attach(list)

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "pattern"
	search.CharLimit = 512

	replace := textinput.New()
	replace.Prompt = "replace: "
	replace.Placeholder = "replacement"
	replace.CharLimit = 512

	return Model{
		engine:       opts.Engine,
		cfg:          opts.Config,
		prefsPath:    prefsPath,
		syncEvery:    syncEvery,
		list:         list,
		keys:         DefaultKeyMap(),
		theme:        GetTheme(opts.Prefs.Theme),
		showMeta:     opts.Prefs.ShowMetadata,
		searchInput:  search,
		replaceInput: replace,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		syncCmd(m.syncEvery),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.showHelp {
			return m, nil
		}
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.list.SetHeight(m.bodyHeight())
		m.searchInput.Width = max(m.width-4, 1)
		m.replaceInput.Width = max(m.width-12, 1)
		if m.engine.AutoFollow() {
			m.engine.ScrollTo(m.engine.Len()-1, scroll.AlignEnd)
		}
		return m.scrolled()

	case syncMsg:
		m.engine.Sync()
		cmd := m.afterScroll()
		return m, tea.Batch(cmd, syncCmd(m.syncEvery))

	case AppendedMsg:
		if m.engine.Sync() {
			return m.scrolled()
		}
		return m, nil

	case commitMsg:
		if m.engine.Commit(msg.gen) {
			return m.scrolled()
		}
		return m, nil

	case settleMsg:
		m.settling = false
		m.engine.Settle()
		return m.scrolled()

	case visibleMsg:
		m.visibleScheduled = false
		m.engine.FlushVisible()
		return m.scrolled()

	case exportMsg:
		if msg.err != nil {
			m.message = "export failed: " + msg.err.Error()
		} else {
			m.message = "exported to " + msg.path
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

func (m Model) bodyHeight() int {
	return max(m.height-chromeHeight, 0)
}

// afterScroll runs after anything that may have moved the viewport. It
// reports a changed visible range the way a virtualized widget would, and
// schedules the settle and debounce ticks that the scroll controller needs.
func (m *Model) afterScroll() tea.Cmd {
	var cmds []tea.Cmd
	if start, stop, ok := m.list.Changed(); ok {
		m.engine.VisibleRangeChanged(start, stop)
	}
	if m.engine.Programmatic() && !m.settling {
		m.settling = true
		cmds = append(cmds, settleCmd())
	}
	if due, ok := m.engine.VisibleDue(); ok && !m.visibleScheduled {
		m.visibleScheduled = true
		cmds = append(cmds, visibleCmd(time.Until(due)))
	}
	return tea.Batch(cmds...)
}

// scrolled returns the model with its scroll bookkeeping done.
func (m Model) scrolled() (tea.Model, tea.Cmd) {
	cmd := m.afterScroll()
	return m, cmd
}

// Messages

type syncMsg time.Time

// AppendedMsg tells the model that records were appended to the store.
// Ingestion goroutines send it through the program to skip the sync wait.
type AppendedMsg struct{}

type commitMsg struct {
	gen uint64
}

type settleMsg struct{}

type visibleMsg struct{}

type exportMsg struct {
	path string
	err  error
}

// Commands

func syncCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return syncMsg(t)
	})
}

func commitCmd(gen uint64, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return commitMsg{gen: gen}
	})
}

func settleCmd() tea.Cmd {
	return tea.Tick(FrameInterval, func(time.Time) tea.Msg {
		return settleMsg{}
	})
}

func visibleCmd(d time.Duration) tea.Cmd {
	return tea.Tick(max(d, time.Millisecond), func(time.Time) tea.Msg {
		return visibleMsg{}
	})
}

// NewProgram builds the Bubble Tea program. The caller runs it and may Send
// AppendedMsg from other goroutines.
func NewProgram(ctx context.Context, opts Options) *tea.Program {
	return tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
}
