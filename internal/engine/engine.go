package engine

import (
	"time"

	"github.com/five82/portscope/internal/filter"
	"github.com/five82/portscope/internal/match"
	"github.com/five82/portscope/internal/navigate"
	"github.com/five82/portscope/internal/record"
	"github.com/five82/portscope/internal/scroll"
)

// DefaultMaxContext caps the context size when none is configured.
const DefaultMaxContext = 10

// Options configure a session.
type Options struct {
	CrossLineWindow int
	MaxContext      int
	Mode            record.Mode
	Scroll          scroll.Options
}

// Inputs are the debounced search parameters.
type Inputs struct {
	Query       match.Query
	Context     int
	Replacement string
}

// Status is what the status bar shows.
type Status struct {
	Total      int
	Rows       int
	Dropped    uint64
	Matches    int
	Position   int // 1-based; 0 with no matches
	Valid      bool
	PatternErr error
	Searching  bool // staged inputs not yet committed
	Filtering  bool
	Preview    bool
	AutoFollow bool
	Mode       record.Mode
	Inputs     Inputs
}

// Engine is one viewer session. It owns the derived state (texts, matches,
// view, navigation, scroll) for a record store and is driven from a single
// goroutine.
type Engine struct {
	store    *record.Store
	matcher  *match.Matcher
	scroller *scroll.Controller
	nav      *navigate.Navigator

	maxContext int
	mode       record.Mode
	filtering  bool
	preview    bool

	staged  Inputs
	applied Inputs
	gen     uint64

	compiled match.Compiled
	version  uint64
	synced   bool
	snap     record.Snapshot
	texts    []string
	matches  match.Map
	view     filter.View
}

// New creates a session over store. Attach a widget before scrolling matters.
func New(store *record.Store, opts Options) *Engine {
	if opts.MaxContext <= 0 {
		opts.MaxContext = DefaultMaxContext
	}
	sc := scroll.New(nil, opts.Scroll)
	e := &Engine{
		store:      store,
		matcher:    match.NewMatcher(match.Options{WindowSize: opts.CrossLineWindow}),
		scroller:   sc,
		nav:        navigate.New(sc),
		maxContext: opts.MaxContext,
		mode:       opts.Mode,
		compiled:   match.Compile(match.Query{}),
	}
	e.Sync()
	return e
}

// Attach connects the virtualized list that receives scroll requests.
func (e *Engine) Attach(widget scroll.Widget) {
	e.scroller.Attach(widget)
}

// Store returns the underlying record store.
func (e *Engine) Store() *record.Store {
	return e.store
}

// Stage replaces the pending inputs and returns their generation. Nothing is
// recomputed until Commit is called with the same generation.
func (e *Engine) Stage(in Inputs) uint64 {
	in.Context = e.clampContext(in.Context)
	e.staged = in
	e.gen++
	return e.gen
}

// Staged returns the pending inputs.
func (e *Engine) Staged() Inputs {
	return e.staged
}

// SetQuery stages a new query.
func (e *Engine) SetQuery(q match.Query) uint64 {
	in := e.staged
	in.Query = q
	return e.Stage(in)
}

// SetContext stages a new context size, clamped to [0, MaxContext].
func (e *Engine) SetContext(n int) uint64 {
	in := e.staged
	in.Context = n
	return e.Stage(in)
}

// SetReplacement stages a new replacement string.
func (e *Engine) SetReplacement(repl string) uint64 {
	in := e.staged
	in.Replacement = repl
	return e.Stage(in)
}

// Commit applies the staged inputs if gen is still the latest generation.
// Superseded generations are discarded and Commit returns false.
func (e *Engine) Commit(gen uint64) bool {
	if gen != e.gen {
		return false
	}
	if e.staged == e.applied {
		return false
	}
	queryChanged := e.staged.Query != e.applied.Query
	e.applied = e.staged
	if queryChanged {
		e.compiled = match.Compile(e.applied.Query)
	}
	e.recompute(true)
	return true
}

// Flush commits the staged inputs immediately, as for toggles and Enter.
func (e *Engine) Flush() bool {
	return e.Commit(e.gen)
}

// MaxContext returns the context cap.
func (e *Engine) MaxContext() int {
	return e.maxContext
}

func (e *Engine) clampContext(n int) int {
	return min(max(n, 0), e.maxContext)
}

// SetFiltering switches between the filtered view and highlight-only search.
func (e *Engine) SetFiltering(on bool) {
	if e.filtering == on {
		return
	}
	e.filtering = on
	e.recompute(true)
}

// Filtering reports whether filter mode is on.
func (e *Engine) Filtering() bool {
	return e.filtering
}

// Filtered reports whether the rows are currently a filtered subsequence.
func (e *Engine) Filtered() bool {
	return e.filtering && e.compiled.Active() && e.mode.Searchable()
}

// SetPreview turns the replacement preview on or off.
func (e *Engine) SetPreview(on bool) {
	if e.preview == on {
		return
	}
	e.preview = on
	e.recompute(false)
}

// Preview reports whether the replacement preview is on.
func (e *Engine) Preview() bool {
	return e.preview
}

// SetMode changes the rendering mode for every record.
func (e *Engine) SetMode(mode record.Mode) {
	if e.mode == mode {
		return
	}
	e.mode = mode
	e.recompute(true)
}

// Mode returns the rendering mode.
func (e *Engine) Mode() record.Mode {
	return e.mode
}

// Sync picks up appended records when the store version moved. It reports
// whether anything changed. This is the batch-flush point: when following,
// it requests the last row.
func (e *Engine) Sync() bool {
	if e.synced && e.store.Version() == e.version {
		return false
	}
	e.snap = e.store.Snapshot()
	e.version = e.snap.Version
	e.synced = true
	e.recompute(false)
	e.scroller.RecordsAppended(len(e.view.Rows))
	return true
}

// recompute rebuilds texts, matches and view from the current snapshot.
// Whole-window recomputation; the store is capped. reset selects between a
// navigation reset (query, filter or mode change) and a position-keeping
// update (new records).
func (e *Engine) recompute(reset bool) {
	e.texts = record.Texts(e.snap.Records, e.mode)
	e.matches = nil
	if e.mode.Searchable() && e.compiled.Active() {
		e.matches = e.matcher.Find(e.texts, e.compiled)
	}
	if e.Filtered() {
		e.view = filter.Build(e.texts, e.matches, e.compiled, filter.Options{
			Context:     e.applied.Context,
			Replacement: e.applied.Replacement,
			Preview:     e.preview,
		})
	} else {
		e.view = filter.All(len(e.texts), e.matches)
	}

	rows := e.view.MatchRows()
	if !reset {
		e.nav.Update(rows)
		return
	}
	e.nav.Reset(rows)
	if e.scroller.AutoFollow() {
		e.scroller.RecordsAppended(len(e.view.Rows))
		return
	}
	e.nav.Focus()
}

// Len returns the number of rows to render.
func (e *Engine) Len() int {
	return len(e.view.Rows)
}

// Row returns the row at pos.
func (e *Engine) Row(pos int) filter.Row {
	return e.view.Rows[pos]
}

// Rows returns the rows to render.
func (e *Engine) Rows() []filter.Row {
	return e.view.Rows
}

// Text returns the normalized text shown for a row. Separators have none.
func (e *Engine) Text(pos int) string {
	row := e.view.Rows[pos]
	if row.Separator {
		return ""
	}
	return e.texts[row.Index]
}

// Record returns the source record of a row.
func (e *Engine) Record(pos int) record.Record {
	row := e.view.Rows[pos]
	if row.Separator {
		return record.SeparatorRecord()
	}
	return e.snap.Records[row.Index]
}

// Records returns the records currently shown, without separators.
func (e *Engine) Records() []record.Record {
	out := make([]record.Record, 0, len(e.view.Rows))
	for _, row := range e.view.Rows {
		if !row.Separator {
			out = append(out, e.snap.Records[row.Index])
		}
	}
	return out
}

// Matches returns the match map for the current snapshot.
func (e *Engine) Matches() match.Map {
	return e.matches
}

// Current returns the row of the current match.
func (e *Engine) Current() (int, bool) {
	return e.nav.Current()
}

// Next moves to the next match with wraparound and scrolls it into the center.
func (e *Engine) Next() (int, bool) {
	return e.release(e.nav.Next())
}

// Prev moves to the previous match with wraparound.
func (e *Engine) Prev() (int, bool) {
	return e.release(e.nav.Prev())
}

func (e *Engine) release(row int, ok bool) (int, bool) {
	if ok {
		e.scroller.Release(row, len(e.view.Rows))
	}
	return row, ok
}

// ScrollTo requests a row directly, as for paging keys.
func (e *Engine) ScrollTo(row int, align scroll.Align) {
	e.scroller.ScrollToRow(row, align)
}

// VisibleRangeChanged forwards a widget report to the scroll controller.
func (e *Engine) VisibleRangeChanged(start, stop int) {
	e.scroller.VisibleRangeChanged(start, stop)
}

// VisibleDue reports when the queued visible-range report can be applied.
func (e *Engine) VisibleDue() (time.Time, bool) {
	return e.scroller.Pending()
}

// FlushVisible applies a due visible-range report.
func (e *Engine) FlushVisible() bool {
	return e.scroller.Flush(len(e.view.Rows))
}

// Settle ends the programmatic scroll window once a frame has rendered.
func (e *Engine) Settle() {
	e.scroller.Settle()
}

// Programmatic reports whether a requested scroll is still settling.
func (e *Engine) Programmatic() bool {
	return e.scroller.Programmatic()
}

// VisibleDebounce returns the visible-range debounce window.
func (e *Engine) VisibleDebounce() time.Duration {
	return e.scroller.Debounce()
}

// ToggleFollow flips auto-follow on explicit user request.
func (e *Engine) ToggleFollow() {
	e.scroller.ToggleAutoFollow(len(e.view.Rows))
}

// AutoFollow reports whether the tail is followed.
func (e *Engine) AutoFollow() bool {
	return e.scroller.AutoFollow()
}

// Status summarizes the session.
func (e *Engine) Status() Status {
	pos := e.nav.Position() + 1
	return Status{
		Total:      len(e.snap.Records),
		Rows:       len(e.view.Rows),
		Dropped:    e.snap.Dropped,
		Matches:    e.nav.Len(),
		Position:   pos,
		Valid:      e.compiled.Valid(),
		PatternErr: e.compiled.Err(),
		Searching:  e.staged != e.applied,
		Filtering:  e.filtering,
		Preview:    e.preview,
		AutoFollow: e.scroller.AutoFollow(),
		Mode:       e.mode,
		Inputs:     e.applied,
	}
}
