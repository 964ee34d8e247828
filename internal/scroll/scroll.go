package scroll

import "time"

// Align positions a requested row inside the viewport.
type Align int

const (
	AlignAuto Align = iota
	AlignStart
	AlignCenter
	AlignEnd
)

// Widget is the virtualized list: it only materializes visible rows and can be
// asked to bring a row into view.
type Widget interface {
	ScrollToRow(row int, align Align)
}

// Defaults for Options fields left at zero.
const (
	DefaultTolerance      = 2
	DefaultDebounce       = 50 * time.Millisecond
	DefaultManualOverride = time.Second
)

// ExactTail as Options.Tolerance counts only the last row as the tail.
const ExactTail = -1

// Options tune the controller.
type Options struct {
	Tolerance      int           // rows from the tail still counted as "at the tail"; ExactTail for none
	Debounce       time.Duration // quiet period before a visible-range report is applied
	ManualOverride time.Duration // heuristic suppression after an explicit toggle
	Now            func() time.Time
}

type visibleRange struct {
	start, stop int
	at          time.Time
}

// Controller keeps auto-follow in sync with what the widget shows without
// reacting to its own scroll requests.
//
// Two windows gate the heuristic: programmatic is set by every ScrollToRow and
// cleared by Settle once the widget has caught up, and manualUntil is set when
// the user toggles auto-follow explicitly.
type Controller struct {
	widget Widget
	opts   Options

	autoFollow   bool
	programmatic bool
	manualUntil  time.Time
	pending      *visibleRange
}

// New returns a controller that starts in auto-follow.
func New(widget Widget, opts Options) *Controller {
	switch {
	case opts.Tolerance == 0:
		opts.Tolerance = DefaultTolerance
	case opts.Tolerance < 0:
		opts.Tolerance = 0
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.ManualOverride <= 0 {
		opts.ManualOverride = DefaultManualOverride
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Controller{widget: widget, opts: opts, autoFollow: true}
}

// Attach sets the widget that receives scroll requests.
func (c *Controller) Attach(widget Widget) {
	c.widget = widget
}

// AutoFollow reports whether the tail is being followed.
func (c *Controller) AutoFollow() bool {
	return c.autoFollow
}

// Programmatic reports whether a requested scroll has not settled yet.
func (c *Controller) Programmatic() bool {
	return c.programmatic
}

// Debounce returns the configured quiet period for visible-range reports.
func (c *Controller) Debounce() time.Duration {
	return c.opts.Debounce
}

// ScrollToRow forwards a scroll request to the widget and marks it as ours.
func (c *Controller) ScrollToRow(row int, align Align) {
	if row < 0 {
		return
	}
	c.programmatic = true
	c.pending = nil
	if c.widget != nil {
		c.widget.ScrollToRow(row, align)
	}
}

// Settle ends the programmatic window. Call it once the widget has rendered
// the requested position (next frame).
func (c *Controller) Settle() {
	c.programmatic = false
}

// ToggleAutoFollow flips auto-follow on explicit user request and suppresses
// the heuristic for the override window.
func (c *Controller) ToggleAutoFollow(total int) {
	c.SetAutoFollow(!c.autoFollow, total)
}

// SetAutoFollow sets auto-follow on explicit user request. Turning it on jumps
// to the last row.
func (c *Controller) SetAutoFollow(on bool, total int) {
	c.autoFollow = on
	c.manualUntil = c.opts.Now().Add(c.opts.ManualOverride)
	c.pending = nil
	if on && total > 0 {
		c.ScrollToRow(total-1, AlignEnd)
	}
}

// Release drops auto-follow when a jump lands away from the tail, so the next
// append does not pull the view back down.
func (c *Controller) Release(row, total int) {
	if !c.nearTail(row, total) {
		c.autoFollow = false
	}
}

// RecordsAppended is called after every batch flush. While following, it
// requests the last row. It holds off while a user report is pending so a
// scroll away from the tail is not undone before it is evaluated.
func (c *Controller) RecordsAppended(total int) {
	if c.autoFollow && c.pending == nil && total > 0 {
		c.ScrollToRow(total-1, AlignEnd)
	}
}

// VisibleRangeChanged queues a report from the widget. Reports caused by our
// own scroll requests are dropped.
func (c *Controller) VisibleRangeChanged(start, stop int) {
	if c.programmatic {
		return
	}
	c.pending = &visibleRange{start: start, stop: stop, at: c.opts.Now()}
}

// Pending reports whether a visible-range report is waiting and when it
// becomes due.
func (c *Controller) Pending() (time.Time, bool) {
	if c.pending == nil {
		return time.Time{}, false
	}
	return c.pending.at.Add(c.opts.Debounce), true
}

// Flush applies the queued report once its debounce window has passed. It
// returns true when auto-follow changed.
func (c *Controller) Flush(total int) bool {
	if c.pending == nil {
		return false
	}
	now := c.opts.Now()
	if now.Before(c.pending.at.Add(c.opts.Debounce)) {
		return false
	}
	rng := *c.pending
	c.pending = nil
	changed := c.Observe(rng.stop, total)
	// Appends held off while the report was pending are caught up here.
	c.RecordsAppended(total)
	return changed
}

// Observe applies the follow heuristic to the last visible row immediately.
// It is suppressed while a programmatic scroll or manual override is active.
// It returns true when auto-follow changed.
func (c *Controller) Observe(lastVisible, total int) bool {
	if c.programmatic || c.opts.Now().Before(c.manualUntil) {
		return false
	}
	atTail := c.nearTail(lastVisible, total)
	switch {
	case atTail && !c.autoFollow:
		c.autoFollow = true
		return true
	case !atTail && c.autoFollow:
		c.autoFollow = false
		return true
	}
	return false
}

func (c *Controller) nearTail(row, total int) bool {
	if total <= 0 {
		return true
	}
	return row >= total-1-c.opts.Tolerance
}
