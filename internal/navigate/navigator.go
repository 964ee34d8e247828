package navigate

import (
	"slices"

	"github.com/five82/portscope/internal/scroll"
)

// Scroller receives the scroll request issued on every move.
type Scroller interface {
	ScrollToRow(row int, align scroll.Align)
}

// Navigator tracks the current match over a sorted list of match rows.
type Navigator struct {
	rows     []int
	pos      int
	scroller Scroller
}

// New returns a navigator with no matches.
func New(s Scroller) *Navigator {
	return &Navigator{scroller: s}
}

// Reset replaces the match rows and returns to the first match. Use it when
// the query or filter mode changed.
func (n *Navigator) Reset(rows []int) {
	n.rows = sortedCopy(rows)
	n.pos = 0
}

// Update replaces the match rows after new records arrived. The position is
// kept when the match count is unchanged and reset otherwise.
func (n *Navigator) Update(rows []int) {
	changed := len(rows) != len(n.rows)
	n.rows = sortedCopy(rows)
	if changed || n.pos >= len(n.rows) {
		n.pos = 0
	}
}

// Len returns the number of matches.
func (n *Navigator) Len() int {
	return len(n.rows)
}

// Position returns the index of the current match, or -1 with no matches.
func (n *Navigator) Position() int {
	if len(n.rows) == 0 {
		return -1
	}
	return n.pos
}

// Current returns the row of the current match.
func (n *Navigator) Current() (int, bool) {
	if len(n.rows) == 0 {
		return 0, false
	}
	return n.rows[n.pos], true
}

// Rows returns the sorted match rows.
func (n *Navigator) Rows() []int {
	return n.rows
}

// Next moves to the following match, wrapping to the first.
func (n *Navigator) Next() (int, bool) {
	if len(n.rows) == 0 {
		return 0, false
	}
	n.pos = (n.pos + 1) % len(n.rows)
	return n.jump()
}

// Prev moves to the preceding match, wrapping to the last.
func (n *Navigator) Prev() (int, bool) {
	if len(n.rows) == 0 {
		return 0, false
	}
	n.pos = (n.pos - 1 + len(n.rows)) % len(n.rows)
	return n.jump()
}

// Focus scrolls to the current match without moving.
func (n *Navigator) Focus() (int, bool) {
	if len(n.rows) == 0 {
		return 0, false
	}
	return n.jump()
}

func (n *Navigator) jump() (int, bool) {
	row := n.rows[n.pos]
	if n.scroller != nil {
		n.scroller.ScrollToRow(row, scroll.AlignCenter)
	}
	return row, true
}

func sortedCopy(rows []int) []int {
	if len(rows) == 0 {
		return nil
	}
	out := slices.Clone(rows)
	slices.Sort(out)
	return out
}
