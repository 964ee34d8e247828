package ui

import "github.com/five82/portscope/internal/scroll"

// rowList is the virtualized list: it knows the row count and viewport height
// and only the rows in [offset, offset+height) are ever rendered.
type rowList struct {
	count  func() int
	offset int
	height int

	reported  bool
	lastStart int
	lastStop  int
}

var _ scroll.Widget = (*rowList)(nil)

func newRowList(count func() int) *rowList {
	return &rowList{count: count}
}

func (l *rowList) total() int {
	if l.count == nil {
		return 0
	}
	return l.count()
}

// SetHeight sets the number of visible rows.
func (l *rowList) SetHeight(h int) {
	l.height = max(h, 0)
	l.clamp()
}

// ScrollToRow positions row in the viewport.
func (l *rowList) ScrollToRow(row int, align scroll.Align) {
	total := l.total()
	if total == 0 || l.height == 0 {
		l.offset = 0
		return
	}
	row = min(max(row, 0), total-1)
	switch align {
	case scroll.AlignStart:
		l.offset = row
	case scroll.AlignCenter:
		l.offset = row - l.height/2
	case scroll.AlignEnd:
		l.offset = row - l.height + 1
	default:
		if row < l.offset {
			l.offset = row
		} else if row >= l.offset+l.height {
			l.offset = row - l.height + 1
		}
	}
	l.clamp()
}

// ScrollBy moves the viewport by delta rows.
func (l *rowList) ScrollBy(delta int) {
	l.offset += delta
	l.clamp()
}

// Top and Bottom jump to either end.
func (l *rowList) Top() {
	l.offset = 0
}

func (l *rowList) Bottom() {
	l.offset = l.maxOffset()
}

func (l *rowList) maxOffset() int {
	return max(l.total()-l.height, 0)
}

func (l *rowList) clamp() {
	l.offset = min(max(l.offset, 0), l.maxOffset())
}

// Visible returns the first and last visible row. stop is -1 when empty.
func (l *rowList) Visible() (start, stop int) {
	l.clamp()
	total := l.total()
	if total == 0 || l.height == 0 {
		return 0, -1
	}
	return l.offset, min(l.offset+l.height, total) - 1
}

// Changed reports the visible range when it differs from the last report,
// the way a virtualized widget emits visibleRangeChanged.
func (l *rowList) Changed() (start, stop int, ok bool) {
	start, stop = l.Visible()
	if l.reported && start == l.lastStart && stop == l.lastStop {
		return start, stop, false
	}
	l.reported = true
	l.lastStart, l.lastStop = start, stop
	return start, stop, true
}
