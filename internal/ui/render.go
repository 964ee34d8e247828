package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/five82/portscope/internal/filter"
	"github.com/five82/portscope/internal/match"
	"github.com/five82/portscope/internal/record"
)

// segment is a run of row text that is either inside a highlight or not.
type segment struct {
	text string
	hit  bool
}

// splitSpans cuts text at the highlight spans. Overlapping spans are merged
// and empty spans are ignored; offsets are byte offsets into text.
func splitSpans(text string, spans []match.Span) []segment {
	merged := mergeSpans(spans, len(text))
	if len(merged) == 0 {
		if text == "" {
			return nil
		}
		return []segment{{text: text}}
	}
	var out []segment
	pos := 0
	for _, sp := range merged {
		if sp.Start > pos {
			out = append(out, segment{text: text[pos:sp.Start]})
		}
		out = append(out, segment{text: text[sp.Start:sp.End], hit: true})
		pos = sp.End
	}
	if pos < len(text) {
		out = append(out, segment{text: text[pos:]})
	}
	return out
}

func mergeSpans(spans []match.Span, limit int) []match.Span {
	var clean []match.Span
	for _, sp := range spans {
		start, end := max(sp.Start, 0), min(sp.End, limit)
		if start < end {
			clean = append(clean, match.Span{Start: start, End: end})
		}
	}
	slices.SortFunc(clean, func(a, b match.Span) int { return a.Start - b.Start })
	var out []match.Span
	for _, sp := range clean {
		if n := len(out); n > 0 && sp.Start <= out[n-1].End {
			out[n-1].End = max(out[n-1].End, sp.End)
			continue
		}
		out = append(out, sp)
	}
	return out
}

// clipSegments makes segments printable and cuts them to width display cells.
func clipSegments(segs []segment, width int) []segment {
	out := make([]segment, 0, len(segs))
	used := 0
	for _, seg := range segs {
		text := visible(seg.text)
		w := runewidth.StringWidth(text)
		if used+w > width {
			text = runewidth.Truncate(text, width-used, "…")
			out = append(out, segment{text: text, hit: seg.hit})
			return out
		}
		used += w
		out = append(out, segment{text: text, hit: seg.hit})
	}
	return out
}

// gutterLayout formats the timestamp column shown with metadata on.
const gutterLayout = "15:04:05.000"

// renderRows renders the visible window of the row list.
func (m Model) renderRows() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)
	width := max(m.width, 1)

	start, stop := m.list.Visible()
	current, hasCurrent := m.engine.Current()

	lines := make([]string, 0, m.list.height)
	if stop < 0 {
		msg := "Waiting for records…"
		if m.engine.Store().Len() > 0 {
			msg = "No records match"
		}
		lines = append(lines, bg.FillLine(bg.Render(msg, styles.MutedText), width))
	}
	for pos := start; pos >= 0 && pos <= stop; pos++ {
		row := m.engine.Row(pos)
		var line string
		if row.Separator {
			line = m.renderSeparator(row, styles, bg, width)
		} else {
			line = m.renderRecord(pos, row, hasCurrent && pos == current, styles, bg, width)
		}
		lines = append(lines, line)
	}
	for len(lines) < m.list.height {
		lines = append(lines, bg.FillLine("", width))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderSeparator(row filter.Row, styles Styles, bg BgStyle, width int) string {
	label := fmt.Sprintf(" %d hidden ", row.Hidden)
	if row.Hidden == 1 {
		label = " 1 hidden "
	}
	fill := max((width-runewidth.StringWidth(label))/2, 0)
	line := strings.Repeat("┄", fill) + label + strings.Repeat("┄", fill)
	return bg.FillLine(bg.Render(runewidth.Truncate(line, width, ""), styles.FaintText), width)
}

func (m Model) renderRecord(pos int, row filter.Row, isCurrent bool, styles Styles, bg BgStyle, width int) string {
	rec := m.engine.Record(pos)
	var b strings.Builder
	used := 0
	if m.showMeta {
		ts := rec.Timestamp.Format(gutterLayout)
		label := fmt.Sprintf("%-3s", rec.Kind)
		b.WriteString(bg.Render(ts, styles.FaintText))
		b.WriteString(bg.Space())
		b.WriteString(bg.Render(label, styles.KindStyle(rec.Kind).Background(bg.Color())))
		b.WriteString(bg.Space())
		used = len(ts) + len(label) + 2
	}

	textStyle := styles.Text
	switch rec.Kind {
	case record.Error:
		textStyle = styles.DangerText
	case record.System:
		textStyle = styles.MutedText
	}
	hitStyle := styles.Highlight
	if isCurrent {
		hitStyle = styles.Current
	}

	var segs []segment
	if row.HasPreview {
		segs = []segment{{text: row.Preview}}
		textStyle = styles.Preview
	} else {
		segs = splitSpans(m.engine.Text(pos), row.Highlights)
	}
	for _, seg := range clipSegments(segs, max(width-used, 0)) {
		if seg.hit {
			b.WriteString(hitStyle.Render(seg.text))
			continue
		}
		b.WriteString(bg.Render(seg.text, textStyle))
	}
	return bg.FillLine(b.String(), width)
}

// renderBox frames content with a titled rounded border.
func (m Model) renderBox(title, content string, width int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(width).
		Render(m.theme.Styles().AccentText.Bold(true).Render(title) + "\n\n" + content)
}
