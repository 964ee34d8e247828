package filter

import (
	"github.com/five82/portscope/internal/match"
)

// Options control how a match map becomes a view.
type Options struct {
	Context     int    // neighbouring records kept around each match
	Replacement string // substitution text for the preview
	Preview     bool   // render direct matches with Replacement applied
}

// Row is one entry of a view: either a source record or a separator.
type Row struct {
	Index      int  // source record index; -1 for separators
	Separator  bool // synthetic gap marker
	Hidden     int  // records skipped by a separator
	Direct     bool // record matched the query (not just context)
	Highlights []match.Span

	// Preview holds the display-only substitution for direct matches when
	// replacement preview is on. Highlights still refer to the source text.
	Preview    string
	HasPreview bool
}

// View is the materialized row list plus the mapping from source record index
// to row position.
type View struct {
	Rows     []Row
	IndexMap map[int]int
}

// Position returns the row showing the record at index.
func (v View) Position(index int) (int, bool) {
	pos, ok := v.IndexMap[index]
	return pos, ok
}

// MatchRows returns the row positions of direct matches in ascending order.
func (v View) MatchRows() []int {
	var rows []int
	for pos, row := range v.Rows {
		if row.Direct {
			rows = append(rows, pos)
		}
	}
	return rows
}

// All returns an unfiltered view over n records with highlights from matches.
func All(n int, matches match.Map) View {
	v := View{Rows: make([]Row, n), IndexMap: make(map[int]int, n)}
	for i := range n {
		spans, ok := matches[i]
		v.Rows[i] = Row{Index: i, Direct: ok, Highlights: spans}
		v.IndexMap[i] = i
	}
	return v
}

// Build derives the filtered view of texts: each match plus opts.Context
// records on either side, with exactly one separator wherever kept records are
// not adjacent. Highlights are carried over from matches, never recomputed.
func Build(texts []string, matches match.Map, c match.Compiled, opts Options) View {
	v := View{IndexMap: make(map[int]int)}
	n := len(texts)
	if n == 0 || len(matches) == 0 {
		return v
	}
	ctx := max(opts.Context, 0)

	kept := make([]bool, n)
	for idx := range matches {
		if idx < 0 || idx >= n {
			continue
		}
		for i := max(0, idx-ctx); i <= min(n-1, idx+ctx); i++ {
			kept[i] = true
		}
	}

	preview := opts.Preview && c.Active()
	prev := -1
	for i, keep := range kept {
		if !keep {
			continue
		}
		if prev >= 0 && i-prev > 1 {
			v.Rows = append(v.Rows, Row{Index: -1, Separator: true, Hidden: i - prev - 1})
		}
		row := Row{Index: i}
		if spans, ok := matches[i]; ok {
			row.Direct = true
			row.Highlights = spans
			if preview {
				row.Preview = c.Replace(texts[i], opts.Replacement)
				row.HasPreview = true
			}
		}
		v.IndexMap[i] = len(v.Rows)
		v.Rows = append(v.Rows, row)
		prev = i
	}
	return v
}
