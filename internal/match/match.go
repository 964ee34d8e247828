package match

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"
)

// DefaultWindowSize is how many consecutive records a cross-line match may span.
const DefaultWindowSize = 5

// Span is a half-open byte range [Start, End) into a record's normalized text.
// Zero-width regex matches produce Start == End.
type Span struct {
	Start int
	End   int
}

// Empty reports whether the span covers no text.
func (s Span) Empty() bool {
	return s.End <= s.Start
}

// Map holds highlight spans keyed by record index. Only records with at least
// one span are present. Spans are sorted by Start, then End, and unique.
type Map map[int][]Span

// Indices returns the matched record indices in ascending order.
func (m Map) Indices() []int {
	out := make([]int, 0, len(m))
	for idx := range m {
		out = append(out, idx)
	}
	slices.Sort(out)
	return out
}

// Options tune a Matcher.
type Options struct {
	WindowSize int // records per cross-line window; <= 0 uses DefaultWindowSize
}

// Matcher locates query matches across a record sequence.
type Matcher struct {
	window int
}

// NewMatcher returns a Matcher configured by opts.
func NewMatcher(opts Options) *Matcher {
	window := opts.WindowSize
	if window <= 0 {
		window = DefaultWindowSize
	}
	return &Matcher{window: window}
}

// WindowSize reports the cross-line window.
func (m *Matcher) WindowSize() int {
	return m.window
}

// Find returns the highlight spans of c over texts. Inactive or invalid
// queries produce an empty map; this never fails.
func (m *Matcher) Find(texts []string, c Compiled) Map {
	out := Map{}
	if !c.Active() || len(texts) == 0 {
		return out
	}
	switch {
	case !c.Query.Regex:
		for i, text := range texts {
			if spans := plainSpans(text, c.needle, c.Query.CaseSensitive); len(spans) > 0 {
				out[i] = spans
			}
		}
	case c.Query.CrossLine:
		m.crossLine(texts, c, out)
	default:
		for i, text := range texts {
			if spans := regexSpans(c, text); len(spans) > 0 {
				out[i] = spans
			}
		}
	}
	return out
}

// regexSpans uses the RE2 iteration rule: an empty match directly after a
// non-empty one is not reported (a* on "baaac" has no span at 4). Such a span
// adds no highlight and the record matches either way.
func regexSpans(c Compiled, text string) []Span {
	locs := c.re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	spans := make([]Span, len(locs))
	for i, loc := range locs {
		spans[i] = Span{Start: loc[0], End: loc[1]}
	}
	return spans
}

// plainSpans finds non-overlapping occurrences of needle. ASCII text folds
// byte for byte, so offsets come straight from the folded copy; anything else
// is folded one rune at a time so offsets stay in text coordinates.
func plainSpans(text, needle string, caseSensitive bool) []Span {
	if needle == "" || text == "" {
		return nil
	}
	haystack := text
	if !caseSensitive {
		if !isASCII(text) {
			return foldedSpans(text, needle)
		}
		haystack = fold(text)
	}

	var spans []Span
	for from := 0; from <= len(haystack)-len(needle); {
		idx := strings.Index(haystack[from:], needle)
		if idx < 0 {
			break
		}
		start := from + idx
		spans = append(spans, Span{Start: start, End: start + len(needle)})
		from = start + len(needle)
	}
	return spans
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func foldedSpans(text, needle string) []Span {
	var spans []Span
	for i := 0; i < len(text); {
		if end, ok := foldedPrefixEnd(text, i, needle); ok {
			spans = append(spans, Span{Start: i, End: end})
			i = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return spans
}

// foldedPrefixEnd reports whether folding text from start onward yields needle
// on a rune boundary, and where that match ends in text.
func foldedPrefixEnd(text string, start int, needle string) (int, bool) {
	rest := needle
	i := start
	for rest != "" {
		if i >= len(text) {
			return 0, false
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		folded := fold(string(r))
		if !strings.HasPrefix(rest, folded) {
			return 0, false
		}
		rest = rest[len(folded):]
		i += size
	}
	return i, true
}

// crossLine slides a window of up to m.window records starting at every index,
// joins them with '\n' where a record does not already end in one, and maps
// every match back onto the records it overlaps.
func (m *Matcher) crossLine(texts []string, c Compiled, out Map) {
	seen := make(map[int]map[Span]struct{})
	add := func(idx int, sp Span) {
		set := seen[idx]
		if set == nil {
			set = make(map[Span]struct{})
			seen[idx] = set
		}
		set[sp] = struct{}{}
	}

	starts := make([]int, 0, m.window)
	var b strings.Builder
	for i := range texts {
		last := min(i+m.window, len(texts)) - 1
		b.Reset()
		starts = starts[:0]
		for j := i; j <= last; j++ {
			if j > i && !strings.HasSuffix(texts[j-1], "\n") {
				b.WriteByte('\n')
			}
			starts = append(starts, b.Len())
			b.WriteString(texts[j])
		}
		window := b.String()

		for _, loc := range c.re.FindAllStringIndex(window, -1) {
			for k, recStart := range starts {
				recEnd := recStart + len(texts[i+k])
				if loc[0] == loc[1] {
					// Zero-width: attribute to the record whose text holds the position.
					if loc[0] >= recStart && (loc[0] < recEnd || (loc[0] == recEnd && k == len(starts)-1)) {
						add(i+k, Span{Start: loc[0] - recStart, End: loc[0] - recStart})
						break
					}
					continue
				}
				s, e := max(loc[0], recStart), min(loc[1], recEnd)
				if s < e {
					add(i+k, Span{Start: s - recStart, End: e - recStart})
				}
			}
		}
	}

	for idx, set := range seen {
		spans := make([]Span, 0, len(set))
		for sp := range set {
			spans = append(spans, sp)
		}
		slices.SortFunc(spans, compareSpans)
		out[idx] = spans
	}
}

func compareSpans(a, b Span) int {
	if c := cmp.Compare(a.Start, b.Start); c != 0 {
		return c
	}
	return cmp.Compare(a.End, b.End)
}
