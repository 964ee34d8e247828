package match

import (
	"errors"
	"reflect"
	"testing"
)

func find(t *testing.T, texts []string, q Query) Map {
	t.Helper()
	c := Compile(q)
	if !c.Valid() {
		t.Fatalf("Compile(%+v) invalid: %v", q, c.Err())
	}
	return NewMatcher(Options{}).Find(texts, c)
}

func TestFind_PlainSpansEqualNeedle(t *testing.T) {
	texts := []string{"ERROR: x error", "none", "errorerror"}
	got := find(t, texts, Query{Pattern: "Error"})

	want := Map{
		0: {{0, 5}, {9, 14}},
		2: {{0, 5}, {5, 10}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Find = %v, want %v", got, want)
	}
	for idx, spans := range got {
		for _, sp := range spans {
			if f := fold(texts[idx][sp.Start:sp.End]); f != "error" {
				t.Fatalf("span %v of record %d = %q, want folded error", sp, idx, f)
			}
		}
	}
}

func TestFind_PlainCaseSensitive(t *testing.T) {
	got := find(t, []string{"Error error"}, Query{Pattern: "error", CaseSensitive: true})
	want := Map{0: {{6, 11}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Find = %v, want %v", got, want)
	}
}

func TestFind_PlainNonOverlapping(t *testing.T) {
	got := find(t, []string{"aaaa"}, Query{Pattern: "aa", CaseSensitive: true})
	want := Map{0: {{0, 2}, {2, 4}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Find = %v, want %v", got, want)
	}
}

func TestFind_PlainFoldsNonASCII(t *testing.T) {
	text := "Grüße STRASSE"
	got := find(t, []string{text}, Query{Pattern: "grüsse"})
	spans := got[0]
	if len(spans) != 1 {
		t.Fatalf("spans = %v, want one", spans)
	}
	if sub := text[spans[0].Start:spans[0].End]; sub != "Grüße" {
		t.Fatalf("matched %q, want Grüße", sub)
	}
}

func TestFind_SingleLineRegexOrderedAndDisjoint(t *testing.T) {
	texts := []string{"id=12 id=345 id=6", "nothing"}
	got := find(t, texts, Query{Pattern: `id=\d+`, Regex: true})
	spans := got[0]
	if len(spans) != 3 {
		t.Fatalf("spans = %v, want 3", spans)
	}
	for i := 1; i < len(spans); i++ {
		if spans[i].Start < spans[i-1].End {
			t.Fatalf("spans overlap or unordered: %v", spans)
		}
	}
	if _, ok := got[1]; ok {
		t.Fatalf("record 1 matched unexpectedly")
	}
}

func TestFind_ZeroWidthTerminates(t *testing.T) {
	got := find(t, []string{"abc"}, Query{Pattern: `x*`, Regex: true})
	spans := got[0]
	if len(spans) != 4 {
		t.Fatalf("spans = %v, want a zero-width span at each of 4 positions", spans)
	}
	for i, sp := range spans {
		if sp.Start != i || !sp.Empty() {
			t.Fatalf("span %d = %v, want empty at %d", i, sp, i)
		}
	}
}

func TestFind_ZeroWidthAfterMatchNotReported(t *testing.T) {
	got := find(t, []string{"baaac"}, Query{Pattern: `a*`, Regex: true})
	want := []Span{{0, 0}, {1, 4}, {5, 5}}
	if !reflect.DeepEqual(got[0], want) {
		t.Fatalf("spans = %v, want %v", got[0], want)
	}

	cross := find(t, []string{"baaac"}, Query{Pattern: `a*`, Regex: true, CrossLine: true})
	if !reflect.DeepEqual(cross[0], want) {
		t.Fatalf("cross-line spans = %v, want %v", cross[0], want)
	}
}

func TestFind_CrossLineAcrossBoundary(t *testing.T) {
	got := find(t, []string{"AB", "CD"}, Query{Pattern: `B\nC`, Regex: true, CaseSensitive: true, CrossLine: true})
	want := Map{
		0: {{1, 2}},
		1: {{0, 1}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Find = %v, want %v", got, want)
	}
}

func TestFind_CrossLineNoExtraNewlineAfterTrailingNewline(t *testing.T) {
	got := find(t, []string{"AB\n", "CD"}, Query{Pattern: `B\nC`, Regex: true, CrossLine: true})
	want := Map{
		0: {{1, 3}},
		1: {{0, 1}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Find = %v, want %v", got, want)
	}
}

func TestFind_CrossLineDeduplicatesAcrossWindows(t *testing.T) {
	texts := []string{"x", "start", "end", "y"}
	got := find(t, texts, Query{Pattern: `start\nend`, Regex: true, CrossLine: true})
	// The match is found from windows starting at 0 and 1; each record keeps one span.
	want := Map{
		1: {{0, 5}},
		2: {{0, 3}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Find = %v, want %v", got, want)
	}
}

func TestFind_CrossLineRespectsWindowSize(t *testing.T) {
	texts := []string{"A", "b", "c", "D"}
	q := Query{Pattern: `A\nb\nc\nD`, Regex: true, CaseSensitive: true, CrossLine: true}
	c := Compile(q)

	if got := NewMatcher(Options{WindowSize: 3}).Find(texts, c); len(got) != 0 {
		t.Fatalf("window 3 found %v, want none", got)
	}
	if got := NewMatcher(Options{WindowSize: 4}).Find(texts, c); len(got) != 4 {
		t.Fatalf("window 4 found %v, want all four records", got)
	}
}

func TestFind_Idempotent(t *testing.T) {
	texts := []string{"foo bar", "bar\n", "baz foo"}
	c := Compile(Query{Pattern: `ba.`, Regex: true, CrossLine: true})
	m := NewMatcher(Options{})
	first := m.Find(texts, c)
	second := m.Find(texts, c)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Find not idempotent: %v vs %v", first, second)
	}
}

func TestFind_EmptyAndInvalidQueriesMatchNothing(t *testing.T) {
	m := NewMatcher(Options{})
	if got := m.Find([]string{"abc"}, Compile(Query{})); len(got) != 0 {
		t.Fatalf("empty query matched %v", got)
	}

	c := Compile(Query{Pattern: "(", Regex: true})
	if c.Valid() {
		t.Fatalf("Compile(\"(\") valid, want invalid")
	}
	if !errors.Is(c.Err(), ErrInvalidPattern) {
		t.Fatalf("Err = %v, want ErrInvalidPattern", c.Err())
	}
	if got := m.Find([]string{"("}, c); len(got) != 0 {
		t.Fatalf("invalid query matched %v", got)
	}
}

func TestCompiled_Replace(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		repl  string
		in    string
		want  string
	}{
		{"plain literal", Query{Pattern: "a.b"}, "$1", "a.b axb", "$1 axb"},
		{"regex groups", Query{Pattern: `(\d+)ms`, Regex: true}, "${1} msec", "took 12ms", "took 12 msec"},
		{"case folded", Query{Pattern: "warn"}, "W", "WARN warn", "W W"},
		{"inactive", Query{}, "x", "keep", "keep"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compile(tt.query).Replace(tt.in, tt.repl); got != tt.want {
				t.Fatalf("Replace = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMap_IndicesSorted(t *testing.T) {
	m := Map{9: nil, 2: nil, 5: nil}
	if got := m.Indices(); !reflect.DeepEqual(got, []int{2, 5, 9}) {
		t.Fatalf("Indices = %v, want [2 5 9]", got)
	}
}
