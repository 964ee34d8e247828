package match

import (
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/text/cases"
)

// ErrInvalidPattern is wrapped by the error of a query that fails to compile.
var ErrInvalidPattern = errors.New("invalid pattern")

// Query describes what the user is searching for.
type Query struct {
	Pattern       string
	Regex         bool
	CaseSensitive bool
	CrossLine     bool
}

// Empty reports whether the query is the canonical "no search" state.
func (q Query) Empty() bool {
	return q.Pattern == ""
}

// Compiled is a query prepared for matching. A Compiled value is never nil-like:
// an invalid pattern yields a Compiled whose Err is set and which matches nothing.
type Compiled struct {
	Query Query

	re     *regexp.Regexp // pattern (regex) or quoted needle (plain); used for replacement too
	needle string         // case-folded needle for plain queries
	err    error
}

// Compile prepares q. It never fails outright; check Valid or Err.
func Compile(q Query) Compiled {
	c := Compiled{Query: q}
	if q.Empty() {
		return c
	}

	expr := q.Pattern
	if !q.Regex {
		expr = regexp.QuoteMeta(q.Pattern)
		c.needle = q.Pattern
		if !q.CaseSensitive {
			c.needle = fold(q.Pattern)
		}
	}
	if !q.CaseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		c.err = fmt.Errorf("%w: %w", ErrInvalidPattern, err)
		return c
	}
	c.re = re
	return c
}

// Valid reports whether the pattern compiled. Empty queries are valid.
func (c Compiled) Valid() bool {
	return c.err == nil
}

// Err returns the compile error, wrapping ErrInvalidPattern.
func (c Compiled) Err() error {
	return c.err
}

// Active reports whether the query should produce matches at all.
func (c Compiled) Active() bool {
	return !c.Query.Empty() && c.err == nil
}

// Replace substitutes every occurrence of the query in text. Regex queries
// expand $1-style references; plain queries insert repl literally. Inactive
// queries return text unchanged.
func (c Compiled) Replace(text, repl string) string {
	if !c.Active() {
		return text
	}
	if c.Query.Regex {
		return c.re.ReplaceAllString(text, repl)
	}
	return c.re.ReplaceAllLiteralString(text, repl)
}

func fold(s string) string {
	return cases.Fold().String(s)
}
