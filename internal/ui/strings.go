package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// truncate shortens value to limit display cells, adding an ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	return runewidth.Truncate(value, limit, "…")
}

// truncateMiddle keeps both ends of value, which suits file paths.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || runewidth.StringWidth(value) <= limit {
		return value
	}
	if limit <= 3 {
		return runewidth.Truncate(value, limit, "")
	}
	tail := (limit - 1) * 2 / 3
	head := limit - 1 - tail
	return runewidth.Truncate(value, head, "") + "…" + runewidth.TruncateLeft(value, runewidth.StringWidth(value)-tail, "")
}

// visible replaces characters that would break a one-line row: line breaks
// become ↵, tabs →, other control characters ·. Apply it after splitting text
// at span offsets, never before.
func visible(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return '↵'
		case r == '\t':
			return '→'
		case r < 0x20 || r == 0x7f:
			return '·'
		}
		return r
	}, s)
}
