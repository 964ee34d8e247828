package record

import (
	"fmt"
	"strings"
)

// Mode selects how byte payloads are projected to text. It applies to every
// record at once.
type Mode int

const (
	ASCII Mode = iota
	Hex
	Mixed
)

// String returns the config spelling of the mode.
func (m Mode) String() string {
	switch m {
	case Hex:
		return "hex"
	case Mixed:
		return "mixed"
	default:
		return "ascii"
	}
}

// Searchable reports whether matching is meaningful in this mode.
// Hex text does not line up with anything a user would search for.
func (m Mode) Searchable() bool {
	return m != Hex
}

// Next cycles ascii -> hex -> mixed -> ascii.
func (m Mode) Next() Mode {
	switch m {
	case ASCII:
		return Hex
	case Hex:
		return Mixed
	default:
		return ASCII
	}
}

// ParseMode parses "ascii", "hex" or "mixed". Empty means ASCII.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "ascii":
		return ASCII, nil
	case "hex":
		return Hex, nil
	case "mixed":
		return Mixed, nil
	default:
		return ASCII, fmt.Errorf("unknown render mode %q", value)
	}
}

const (
	hexDigits      = "0123456789ABCDEF"
	mixedSeparator = " | "
)

// HexString renders bytes as space separated uppercase pairs.
func HexString(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(len(data)*3 - 1)
	for i, c := range data {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(hexDigits[c>>4])
		b.WriteByte(hexDigits[c&0x0f])
	}
	return b.String()
}

// PrintableString renders bytes 32..126 as themselves and everything else as '.'.
func PrintableString(data []byte) string {
	out := make([]byte, len(data))
	for i, c := range data {
		if c >= 32 && c <= 126 {
			out[i] = c
		} else {
			out[i] = '.'
		}
	}
	return string(out)
}

// CanonicalLineEndings rewrites \r\n and lone \r to \n.
func CanonicalLineEndings(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Text projects a record to the string used for matching, highlighting and
// rendering. Text payloads are shown as-is in every mode.
func Text(rec Record, mode Mode) string {
	if rec.Kind == Separator {
		return ""
	}
	if rec.IsText {
		return CanonicalLineEndings(rec.Text)
	}
	switch mode {
	case Hex:
		return HexString(rec.Data)
	case Mixed:
		return HexString(rec.Data) + mixedSeparator + PrintableString(rec.Data)
	default:
		return CanonicalLineEndings(strings.ToValidUTF8(string(rec.Data), "�"))
	}
}

// Texts projects a whole sequence.
func Texts(recs []Record, mode Mode) []string {
	texts := make([]string, len(recs))
	for i, rec := range recs {
		texts[i] = Text(rec, mode)
	}
	return texts
}
