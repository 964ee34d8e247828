package record

import (
	"strings"
	"time"
)

// Kind classifies where a record came from.
type Kind int

const (
	Received Kind = iota
	Transmitted
	System
	Error
	// Separator marks a gap in a filtered view. It is never stored.
	Separator
)

// SeparatorID is the id carried by synthetic separator records.
const SeparatorID int64 = -1

var kindLabels = [...]string{
	Received:    "RX",
	Transmitted: "TX",
	System:      "SYS",
	Error:       "ERR",
	Separator:   "SEP",
}

// String returns the short label used in exports and the row gutter.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindLabels) {
		return "?"
	}
	return kindLabels[k]
}

// ParseKind maps an export label back to a Kind. Separator is not accepted.
func ParseKind(label string) (Kind, bool) {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "RX":
		return Received, true
	case "TX":
		return Transmitted, true
	case "SYS":
		return System, true
	case "ERR":
		return Error, true
	default:
		return Received, false
	}
}

// Record is one unit of log output. Exactly one of Data or Text is meaningful,
// selected by IsText.
type Record struct {
	ID        int64
	Timestamp time.Time
	Kind      Kind
	Data      []byte
	Text      string
	IsText    bool
}

// Bytes builds a raw byte record. The store assigns ID and Timestamp.
func Bytes(kind Kind, data []byte) Record {
	return Record{Kind: kind, Data: data}
}

// Textual builds a text record, typically a system or error message.
func Textual(kind Kind, text string) Record {
	return Record{Kind: kind, Text: text, IsText: true}
}

// SeparatorRecord returns the synthetic gap marker used by filtered views.
func SeparatorRecord() Record {
	return Record{ID: SeparatorID, Kind: Separator, IsText: true}
}
