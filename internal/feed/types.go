package feed

import (
	"time"

	"github.com/five82/portscope/internal/record"
)

// Batch mirrors the payload returned by /api/records.
type Batch struct {
	Records []WireRecord `json:"records"`
	Next    uint64       `json:"next"`
}

// WireRecord is a record in transport form. Data is base64 in JSON; when it
// is absent the record carries Text.
type WireRecord struct {
	Seq  uint64 `json:"seq"`
	TS   string `json:"ts"`
	Kind string `json:"kind"`
	Text string `json:"text,omitempty"`
	Data []byte `json:"data,omitempty"`
}

// Link mirrors /api/link.
type Link struct {
	Connected bool   `json:"connected"`
	Port      string `json:"port"`
	Baud      int    `json:"baud"`
}

// Record converts the wire form. Unknown kinds are treated as received data.
func (w WireRecord) Record() record.Record {
	kind, ok := record.ParseKind(w.Kind)
	if !ok {
		kind = record.Received
	}
	var rec record.Record
	if w.Data != nil {
		rec = record.Bytes(kind, w.Data)
	} else {
		rec = record.Textual(kind, w.Text)
	}
	rec.Timestamp = parseTime(w.TS)
	return rec
}

// Decode converts a whole batch.
func (b Batch) Decode() []record.Record {
	out := make([]record.Record, len(b.Records))
	for i, w := range b.Records {
		out[i] = w.Record()
	}
	return out
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
