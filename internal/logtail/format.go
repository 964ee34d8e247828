package logtail

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/five82/portscope/internal/record"
)

// TimestampLayout prefixes every line written with metadata.
const TimestampLayout = "2006-01-02 15:04:05.000"

// modeHeader opens exports written in HEX or MIXED mode so Load can turn the
// hex column back into bytes.
const modeHeader = "# portscope mode="

// FormatLine renders one record the way Serialize writes it, without the
// trailing newline.
func FormatLine(rec record.Record, includeMeta bool, mode record.Mode) string {
	text := strings.TrimSuffix(record.Text(rec, mode), "\n")
	if !includeMeta {
		return text
	}
	return rec.Timestamp.Format(TimestampLayout) + " " + rec.Kind.String() + "| " + text
}

// ParseLine parses a metadata line: "<timestamp> <KIND>| <payload>".
func ParseLine(line string) (record.Record, bool) {
	if len(line) < len(TimestampLayout)+1 || line[len(TimestampLayout)] != ' ' {
		return record.Record{}, false
	}
	ts, err := time.ParseInLocation(TimestampLayout, line[:len(TimestampLayout)], time.Local)
	if err != nil {
		return record.Record{}, false
	}
	label, payload, ok := strings.Cut(line[len(TimestampLayout)+1:], "|")
	if !ok {
		return record.Record{}, false
	}
	kind, ok := record.ParseKind(label)
	if !ok {
		return record.Record{}, false
	}
	payload = strings.TrimPrefix(payload, " ")

	var rec record.Record
	switch kind {
	case record.Received, record.Transmitted:
		rec = record.Bytes(kind, []byte(payload))
	default:
		rec = record.Textual(kind, payload)
	}
	rec.Timestamp = ts
	return rec, true
}

// Serialize writes one line per record using the same projection the viewer
// renders with. Separators are skipped. Byte-projecting modes are announced
// by a header line.
func Serialize(w io.Writer, recs []record.Record, includeMeta bool, mode record.Mode) error {
	bw := bufio.NewWriter(w)
	if mode != record.ASCII {
		if _, err := bw.WriteString(modeHeader + mode.String() + "\n"); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for _, rec := range recs {
		if rec.Kind == record.Separator {
			continue
		}
		if _, err := bw.WriteString(FormatLine(rec, includeMeta, mode)); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush records: %w", err)
	}
	return nil
}

// parseHeader reports the mode announced by an export header line.
func parseHeader(line string) (record.Mode, bool) {
	value, ok := strings.CutPrefix(line, modeHeader)
	if !ok {
		return record.ASCII, false
	}
	mode, err := record.ParseMode(value)
	if err != nil {
		return record.ASCII, false
	}
	return mode, true
}

// decodePayload undoes the HEX or MIXED projection of a byte record. MIXED
// lines keep their hex column before the separator. Payloads that are not
// valid hex are kept as read.
func decodePayload(rec record.Record, mode record.Mode) record.Record {
	if rec.IsText || mode == record.ASCII {
		return rec
	}
	column := string(rec.Data)
	if mode == record.Mixed {
		column, _, _ = strings.Cut(column, " | ")
	}
	data, err := hex.DecodeString(strings.Join(strings.Fields(column), ""))
	if err != nil {
		return rec
	}
	rec.Data = data
	return rec
}

// WriteFile serializes recs to path, creating parent directories.
func WriteFile(path string, recs []record.Record, includeMeta bool, mode record.Mode) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	if err := Serialize(file, recs, includeMeta, mode); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close export: %w", err)
	}
	return nil
}
