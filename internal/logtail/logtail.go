package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/five82/portscope/internal/record"
)

// ReadFile loads at most maxRecords from the end of the log at path.
// A missing file yields no records and no error.
func ReadFile(path string, maxRecords int) ([]record.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()
	return Load(file, maxRecords)
}

// Load parses records from r, keeping only the last maxRecords (all of them
// when maxRecords <= 0). Lines with a metadata prefix start a new record;
// lines without one continue the previous metadata record, so multi-line
// payloads survive a round trip. A file without any metadata becomes one
// Received record per line. Exports written in HEX or MIXED mode are decoded
// back to their bytes.
func Load(r io.Reader, maxRecords int) ([]record.Record, error) {
	buf := newRing(maxRecords)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sawMeta := false
	mode := record.ASCII
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			first = false
			if m, ok := parseHeader(line); ok {
				mode = m
				continue
			}
		}
		if rec, ok := ParseLine(line); ok {
			buf.push(decodePayload(rec, mode))
			sawMeta = true
			continue
		}
		if last := buf.last(); sawMeta && last != nil {
			appendLine(last, line)
			continue
		}
		buf.push(decodePayload(record.Bytes(record.Received, []byte(line)), mode))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return buf.items(), nil
}

func appendLine(rec *record.Record, line string) {
	if rec.IsText {
		rec.Text += "\n" + line
		return
	}
	data := make([]byte, 0, len(rec.Data)+1+len(line))
	data = append(data, rec.Data...)
	data = append(data, '\n')
	rec.Data = append(data, line...)
}

// ring keeps the newest max records in O(max) memory. max <= 0 is unbounded.
type ring struct {
	buf   []record.Record
	max   int
	next  int
	count int
}

func newRing(max int) *ring {
	r := &ring{max: max}
	if max > 0 {
		r.buf = make([]record.Record, max)
	}
	return r
}

func (r *ring) push(rec record.Record) {
	if r.max <= 0 {
		r.buf = append(r.buf, rec)
		r.count++
		return
	}
	r.buf[r.next] = rec
	r.next = (r.next + 1) % r.max
	if r.count < r.max {
		r.count++
	}
}

func (r *ring) last() *record.Record {
	if r.count == 0 {
		return nil
	}
	if r.max <= 0 {
		return &r.buf[len(r.buf)-1]
	}
	return &r.buf[(r.next-1+r.max)%r.max]
}

func (r *ring) items() []record.Record {
	if r.count == 0 {
		return nil
	}
	if r.max <= 0 {
		return r.buf
	}
	out := make([]record.Record, r.count)
	if r.count == r.max {
		for i := range r.count {
			out[i] = r.buf[(r.next+i)%r.max]
		}
	} else {
		copy(out, r.buf[:r.count])
	}
	return out
}
