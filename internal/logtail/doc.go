// Package logtail reads, writes and follows record logs on disk.
//
// # File format
//
// Exports are line oriented. With metadata each record starts with
//
//	2006-01-02 15:04:05.000 RX| payload
//
// and lines without the prefix continue the previous record, so payloads
// containing newlines load back as one record. Without metadata every line
// is a Received record. Both directions use the record package's text
// projection, which keeps an exported file and the live view identical.
//
// # Reading
//
// ReadFile and Load keep only the newest N records using a ring buffer, so a
// large file is scanned once in O(N) memory. ReadFile returns nil, nil for a
// missing file.
//
// # Following
//
// Follow watches the file's directory with fsnotify and re-reads the tail on
// write events, limited by a token bucket so write storms coalesce into
// fewer, larger batches. A ticker covers filesystems that do not deliver
// events. Truncation and rotation restart reading from offset zero.
package logtail
