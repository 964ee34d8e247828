package record

import (
	"testing"
	"time"
)

func TestStore_AppendAssignsIncreasingIDs(t *testing.T) {
	s := NewStore(10)
	s.Append(Textual(System, "a"), Bytes(Received, []byte("b")))
	s.Append(Textual(Error, "c"))

	snap := s.Snapshot()
	if len(snap.Records) != 3 {
		t.Fatalf("len = %d, want 3", len(snap.Records))
	}
	for i := 1; i < len(snap.Records); i++ {
		if snap.Records[i].ID <= snap.Records[i-1].ID {
			t.Fatalf("ids not increasing: %d then %d", snap.Records[i-1].ID, snap.Records[i].ID)
		}
	}
	if snap.Records[0].Timestamp.IsZero() {
		t.Fatalf("Timestamp not assigned")
	}
}

func TestStore_AtCapacityDropsExactlyOldest(t *testing.T) {
	s := NewStore(3)
	for _, text := range []string{"1", "2", "3"} {
		s.Append(Textual(Received, text))
	}
	s.Append(Textual(Received, "4"))

	snap := s.Snapshot()
	if len(snap.Records) != 3 {
		t.Fatalf("len = %d, want 3", len(snap.Records))
	}
	if snap.Records[0].Text != "2" || snap.Records[2].Text != "4" {
		t.Fatalf("records = %q..%q, want 2..4", snap.Records[0].Text, snap.Records[2].Text)
	}
	if snap.Dropped != 1 {
		t.Fatalf("Dropped = %d, want 1", snap.Dropped)
	}
}

func TestStore_IgnoresSeparators(t *testing.T) {
	s := NewStore(5)
	if n := s.Append(SeparatorRecord()); n != 0 {
		t.Fatalf("Append(separator) = %d, want 0", n)
	}
	if s.Len() != 0 {
		t.Fatalf("Len = %d, want 0", s.Len())
	}
	if s.Version() != 0 {
		t.Fatalf("Version = %d, want 0 after no-op append", s.Version())
	}
}

func TestStore_ReplaceKeepsNewestAndBumpsVersion(t *testing.T) {
	s := NewStore(2)
	s.Append(Textual(Received, "old"))
	before := s.Version()

	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.Replace([]Record{
		{Kind: Received, Text: "a", IsText: true, Timestamp: ts},
		{Kind: Received, Text: "b", IsText: true, Timestamp: ts},
		{Kind: Received, Text: "c", IsText: true, Timestamp: ts},
	})

	snap := s.Snapshot()
	if snap.Version == before {
		t.Fatalf("Version unchanged after Replace")
	}
	if len(snap.Records) != 2 || snap.Records[0].Text != "b" {
		t.Fatalf("records = %#v, want [b c]", snap.Records)
	}
	if !snap.Records[0].Timestamp.Equal(ts) {
		t.Fatalf("Timestamp = %v, want %v", snap.Records[0].Timestamp, ts)
	}
}

func TestStore_SnapshotIsIndependent(t *testing.T) {
	s := NewStore(5)
	s.Append(Textual(Received, "x"))

	snap := s.Snapshot()
	snap.Records[0].Text = "mutated"
	if got := s.Snapshot().Records[0].Text; got != "x" {
		t.Fatalf("store text = %q, want x", got)
	}
}

func TestStore_ClearEmptiesButKeepsIDsIncreasing(t *testing.T) {
	s := NewStore(5)
	s.Append(Textual(Received, "x"))
	last := s.Snapshot().Records[0].ID
	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("Len = %d, want 0", s.Len())
	}
	s.Append(Textual(Received, "y"))
	if id := s.Snapshot().Records[0].ID; id <= last {
		t.Fatalf("id after Clear = %d, want > %d", id, last)
	}
}
