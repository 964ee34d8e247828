package record

import (
	"sync"
	"time"
)

// DefaultCapacity is the retention window used when none is configured.
const DefaultCapacity = 10000

// Snapshot is an immutable view of the store at a point in time.
type Snapshot struct {
	Records    []Record
	Version    uint64
	Dropped    uint64 // records evicted since the store was created or replaced
	LastAppend time.Time
}

// Store is an append-only, capacity-bounded record sequence. It has a single
// writer (the ingestion path); readers work from snapshots.
type Store struct {
	mu         sync.RWMutex
	capacity   int
	records    []Record
	nextID     int64
	version    uint64
	dropped    uint64
	lastAppend time.Time
	now        func() time.Time
}

// NewStore returns an empty store holding at most capacity records.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{capacity: capacity, now: time.Now}
}

// Capacity reports the retention limit.
func (s *Store) Capacity() int {
	return s.capacity
}

// Append adds records in arrival order, assigning ids and missing timestamps.
// Separator records are ignored. When capacity is exceeded the oldest records
// are dropped from the front. It returns the number of records stored.
func (s *Store) Append(recs ...Record) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	now := s.now()
	for _, rec := range recs {
		if rec.Kind == Separator {
			continue
		}
		s.nextID++
		rec.ID = s.nextID
		if rec.Timestamp.IsZero() {
			rec.Timestamp = now
		}
		s.records = append(s.records, rec)
		added++
	}
	if added == 0 {
		return 0
	}
	if overflow := len(s.records) - s.capacity; overflow > 0 {
		// Reslicing keeps appends amortized; the next growth copies only live records.
		clear(s.records[:overflow])
		s.records = s.records[overflow:]
		s.dropped += uint64(overflow)
	}
	s.version++
	s.lastAppend = now
	return added
}

// Replace swaps the whole sequence, as when loading a file. Only the newest
// capacity records are kept and ids are reassigned in order.
func (s *Store) Replace(recs []Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.dropped = 0
	if overflow := len(recs) - s.capacity; overflow > 0 {
		recs = recs[overflow:]
	}
	now := s.now()
	for _, rec := range recs {
		if rec.Kind == Separator {
			continue
		}
		s.nextID++
		rec.ID = s.nextID
		if rec.Timestamp.IsZero() {
			rec.Timestamp = now
		}
		s.records = append(s.records, rec)
	}
	s.version++
}

// Clear removes every record. Ids keep increasing afterwards.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.dropped = 0
	s.version++
}

// Len returns the number of retained records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Version changes every time the sequence is mutated.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Snapshot returns a copy of the current sequence. Payload slices are shared;
// records are never mutated after they are appended.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Version:    s.version,
		Dropped:    s.dropped,
		LastAppend: s.lastAppend,
	}
	if len(s.records) > 0 {
		snap.Records = make([]Record, len(s.records))
		copy(snap.Records, s.records)
	}
	return snap
}
