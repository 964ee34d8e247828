package logtail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/five82/portscope/internal/record"
)

const (
	defaultFollowPoll = time.Second
	defaultReadRate   = 20 // reads per second during write storms
	maxReadChunk      = 4 * 1024 * 1024
)

// FollowOptions tune Follow.
type FollowOptions struct {
	FromStart bool          // emit existing content before following
	Poll      time.Duration // fallback re-check interval when no events arrive
	ReadRate  rate.Limit
}

// Follow watches path and calls emit with every batch of complete lines
// appended to it until ctx is done. Lines carrying a metadata prefix keep
// their kind and timestamp; other lines become Received records. A truncated
// or replaced file is read again from the start.
func Follow(ctx context.Context, path string, opts FollowOptions, emit func([]record.Record)) error {
	if opts.Poll <= 0 {
		opts.Poll = defaultFollowPoll
	}
	if opts.ReadRate <= 0 {
		opts.ReadRate = defaultReadRate
	}
	path = filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	// The directory is watched so the file may be created or rotated later.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	f := newFollower(path)
	if !opts.FromStart {
		f.skipExisting()
	}
	limiter := rate.NewLimiter(opts.ReadRate, 1)
	ticker := time.NewTicker(opts.Poll)
	defer ticker.Stop()

	read := func() error {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		recs, err := f.poll()
		if err != nil {
			return err
		}
		if len(recs) > 0 {
			emit(recs)
		}
		return nil
	}
	if err := read(); err != nil {
		return ignoreCanceled(err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				f.reset()
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := read(); err != nil {
				return ignoreCanceled(err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", path, err)
		case <-ticker.C:
			if err := read(); err != nil {
				return ignoreCanceled(err)
			}
		}
	}
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// follower tracks how far a followed file has been consumed.
type follower struct {
	path    string
	offset  int64
	partial []byte
}

func newFollower(path string) *follower {
	return &follower{path: path}
}

func (f *follower) skipExisting() {
	if info, err := os.Stat(f.path); err == nil {
		f.offset = info.Size()
	}
}

func (f *follower) reset() {
	f.offset = 0
	f.partial = nil
}

// poll reads whatever was appended since the last call and returns the
// complete lines as records. A missing file is not an error.
func (f *follower) poll() ([]record.Record, error) {
	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open followed file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat followed file: %w", err)
	}
	if info.Size() < f.offset {
		f.reset()
	}
	if info.Size() == f.offset {
		return nil, nil
	}
	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek followed file: %w", err)
	}
	chunk, err := io.ReadAll(io.LimitReader(file, maxReadChunk))
	if err != nil {
		return nil, fmt.Errorf("read followed file: %w", err)
	}
	f.offset += int64(len(chunk))

	data := append(f.partial, chunk...)
	var recs []record.Record
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		line := bytes.TrimSuffix(data[:i], []byte{'\r'})
		data = data[i+1:]
		if rec, ok := ParseLine(string(line)); ok {
			recs = append(recs, rec)
			continue
		}
		recs = append(recs, record.Bytes(record.Received, bytes.Clone(line)))
	}
	f.partial = bytes.Clone(data)
	return recs, nil
}
