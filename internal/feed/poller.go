package feed

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/five82/portscope/internal/record"
)

const (
	defaultPollInterval = 500 * time.Millisecond
	defaultBatchLimit   = 500
	maxBackoff          = 30 * time.Second
	maxDrain            = 20
)

// LinkFetcher is implemented by fetchers that can report the device link.
type LinkFetcher interface {
	FetchLink(ctx context.Context) (Link, error)
}

// Appender is the single-writer ingestion side of the record store.
type Appender interface {
	Append(recs ...record.Record) int
}

// Poller copies new bridge records into a store.
type Poller struct {
	fetcher  Fetcher
	store    Appender
	interval time.Duration
	limit    int

	since     uint64
	failures  int
	connected *bool
}

// NewPoller builds a poller. A non-positive interval uses the default.
func NewPoller(fetcher Fetcher, store Appender, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Poller{fetcher: fetcher, store: store, interval: interval, limit: defaultBatchLimit}
}

// Run polls until ctx is done, backing off exponentially while the bridge
// fails. It always returns nil once ctx is canceled.
func (p *Poller) Run(ctx context.Context) error {
	for {
		p.refresh(ctx)
		timer := time.NewTimer(calculateBackoff(p.failures, p.interval))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

func (p *Poller) refresh(ctx context.Context) {
	if lf, ok := p.fetcher.(LinkFetcher); ok {
		if link, err := lf.FetchLink(ctx); err == nil {
			p.noteLink(link)
		}
	}
	for range maxDrain {
		batch, err := p.fetcher.FetchRecords(ctx, Query{Since: p.since, Limit: p.limit})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.failures++
			if p.failures == 1 {
				p.store.Append(record.Textual(record.Error, fmt.Sprintf("feed unavailable: %v", err)))
			}
			log.Printf("record poll failed: %v", err)
			return
		}
		if p.failures > 0 {
			p.store.Append(record.Textual(record.System, "feed reconnected"))
			p.failures = 0
		}
		p.store.Append(batch.Decode()...)
		p.advance(batch)
		if len(batch.Records) < p.limit {
			return
		}
	}
}

func (p *Poller) advance(batch Batch) {
	next := batch.Next
	for _, w := range batch.Records {
		next = max(next, w.Seq)
	}
	p.since = max(p.since, next)
}

func (p *Poller) noteLink(link Link) {
	if p.connected != nil && *p.connected == link.Connected {
		return
	}
	connected := link.Connected
	p.connected = &connected
	if connected {
		p.store.Append(record.Textual(record.System, fmt.Sprintf("connected to %s at %d baud", link.Port, link.Baud)))
		return
	}
	p.store.Append(record.Textual(record.System, "device disconnected"))
}

// calculateBackoff doubles base per consecutive failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for range failures {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
