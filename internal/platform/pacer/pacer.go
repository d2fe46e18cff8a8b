// Package pacer provides per-source pacing of outbound registry calls.
//
// Remote registries enforce informal, undocumented rate limits. The pacer
// hands out send slots at a fixed interval per source so concurrent
// aggregations never burst a single registry, while calls to different
// sources proceed independently.
package pacer

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval spaces calls at 5 per second per source, matching the
// conservative limit the cross-study registry tolerates.
const DefaultInterval = 200 * time.Millisecond

// Pacer paces calls per source key. The lock is held only to reserve a
// slot, never while sleeping, so one slow source cannot block another.
type Pacer struct {
	mu       sync.Mutex
	interval time.Duration
	next     map[string]time.Time
}

// New creates a pacer with the given minimum interval between calls to the
// same source. Zero or negative means DefaultInterval.
func New(interval time.Duration) *Pacer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Pacer{
		interval: interval,
		next:     make(map[string]time.Time),
	}
}

// WaitIfNeeded blocks until the source's pacing window permits another call.
// Returns early with the context error if ctx is done first.
func (p *Pacer) WaitIfNeeded(ctx context.Context, source string) error {
	p.mu.Lock()
	now := time.Now()
	slot := p.next[source]
	if slot.Before(now) {
		slot = now
	}
	p.next[source] = slot.Add(p.interval)
	p.mu.Unlock()

	wait := time.Until(slot)
	if wait <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
