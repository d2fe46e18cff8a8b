// Package circuit implements a consecutive-failure circuit breaker used to
// fail fast against registries that are down, instead of paying the full
// request timeout on every aggregation.
package circuit

import (
	"sync"
	"time"
)

// Breaker tracks consecutive failures:
// - opens after failureThreshold consecutive failures;
// - while open, Allow rejects calls until cooldown has elapsed;
// - after cooldown, probe calls are let through and successThreshold
//   consecutive successes close the circuit again.
type Breaker struct {
	mu               sync.Mutex
	state            state
	failureCount     int
	successCount     int
	failureThreshold int
	successThreshold int
	cooldown         time.Duration
	openedAt         time.Time
}

type state int

const (
	closed state = iota
	open
)

// NewBreaker creates a breaker with the given thresholds and cooldown.
// Non-positive values fall back to 5 failures / 3 successes / 30s.
func NewBreaker(failureThreshold, successThreshold int, cooldown time.Duration) *Breaker {
	if failureThreshold <= 0 {
		failureThreshold = 5
	}
	if successThreshold <= 0 {
		successThreshold = 3
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &Breaker{
		state:            closed,
		failureThreshold: failureThreshold,
		successThreshold: successThreshold,
		cooldown:         cooldown,
	}
}

// Allow reports whether a call may proceed. Open circuits reject until the
// cooldown elapses, then admit probe calls.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == closed {
		return true
	}
	return time.Since(b.openedAt) >= b.cooldown
}

// IsOpen reports whether the circuit is currently open.
func (b *Breaker) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state == open
}

// RecordFailure notes a failed call and returns true if the circuit is now
// (or already was) open.
func (b *Breaker) RecordFailure() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failureCount++
	b.successCount = 0
	if b.state == open {
		// A failed probe restarts the cooldown.
		b.openedAt = time.Now()
		return true
	}
	if b.failureCount >= b.failureThreshold {
		b.state = open
		b.openedAt = time.Now()
		return true
	}
	return false
}

// RecordSuccess notes a successful call and returns true once the circuit
// is closed.
func (b *Breaker) RecordSuccess() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == open {
		b.successCount++
		if b.successCount >= b.successThreshold {
			b.state = closed
			b.failureCount = 0
			b.successCount = 0
			return true
		}
		return false
	}
	b.failureCount = 0
	return true
}
