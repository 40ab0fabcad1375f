// Package rate provides a token bucket rate limiter for controlling request rates.
package rate

import (
	"context"
	"sync"
	"time"
)

// Limiter implements a token bucket rate limiter. It supports both blocking
// (Wait) and non-blocking (Allow) modes.
type Limiter struct {
	rate   float64    // tokens per second
	burst  int        // maximum burst size (bucket capacity)
	mu     sync.Mutex // protects the following fields
	tokens float64    // current number of tokens
	last   time.Time  // last time tokens were updated
}

// New creates a new rate limiter with the specified rate (requests per
// second) and burst size.
//
// Example:
//
//	limiter := rate.New(2, 1) // 2 req/s, burst of 1
func New(rate float64, burst int) *Limiter {
	if rate <= 0 {
		rate = 1
	}
	if burst <= 0 {
		burst = 1
	}

	return &Limiter{
		rate:   rate,
		burst:  burst,
		tokens: float64(burst), // start with full bucket
		last:   time.Now(),
	}
}

// Wait blocks until the limiter allows an operation to proceed or the
// context is canceled.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		if l.Allow() {
			return nil
		}

		waitTime := l.waitDuration()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
			// re-check on the next iteration
		}
	}
}

// Allow reports whether an operation can proceed immediately, consuming one
// token if available.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.advance(time.Now())

	if l.tokens >= 1 {
		l.tokens--
		return true
	}

	return false
}

// Rate returns the configured tokens per second.
func (l *Limiter) Rate() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rate
}

// Burst returns the configured bucket capacity.
func (l *Limiter) Burst() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.burst
}

// waitDuration estimates how long until the next token is available.
func (l *Limiter) waitDuration() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.advance(time.Now())

	if l.tokens >= 1 {
		return 0
	}

	missing := 1 - l.tokens
	seconds := missing / l.rate
	return time.Duration(seconds * float64(time.Second))
}

// advance refills tokens for the elapsed time. Must be called with l.mu held.
func (l *Limiter) advance(now time.Time) {
	elapsed := now.Sub(l.last).Seconds()
	if elapsed <= 0 {
		return
	}

	l.tokens += elapsed * l.rate
	if l.tokens > float64(l.burst) {
		l.tokens = float64(l.burst)
	}
	l.last = now
}
