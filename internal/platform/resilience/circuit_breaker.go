// Package resilience provides a circuit breaker guarding the external
// directory API against failure cascades.
package resilience

import (
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	StateClosed   State = iota // normal operation
	StateOpen                  // failing, rejecting requests
	StateHalfOpen              // testing whether the service recovered
)

// CircuitBreaker opens after a run of consecutive failures so that a broken
// directory endpoint stops consuming the shared rate limit budget.
type CircuitBreaker struct {
	mu              sync.Mutex
	state           State
	failureCount    int
	successCount    int
	lastFailureTime time.Time

	failureThreshold int           // failures to open the circuit
	timeout          time.Duration // time to wait before half-open
	halfOpenMax      int           // max probe requests in half-open state
}

// NewCircuitBreaker creates a circuit breaker. Zero or negative arguments
// fall back to defaults (5 failures, 60s open, 3 half-open probes).
func NewCircuitBreaker(failureThreshold int, timeout time.Duration, halfOpenMax int) *CircuitBreaker {
	if failureThreshold <= 0 {
		failureThreshold = 5
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if halfOpenMax <= 0 {
		halfOpenMax = 3
	}

	return &CircuitBreaker{
		state:            StateClosed,
		failureThreshold: failureThreshold,
		timeout:          timeout,
		halfOpenMax:      halfOpenMax,
	}
}

// Allow reports whether a request may pass.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true

	case StateOpen:
		if time.Since(cb.lastFailureTime) > cb.timeout {
			cb.state = StateHalfOpen
			cb.successCount = 0
			cb.failureCount = 0
			return true
		}
		return false

	case StateHalfOpen:
		return cb.successCount+cb.failureCount < cb.halfOpenMax

	default:
		return false
	}
}

// RecordSuccess registers a successful call.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		cb.failureCount = 0

	case StateHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.halfOpenMax {
			cb.state = StateClosed
			cb.failureCount = 0
			cb.successCount = 0
		}
	}
}

// RecordFailure registers a failed call, possibly opening the circuit.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.lastFailureTime = time.Now()

	switch cb.state {
	case StateClosed:
		cb.failureCount++
		if cb.failureCount >= cb.failureThreshold {
			cb.state = StateOpen
		}

	case StateHalfOpen:
		// any failure while probing re-opens the circuit
		cb.state = StateOpen
		cb.failureCount = 0
		cb.successCount = 0
	}
}

// CurrentState returns the current state.
func (cb *CircuitBreaker) CurrentState() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
