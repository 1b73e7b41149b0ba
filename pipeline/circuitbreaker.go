package pipeline

import "sync"

// circuitBreaker short-circuits a frame once more than N consecutive file
// scans within it have thrown, per §4.5's file-level circuit breaker
// (default N=5).
type circuitBreaker struct {
	mu                sync.Mutex
	threshold         int
	consecutiveErrors int
	tripped           bool
	reason            string
}

func newCircuitBreaker(threshold int) *circuitBreaker {
	if threshold <= 0 {
		threshold = 5
	}
	return &circuitBreaker{threshold: threshold}
}

// RecordError reports one file scan failure; it returns true once the
// breaker trips. Implements frame.FileCircuitBreaker.
func (c *circuitBreaker) RecordError(reason string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consecutiveErrors++
	if c.consecutiveErrors > c.threshold && !c.tripped {
		c.tripped = true
		c.reason = reason
	}
	return c.tripped
}

// RecordSuccess resets the consecutive-error counter. Implements
// frame.FileCircuitBreaker.
func (c *circuitBreaker) RecordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consecutiveErrors = 0
}

func (c *circuitBreaker) isTripped() (bool, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tripped, c.reason
}
