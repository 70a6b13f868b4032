package core

// limiter.go bounds how many uploads are converted at the same time.
//
// Each conversion holds the whole spreadsheet in memory while it is parsed,
// so the limiter caps parallel conversions with a buffered-channel
// semaphore. When every slot is taken, Acquire waits up to maxWait and then
// fails with ErrTooManyConversions. WaitForDrain supports graceful shutdown.

import (
	"context"
	"sync/atomic"
	"time"
)

// DefaultMaxConcurrentConversions is used when no positive limit is given.
const DefaultMaxConcurrentConversions = 5

// DefaultMaxWaitTime is how long Acquire waits for a slot by default.
const DefaultMaxWaitTime = 30 * time.Second

// ConversionLimiter caps the number of conversions running in parallel.
type ConversionLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

// NewConversionLimiter allows at most maxConcurrent conversions at once.
// Callers that cannot get a slot within maxWait receive ErrTooManyConversions.
func NewConversionLimiter(maxConcurrent int, maxWait time.Duration) *ConversionLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentConversions
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}
	return &ConversionLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a conversion slot and returns the function that gives it
// back. The release function is safe to call more than once.
func (l *ConversionLimiter) Acquire(ctx context.Context) (release func(), err error) {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, ErrTooManyConversions
	}

	l.active.Add(1)
	var released atomic.Bool
	return func() {
		if released.CompareAndSwap(false, true) {
			l.active.Add(-1)
			<-l.slots
		}
	}, nil
}

// Active returns the number of conversions holding a slot.
func (l *ConversionLimiter) Active() int {
	return int(l.active.Load())
}

// WaitForDrain blocks until no conversion holds a slot or ctx is done.
func (l *ConversionLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for l.Active() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// LimiterStatus is a point-in-time view of the limiter for monitoring.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state.
func (l *ConversionLimiter) Status() LimiterStatus {
	active := l.Active()
	return LimiterStatus{
		Active:        active,
		Available:     cap(l.slots) - len(l.slots),
		MaxConcurrent: cap(l.slots),
	}
}
