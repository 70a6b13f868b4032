package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversionLimiter_AcquireRelease(t *testing.T) {
	limiter := NewConversionLimiter(2, time.Second)
	assert.Equal(t, 0, limiter.Active())

	ctx := context.Background()
	release1, err := limiter.Acquire(ctx)
	require.NoError(t, err)
	release2, err := limiter.Acquire(ctx)
	require.NoError(t, err)

	assert.Equal(t, LimiterStatus{Active: 2, Available: 0, MaxConcurrent: 2}, limiter.Status())

	release1()
	release1() // second call is a no-op
	assert.Equal(t, 1, limiter.Active())

	release2()
	assert.Equal(t, 2, limiter.Status().Available)
}

func TestConversionLimiter_TimesOutWhenFull(t *testing.T) {
	limiter := NewConversionLimiter(1, 50*time.Millisecond)

	release, err := limiter.Acquire(context.Background())
	require.NoError(t, err)
	defer release()

	start := time.Now()
	_, err = limiter.Acquire(context.Background())

	assert.ErrorIs(t, err, ErrTooManyConversions)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestConversionLimiter_ContextCancelled(t *testing.T) {
	limiter := NewConversionLimiter(1, time.Minute)

	release, err := limiter.Acquire(context.Background())
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = limiter.Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConversionLimiter_ConcurrentAccess(t *testing.T) {
	const maxConcurrent = 3
	const totalRequests = 10

	limiter := NewConversionLimiter(maxConcurrent, 5*time.Second)

	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		maxObserved int
	)

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			release, err := limiter.Acquire(context.Background())
			if !assert.NoError(t, err) {
				return
			}
			defer release()

			mu.Lock()
			if current := limiter.Active(); current > maxObserved {
				maxObserved = current
			}
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)
		}()
	}

	wg.Wait()

	assert.LessOrEqual(t, maxObserved, maxConcurrent)
	assert.Equal(t, 0, limiter.Active())
}

func TestConversionLimiter_WaitForDrain(t *testing.T) {
	limiter := NewConversionLimiter(2, time.Second)

	release, err := limiter.Acquire(context.Background())
	require.NoError(t, err)

	go func() {
		time.Sleep(30 * time.Millisecond)
		release()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	assert.NoError(t, limiter.WaitForDrain(ctx))
}

func TestConversionLimiter_WaitForDrainTimeout(t *testing.T) {
	limiter := NewConversionLimiter(1, time.Second)

	release, err := limiter.Acquire(context.Background())
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, limiter.WaitForDrain(ctx), context.DeadlineExceeded)
}

func TestNewConversionLimiter_Defaults(t *testing.T) {
	limiter := NewConversionLimiter(0, 0)

	assert.Equal(t, DefaultMaxConcurrentConversions, limiter.Status().MaxConcurrent)
	assert.Equal(t, DefaultMaxWaitTime, limiter.maxWait)
}
