package ratelimit_test

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DanielPopoola/crpt-document-client/internal/application"
	"github.com/DanielPopoola/crpt-document-client/internal/infrastructure/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWindowLimiter(t *testing.T, window time.Duration, limit int) *ratelimit.WindowLimiter {
	t.Helper()
	l, err := ratelimit.NewWindowLimiter(window, limit, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_ = l.Shutdown(ctx)
	})
	return l
}

func TestNewWindowLimiter_RejectsInvalidParameters(t *testing.T) {
	_, err := ratelimit.NewWindowLimiter(0, 5, nil)
	assert.Error(t, err)

	_, err = ratelimit.NewWindowLimiter(time.Second, 0, nil)
	assert.Error(t, err)

	_, err = ratelimit.NewWindowLimiter(-time.Second, 5, nil)
	assert.Error(t, err)
}

func TestWindowLimiter_AcquireWithinLimitDoesNotBlock(t *testing.T) {
	l := newWindowLimiter(t, time.Hour, 3)

	start := time.Now()
	for range 3 {
		require.NoError(t, l.Acquire(context.Background()))
	}

	assert.Less(t, time.Since(start), 50*time.Millisecond)
	assert.Equal(t, 3, l.InUse())
}

func TestWindowLimiter_ReleasesOneWindowAfterAcquire(t *testing.T) {
	const window = 100 * time.Millisecond
	l := newWindowLimiter(t, window, 1)

	first := time.Now()
	require.NoError(t, l.Acquire(context.Background()))
	require.NoError(t, l.Acquire(context.Background()))

	assert.GreaterOrEqual(t, time.Since(first), window)
	assert.Equal(t, 1, l.InUse())

	require.Eventually(t, func() bool { return l.InUse() == 0 }, time.Second, 5*time.Millisecond)
}

func TestWindowLimiter_NeverExceedsLimit(t *testing.T) {
	const (
		window  = 80 * time.Millisecond
		limit   = 3
		callers = 9
	)
	l := newWindowLimiter(t, window, limit)

	var maxSeen atomic.Int64
	stopSampling := make(chan struct{})
	sampled := make(chan struct{})
	go func() {
		defer close(sampled)
		for {
			select {
			case <-stopSampling:
				return
			default:
			}
			if n := int64(l.InUse()); n > maxSeen.Load() {
				maxSeen.Store(n)
			}
			time.Sleep(time.Millisecond)
		}
	}()

	start := time.Now()
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, l.Acquire(context.Background()))
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	close(stopSampling)
	<-sampled

	// The 7th acquisition needs a slot that was already recycled twice.
	assert.GreaterOrEqual(t, elapsed, 2*window)
	assert.LessOrEqual(t, maxSeen.Load(), int64(limit))
}

func TestWindowLimiter_AcquireHonoursContext(t *testing.T) {
	t.Run("deadline while waiting", func(t *testing.T) {
		l := newWindowLimiter(t, time.Hour, 1)
		require.NoError(t, l.Acquire(context.Background()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()

		err := l.Acquire(ctx)

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, 1, l.InUse())
	})

	t.Run("already cancelled", func(t *testing.T) {
		l := newWindowLimiter(t, time.Hour, 1)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := l.Acquire(ctx)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, l.InUse())
	})
}

func TestWindowLimiter_ShutdownDrainsScheduledReleases(t *testing.T) {
	const window = 50 * time.Millisecond
	l := newWindowLimiter(t, window, 2)
	require.NoError(t, l.Acquire(context.Background()))
	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	start := time.Now()
	err := l.Shutdown(ctx)

	require.NoError(t, err)
	assert.Equal(t, 0, l.InUse())
	assert.Less(t, time.Since(start), time.Second)
	assert.ErrorIs(t, l.Acquire(context.Background()), application.ErrLimiterClosed)
}

func TestWindowLimiter_ShutdownCancelsReleasesOnDeadline(t *testing.T) {
	l := newWindowLimiter(t, time.Hour, 2)
	require.NoError(t, l.Acquire(context.Background()))
	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Shutdown(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, l.InUse())
}

func TestWindowLimiter_ShutdownReleasesWaiters(t *testing.T) {
	l := newWindowLimiter(t, time.Hour, 1)
	require.NoError(t, l.Acquire(context.Background()))

	result := make(chan error, 1)
	go func() {
		result <- l.Acquire(context.Background())
	}()

	// Give the waiter time to block on the semaphore.
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = l.Shutdown(ctx)

	select {
	case err := <-result:
		assert.ErrorIs(t, err, application.ErrLimiterClosed)
	case <-time.After(time.Second):
		t.Fatal("waiter was not released by shutdown")
	}
	assert.Equal(t, 0, l.InUse())
}

func TestWindowLimiter_ShutdownIsIdempotent(t *testing.T) {
	l := newWindowLimiter(t, 10*time.Millisecond, 1)
	require.NoError(t, l.Acquire(context.Background()))

	require.NoError(t, l.Shutdown(context.Background()))
	require.NoError(t, l.Shutdown(context.Background()))
}
