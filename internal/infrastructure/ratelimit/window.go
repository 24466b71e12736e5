package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DanielPopoola/crpt-document-client/internal/application"
	"golang.org/x/sync/semaphore"
)

// WindowLimiter caps the number of permits handed out within any rolling
// window. Every permit is given back exactly one window after it was
// acquired, whatever the holder did with it, so at most limit acquisitions
// can start per window.
//
// Releases are owned by a single background worker fed through a deadline
// queue. Deadlines are appended under mu, so the queue is always sorted.
type WindowLimiter struct {
	sem    *semaphore.Weighted
	limit  int
	window time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	pending []time.Time
	closed  bool

	inUse    atomic.Int64
	wake     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewWindowLimiter(window time.Duration, requestLimit int, logger *slog.Logger) (*WindowLimiter, error) {
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %s", window)
	}
	if requestLimit <= 0 {
		return nil, fmt.Errorf("request limit must be positive, got %d", requestLimit)
	}
	if logger == nil {
		logger = slog.Default()
	}

	l := &WindowLimiter{
		sem:    semaphore.NewWeighted(int64(requestLimit)),
		limit:  requestLimit,
		window: window,
		logger: logger,
		wake:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go l.run()

	return l, nil
}

// Acquire takes one permit, blocking until one is free or ctx is done.
// Waiters are not served in any guaranteed order.
func (l *WindowLimiter) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l.isClosed() {
		return application.ErrLimiterClosed
	}

	if err := l.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		l.sem.Release(1)
		return application.ErrLimiterClosed
	}
	l.pending = append(l.pending, time.Now().Add(l.window))
	l.inUse.Add(1)
	l.mu.Unlock()

	l.notify()
	return nil
}

// InUse reports permits acquired and not yet released.
func (l *WindowLimiter) InUse() int {
	return int(l.inUse.Load())
}

func (l *WindowLimiter) Limit() int {
	return l.limit
}

func (l *WindowLimiter) Window() time.Duration {
	return l.window
}

// Shutdown stops handing out permits and waits for scheduled releases to
// fire. When ctx ends first, the remaining releases are cancelled and their
// permits returned immediately, so no permit outlives the limiter.
func (l *WindowLimiter) Shutdown(ctx context.Context) error {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.notify()

	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
	}

	l.stopOnce.Do(func() { close(l.stop) })
	<-l.done

	l.mu.Lock()
	n := len(l.pending)
	l.pending = nil
	l.mu.Unlock()

	if n == 0 {
		return nil
	}

	l.logger.Warn("cancelled scheduled permit releases", "count", n, "error", ctx.Err())
	l.release(n)
	return ctx.Err()
}

func (l *WindowLimiter) run() {
	defer close(l.done)

	timer := time.NewTimer(l.window)
	timer.Stop()

	for {
		l.mu.Lock()
		if len(l.pending) == 0 {
			closed := l.closed
			l.mu.Unlock()
			if closed {
				return
			}

			select {
			case <-l.wake:
				continue
			case <-l.stop:
				return
			}
		}
		next := l.pending[0]
		l.mu.Unlock()

		timer.Reset(time.Until(next))
		select {
		case <-timer.C:
			l.releaseDue(time.Now())
		case <-l.stop:
			timer.Stop()
			return
		}
	}
}

func (l *WindowLimiter) releaseDue(now time.Time) {
	l.mu.Lock()
	n := 0
	for n < len(l.pending) && !l.pending[n].After(now) {
		n++
	}
	l.pending = slices.Delete(l.pending, 0, n)
	l.mu.Unlock()

	if n > 0 {
		l.release(n)
	}
}

func (l *WindowLimiter) release(n int) {
	l.inUse.Add(-int64(n))
	l.sem.Release(int64(n))
}

func (l *WindowLimiter) notify() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *WindowLimiter) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}
