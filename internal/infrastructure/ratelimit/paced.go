package ratelimit

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/DanielPopoola/crpt-document-client/internal/application"
	"golang.org/x/time/rate"
)

// PacedLimiter spaces acquisitions evenly: one permit every window/limit,
// with no burst. Any window of length window therefore sees at most limit
// acquisitions, same as WindowLimiter, but they never arrive in a clump.
type PacedLimiter struct {
	limiter  *rate.Limiter
	limit    int
	window   time.Duration
	interval time.Duration

	closed    atomic.Bool
	closeCtx  context.Context
	closeFunc context.CancelFunc
}

func NewPacedLimiter(window time.Duration, requestLimit int) (*PacedLimiter, error) {
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %s", window)
	}
	if requestLimit <= 0 {
		return nil, fmt.Errorf("request limit must be positive, got %d", requestLimit)
	}

	// Rounded up: limit intervals must never add up to less than a window,
	// and a zero interval would mean no limit at all.
	interval := window / time.Duration(requestLimit)
	if interval*time.Duration(requestLimit) != window {
		interval++
	}

	closeCtx, closeFunc := context.WithCancel(context.Background())
	return &PacedLimiter{
		limiter:   rate.NewLimiter(rate.Every(interval), 1),
		limit:     requestLimit,
		window:    window,
		interval:  interval,
		closeCtx:  closeCtx,
		closeFunc: closeFunc,
	}, nil
}

// Acquire waits for the next slot. Waiters blocked when Shutdown is called
// return application.ErrLimiterClosed.
func (p *PacedLimiter) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.closed.Load() {
		return application.ErrLimiterClosed
	}

	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(p.closeCtx, cancel)
	defer stop()

	err := p.limiter.Wait(waitCtx)
	if p.closed.Load() {
		return application.ErrLimiterClosed
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		// Wait refuses up front when the deadline comes before the next slot.
		return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	return nil
}

// InUse is 1 while the current slot is taken and 0 once the next one is due.
func (p *PacedLimiter) InUse() int {
	if p.limiter.Tokens() < 1 {
		return 1
	}
	return 0
}

func (p *PacedLimiter) Limit() int {
	return p.limit
}

func (p *PacedLimiter) Window() time.Duration {
	return p.window
}

// Interval is the spacing between two acquisitions.
func (p *PacedLimiter) Interval() time.Duration {
	return p.interval
}

// Shutdown rejects further acquisitions and wakes blocked waiters.
func (p *PacedLimiter) Shutdown(context.Context) error {
	p.closed.Store(true)
	p.closeFunc()
	return nil
}
