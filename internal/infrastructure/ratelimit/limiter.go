// Package ratelimit provides the permit pools that throttle document submissions.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DanielPopoola/crpt-document-client/internal/application"
	"github.com/DanielPopoola/crpt-document-client/internal/config"
)

const (
	StrategyWindow = "window"
	StrategyPaced  = "paced"
)

// Limiter is a permit pool owned by one client instance. No strategy lets
// more than Limit acquisitions start within any Window.
type Limiter interface {
	application.Limiter
	InUse() int
	Limit() int
	Window() time.Duration
	Shutdown(ctx context.Context) error
}

// New builds the limiter selected by cfg.Strategy.
func New(cfg config.LimiterConfig, logger *slog.Logger) (Limiter, error) {
	switch cfg.Strategy {
	case StrategyWindow, "":
		l, err := NewWindowLimiter(cfg.Window(), cfg.RequestLimit, logger)
		if err != nil {
			return nil, err
		}
		return l, nil
	case StrategyPaced:
		l, err := NewPacedLimiter(cfg.Window(), cfg.RequestLimit)
		if err != nil {
			return nil, err
		}
		return l, nil
	default:
		return nil, fmt.Errorf("unknown rate limit strategy %q", cfg.Strategy)
	}
}
