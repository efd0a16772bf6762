package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	defaultProbeAttempts = 3
	probeBaseDelay       = 250 * time.Millisecond
	maxBackoff           = 2 * time.Second
)

// HealthChecker is the part of the API client the startup probe uses.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Probe checks the API health endpoint, retrying with exponential backoff.
// It returns the last error once attempts are exhausted.
func Probe(ctx context.Context, hc HealthChecker, logger *zap.Logger, attempts int) error {
	if attempts < 1 {
		attempts = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	var err error
	for failures := 0; failures < attempts; failures++ {
		if failures > 0 {
			delay := calculateBackoff(failures-1, probeBaseDelay)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		if err = hc.Health(ctx); err == nil {
			logger.Info("api reachable", zap.Int("attempt", failures+1))
			return nil
		}
		logger.Warn("api health check failed", zap.Int("attempt", failures+1), zap.Error(err))
	}
	return fmt.Errorf("api health check: %w", err)
}

// calculateBackoff doubles base for each consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	delay := base
	for range failures {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}
