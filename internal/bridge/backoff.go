package bridge

import (
	"math"
	"math/rand"
	"time"
)

// BackoffConfig shapes the redial schedule used by DialRetry.
type BackoffConfig struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       bool
}

// DefaultBackoff starts at half a second, doubles, and caps at ten
// seconds with jitter.
func DefaultBackoff() BackoffConfig {
	return BackoffConfig{
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

// NextBackoffDelay returns the redial delay for attempt N (1-based).
// Attempt one always waits InitialDelay. Later attempts grow by
// Multiplier, clamped to at least 1.0 so the schedule never shrinks,
// and cap at MaxDelay when one is set. Jitter spreads the result
// across half to one-and-a-half times the raw delay; a nil rng pins
// it to the midpoint.
func NextBackoffDelay(cfg BackoffConfig, attempt int, rng *rand.Rand) time.Duration {
	if attempt <= 1 {
		return cfg.InitialDelay
	}
	if cfg.InitialDelay <= 0 {
		return 0
	}
	growth := math.Max(cfg.Multiplier, 1.0)
	raw := float64(cfg.InitialDelay) * math.Pow(growth, float64(attempt-1))
	if limit := float64(cfg.MaxDelay); limit > 0 && raw > limit {
		raw = limit
	}
	if !cfg.Jitter {
		return time.Duration(raw)
	}
	spread := 0.5
	if rng != nil {
		spread += rng.Float64()
	}
	return time.Duration(raw * spread)
}
