package resilience

import "time"

// Config is the retry and circuit breaker policy applied per operation name.
type Config struct {
	RetryMaxAttempts    int
	RetryInitialBackoff time.Duration
	RetryMaxBackoff     time.Duration
	RetryMultiplier     float64

	BreakerEnabled          bool
	BreakerMinRequests      uint32
	BreakerFailureRatio     float64
	BreakerOpenTimeout      time.Duration
	BreakerHalfOpenMaxCalls uint32
}

func DefaultConfig() Config {
	return Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: 100 * time.Millisecond,
		RetryMaxBackoff:     400 * time.Millisecond,
		RetryMultiplier:     2.0,

		BreakerEnabled:          true,
		BreakerMinRequests:      10,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      30 * time.Second,
		BreakerHalfOpenMaxCalls: 2,
	}
}

// AdvisoryConfig is the policy for calls to the remote advisory model.
// Model calls are slow, so the backoff ceiling grows with the initial step
// and an open breaker waits a full minute before probing again.
func AdvisoryConfig(maxAttempts int, initialBackoff time.Duration, breaker bool) Config {
	cfg := DefaultConfig()
	cfg.RetryMaxAttempts = maxAttempts
	cfg.RetryInitialBackoff = initialBackoff
	cfg.RetryMaxBackoff = 4 * initialBackoff
	cfg.BreakerEnabled = breaker
	cfg.BreakerMinRequests = 5
	cfg.BreakerOpenTimeout = time.Minute
	return cfg
}

// EventBusConfig is the policy for client change publishes. Publishes are
// cheap and non-fatal, so they retry fast and trip early.
func EventBusConfig() Config {
	cfg := DefaultConfig()
	cfg.RetryInitialBackoff = 50 * time.Millisecond
	cfg.RetryMaxBackoff = 200 * time.Millisecond
	cfg.BreakerMinRequests = 4
	cfg.BreakerOpenTimeout = 10 * time.Second
	return cfg
}

func positiveOr[T int | uint32 | float64 | time.Duration](v, fallback T) T {
	if v <= 0 {
		return fallback
	}
	return v
}

func (c Config) normalize() Config {
	def := DefaultConfig()
	out := c

	out.RetryMaxAttempts = positiveOr(c.RetryMaxAttempts, def.RetryMaxAttempts)
	out.RetryInitialBackoff = positiveOr(c.RetryInitialBackoff, def.RetryInitialBackoff)
	out.RetryMaxBackoff = max(positiveOr(c.RetryMaxBackoff, def.RetryMaxBackoff), out.RetryInitialBackoff)
	if c.RetryMultiplier < 1 {
		out.RetryMultiplier = def.RetryMultiplier
	}

	out.BreakerMinRequests = positiveOr(c.BreakerMinRequests, def.BreakerMinRequests)
	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1 {
		out.BreakerFailureRatio = def.BreakerFailureRatio
	}
	out.BreakerOpenTimeout = positiveOr(c.BreakerOpenTimeout, def.BreakerOpenTimeout)
	out.BreakerHalfOpenMaxCalls = positiveOr(c.BreakerHalfOpenMaxCalls, def.BreakerHalfOpenMaxCalls)
	return out
}
