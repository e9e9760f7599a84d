package transport

import (
	"math/rand"
	"sync"
	"time"
)

// Reconnect backoff defaults.
const (
	// DefaultInitialDelay is the delay before the first redial.
	DefaultInitialDelay = 1 * time.Second

	// DefaultMaxDelay caps the redial delay.
	DefaultMaxDelay = 2 * time.Minute

	// DefaultMultiplier is the growth factor between attempts.
	DefaultMultiplier = 2.0

	// DefaultJitter is the maximum random extension as a fraction of
	// the base delay. Jitter keeps a fleet of clients from redialing a
	// recovering hub in lockstep.
	DefaultJitter = 0.2
)

// BackoffConfig customizes redial pacing. Zero values take the defaults.
type BackoffConfig struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64

	// Jitter is the maximum random extension as a fraction of the base
	// delay; zero takes DefaultJitter. Set NoJitter for a fully
	// deterministic schedule.
	Jitter   float64
	NoJitter bool
}

// Backoff produces the redial delay sequence: exponential growth up to a
// cap, with random jitter on top. Safe for concurrent use.
type Backoff struct {
	mu       sync.Mutex
	base     time.Duration
	attempts int

	initial    time.Duration
	max        time.Duration
	multiplier float64
	jitter     float64
	rng        *rand.Rand
}

// NewBackoff creates a backoff schedule from cfg.
func NewBackoff(cfg BackoffConfig) *Backoff {
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = DefaultInitialDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = DefaultMaxDelay
	}
	if cfg.Multiplier <= 1 {
		cfg.Multiplier = DefaultMultiplier
	}
	if cfg.Jitter <= 0 {
		cfg.Jitter = DefaultJitter
	}
	if cfg.NoJitter {
		cfg.Jitter = 0
	}

	return &Backoff{
		base:       cfg.InitialDelay,
		initial:    cfg.InitialDelay,
		max:        cfg.MaxDelay,
		multiplier: cfg.Multiplier,
		jitter:     cfg.Jitter,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next returns the delay to wait before the next attempt and advances the
// schedule.
func (b *Backoff) Next() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	delay := b.base
	if b.jitter > 0 {
		delay += time.Duration(float64(b.base) * b.jitter * b.rng.Float64())
	}

	b.attempts++
	next := time.Duration(float64(b.base) * b.multiplier)
	if next > b.max {
		next = b.max
	}
	b.base = next

	return delay
}

// Reset restores the initial delay. Call after a successful connection.
func (b *Backoff) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.base = b.initial
	b.attempts = 0
}

// Attempts returns the number of delays handed out since the last Reset.
func (b *Backoff) Attempts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attempts
}
