// Package retry provides bounded exponential backoff for store calls.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"
)

var (
	randMu     sync.Mutex
	randSource = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// Config controls the backoff schedule.
type Config struct {
	MaxAttempts  int           // total attempts including the first (minimum 1)
	InitialDelay time.Duration // delay before the second attempt
	MaxDelay     time.Duration // cap on the per-attempt delay
	Multiplier   float64       // backoff growth factor
	AddJitter    bool          // randomize delays to avoid thundering herd
}

// DefaultConfig returns the schedule used for graph-step retries.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2.0,
		AddJitter:    true,
	}
}

// Do runs fn up to cfg.MaxAttempts times. A retry happens only when
// retryable(err) is true; other errors return immediately. Context
// cancellation aborts the wait between attempts.
func Do(ctx context.Context, cfg Config, retryable func(error) bool, fn func() error) error {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.Multiplier < 1 {
		cfg.Multiplier = 1
	}

	delay := cfg.InitialDelay
	var err error
	for attempt := 1; ; attempt++ {
		err = fn()
		if err == nil || !retryable(err) || attempt >= cfg.MaxAttempts {
			return err
		}

		wait := delay
		if cfg.AddJitter && wait > 0 {
			randMu.Lock()
			wait += time.Duration(randSource.Int63n(int64(wait)/2 + 1))
			randMu.Unlock()
		}
		if cfg.MaxDelay > 0 && wait > cfg.MaxDelay {
			wait = cfg.MaxDelay
		}

		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(wait):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
	}
}
