package syncer

import "time"

// RetryStrategy decides how long to wait after consecutive failed pushes
type RetryStrategy interface {
	// NextRetry returns the delay before the next push after attempt failures
	NextRetry(attempt int) time.Duration
}

// ExponentialBackoff grows the delay by Multiplier per failure, capped at MaxDelay
type ExponentialBackoff struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// NextRetry implements RetryStrategy
func (b *ExponentialBackoff) NextRetry(attempt int) time.Duration {
	delay := float64(b.InitialDelay)
	for i := 1; i < attempt; i++ {
		delay *= b.Multiplier
		if delay > float64(b.MaxDelay) {
			return b.MaxDelay
		}
	}

	if delay > float64(b.MaxDelay) {
		return b.MaxDelay
	}
	return time.Duration(delay)
}

// DefaultBackoff starts at interval and caps at 32x interval
func DefaultBackoff(interval time.Duration) *ExponentialBackoff {
	return &ExponentialBackoff{
		InitialDelay: interval,
		MaxDelay:     32 * interval,
		Multiplier:   2,
	}
}
