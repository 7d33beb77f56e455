package outbox

import "time"

// Backoff returns the delay before the next attempt after attempt failures
// (1-based): base doubled per earlier failure, capped at ceiling.
func Backoff(attempt int64, base, ceiling time.Duration) time.Duration {
	delay := base
	for i := int64(1); i < attempt; i++ {
		delay *= 2
		if delay > ceiling {
			return ceiling
		}
	}
	if delay > ceiling {
		return ceiling
	}
	return delay
}
