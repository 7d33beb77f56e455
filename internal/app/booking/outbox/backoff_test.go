package outbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoff(t *testing.T) {
	base, ceiling := time.Second, 10*time.Second

	tests := []struct {
		attempt int64
		want    time.Duration
	}{
		{0, time.Second},
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 10 * time.Second},
		{60, 10 * time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Backoff(tt.attempt, base, ceiling), "attempt %d", tt.attempt)
	}
}

func TestBackoff_BaseAboveCeiling(t *testing.T) {
	assert.Equal(t, time.Second, Backoff(1, time.Minute, time.Second))
}
