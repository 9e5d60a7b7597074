package port

import (
	"context"
	"time"
)

// RateLimitStore persists request attempts for the sliding-window guard in
// front of credential endpoints. The limiting algorithm itself is a
// transport concern; the identity core never consults this store.
type RateLimitStore interface {
	TrimWindow(ctx context.Context, identifier string, window time.Duration, reference time.Time) error
	CountAttempts(ctx context.Context, identifier string, window time.Duration, reference time.Time) (int, error)
	RecordAttempt(ctx context.Context, identifier string, at time.Time) error
	OldestAttempt(ctx context.Context, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error)
}
