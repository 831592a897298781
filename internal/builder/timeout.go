package builder

import (
	"context"
	"time"
)

// DefaultTimeout bounds every call to the backing store.
const DefaultTimeout = 10 * time.Second

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, d)
}
