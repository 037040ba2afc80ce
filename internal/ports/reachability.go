package ports

import (
	"context"
	"time"
)

// ReachabilityPort answers whether a URL exists. Any failure, including a
// timeout, is reported as false rather than as an error.
type ReachabilityPort interface {
	Check(ctx context.Context, url string, timeout time.Duration) bool
}
