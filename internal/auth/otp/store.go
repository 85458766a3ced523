package otp

import (
	"context"
	"time"
)

// CodeTTL is how long an issued code stays redeemable.
const CodeTTL = 10 * time.Minute

// Store holds pending one-time codes keyed by email, exactly as received.
// A code is valid until its TTL elapses or its first successful match,
// whichever comes first. Implementations must make CheckAndConsume atomic
// per email so that concurrent verifications admit at most one success.
type Store interface {
	// Put records code for email, overwriting any pending entry and
	// restarting the TTL.
	Put(ctx context.Context, email, code string) error

	// CheckAndConsume reports whether code matches the pending entry for
	// email. A match deletes the entry. An expired entry is deleted and
	// reported as no match. A mismatch leaves the entry intact so the
	// user may retry until expiry.
	CheckAndConsume(ctx context.Context, email, code string) (bool, error)
}
