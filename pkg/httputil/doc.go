// Package httputil provides retry helpers for repository clients.
//
// [Retry] re-runs an operation while it fails with a [RetryableError].
// Transports wrap transient failures (network errors, 5xx responses) in
// [RetryableError]; everything else, including 404, fails immediately.
//
//	err := httputil.Retry(ctx, 3, 500*time.Millisecond, func() error {
//	    return fetch(ctx)
//	})
//
// The delay doubles after each failed attempt, capped at [MaxDelay]. A
// repository that answers 429 or 503 with Retry-After sets the next wait
// instead (see [RetryAfter]). The wait is aborted when ctx is cancelled.
package httputil
