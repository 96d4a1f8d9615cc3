// Package ratelimit provides rate limiting for Graph API calls.
//
// The relay polls on a timer, but a tick over many accounts can still burst
// enough requests to trip vendor limits. A token bucket paces the per-account
// fetches inside a tick.
//
// All rate limiters implement the Limiter interface:
//   - Allow() bool - Check if a request is allowed
//   - Wait() - Block until a request is allowed
//   - Reset() - Reset the limiter state
//
// Usage:
//
//	// 60 requests per minute
//	limiter := ratelimit.NewTokenBucket(60, time.Minute)
//
//	limiter.Wait()
//	// Proceed with request
package ratelimit
