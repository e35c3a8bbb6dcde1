// Package ratelimit tracks the billing provider's request quota and gates
// outgoing requests. It observes the X-RateLimit-Limit, X-RateLimit-Remaining
// and X-RateLimit-Reset response headers so that clients back away from the
// quota boundary before the provider starts returning 429s.
package ratelimit

import (
	"time"
)

// Redis keys for shared rate limit state.
const (
	RedisKeyLimit          = "billing:rate_limit:limit"
	RedisKeyRemaining      = "billing:rate_limit:remaining"
	RedisKeyResetTimestamp = "billing:rate_limit:reset_timestamp"
	RedisKeyLastUpdate     = "billing:rate_limit:last_update"
)

// Thresholds for gating decisions, in requests remaining.
const (
	// ThresholdCritical blocks all requests when the remaining quota falls
	// below this value, leaving headroom for other API consumers sharing
	// the key.
	ThresholdCritical = 10

	// ThresholdWarning applies throttling when the remaining quota falls
	// below this value.
	ThresholdWarning = 100

	// ThresholdHealthy indicates normal operation; at or above it no
	// restrictions apply.
	ThresholdHealthy = 500
)

// State is the most recently observed rate limit window, shared across all
// client instances via Redis.
type State struct {
	// Limit is the total request quota per window, from X-RateLimit-Limit.
	Limit int `json:"limit"`

	// Remaining is the number of requests left in the current window,
	// from X-RateLimit-Remaining.
	Remaining int `json:"remaining"`

	// ResetAt is when the window resets, from X-RateLimit-Reset (epoch
	// seconds).
	ResetAt time.Time `json:"reset_at"`

	// LastUpdate is when this state was last refreshed from headers.
	LastUpdate time.Time `json:"last_update"`

	// IsHealthy is true when Remaining >= ThresholdHealthy.
	IsHealthy bool `json:"is_healthy"`
}

// IsStale returns true if the state is older than maxAge and should be
// refreshed from headers.
func (s *State) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}

// NeedsCriticalBlock returns true if requests should be blocked until the
// window resets.
func (s *State) NeedsCriticalBlock() bool {
	if !s.ResetAt.IsZero() && time.Now().After(s.ResetAt) {
		// The window has rolled over since the last observation.
		return false
	}
	return s.Remaining < ThresholdCritical
}

// NeedsThrottling returns true if requests should be slowed down.
func (s *State) NeedsThrottling() bool {
	return s.Remaining < ThresholdWarning && !s.NeedsCriticalBlock()
}

// TimeUntilReset returns the duration until the quota window resets, or 0 if
// it has already passed.
func (s *State) TimeUntilReset() time.Duration {
	duration := time.Until(s.ResetAt)
	if duration < 0 {
		return 0
	}
	return duration
}

// UpdateHealth recomputes IsHealthy from Remaining.
func (s *State) UpdateHealth() {
	s.IsHealthy = s.Remaining >= ThresholdHealthy
}
