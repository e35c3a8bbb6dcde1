package ratelimit

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestUpdateFromHeaders_InvalidHeaders(t *testing.T) {
	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	tracker := NewTracker(nil, logger)

	tests := []struct {
		name            string
		remainingHeader string
		resetHeader     string
		shouldError     bool
	}{
		{
			name:            "missing remaining header is ignored",
			remainingHeader: "",
			resetHeader:     "1756000000",
			shouldError:     false,
		},
		{
			name:            "invalid remaining header",
			remainingHeader: "invalid",
			resetHeader:     "1756000000",
			shouldError:     true,
		},
		{
			name:            "invalid reset header",
			remainingHeader: "100",
			resetHeader:     "invalid",
			shouldError:     true,
		},
		{
			name:            "missing reset header",
			remainingHeader: "100",
			resetHeader:     "",
			shouldError:     true,
		},
		{
			name:            "both headers missing is ignored",
			remainingHeader: "",
			resetHeader:     "",
			shouldError:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := http.Header{}
			if tt.remainingHeader != "" {
				headers.Set("X-RateLimit-Remaining", tt.remainingHeader)
			}
			if tt.resetHeader != "" {
				headers.Set("X-RateLimit-Reset", tt.resetHeader)
			}

			err := tracker.UpdateFromHeaders(context.Background(), headers)

			if tt.shouldError && err == nil {
				t.Error("Expected error but got nil")
			}
			if !tt.shouldError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestHeaderObservation_StateTransitions(t *testing.T) {
	tests := []struct {
		name            string
		remaining       int
		expectBlock     bool
		expectThrottle  bool
		expectedHealthy bool
	}{
		{
			name:            "healthy - allow immediately",
			remaining:       1900,
			expectBlock:     false,
			expectThrottle:  false,
			expectedHealthy: true,
		},
		{
			name:            "at healthy threshold - allow immediately",
			remaining:       ThresholdHealthy,
			expectBlock:     false,
			expectThrottle:  false,
			expectedHealthy: true,
		},
		{
			name:            "warning - allow with throttle",
			remaining:       50,
			expectBlock:     false,
			expectThrottle:  true,
			expectedHealthy: false,
		},
		{
			name:            "critical - block",
			remaining:       3,
			expectBlock:     true,
			expectThrottle:  false,
			expectedHealthy: false,
		},
		{
			name:            "at critical threshold - throttle, not block",
			remaining:       ThresholdCritical,
			expectBlock:     false,
			expectThrottle:  true, // Still in warning range
			expectedHealthy: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Build the state the tracker would store for these headers.
			state := &State{
				Limit:      2000,
				Remaining:  tt.remaining,
				ResetAt:    time.Now().Add(60 * time.Second),
				LastUpdate: time.Now(),
			}
			state.UpdateHealth()

			if got := state.NeedsCriticalBlock(); got != tt.expectBlock {
				t.Errorf("NeedsCriticalBlock() = %v, want %v (remaining=%d)", got, tt.expectBlock, tt.remaining)
			}
			if got := state.NeedsThrottling(); got != tt.expectThrottle {
				t.Errorf("NeedsThrottling() = %v, want %v (remaining=%d)", got, tt.expectThrottle, tt.remaining)
			}
			if state.IsHealthy != tt.expectedHealthy {
				t.Errorf("IsHealthy = %v, want %v (remaining=%d)", state.IsHealthy, tt.expectedHealthy, tt.remaining)
			}
		})
	}
}
