//go:build integration

package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedis starts a Redis container and returns a client
func setupRedis(t *testing.T) (*redis.Client, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	endpoint, err := redisContainer.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("Failed to get Redis endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: endpoint,
	})

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}

	cleanup := func() {
		client.Close()
		redisContainer.Terminate(ctx)
	}

	return client, cleanup
}

func quotaHeaders(remaining int, resetIn time.Duration) http.Header {
	headers := http.Header{}
	headers.Set("X-RateLimit-Limit", "2000")
	headers.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
	headers.Set("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(resetIn).Unix()))
	return headers
}

func TestTracker_Integration_GetState(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	tracker := NewTracker(redisClient, logger)
	ctx := context.Background()

	// Test 1: Get default state when Redis is empty
	state, err := tracker.GetState(ctx)
	if err != nil {
		t.Fatalf("GetState() error = %v", err)
	}

	if state.Remaining != 2000 {
		t.Errorf("Default Remaining = %d, want 2000", state.Remaining)
	}

	if !state.IsHealthy {
		t.Error("Default state should be healthy")
	}

	// Test 2: Update state and retrieve it
	if err := tracker.UpdateFromHeaders(ctx, quotaHeaders(1500, 120*time.Second)); err != nil {
		t.Fatalf("UpdateFromHeaders() error = %v", err)
	}

	state, err = tracker.GetState(ctx)
	if err != nil {
		t.Fatalf("GetState() after update error = %v", err)
	}

	if state.Remaining != 1500 {
		t.Errorf("Remaining = %d, want 1500", state.Remaining)
	}

	if !state.IsHealthy {
		t.Error("State with 1500 requests remaining should be healthy")
	}

	// Verify reset time is approximately correct
	expectedResetDuration := 120 * time.Second
	actualResetDuration := state.TimeUntilReset()
	tolerance := 5 * time.Second

	if actualResetDuration < expectedResetDuration-tolerance || actualResetDuration > expectedResetDuration+tolerance {
		t.Errorf("TimeUntilReset = %v, want approximately %v", actualResetDuration, expectedResetDuration)
	}
}

func TestTracker_Integration_UpdateFromHeaders(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	tracker := NewTracker(redisClient, logger)
	ctx := context.Background()

	tests := []struct {
		name            string
		remaining       int
		expectedHealthy bool
	}{
		{
			name:            "healthy update",
			remaining:       1800,
			expectedHealthy: true,
		},
		{
			name:            "warning update",
			remaining:       50,
			expectedHealthy: false,
		},
		{
			name:            "critical update",
			remaining:       2,
			expectedHealthy: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tracker.UpdateFromHeaders(ctx, quotaHeaders(tt.remaining, 60*time.Second)); err != nil {
				t.Fatalf("UpdateFromHeaders() error = %v", err)
			}

			state, err := tracker.GetState(ctx)
			if err != nil {
				t.Fatalf("GetState() error = %v", err)
			}

			if state.Remaining != tt.remaining {
				t.Errorf("Remaining = %d, want %d", state.Remaining, tt.remaining)
			}

			if state.IsHealthy != tt.expectedHealthy {
				t.Errorf("IsHealthy = %v, want %v", state.IsHealthy, tt.expectedHealthy)
			}
		})
	}
}

func TestTracker_Integration_ShouldAllowRequest_Critical(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	tracker := NewTracker(redisClient, logger)
	ctx := context.Background()

	// Set critical state (below threshold)
	if err := tracker.UpdateFromHeaders(ctx, quotaHeaders(3, 60*time.Second)); err != nil {
		t.Fatalf("UpdateFromHeaders() error = %v", err)
	}

	// Request should be blocked
	allowed, err := tracker.ShouldAllowRequest(ctx)
	if err != nil {
		t.Fatalf("ShouldAllowRequest() error = %v", err)
	}

	if allowed {
		t.Error("ShouldAllowRequest() = true, want false for critical state")
	}
}

func TestTracker_Integration_ShouldAllowRequest_Warning(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	tracker := NewTracker(redisClient, logger)
	ctx := context.Background()

	// Set warning state
	if err := tracker.UpdateFromHeaders(ctx, quotaHeaders(50, 60*time.Second)); err != nil {
		t.Fatalf("UpdateFromHeaders() error = %v", err)
	}

	// Request should be allowed but throttled
	start := time.Now()
	allowed, err := tracker.ShouldAllowRequest(ctx)
	duration := time.Since(start)

	if err != nil {
		t.Fatalf("ShouldAllowRequest() error = %v", err)
	}

	if !allowed {
		t.Error("ShouldAllowRequest() = false, want true for warning state")
	}

	// Should have throttled (slept for ~1 second)
	if duration < 900*time.Millisecond {
		t.Errorf("ShouldAllowRequest() throttle duration = %v, want >= 1s", duration)
	}
}

func TestTracker_Integration_ShouldAllowRequest_Healthy(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	tracker := NewTracker(redisClient, logger)
	ctx := context.Background()

	// Set healthy state
	if err := tracker.UpdateFromHeaders(ctx, quotaHeaders(1800, 60*time.Second)); err != nil {
		t.Fatalf("UpdateFromHeaders() error = %v", err)
	}

	// Request should be allowed immediately
	start := time.Now()
	allowed, err := tracker.ShouldAllowRequest(ctx)
	duration := time.Since(start)

	if err != nil {
		t.Fatalf("ShouldAllowRequest() error = %v", err)
	}

	if !allowed {
		t.Error("ShouldAllowRequest() = false, want true for healthy state")
	}

	// Should NOT have throttled
	if duration > 100*time.Millisecond {
		t.Errorf("ShouldAllowRequest() duration = %v, want < 100ms for healthy state", duration)
	}
}

func TestTracker_Integration_WindowRollover(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	tracker := NewTracker(redisClient, logger)
	ctx := context.Background()

	// Set critical state with a reset 2 seconds out
	if err := tracker.UpdateFromHeaders(ctx, quotaHeaders(3, 2*time.Second)); err != nil {
		t.Fatalf("UpdateFromHeaders() error = %v", err)
	}

	allowed, err := tracker.ShouldAllowRequest(ctx)
	if err != nil {
		t.Fatalf("ShouldAllowRequest() error = %v", err)
	}
	if allowed {
		t.Error("ShouldAllowRequest() = true, want false before window reset")
	}

	// Wait for the window to roll over
	time.Sleep(3 * time.Second)

	// The stale critical observation must not block the fresh window.
	allowed, err = tracker.ShouldAllowRequest(ctx)
	if err != nil {
		t.Fatalf("ShouldAllowRequest() error = %v", err)
	}
	if !allowed {
		t.Error("ShouldAllowRequest() = false, want true after window reset")
	}
}
