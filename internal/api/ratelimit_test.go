package api

import (
	"testing"
	"time"
)

func TestIPRateLimiterEnforcesBurst(t *testing.T) {
	rl := NewIPRateLimiter(RateLimitConfig{
		RequestsPerSecond: 1,
		Burst:             3,
		CleanupInterval:   time.Minute,
	})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("expected request %d within burst", i)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("expected request beyond burst rejected")
	}
}

func TestIPRateLimiterTracksIPsIndependently(t *testing.T) {
	rl := NewIPRateLimiter(RateLimitConfig{
		RequestsPerSecond: 1,
		Burst:             1,
		CleanupInterval:   time.Minute,
	})
	defer rl.Stop()

	if !rl.Allow("10.0.0.1") {
		t.Fatal("expected first ip allowed")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("expected first ip exhausted")
	}
	if !rl.Allow("10.0.0.2") {
		t.Fatal("expected second ip unaffected")
	}
}

func TestNewIPRateLimiterFallsBackToDefaults(t *testing.T) {
	rl := NewIPRateLimiter(RateLimitConfig{})
	defer rl.Stop()
	if rl.config.RequestsPerSecond != DefaultRateLimitConfig.RequestsPerSecond {
		t.Fatalf("expected default rps, got %.1f", rl.config.RequestsPerSecond)
	}
}
