package services

import (
	"testing"
	"time"
)

func TestAttemptLimiterSlidingWindow(t *testing.T) {
	limiter := NewAttemptLimiter(2, time.Minute)
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	limiter.Add("10.0.0.1", now)
	if limiter.TooManyRecent("10.0.0.1", now) {
		t.Fatal("expected one attempt to stay under the limit")
	}
	limiter.Add("10.0.0.1", now.Add(10*time.Second))
	if !limiter.TooManyRecent("10.0.0.1", now.Add(20*time.Second)) {
		t.Fatal("expected two attempts to reach the limit")
	}
	if limiter.TooManyRecent("10.0.0.2", now) {
		t.Fatal("expected keys to be tracked independently")
	}
	if limiter.TooManyRecent("10.0.0.1", now.Add(61*time.Second)) {
		t.Fatal("expected the first attempt to fall out of the window")
	}

	limiter.Reset("10.0.0.1")
	if limiter.TooManyRecent("10.0.0.1", now.Add(20*time.Second)) {
		t.Fatal("expected reset to clear attempts")
	}
}
