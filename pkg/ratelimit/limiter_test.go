package ratelimit

import (
	"testing"
	"time"
)

func TestTokenBucketAllow(t *testing.T) {
	tb := NewTokenBucket(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !tb.Allow() {
			t.Errorf("request %d should be allowed", i+1)
		}
	}

	if tb.Allow() {
		t.Error("request beyond capacity should be denied")
	}
}

func TestTokenBucketRefill(t *testing.T) {
	tb := NewTokenBucket(1, 50*time.Millisecond)

	if !tb.Allow() {
		t.Fatal("first request should be allowed")
	}
	if tb.Allow() {
		t.Fatal("second request should be denied before refill")
	}

	time.Sleep(60 * time.Millisecond)

	if !tb.Allow() {
		t.Error("request after refill period should be allowed")
	}
}

func TestTokenBucketReset(t *testing.T) {
	tb := NewTokenBucket(1, time.Hour)

	if !tb.Allow() {
		t.Fatal("first request should be allowed")
	}
	if tb.Allow() {
		t.Fatal("bucket should be empty")
	}

	tb.Reset()

	if !tb.Allow() {
		t.Error("request after reset should be allowed")
	}
}

func TestTokenBucketWait(t *testing.T) {
	tb := NewTokenBucket(1, 50*time.Millisecond)
	tb.Allow()

	start := time.Now()
	tb.Wait()
	elapsed := time.Since(start)

	if elapsed < 10*time.Millisecond {
		t.Errorf("Wait returned too quickly: %v", elapsed)
	}
}
