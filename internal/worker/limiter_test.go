package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiterAllow(t *testing.T) {
	l := NewLimiter(1, 2)

	// burst of 2 is immediately available
	if !l.Allow("host-a") {
		t.Error("first request denied")
	}
	if !l.Allow("host-a") {
		t.Error("second request denied within burst")
	}
	if l.Allow("host-a") {
		t.Error("third request allowed beyond burst")
	}
}

func TestLimiterPerKeyIndependence(t *testing.T) {
	l := NewLimiter(1, 1)

	if !l.Allow("host-a") {
		t.Error("host-a denied")
	}
	// exhausting host-a must not affect host-b
	if !l.Allow("host-b") {
		t.Error("host-b denied after host-a consumed its burst")
	}
}

func TestLimiterSetKeyRate(t *testing.T) {
	l := NewLimiter(1, 1)
	l.SetKeyRate("slow-host", 0.1, 1)

	if !l.Allow("slow-host") {
		t.Error("first request denied")
	}
	if l.Allow("slow-host") {
		t.Error("second request allowed despite 0.1 rps")
	}
}

func TestLimiterDefaultBurst(t *testing.T) {
	l := NewLimiter(1, 0)
	if l.defaultBurst != 5 {
		t.Errorf("defaultBurst = %d, want 5", l.defaultBurst)
	}
}

func TestLimiterWait(t *testing.T) {
	l := NewLimiter(1000, 1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for i := 0; i < 3; i++ {
		if err := l.Wait(ctx, "key"); err != nil {
			t.Fatalf("Wait %d: %v", i, err)
		}
	}
}

func TestLimiterWaitCancelled(t *testing.T) {
	l := NewLimiter(0.001, 1)
	l.Allow("key") // consume the burst

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, "key"); err == nil {
		t.Error("expected context error while waiting")
	}
}

func TestLimiterWaitWithDelay(t *testing.T) {
	l := NewLimiter(1000, 10)

	start := time.Now()
	if err := l.WaitWithDelay(context.Background(), "key", 30*time.Millisecond); err != nil {
		t.Fatalf("WaitWithDelay: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("returned after %v, want at least 30ms", elapsed)
	}
}
