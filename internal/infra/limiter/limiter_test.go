package limiter

import (
	"context"
	"testing"
	"time"
)

func TestConcurrencyCap(t *testing.T) {
	l := New(1, 0)

	release, ok := l.TryAcquire()
	if !ok {
		t.Fatal("first acquire should succeed")
	}
	if _, ok := l.TryAcquire(); ok {
		t.Fatal("second acquire should fail while the slot is held")
	}
	release()
	if r, ok := l.TryAcquire(); !ok {
		t.Fatal("acquire after release should succeed")
	} else {
		r()
	}
}

func TestAcquireHonoursContext(t *testing.T) {
	l := New(1, 0)
	release, err := l.Acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := l.Acquire(ctx); err == nil {
		t.Fatal("expected context error while saturated")
	}
}

func TestFractionalRate(t *testing.T) {
	l := New(4, 0.5)
	r, ok := l.TryAcquire()
	if !ok {
		t.Fatal("burst of one should allow the first call")
	}
	r()
	if _, ok := l.TryAcquire(); ok {
		t.Fatal("second call inside the same window should be rate limited")
	}
}
