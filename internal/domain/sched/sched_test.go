package sched

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestLoopRepeatsUntilFalse(t *testing.T) {
	s := New()
	defer s.StopAll()

	var runs int32
	done := make(chan struct{})
	s.Loop("poll", time.Millisecond, func(ctx context.Context) (time.Duration, bool) {
		if atomic.AddInt32(&runs, 1) >= 3 {
			close(done)
			return 0, false
		}
		return time.Millisecond, true
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not reach three runs")
	}

	time.Sleep(20 * time.Millisecond)
	if s.Active("poll") {
		t.Error("finished loop still registered")
	}
	if got := atomic.LoadInt32(&runs); got != 3 {
		t.Errorf("expected 3 runs, got %d", got)
	}
}

func TestLoopReplacesExistingKey(t *testing.T) {
	s := New()
	defer s.StopAll()

	var first, second int32
	s.Loop("agent", 5*time.Millisecond, func(ctx context.Context) (time.Duration, bool) {
		atomic.AddInt32(&first, 1)
		return 5 * time.Millisecond, true
	})
	s.Loop("agent", 5*time.Millisecond, func(ctx context.Context) (time.Duration, bool) {
		atomic.AddInt32(&second, 1)
		return 5 * time.Millisecond, true
	})

	time.Sleep(50 * time.Millisecond)
	if atomic.LoadInt32(&first) != 0 {
		t.Error("replaced loop still ran")
	}
	if atomic.LoadInt32(&second) == 0 {
		t.Error("replacement loop never ran")
	}
}

func TestDebounceCoalesces(t *testing.T) {
	s := New()
	defer s.StopAll()

	var runs int32
	for i := 0; i < 5; i++ {
		s.Debounce("resize", 20*time.Millisecond, func(ctx context.Context) {
			atomic.AddInt32(&runs, 1)
		})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&runs); got != 1 {
		t.Errorf("expected 1 debounced run, got %d", got)
	}
}

func TestStopCancelsTask(t *testing.T) {
	s := New()
	defer s.StopAll()

	var runs int32
	s.Every("sync", 5*time.Millisecond, func(ctx context.Context) {
		atomic.AddInt32(&runs, 1)
	})
	s.Stop("sync")

	time.Sleep(30 * time.Millisecond)
	if atomic.LoadInt32(&runs) != 0 {
		t.Error("stopped task still ran")
	}
	if s.Active("sync") {
		t.Error("stopped task still registered")
	}
}

func TestStopAllWaits(t *testing.T) {
	s := New()

	started := make(chan struct{})
	s.Loop("slow", time.Millisecond, func(ctx context.Context) (time.Duration, bool) {
		select {
		case <-started:
		default:
			close(started)
		}
		return time.Millisecond, true
	})

	<-started
	s.StopAll()

	// After StopAll, new tasks are rejected silently.
	s.After("late", time.Millisecond, func(ctx context.Context) {
		t.Error("task ran after StopAll")
	})
	time.Sleep(20 * time.Millisecond)
}
