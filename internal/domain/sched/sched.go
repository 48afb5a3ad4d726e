// Package sched runs the keyed background timers the desktop depends on:
// notification polls, agent status polls, resize debounce and staggered
// fan-out. Tasks are addressed by key so restarting a loop replaces the
// previous one instead of stacking timers.
package sched

import (
	"context"
	"sync"
	"time"
)

// Scheduler owns a set of named background tasks.
type Scheduler struct {
	mu    sync.Mutex
	tasks map[string]context.CancelFunc
	wg    sync.WaitGroup
	root  context.Context
	stop  context.CancelFunc
}

// New creates a scheduler. Stop or StopAll must be called to release tasks.
func New() *Scheduler {
	root, stop := context.WithCancel(context.Background())
	return &Scheduler{
		tasks: make(map[string]context.CancelFunc),
		root:  root,
		stop:  stop,
	}
}

// Loop starts a repeating task under key. fn runs after the initial delay
// and returns the delay before the next run plus whether to continue; a
// false return ends the loop. Starting a loop with an existing key cancels
// the previous task first.
func (s *Scheduler) Loop(key string, initial time.Duration, fn func(ctx context.Context) (time.Duration, bool)) {
	ctx := s.replace(key)
	if ctx == nil {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.release(key, ctx)

		delay := initial
		for {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			next, again := fn(ctx)
			if !again {
				return
			}
			delay = next
		}
	}()
}

// Every starts a fixed-interval loop under key. The first run happens
// after one interval.
func (s *Scheduler) Every(key string, interval time.Duration, fn func(ctx context.Context)) {
	s.Loop(key, interval, func(ctx context.Context) (time.Duration, bool) {
		fn(ctx)
		return interval, true
	})
}

// After runs fn once after delay, unless the key is replaced or stopped
// first.
func (s *Scheduler) After(key string, delay time.Duration, fn func(ctx context.Context)) {
	s.Loop(key, delay, func(ctx context.Context) (time.Duration, bool) {
		fn(ctx)
		return 0, false
	})
}

// Debounce schedules fn after delay, resetting the timer if the same key
// is debounced again before it fires.
func (s *Scheduler) Debounce(key string, delay time.Duration, fn func(ctx context.Context)) {
	s.After(key, delay, fn)
}

// Stop cancels the task registered under key, if any.
func (s *Scheduler) Stop(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancel, ok := s.tasks[key]; ok {
		delete(s.tasks, key)
		cancel()
	}
}

// Active reports whether a task is registered under key.
func (s *Scheduler) Active(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[key]
	return ok
}

// Count returns the number of registered tasks.
func (s *Scheduler) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// StopAll cancels every task and waits for them to finish.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	for key, cancel := range s.tasks {
		delete(s.tasks, key)
		cancel()
	}
	s.stop()
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Scheduler) replace(key string) context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-s.root.Done():
		return nil
	default:
	}

	if cancel, ok := s.tasks[key]; ok {
		cancel()
	}
	ctx, cancel := context.WithCancel(s.root)
	s.tasks[key] = cancel
	return ctx
}

// release clears the key only if it still maps to this task's context,
// so a replacement started meanwhile is left untouched.
func (s *Scheduler) release(key string, ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-ctx.Done():
		// Replaced or stopped; owner already cleaned up the map entry
		// unless the root was cancelled.
	default:
		if cancel, ok := s.tasks[key]; ok {
			delete(s.tasks, key)
			cancel()
		}
	}
}
