// Package resilience provides a circuit breaker for backend calls.
package resilience

import (
	"errors"
	"sync"
	"time"
)

// State represents breaker state.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrOpen is returned when the breaker rejects a call.
var ErrOpen = errors.New("circuit breaker is open")

// Counts tracks call outcomes within the current window.
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

func (c *Counts) onSuccess() {
	c.Requests++
	c.TotalSuccesses++
	c.ConsecutiveSuccesses++
	c.ConsecutiveFailures = 0
}

func (c *Counts) onFailure() {
	c.Requests++
	c.TotalFailures++
	c.ConsecutiveFailures++
	c.ConsecutiveSuccesses = 0
}

// Settings configures a Breaker.
type Settings struct {
	// MaxFailures opens the breaker after this many consecutive failures.
	MaxFailures uint32
	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration
	// HalfOpenMax limits concurrent probe requests while half-open.
	HalfOpenMax uint32
	// OnStateChange is called after each transition.
	OnStateChange func(from, to State)
}

// Breaker is a circuit breaker protecting a remote dependency.
type Breaker struct {
	mu       sync.Mutex
	settings Settings
	state    State
	counts   Counts
	expiry   time.Time
	halfOpen uint32
}

// NewBreaker creates a breaker, filling unset settings with defaults.
func NewBreaker(settings Settings) *Breaker {
	if settings.MaxFailures == 0 {
		settings.MaxFailures = 5
	}
	if settings.Timeout == 0 {
		settings.Timeout = 30 * time.Second
	}
	if settings.HalfOpenMax == 0 {
		settings.HalfOpenMax = 1
	}
	return &Breaker{settings: settings, state: StateClosed}
}

// Execute runs fn under the breaker.
func (b *Breaker) Execute(fn func() error) error {
	if err := b.before(); err != nil {
		return err
	}
	err := fn()
	b.after(err == nil)
	return err
}

// State returns the current state, applying any pending open->half-open
// expiry first.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refresh(time.Now())
	return b.state
}

// Counts returns a copy of the current counts.
func (b *Breaker) Counts() Counts {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts
}

func (b *Breaker) before() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refresh(time.Now())

	switch b.state {
	case StateOpen:
		return ErrOpen
	case StateHalfOpen:
		if b.halfOpen >= b.settings.HalfOpenMax {
			return ErrOpen
		}
		b.halfOpen++
	}
	return nil
}

func (b *Breaker) after(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refresh(time.Now())

	if success {
		b.counts.onSuccess()
		if b.state == StateHalfOpen {
			b.transition(StateClosed)
		}
		return
	}

	b.counts.onFailure()
	switch b.state {
	case StateClosed:
		if b.counts.ConsecutiveFailures >= b.settings.MaxFailures {
			b.transition(StateOpen)
		}
	case StateHalfOpen:
		b.transition(StateOpen)
	}
}

func (b *Breaker) refresh(now time.Time) {
	if b.state == StateOpen && now.After(b.expiry) {
		b.transition(StateHalfOpen)
	}
}

func (b *Breaker) transition(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	b.counts = Counts{}
	b.halfOpen = 0
	if to == StateOpen {
		b.expiry = time.Now().Add(b.settings.Timeout)
	}
	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(from, to)
	}
}
