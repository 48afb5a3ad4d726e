// Package notify polls the backend notification list and maintains the
// client-local read state and unread badges.
package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentDesk/internal/domain/events"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/sched"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentDesk/internal/shared/types"
)

// Source is the slice of the backend the poller needs.
type Source interface {
	Notifications(ctx context.Context) ([]types.Notification, error)
}

const taskKey = "notify.poll"

// Poller fetches notifications on a fixed interval and tags them read
// against the seen-id set. Fetch failures degrade to an empty list for
// that tick; the next tick always runs.
type Poller struct {
	source   Source
	interval time.Duration
	tasks    *sched.Scheduler
	bus      *events.Bus
	log      *logging.Logger
	metrics  *monitoring.Metrics

	mu      sync.RWMutex
	current []types.Notification
	seen    map[string]bool
}

// NewPoller creates a poller.
func NewPoller(source Source, interval time.Duration, tasks *sched.Scheduler, bus *events.Bus, log *logging.Logger) *Poller {
	return &Poller{
		source:   source,
		interval: interval,
		tasks:    tasks,
		bus:      bus,
		log:      log.Named("notify"),
		seen:     make(map[string]bool),
	}
}

// WithMetrics attaches metrics collectors.
func (p *Poller) WithMetrics(metrics *monitoring.Metrics) *Poller {
	p.metrics = metrics
	return p
}

// Start runs one poll immediately, then repeats on the interval.
func (p *Poller) Start() {
	p.tasks.Loop(taskKey, 0, func(ctx context.Context) (time.Duration, bool) {
		p.poll(ctx)
		return p.interval, true
	})
}

// Stop cancels the poll loop.
func (p *Poller) Stop() {
	p.tasks.Stop(taskKey)
}

// Refresh forces an immediate fetch outside the loop cadence.
func (p *Poller) Refresh(ctx context.Context) {
	p.poll(ctx)
}

func (p *Poller) poll(ctx context.Context) {
	fetched, err := p.source.Notifications(ctx)
	if err != nil {
		p.log.Warn("notification poll failed", zap.Error(err))
		if p.metrics != nil {
			p.metrics.PollFailures.WithLabelValues("notifications").Inc()
		}
		fetched = nil
	}
	p.merge(fetched)
}

func (p *Poller) merge(fetched []types.Notification) {
	p.mu.Lock()
	fresh := 0
	for i := range fetched {
		if p.seen[fetched[i].ID] {
			fetched[i].Read = true
		} else {
			fresh++
		}
	}
	p.current = fetched
	badges := p.badges()
	p.mu.Unlock()

	if fresh > 0 && p.metrics != nil {
		p.metrics.Notifications.Add(float64(fresh))
	}
	p.bus.Publish(events.BadgesChanged, badges)
}

// List returns the current notifications.
func (p *Poller) List() []types.Notification {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]types.Notification(nil), p.current...)
}

// Commands returns the current command-type notifications.
func (p *Poller) Commands() []types.Notification {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []types.Notification
	for _, n := range p.current {
		if n.Type == types.NotificationCommand {
			out = append(out, n)
		}
	}
	return out
}

// MarkSeen records the IDs as read locally and recomputes badges.
func (p *Poller) MarkSeen(ids ...string) {
	p.mu.Lock()
	for _, id := range ids {
		p.seen[id] = true
	}
	for i := range p.current {
		if p.seen[p.current[i].ID] {
			p.current[i].Read = true
		}
	}
	badges := p.badges()
	p.mu.Unlock()

	p.bus.Publish(events.BadgesChanged, badges)
}

// MarkAllSeen marks the whole current set read.
func (p *Poller) MarkAllSeen() {
	p.mu.RLock()
	ids := make([]string, 0, len(p.current))
	for _, n := range p.current {
		ids = append(ids, n.ID)
	}
	p.mu.RUnlock()
	p.MarkSeen(ids...)
}

// Remove drops a notification locally after a server-side archive.
func (p *Poller) Remove(id string) {
	p.mu.Lock()
	kept := p.current[:0]
	for _, n := range p.current {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	p.current = kept
	badges := p.badges()
	p.mu.Unlock()

	p.bus.Publish(events.NotificationGone, id)
	p.bus.Publish(events.BadgesChanged, badges)
}

// Badges returns the current unread counts.
func (p *Poller) Badges() types.BadgeCounts {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.badges()
}

func (p *Poller) badges() types.BadgeCounts {
	var badges types.BadgeCounts
	for _, n := range p.current {
		if n.Read {
			continue
		}
		badges.TotalUnread++
		if n.Type == types.NotificationEmail {
			badges.MailUnread++
		}
	}
	return badges
}
