package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/GriffinCanCode/AgentDesk/internal/domain/events"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/sched"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentDesk/internal/shared/types"
)

type fakeSource struct {
	mu    sync.Mutex
	items []types.Notification
	err   error
	calls int
}

func (f *fakeSource) Notifications(ctx context.Context) ([]types.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]types.Notification(nil), f.items...), nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestPoller(t *testing.T, source Source, interval time.Duration) *Poller {
	t.Helper()
	tasks := sched.New()
	t.Cleanup(tasks.StopAll)
	bus := events.NewBus()
	t.Cleanup(bus.Close)
	return NewPoller(source, interval, tasks, bus, logging.Nop())
}

func notif(id string, typ types.NotificationType) types.Notification {
	return types.Notification{ID: id, Type: typ, Subject: "s-" + id}
}

func TestBadgeCountsUnreadOnly(t *testing.T) {
	src := &fakeSource{items: []types.Notification{
		notif("1", types.NotificationEmail),
		notif("2", types.NotificationEmail),
		notif("3", types.NotificationCommand),
		notif("4", types.NotificationEmail),
		notif("5", types.NotificationCommand),
	}}
	p := newTestPoller(t, src, time.Hour)

	// Two of five already read.
	p.MarkSeen("4", "5")
	p.Refresh(context.Background())

	badges := p.Badges()
	if badges.TotalUnread != 3 {
		t.Errorf("total unread %d, want 3", badges.TotalUnread)
	}
	if badges.MailUnread != 2 {
		t.Errorf("mail unread %d, want 2", badges.MailUnread)
	}
}

func TestPollFailureDegradesToEmptyAndContinues(t *testing.T) {
	src := &fakeSource{items: []types.Notification{notif("1", types.NotificationEmail)}}
	p := newTestPoller(t, src, 10*time.Millisecond)

	p.Refresh(context.Background())
	if len(p.List()) != 1 {
		t.Fatal("expected one notification before failure")
	}

	src.mu.Lock()
	src.err = errors.New("backend down")
	src.mu.Unlock()
	p.Refresh(context.Background())
	if len(p.List()) != 0 {
		t.Error("failure should degrade to an empty set")
	}

	// Recovery on a later tick.
	src.mu.Lock()
	src.err = nil
	src.mu.Unlock()
	p.Start()
	deadline := time.After(time.Second)
	for len(p.List()) == 0 {
		select {
		case <-deadline:
			t.Fatal("poller never recovered")
		case <-time.After(5 * time.Millisecond):
		}
	}
	p.Stop()
}

func TestStartPollsImmediately(t *testing.T) {
	src := &fakeSource{}
	p := newTestPoller(t, src, time.Hour)

	p.Start()
	deadline := time.After(time.Second)
	for src.callCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("no immediate poll on start")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestMarkSeenSurvivesRepoll(t *testing.T) {
	src := &fakeSource{items: []types.Notification{
		notif("a", types.NotificationEmail),
		notif("b", types.NotificationEmail),
	}}
	p := newTestPoller(t, src, time.Hour)

	p.Refresh(context.Background())
	p.MarkSeen("a")
	p.Refresh(context.Background())

	for _, n := range p.List() {
		if n.ID == "a" && !n.Read {
			t.Error("seen id lost its read tag across polls")
		}
		if n.ID == "b" && n.Read {
			t.Error("unseen id tagged read")
		}
	}
}

func TestCommandsFilterAndRemove(t *testing.T) {
	src := &fakeSource{items: []types.Notification{
		notif("e1", types.NotificationEmail),
		notif("c1", types.NotificationCommand),
		notif("c2", types.NotificationCommand),
	}}
	p := newTestPoller(t, src, time.Hour)
	p.Refresh(context.Background())

	if got := len(p.Commands()); got != 2 {
		t.Fatalf("expected 2 commands, got %d", got)
	}

	p.Remove("c1")
	if got := len(p.Commands()); got != 1 {
		t.Errorf("expected 1 command after remove, got %d", got)
	}
	if got := len(p.List()); got != 2 {
		t.Errorf("expected 2 notifications after remove, got %d", got)
	}
}
