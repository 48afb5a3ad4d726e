package syncapp

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentDesk/internal/backend"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/events"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/sched"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/views"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/wm"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentDesk/internal/shared/types"
)

type fakeSync struct {
	mu             sync.Mutex
	connected      []backend.Integration
	connectedCalls int
}

func (f *fakeSync) SyncUserToken(ctx context.Context) (*backend.SyncUser, error) {
	return &backend.SyncUser{UserID: "u1", Token: "tok"}, nil
}

func (f *fakeSync) Integrations(ctx context.Context) ([]backend.Integration, error) {
	return []backend.Integration{
		{ID: "drive", Name: "Drive"},
		{ID: "calendar", Name: "Calendar"},
	}, nil
}

func (f *fakeSync) IntegrationLink(ctx context.Context, integrationID, token string) (string, error) {
	return "https://connect.example/" + integrationID + "?t=" + token, nil
}

func (f *fakeSync) ConnectedIntegrations(ctx context.Context, userID string) ([]backend.Integration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connectedCalls++
	return append([]backend.Integration(nil), f.connected...), nil
}

func (f *fakeSync) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connectedCalls
}

func newTestController(t *testing.T, api *fakeSync) (*Controller, *wm.Manager) {
	t.Helper()
	bus := events.NewBus()
	t.Cleanup(bus.Close)
	tasks := sched.New()
	t.Cleanup(tasks.StopAll)
	mgr := wm.NewManager(views.MustRegistry(), config.Default().Desktop, bus, logging.Nop())
	return New(mgr, api, tasks, 5*time.Millisecond, logging.Nop()), mgr
}

func openWindow(t *testing.T, api *fakeSync, mgr *wm.Manager) types.Window {
	t.Helper()
	w := mgr.CreateWindow(context.Background(), types.OpenWindowRequest{App: AppID})
	deadline := time.After(time.Second)
	for api.calls() == 0 {
		select {
		case <-deadline:
			t.Fatal("init hook never loaded integrations")
		case <-time.After(5 * time.Millisecond):
		}
	}
	got, _ := mgr.Get(w.ID)
	return got
}

func TestRefreshRendersCatalog(t *testing.T) {
	api := &fakeSync{connected: []backend.Integration{{ID: "drive", Name: "Drive"}}}
	c, mgr := newTestController(t, api)
	w := openWindow(t, api, mgr)

	c.Refresh(context.Background(), w.ID)
	got, _ := mgr.Get(w.ID)
	actions := got.View.Region("actions")
	require.NotNil(t, actions)
	require.Len(t, actions.Items, 2)
	assert.Equal(t, "Drive (connected)", actions.Items[0].Label)
	assert.Equal(t, "Calendar", actions.Items[1].Label)
	assert.Contains(t, got.View.Region("status").Text, "2 integrations")
}

func TestConnectWatchesPopupUntilClosed(t *testing.T) {
	api := &fakeSync{}
	c, mgr := newTestController(t, api)
	w := openWindow(t, api, mgr)

	link, err := c.Connect(context.Background(), w.ID, "drive")
	require.NoError(t, err)
	assert.Equal(t, "https://connect.example/drive?t=tok", link)
	require.True(t, c.WatchingPopup(w.ID))

	// The popup stays open for a few ticks, then the shell reports closure.
	before := api.calls()
	time.Sleep(20 * time.Millisecond)
	assert.True(t, c.WatchingPopup(w.ID), "watch must poll while the popup is open")

	c.PopupClosed(w.ID)
	deadline := time.After(time.Second)
	for c.WatchingPopup(w.ID) {
		select {
		case <-deadline:
			t.Fatal("popup watch never finished")
		case <-time.After(5 * time.Millisecond):
		}
	}
	assert.Greater(t, api.calls(), before, "closure must refresh the connected list")
}

func TestCloseStopsPopupWatch(t *testing.T) {
	api := &fakeSync{}
	c, mgr := newTestController(t, api)
	w := openWindow(t, api, mgr)

	_, err := c.Connect(context.Background(), w.ID, "calendar")
	require.NoError(t, err)

	mgr.CloseWindow(w.ID)
	deadline := time.After(time.Second)
	for c.WatchingPopup(w.ID) {
		select {
		case <-deadline:
			t.Fatal("popup watch survived its window")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
