// Package syncapp drives the device sync windows: integration catalog,
// connect-link popups and the popup watch loop.
package syncapp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentDesk/internal/backend"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/sched"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/wm"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentDesk/internal/shared/types"
)

// AppID is the sync app's registry id.
const AppID = "sync"

// SyncAPI is the backend slice the controller needs.
type SyncAPI interface {
	SyncUserToken(ctx context.Context) (*backend.SyncUser, error)
	Integrations(ctx context.Context) ([]backend.Integration, error)
	IntegrationLink(ctx context.Context, integrationID, token string) (string, error)
	ConnectedIntegrations(ctx context.Context, userID string) ([]backend.Integration, error)
}

// Controller owns sync window state.
type Controller struct {
	mgr   *wm.Manager
	api   SyncAPI
	tasks *sched.Scheduler
	log   *logging.Logger

	popupInterval time.Duration

	mu     sync.Mutex
	user   *backend.SyncUser
	popups map[string]bool // windowID -> popup still open
}

// New creates the controller and registers its lifecycle hooks.
func New(mgr *wm.Manager, api SyncAPI, tasks *sched.Scheduler, popupInterval time.Duration, log *logging.Logger) *Controller {
	c := &Controller{
		mgr:           mgr,
		api:           api,
		tasks:         tasks,
		log:           log.Named("sync"),
		popupInterval: popupInterval,
		popups:        make(map[string]bool),
	}
	mgr.RegisterInit(AppID, func(ctx context.Context, w types.Window) {
		c.Refresh(ctx, w.ID)
	})
	mgr.RegisterClose(AppID, func(w types.Window) {
		c.tasks.Stop(popupKey(w.ID))
		c.mu.Lock()
		delete(c.popups, w.ID)
		c.mu.Unlock()
	})
	return c
}

// Refresh loads the user token and integration catalog into the window.
func (c *Controller) Refresh(ctx context.Context, windowID string) {
	if !c.mgr.Exists(windowID) {
		return
	}

	user, err := c.userToken(ctx)
	if err != nil {
		c.renderStatus(windowID, "Sync is unavailable right now")
		return
	}

	integrations, err := c.api.Integrations(ctx)
	if err != nil {
		c.log.Warn("integration catalog fetch failed", zap.Error(err))
		c.renderStatus(windowID, "Could not load integrations")
		return
	}

	connected, err := c.api.ConnectedIntegrations(ctx, user.UserID)
	if err != nil {
		connected = nil
	}
	connectedSet := make(map[string]bool, len(connected))
	for _, integ := range connected {
		connectedSet[integ.ID] = true
	}

	c.mgr.UpdateWindow(windowID, func(w *types.Window) {
		if status := w.View.Region("status"); status != nil {
			status.Text = fmt.Sprintf("%d integrations, %d connected",
				len(integrations), len(connected))
		}
		if actions := w.View.Region("actions"); actions != nil {
			actions.Hidden = false
			actions.Items = integrationItems(integrations, connectedSet)
		}
	})
}

// Connect fetches the external connect link for an integration and starts
// watching for the popup to close. The link is returned for the shell to
// open; the shell reports closure via PopupClosed.
func (c *Controller) Connect(ctx context.Context, windowID, integrationID string) (string, error) {
	user, err := c.userToken(ctx)
	if err != nil {
		return "", err
	}
	link, err := c.api.IntegrationLink(ctx, integrationID, user.Token)
	if err != nil {
		return "", fmt.Errorf("integration link for %s: %w", integrationID, err)
	}

	c.mu.Lock()
	c.popups[windowID] = true
	c.mu.Unlock()
	c.watchPopup(windowID)
	return link, nil
}

// PopupClosed tells the watch loop the shell's popup is gone.
func (c *Controller) PopupClosed(windowID string) {
	c.mu.Lock()
	c.popups[windowID] = false
	c.mu.Unlock()
}

// Disconnect removes an integration locally and re-renders. The original
// behavior is a local refresh only; the backend holds no disconnect call.
func (c *Controller) Disconnect(ctx context.Context, windowID, integrationID string) {
	c.Refresh(ctx, windowID)
}

// watchPopup polls until the popup closes, then refreshes the connected
// list and stops.
func (c *Controller) watchPopup(windowID string) {
	c.tasks.Loop(popupKey(windowID), c.popupInterval, func(ctx context.Context) (time.Duration, bool) {
		if !c.mgr.Exists(windowID) {
			return 0, false
		}
		c.mu.Lock()
		open := c.popups[windowID]
		c.mu.Unlock()
		if open {
			return c.popupInterval, true
		}
		c.Refresh(ctx, windowID)
		return 0, false
	})
}

// WatchingPopup reports whether a popup watch is running for the window.
func (c *Controller) WatchingPopup(windowID string) bool {
	return c.tasks.Active(popupKey(windowID))
}

func (c *Controller) userToken(ctx context.Context) (*backend.SyncUser, error) {
	c.mu.Lock()
	cached := c.user
	c.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	user, err := c.api.SyncUserToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("sync user token: %w", err)
	}
	c.mu.Lock()
	c.user = user
	c.mu.Unlock()
	return user, nil
}

func (c *Controller) renderStatus(windowID, text string) {
	c.mgr.UpdateWindow(windowID, func(w *types.Window) {
		if status := w.View.Region("status"); status != nil {
			status.Text = text
		}
	})
}

func integrationItems(items []backend.Integration, connected map[string]bool) []types.ViewItem {
	out := make([]types.ViewItem, len(items))
	for i, integ := range items {
		label := integ.Name
		if connected[integ.ID] || integ.Connected {
			label += " (connected)"
		}
		out[i] = types.ViewItem{
			ID:     integ.ID,
			Label:  label,
			Glyph:  integ.Glyph,
			Action: "connect",
		}
	}
	return out
}

func popupKey(windowID string) string {
	return "sync.popup." + windowID
}
