// Package processes drives the scheduled-processes windows: the active
// tab filtered from the shared notification list and the archived tab.
package processes

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentDesk/internal/domain/notify"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/wm"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentDesk/internal/shared/types"
)

// AppID is the processes app's registry id.
const AppID = "scheduled_processes"

// ArchiveAPI is the backend slice the controller needs.
type ArchiveAPI interface {
	ArchivedProcesses(ctx context.Context) ([]types.Notification, error)
	DeleteNotification(ctx context.Context, id string) error
}

// Controller owns processes window state.
type Controller struct {
	mgr    *wm.Manager
	api    ArchiveAPI
	poller *notify.Poller
	log    *logging.Logger
}

// New creates the controller and registers its window-init hook.
func New(mgr *wm.Manager, api ArchiveAPI, poller *notify.Poller, log *logging.Logger) *Controller {
	c := &Controller{
		mgr:    mgr,
		api:    api,
		poller: poller,
		log:    log.Named("processes"),
	}
	mgr.RegisterInit(AppID, func(ctx context.Context, w types.Window) {
		c.ShowActive(w.ID)
	})
	return c
}

// ShowActive renders the active tab: command-type notifications from the
// shared poller state.
func (c *Controller) ShowActive(windowID string) {
	commands := c.poller.Commands()
	c.mgr.UpdateWindow(windowID, func(w *types.Window) {
		if toolbar := w.View.Region("toolbar"); toolbar != nil {
			toolbar.Label = fmt.Sprintf("Background Tasks (%d active)", len(commands))
		}
		if tasks := w.View.Region("tasks"); tasks != nil {
			tasks.Items = processItems(commands, "archive")
		}
		if logs := w.View.Region("logs"); logs != nil {
			logs.Hidden = true
		}
	})
}

// ShowCompleted renders the archived tab from the archive endpoint.
func (c *Controller) ShowCompleted(ctx context.Context, windowID string) {
	archived, err := c.api.ArchivedProcesses(ctx)
	if err != nil {
		c.log.Warn("archived processes fetch failed", zap.Error(err))
		archived = nil
	}
	c.mgr.UpdateWindow(windowID, func(w *types.Window) {
		if toolbar := w.View.Region("toolbar"); toolbar != nil {
			toolbar.Label = fmt.Sprintf("Completed Tasks (%d)", len(archived))
		}
		if tasks := w.View.Region("tasks"); tasks != nil {
			tasks.Items = processItems(archived, "")
		}
	})
}

// ShowLogs reveals a process's detail pane.
func (c *Controller) ShowLogs(windowID, notificationID string) {
	var target *types.Notification
	for _, n := range c.poller.List() {
		if n.ID == notificationID {
			found := n
			target = &found
			break
		}
	}
	if target == nil {
		return
	}

	text := target.Response
	if target.Error != "" {
		text = target.Error
	}
	c.mgr.UpdateWindow(windowID, func(w *types.Window) {
		if logs := w.View.Region("logs"); logs != nil {
			logs.Text = text
			logs.Label = target.Command
			logs.Hidden = false
		}
	})
}

// Archive deletes a process server-side, removes it locally and
// re-renders the active tab.
func (c *Controller) Archive(ctx context.Context, windowID, notificationID string) error {
	if err := c.api.DeleteNotification(ctx, notificationID); err != nil {
		return fmt.Errorf("archive %s: %w", notificationID, err)
	}
	c.poller.Remove(notificationID)
	c.ShowActive(windowID)
	return nil
}

func processItems(items []types.Notification, action string) []types.ViewItem {
	out := make([]types.ViewItem, len(items))
	for i, n := range items {
		label := n.Command
		if label == "" {
			label = n.Subject
		}
		if n.Status != "" {
			label = fmt.Sprintf("%s [%s]", label, n.Status)
		}
		out[i] = types.ViewItem{ID: n.ID, Label: label, Action: action}
	}
	return out
}
