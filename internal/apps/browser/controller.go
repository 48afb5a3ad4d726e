// Package browser drives the browser windows: one backend session per
// window, navigation through the proxy, and the agent status overlay.
package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentDesk/internal/backend"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/sched"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/session"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/wm"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentDesk/internal/shared/types"
)

// AppID is the browser's registry id.
const AppID = "browser"

// maxAgentLogs caps the overlay to the most recent entries.
const maxAgentLogs = 10

// BrowserAPI is the backend slice the controller needs.
type BrowserAPI interface {
	Navigate(ctx context.Context, url, sessionID, agentGoal string) (*backend.NavigateResponse, error)
	BrowserAction(ctx context.Context, action, sessionID string) (*backend.NavigateResponse, error)
	BrowserControl(ctx context.Context, command, sessionID string) (*backend.NavigateResponse, error)
	AgentStatus(ctx context.Context, sessionID string) (*backend.AgentStatus, error)
}

// Controller owns browser window state.
type Controller struct {
	mgr      *wm.Manager
	sessions *session.Table
	api      BrowserAPI
	tasks    *sched.Scheduler
	log      *logging.Logger

	pollInterval  time.Duration
	retryInterval time.Duration
	sanitize      *bluemonday.Policy
}

// New creates the controller and registers its lifecycle hooks: session
// allocation on open, session release and agent-poll teardown on close.
func New(mgr *wm.Manager, sessions *session.Table, api BrowserAPI, tasks *sched.Scheduler, poll, retry time.Duration, log *logging.Logger) *Controller {
	c := &Controller{
		mgr:           mgr,
		sessions:      sessions,
		api:           api,
		tasks:         tasks,
		log:           log.Named("browser"),
		pollInterval:  poll,
		retryInterval: retry,
		sanitize:      bluemonday.StrictPolicy(),
	}
	mgr.RegisterInit(AppID, func(ctx context.Context, w types.Window) {
		c.attachSession(w.ID)
	})
	mgr.RegisterClose(AppID, func(w types.Window) {
		if sid, ok := c.sessions.Release(w.ID); ok {
			c.tasks.Stop(agentKey(sid))
		}
	})
	return c
}

// attachSession binds a fresh session to the window and records it on the
// window record.
func (c *Controller) attachSession(windowID string) string {
	sid := c.sessions.Allocate(windowID)
	c.mgr.UpdateWindow(windowID, func(w *types.Window) {
		if w.SessionID == nil {
			bound := sid
			w.SessionID = &bound
		}
	})
	return sid
}

// AdoptSession binds a backend-issued session id (from a batched
// navigate-multiple call) to the window instead of allocating one.
func (c *Controller) AdoptSession(windowID, sessionID string) {
	c.sessions.Bind(windowID, sessionID)
	c.mgr.UpdateWindow(windowID, func(w *types.Window) {
		bound := sessionID
		w.SessionID = &bound
	})
}

// Navigate loads a URL in the window's session and renders the proxied
// result. A returned agent goal starts the status overlay watch.
func (c *Controller) Navigate(ctx context.Context, windowID, rawURL, agentGoal string) {
	sid, ok := c.sessions.Lookup(windowID)
	if !ok {
		sid = c.attachSession(windowID)
	}

	resp, err := c.api.Navigate(ctx, rawURL, sid, agentGoal)
	if err != nil {
		c.renderError(windowID, rawURL, err)
		return
	}
	c.render(windowID, resp)

	goal := resp.AgentGoal
	if goal == "" {
		goal = agentGoal
	}
	if goal != "" {
		c.WatchAgent(windowID, sid)
	}
}

// Back and Forward drive history through the generic action endpoint.
func (c *Controller) Back(ctx context.Context, windowID string) {
	c.action(ctx, windowID, "back")
}

func (c *Controller) Forward(ctx context.Context, windowID string) {
	c.action(ctx, windowID, "forward")
}

func (c *Controller) action(ctx context.Context, windowID, action string) {
	sid, ok := c.sessions.Lookup(windowID)
	if !ok {
		return
	}
	resp, err := c.api.BrowserAction(ctx, action, sid)
	if err != nil {
		c.log.Warn("history action failed",
			zap.String("action", action), zap.Error(err))
		return
	}
	c.render(windowID, resp)
}

// Control sends a free-form command to the window's session.
func (c *Controller) Control(ctx context.Context, windowID, command string) {
	sid, ok := c.sessions.Lookup(windowID)
	if !ok {
		return
	}
	resp, err := c.api.BrowserControl(ctx, command, sid)
	if err != nil {
		c.renderError(windowID, command, err)
		return
	}
	c.render(windowID, resp)
}

// OpenContent shows already-fetched local HTML (file manager handoff) in
// a new browser window without a navigation round-trip.
func (c *Controller) OpenContent(ctx context.Context, path, content string) types.Window {
	w := c.mgr.CreateWindow(ctx, types.OpenWindowRequest{App: AppID, Title: path})
	c.mgr.UpdateWindow(w.ID, func(w *types.Window) {
		if addr := w.View.Region("address"); addr != nil {
			addr.Text = path
		}
		if page := w.View.Region("page"); page != nil {
			page.Text = content
		}
	})
	return w
}

// OpenFanOut opens a browser window wired to one result of a batched
// navigation: the backend-issued session is adopted and the proxied page
// rendered without another navigate round-trip.
func (c *Controller) OpenFanOut(ctx context.Context, res backend.NavigateResult) types.Window {
	w := c.mgr.CreateWindow(ctx, types.OpenWindowRequest{
		App:   AppID,
		Title: WindowTitle(res.URL),
	})
	c.AdoptSession(w.ID, res.SessionID)
	c.mgr.UpdateWindow(w.ID, func(w *types.Window) {
		if addr := w.View.Region("address"); addr != nil {
			addr.Text = res.URL
		}
		if page := w.View.Region("page"); page != nil {
			page.Text = res.ProxyURL
		}
	})
	if res.AgentGoal != "" {
		c.WatchAgent(w.ID, res.SessionID)
	}
	return w
}

// WatchAgent polls the session's agent status until it reaches a terminal
// state or the window closes. Transport failures back off to the retry
// interval; the loop is keyed by session so re-navigation replaces it.
func (c *Controller) WatchAgent(windowID, sessionID string) {
	c.tasks.Loop(agentKey(sessionID), 0, func(ctx context.Context) (time.Duration, bool) {
		if !c.mgr.Exists(windowID) {
			return 0, false
		}

		status, err := c.api.AgentStatus(ctx, sessionID)
		if err != nil {
			c.log.Warn("agent status poll failed",
				zap.String("session_id", sessionID), zap.Error(err))
			return c.retryInterval, true
		}

		c.renderAgent(windowID, status)
		if status.Terminal() {
			return 0, false
		}
		return c.pollInterval, true
	})
}

// WatchingAgent reports whether an agent poll is running for the session.
func (c *Controller) WatchingAgent(sessionID string) bool {
	return c.tasks.Active(agentKey(sessionID))
}

func (c *Controller) render(windowID string, resp *backend.NavigateResponse) {
	title := c.sanitize.Sanitize(resp.Title)
	c.mgr.UpdateWindow(windowID, func(w *types.Window) {
		if title != "" {
			w.Title = title
		}
		if addr := w.View.Region("address"); addr != nil && resp.URL != "" {
			addr.Text = resp.URL
		}
		if page := w.View.Region("page"); page != nil {
			page.Text = resp.ProxyURL
		}
		if status := w.View.Region("status"); status != nil {
			status.Hidden = true
		}
	})
}

func (c *Controller) renderError(windowID, what string, err error) {
	c.log.Warn("navigation failed", zap.String("target", what), zap.Error(err))
	c.mgr.UpdateWindow(windowID, func(w *types.Window) {
		if status := w.View.Region("status"); status != nil {
			status.Text = "Could not load " + what
			status.Hidden = false
		}
	})
}

func (c *Controller) renderAgent(windowID string, status *backend.AgentStatus) {
	logs := status.Logs
	if len(logs) > maxAgentLogs {
		logs = logs[len(logs)-maxAgentLogs:]
	}
	items := make([]types.ViewItem, len(logs))
	for i, entry := range logs {
		items[i] = types.ViewItem{
			ID:    fmt.Sprintf("log-%d", i),
			Label: entry.Message,
			Glyph: entry.Action,
		}
	}

	c.mgr.UpdateWindow(windowID, func(w *types.Window) {
		if region := w.View.Region("status"); region != nil {
			region.Text = "Agent: " + status.Status
			region.Items = items
			region.Hidden = false
		}
	})
}

// WindowTitle derives a short window title from a URL's host, used for
// fan-out windows before their navigation resolves.
func WindowTitle(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		if trimmed := strings.TrimSpace(rawURL); trimmed != "" {
			return trimmed
		}
		return "Browser"
	}
	return strings.TrimPrefix(u.Host, "www.")
}

func agentKey(sessionID string) string {
	return "browser.agent." + sessionID
}
