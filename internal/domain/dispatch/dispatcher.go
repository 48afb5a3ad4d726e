// Package dispatch maps assistant-issued actions onto window manager and
// controller operations.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentDesk/internal/apps/browser"
	"github.com/GriffinCanCode/AgentDesk/internal/apps/filemanager"
	"github.com/GriffinCanCode/AgentDesk/internal/apps/mailbox"
	"github.com/GriffinCanCode/AgentDesk/internal/apps/slideshow"
	"github.com/GriffinCanCode/AgentDesk/internal/backend"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/sched"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/wm"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentDesk/internal/shared/types"
)

// BatchNavigator opens backend sessions for a batch of URLs in one call.
type BatchNavigator interface {
	NavigateMultiple(ctx context.Context, urls, agentGoals []string) ([]backend.NavigateResult, error)
}

// DesktopLister feeds the desktop icon refresh.
type DesktopLister interface {
	ListFiles(ctx context.Context, path string) (*backend.Listing, error)
}

// Dispatcher routes structured assistant actions.
type Dispatcher struct {
	mgr     *wm.Manager
	files   *filemanager.Controller
	mail    *mailbox.Controller
	web     *browser.Controller
	slides  *slideshow.Controller
	batch   BatchNavigator
	lister  DesktopLister
	tasks   *sched.Scheduler
	log     *logging.Logger
	metrics *monitoring.Metrics

	fanOutDelay   time.Duration
	fanOutStagger time.Duration
}

// New creates a dispatcher.
func New(
	mgr *wm.Manager,
	files *filemanager.Controller,
	mail *mailbox.Controller,
	web *browser.Controller,
	slides *slideshow.Controller,
	batch BatchNavigator,
	lister DesktopLister,
	tasks *sched.Scheduler,
	fanOutDelay, fanOutStagger time.Duration,
	log *logging.Logger,
) *Dispatcher {
	return &Dispatcher{
		mgr:           mgr,
		files:         files,
		mail:          mail,
		web:           web,
		slides:        slides,
		batch:         batch,
		lister:        lister,
		tasks:         tasks,
		log:           log.Named("dispatch"),
		fanOutDelay:   fanOutDelay,
		fanOutStagger: fanOutStagger,
	}
}

// WithMetrics attaches metrics collectors.
func (d *Dispatcher) WithMetrics(metrics *monitoring.Metrics) *Dispatcher {
	d.metrics = metrics
	return d
}

// Dispatch applies one assistant result's action. Unknown actions are
// ignored; no action failure escapes the dispatcher.
func (d *Dispatcher) Dispatch(ctx context.Context, result *types.AssistantResult) {
	if result == nil || result.Action == "" {
		return
	}
	if d.metrics != nil {
		d.metrics.ActionsTotal.WithLabelValues(string(result.Action)).Inc()
	}

	data := result.Data
	switch result.Action {
	case types.ActionOpenApp:
		d.openApp(ctx, data)
	case types.ActionOpenSlideshow:
		d.slides.OpenWindow(ctx,
			types.DataString(data, "html"),
			types.DataInt(data, "slide_count"))
	case types.ActionCloseAll:
		d.mgr.CloseAll()
	case types.ActionCloseWindow:
		if front, ok := d.mgr.Front(); ok {
			d.mgr.CloseWindow(front.ID)
		}
	case types.ActionMinimizeWindow:
		if front, ok := d.mgr.Front(); ok {
			d.mgr.Minimize(front.ID)
		}
	case types.ActionMaximizeWindow:
		if front, ok := d.mgr.Front(); ok {
			d.mgr.Maximize(front.ID)
		}
	case types.ActionCreateFile, types.ActionDeleteFile,
		types.ActionFindFile, types.ActionListFiles:
		d.RefreshDesktop(ctx)
		d.files.RefreshOpenWindows(ctx)
	case types.ActionComposeEmail:
		d.mail.RefreshOpenWindows(ctx)
	case types.ActionNavigateBrowser:
		d.navigateBrowser(ctx, data)
	case types.ActionControlBrowser:
		if front, ok := d.mgr.FrontOf(browser.AppID); ok {
			d.web.Control(ctx, front.ID, types.DataString(data, "command"))
		}
	default:
		d.log.Debug("ignoring unknown action",
			zap.String("action", string(result.Action)))
	}
}

func (d *Dispatcher) openApp(ctx context.Context, data map[string]interface{}) {
	app := types.DataString(data, "app")
	if app == "" {
		return
	}

	if app == browser.AppID {
		urls := types.DataStrings(data, "navigate_to")
		goals := types.DataStrings(data, "agent_goals")
		switch {
		case len(urls) > 1:
			d.fanOut(ctx, urls, goals)
			return
		case len(urls) == 1:
			w := d.mgr.CreateWindow(ctx, types.OpenWindowRequest{App: app})
			goal := ""
			if len(goals) > 0 {
				goal = goals[0]
			}
			d.web.Navigate(ctx, w.ID, urls[0], goal)
			return
		}
	}
	d.mgr.CreateWindow(ctx, types.OpenWindowRequest{App: app})
}

// fanOut requests all sessions in one batched call, then opens one window
// per result with a stagger so the shell is not flooded.
func (d *Dispatcher) fanOut(ctx context.Context, urls, goals []string) {
	results, err := d.batch.NavigateMultiple(ctx, urls, goals)
	if err != nil {
		d.log.Warn("batched navigation failed",
			zap.Int("urls", len(urls)), zap.Error(err))
		return
	}

	for i, res := range results {
		res := res
		delay := d.fanOutDelay + time.Duration(i)*d.fanOutStagger
		key := fmt.Sprintf("dispatch.fanout.%s", res.SessionID)
		d.tasks.After(key, delay, func(ctx context.Context) {
			d.web.OpenFanOut(ctx, res)
		})
	}
}

func (d *Dispatcher) navigateBrowser(ctx context.Context, data map[string]interface{}) {
	url := types.DataString(data, "url")
	if url == "" {
		url = types.DataString(data, "navigate_to")
	}
	if url == "" {
		return
	}

	front, ok := d.mgr.FrontOf(browser.AppID)
	if !ok {
		front = d.mgr.CreateWindow(ctx, types.OpenWindowRequest{App: browser.AppID})
	}
	d.web.Navigate(ctx, front.ID, url, types.DataString(data, "agent_goal"))
}

// RefreshDesktop re-lists the root and relays the file icons.
func (d *Dispatcher) RefreshDesktop(ctx context.Context) {
	listing, err := d.lister.ListFiles(ctx, "/")
	if err != nil {
		d.log.Warn("desktop listing failed", zap.Error(err))
		return
	}
	d.mgr.SetFileIcons(listing.Items)
}
