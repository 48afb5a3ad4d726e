// Package http implements the REST surface the rendering shell talks to.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/AgentDesk/internal/apps/browser"
	"github.com/GriffinCanCode/AgentDesk/internal/apps/filemanager"
	"github.com/GriffinCanCode/AgentDesk/internal/apps/mailbox"
	"github.com/GriffinCanCode/AgentDesk/internal/apps/notepad"
	"github.com/GriffinCanCode/AgentDesk/internal/apps/processes"
	"github.com/GriffinCanCode/AgentDesk/internal/apps/slideshow"
	"github.com/GriffinCanCode/AgentDesk/internal/apps/syncapp"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/chat"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/dispatch"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/events"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/notify"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/sched"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/wm"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentDesk/internal/shared/types"
)

// BackendHealth reports the upstream circuit state for /health.
type BackendHealth interface {
	BreakerState() string
}

// Handlers holds the HTTP surface's dependencies.
type Handlers struct {
	mgr        *wm.Manager
	chat       *chat.Service
	dispatcher *dispatch.Dispatcher
	poller     *notify.Poller
	files      *filemanager.Controller
	pad        *notepad.Controller
	mail       *mailbox.Controller
	web        *browser.Controller
	slides     *slideshow.Controller
	syncer     *syncapp.Controller
	procs      *processes.Controller
	upstream   BackendHealth
	tasks      *sched.Scheduler
	bus        *events.Bus
	cfg        *config.Config
	log        *logging.Logger
	started    time.Time
}

// Deps bundles handler construction arguments.
type Deps struct {
	Manager    *wm.Manager
	Chat       *chat.Service
	Dispatcher *dispatch.Dispatcher
	Poller     *notify.Poller
	Files      *filemanager.Controller
	Notepad    *notepad.Controller
	Mail       *mailbox.Controller
	Browser    *browser.Controller
	Slideshow  *slideshow.Controller
	Sync       *syncapp.Controller
	Processes  *processes.Controller
	Upstream   BackendHealth
	Tasks      *sched.Scheduler
	Bus        *events.Bus
	Config     *config.Config
	Log        *logging.Logger
}

// NewHandlers creates the HTTP handler set.
func NewHandlers(d Deps) *Handlers {
	return &Handlers{
		mgr:        d.Manager,
		chat:       d.Chat,
		dispatcher: d.Dispatcher,
		poller:     d.Poller,
		files:      d.Files,
		pad:        d.Notepad,
		mail:       d.Mail,
		web:        d.Browser,
		slides:     d.Slideshow,
		syncer:     d.Sync,
		procs:      d.Processes,
		upstream:   d.Upstream,
		tasks:      d.Tasks,
		bus:        d.Bus,
		cfg:        d.Config,
		log:        d.Log.Named("http"),
		started:    time.Now(),
	}
}

// Root returns the service banner.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "agentdesk",
		"status":  "running",
	})
}

// Health reports liveness plus a few load-bearing gauges.
func (h *Handlers) Health(c *gin.Context) {
	resp := gin.H{
		"status":         "healthy",
		"uptime_seconds": int(time.Since(h.started).Seconds()),
		"windows":        h.mgr.Stats(),
		"active_tasks":   h.tasks.Count(),
	}
	if h.upstream != nil {
		resp["backend_breaker"] = h.upstream.BreakerState()
	}
	c.JSON(http.StatusOK, resp)
}

// Desktop returns one full snapshot: windows in z-order, icons, badges,
// notifications and the chat log. The shell renders from this alone after
// a reconnect.
func (h *Handlers) Desktop(c *gin.Context) {
	badges := h.poller.Badges()
	c.JSON(http.StatusOK, gin.H{
		"windows":       h.mgr.Windows(),
		"icons":         h.mgr.Icons(badges),
		"badges":        badges,
		"notifications": h.poller.List(),
		"messages":      h.chat.Messages(),
		"drag":          h.mgr.Drag(),
	})
}

// OpenWindow creates a window.
func (h *Handlers) OpenWindow(c *gin.Context) {
	var req types.OpenWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w := h.mgr.CreateWindow(c.Request.Context(), req)
	c.JSON(http.StatusCreated, w)
}

// ListWindows returns all windows in z-order.
func (h *Handlers) ListWindows(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"windows": h.mgr.Windows()})
}

// FocusWindow raises a window.
func (h *Handlers) FocusWindow(c *gin.Context) {
	h.windowOp(c, h.mgr.BringToFront)
}

// MinimizeWindow toggles minimize.
func (h *Handlers) MinimizeWindow(c *gin.Context) {
	h.windowOp(c, h.mgr.Minimize)
}

// MaximizeWindow toggles maximize.
func (h *Handlers) MaximizeWindow(c *gin.Context) {
	h.windowOp(c, h.mgr.Maximize)
}

// ResizeWindow resizes a window.
func (h *Handlers) ResizeWindow(c *gin.Context) {
	var req types.ResizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.windowOp(c, func(id string) (types.Window, bool) {
		return h.mgr.Resize(id, types.WindowSize{Width: req.Width, Height: req.Height})
	})
}

func (h *Handlers) windowOp(c *gin.Context, op func(id string) (types.Window, bool)) {
	w, ok := op(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "window not found"})
		return
	}
	c.JSON(http.StatusOK, w)
}

// CloseWindow removes a window. Closing an unknown window is not an error.
func (h *Handlers) CloseWindow(c *gin.Context) {
	closed := h.mgr.CloseWindow(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"closed": closed})
}

// CloseAllWindows removes every window.
func (h *Handlers) CloseAllWindows(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"closed": h.mgr.CloseAll()})
}

// Pointer applies one pointer transition from the shell.
func (h *Handlers) Pointer(c *gin.Context) {
	var evt types.PointerEvent
	if err := c.ShouldBindJSON(&evt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.mgr.Pointer(evt)
	c.JSON(http.StatusOK, gin.H{"drag": h.mgr.Drag()})
}

// Viewport records new shell dimensions. The relayout itself is debounced
// so a resize drag does not thrash every window position.
func (h *Handlers) Viewport(c *gin.Context) {
	var req types.ViewportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	vp := wm.Viewport{
		Width:            req.Width,
		Height:           req.Height,
		SidebarCollapsed: req.SidebarCollapsed,
	}
	h.tasks.Debounce("viewport.relayout", h.cfg.Poll.ResizeDebounce, func(ctx context.Context) {
		h.mgr.SetViewport(vp)
	})
	c.JSON(http.StatusAccepted, gin.H{"accepted": true})
}

// Notifications returns the current notification set.
func (h *Handlers) Notifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"notifications": h.poller.List(),
		"badges":        h.poller.Badges(),
	})
}

// MarkNotificationsSeen marks the given ids, or everything when none are
// given.
func (h *Handlers) MarkNotificationsSeen(c *gin.Context) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.IDs) == 0 {
		h.poller.MarkAllSeen()
	} else {
		h.poller.MarkSeen(req.IDs...)
	}
	c.JSON(http.StatusOK, gin.H{"badges": h.poller.Badges()})
}
