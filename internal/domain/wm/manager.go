// Package wm implements the window manager: window lifecycle, z-order,
// the drag state machine and desktop icon layout.
package wm

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentDesk/internal/domain/events"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/views"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/AgentDesk/internal/shared/id"
	"github.com/GriffinCanCode/AgentDesk/internal/shared/types"
)

// InitHook runs asynchronously after a window is created. Hook failures
// never remove the window.
type InitHook func(ctx context.Context, w types.Window)

// CloseHook runs synchronously when a window is removed.
type CloseHook func(w types.Window)

// Viewport is the shell's current desktop dimensions and sidebar state.
type Viewport struct {
	Width            int
	Height           int
	SidebarCollapsed bool
}

// Manager coordinates window lifecycle on top of the Store.
type Manager struct {
	store    *Store
	registry *views.Registry
	cfg      config.DesktopConfig
	bus      *events.Bus
	log      *logging.Logger
	metrics  *monitoring.Metrics
	gen      *id.Generator

	mu         sync.Mutex
	viewport   Viewport
	drag       types.DragState
	initHooks  map[string]InitHook
	closeHooks map[string][]CloseHook
	fileIcons  []types.FileItem
}

// NewManager creates a window manager.
func NewManager(registry *views.Registry, cfg config.DesktopConfig, bus *events.Bus, log *logging.Logger) *Manager {
	return &Manager{
		store:      NewStore(),
		registry:   registry,
		cfg:        cfg,
		bus:        bus,
		log:        log.Named("wm"),
		gen:        id.Default(),
		viewport:   Viewport{Width: cfg.ViewportWidth, Height: cfg.ViewportHeight},
		initHooks:  make(map[string]InitHook),
		closeHooks: make(map[string][]CloseHook),
	}
}

// WithMetrics attaches metrics collectors.
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// RegisterInit installs the post-create hook for an app. One hook per app.
func (m *Manager) RegisterInit(appID string, hook InitHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initHooks[appID] = hook
}

// RegisterClose appends a close hook for an app.
func (m *Manager) RegisterClose(appID string, hook CloseHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeHooks[appID] = append(m.closeHooks[appID], hook)
}

// CreateWindow opens a window for the app. Unknown apps fall back to the
// default view; creation never fails.
func (m *Manager) CreateWindow(ctx context.Context, req types.OpenWindowRequest) types.Window {
	title := req.Title
	if title == "" {
		title = m.registry.Title(req.App)
	}

	size := m.defaultSize()
	pos := m.cascadePosition(size)
	if req.Position != nil {
		pos = *req.Position
	}

	w := types.Window{
		ID:        m.gen.WindowID(),
		AppID:     req.App,
		Title:     title,
		View:      m.registry.Build(req.App),
		Position:  pos,
		Size:      size,
		CreatedAt: time.Now(),
	}
	w = m.store.Insert(w)

	if m.metrics != nil {
		m.metrics.WindowsCreated.Inc()
		m.metrics.WindowsOpen.Set(float64(m.store.Len()))
	}
	m.log.Info("window created",
		zap.String("window_id", w.ID),
		zap.String("app", w.AppID))
	m.bus.Publish(events.WindowOpened, w)

	m.mu.Lock()
	hook := m.initHooks[req.App]
	m.mu.Unlock()
	if hook != nil {
		go func(w types.Window) {
			defer func() {
				if r := recover(); r != nil {
					m.log.Error("init hook panicked",
						zap.String("app", w.AppID), zap.Any("panic", r))
				}
			}()
			hook(ctx, w)
		}(w)
	}
	return w
}

// BringToFront raises the window. Safe to call on unknown IDs and on the
// window that is already front-most.
func (m *Manager) BringToFront(id string) (types.Window, bool) {
	w, ok := m.store.Raise(id)
	if ok {
		m.bus.Publish(events.WindowFocused, w)
	}
	return w, ok
}

// Minimize toggles the minimized flag.
func (m *Manager) Minimize(id string) (types.Window, bool) {
	w, ok := m.store.Update(id, func(w *types.Window) {
		w.Minimized = !w.Minimized
	})
	if ok {
		if w.Minimized {
			m.bus.Publish(events.WindowMinimized, w)
		} else {
			m.bus.Publish(events.WindowRestored, w)
		}
	}
	return w, ok
}

// Maximize toggles the maximized flag. Maximizing fills the desktop area
// and saves the prior geometry; un-maximizing restores it.
func (m *Manager) Maximize(id string) (types.Window, bool) {
	m.mu.Lock()
	vp := m.viewport
	m.mu.Unlock()
	area := m.desktopArea(vp)

	w, ok := m.store.Update(id, func(w *types.Window) {
		if !w.Maximized {
			saved := w.Size
			w.SavedSize = &saved
			w.Position = types.WindowPosition{Top: m.cfg.MenuBarHeight, Left: 0}
			w.Size = types.WindowSize{Width: area.Width, Height: area.Height}
			w.Maximized = true
			return
		}
		if w.SavedSize != nil {
			w.Size = *w.SavedSize
			w.SavedSize = nil
		}
		w.Maximized = false
	})
	if ok {
		if w.Maximized {
			m.bus.Publish(events.WindowMaximized, w)
		} else {
			m.bus.Publish(events.WindowRestored, w)
		}
	}
	return w, ok
}

// Resize sets a window's size, clamped to the configured minimum.
func (m *Manager) Resize(id string, size types.WindowSize) (types.Window, bool) {
	if size.Width < m.cfg.MinWindowWidth {
		size.Width = m.cfg.MinWindowWidth
	}
	if size.Height < m.cfg.MinWindowHeight {
		size.Height = m.cfg.MinWindowHeight
	}
	w, ok := m.store.Update(id, func(w *types.Window) {
		w.Size = size
		w.Maximized = false
		w.SavedSize = nil
	})
	if ok {
		m.bus.Publish(events.WindowResized, w)
	}
	return w, ok
}

// CloseWindow removes the window and runs its close hooks. Idempotent.
func (m *Manager) CloseWindow(id string) bool {
	w, ok := m.store.Remove(id)
	if !ok {
		return false
	}

	m.mu.Lock()
	if m.drag.WindowID == id {
		m.drag = types.DragState{}
	}
	hooks := m.closeHooks[w.AppID]
	m.mu.Unlock()

	for _, hook := range hooks {
		hook(w)
	}

	if m.metrics != nil {
		m.metrics.WindowsOpen.Set(float64(m.store.Len()))
	}
	m.log.Info("window closed",
		zap.String("window_id", w.ID),
		zap.String("app", w.AppID))
	m.bus.Publish(events.WindowClosed, w)
	return true
}

// CloseAll closes every open window. IDs are snapshotted first so close
// hooks that close further windows cannot corrupt the walk.
func (m *Manager) CloseAll() int {
	ids := m.store.IDs()
	closed := 0
	for _, id := range ids {
		if m.CloseWindow(id) {
			closed++
		}
	}
	return closed
}

// UpdateWindow applies fn to the window's record and publishes the change.
// Controllers use this to patch view state.
func (m *Manager) UpdateWindow(id string, fn func(*types.Window)) (types.Window, bool) {
	w, ok := m.store.Update(id, fn)
	if ok {
		m.bus.Publish(events.AppStateChanged, w)
	}
	return w, ok
}

// Get returns a copy of the window.
func (m *Manager) Get(id string) (types.Window, bool) { return m.store.Get(id) }

// Exists reports whether the window is still open. Poll loops use this as
// their stop condition.
func (m *Manager) Exists(id string) bool {
	_, ok := m.store.Get(id)
	return ok
}

// Windows returns all windows, back to front.
func (m *Manager) Windows() []types.Window { return m.store.List() }

// Front returns the front-most window.
func (m *Manager) Front() (types.Window, bool) { return m.store.Front() }

// FrontOf returns the front-most window of the given app.
func (m *Manager) FrontOf(appID string) (types.Window, bool) { return m.store.FrontOf(appID) }

// Stats summarizes the store.
func (m *Manager) Stats() types.WindowStats { return m.store.Stats() }

// Pointer advances the drag state machine.
func (m *Manager) Pointer(evt types.PointerEvent) {
	switch evt.Phase {
	case types.PointerDown:
		m.pointerDown(evt)
	case types.PointerMove:
		m.pointerMove(evt)
	case types.PointerUp:
		m.mu.Lock()
		m.drag = types.DragState{}
		m.mu.Unlock()
	}
}

// Drag returns the current drag state.
func (m *Manager) Drag() types.DragState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.drag
}

func (m *Manager) pointerDown(evt types.PointerEvent) {
	if evt.WindowID == "" {
		return
	}
	w, ok := m.BringToFront(evt.WindowID)
	if !ok {
		return
	}
	// Only the header starts a drag; control buttons and content do not.
	if evt.Region != "header" {
		return
	}
	m.mu.Lock()
	m.drag = types.DragState{
		WindowID: w.ID,
		OffsetX:  evt.X - w.Position.Left,
		OffsetY:  evt.Y - w.Position.Top,
	}
	m.mu.Unlock()
}

func (m *Manager) pointerMove(evt types.PointerEvent) {
	m.mu.Lock()
	drag := m.drag
	vp := m.viewport
	m.mu.Unlock()
	if !drag.Active() {
		return
	}

	w, ok := m.store.Update(drag.WindowID, func(w *types.Window) {
		w.Position = m.clampPosition(types.WindowPosition{
			Top:  evt.Y - drag.OffsetY,
			Left: evt.X - drag.OffsetX,
		}, w.Size, vp)
	})
	if !ok {
		// Window closed mid-drag; drop the drag.
		m.mu.Lock()
		if m.drag.WindowID == drag.WindowID {
			m.drag = types.DragState{}
		}
		m.mu.Unlock()
		return
	}
	m.bus.Publish(events.WindowMoved, w)
}

// SetViewport records the shell's dimensions and re-clamps every window
// into the new desktop area.
func (m *Manager) SetViewport(vp Viewport) {
	m.mu.Lock()
	m.viewport = vp
	m.mu.Unlock()

	for _, w := range m.store.List() {
		size := w.Size
		pos := w.Position
		clamped := m.clampPosition(pos, size, vp)
		if clamped != pos {
			m.store.Update(w.ID, func(w *types.Window) {
				w.Position = clamped
			})
		}
	}
	m.bus.Publish(events.DesktopRelaid, vp)
}

// Viewport returns the current viewport.
func (m *Manager) Viewport() Viewport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewport
}

func (m *Manager) clampPosition(pos types.WindowPosition, size types.WindowSize, vp Viewport) types.WindowPosition {
	area := m.desktopArea(vp)

	maxLeft := area.Width - size.Width
	if maxLeft < 0 {
		maxLeft = 0
	}
	if pos.Left > maxLeft {
		pos.Left = maxLeft
	}
	if pos.Left < 0 {
		pos.Left = 0
	}

	maxTop := m.cfg.MenuBarHeight + area.Height - size.Height
	if maxTop < m.cfg.MenuBarHeight {
		maxTop = m.cfg.MenuBarHeight
	}
	if pos.Top > maxTop {
		pos.Top = maxTop
	}
	if pos.Top < m.cfg.MenuBarHeight {
		pos.Top = m.cfg.MenuBarHeight
	}
	return pos
}

// desktopArea is the usable region: viewport minus sidebar, menu bar and
// dock bands.
func (m *Manager) desktopArea(vp Viewport) types.WindowSize {
	width := vp.Width - m.cfg.EffectiveSidebarWidth(vp.SidebarCollapsed)
	if width < 0 {
		width = 0
	}
	height := vp.Height - m.cfg.MenuBarHeight - m.cfg.DockHeight
	if height < 0 {
		height = 0
	}
	return types.WindowSize{Width: width, Height: height}
}

func (m *Manager) defaultSize() types.WindowSize {
	return types.WindowSize{
		Width:  m.cfg.DefaultWindowWidth,
		Height: m.cfg.DefaultWindowHeight,
	}
}

// cascadePosition staggers new windows by the running creation counter,
// below the menu bar and inside the desktop area.
func (m *Manager) cascadePosition(size types.WindowSize) types.WindowPosition {
	m.mu.Lock()
	vp := m.viewport
	m.mu.Unlock()

	offset := m.cfg.CascadeBase + (m.store.CascadeCount()%3)*m.cfg.CascadeStep
	return m.clampPosition(types.WindowPosition{
		Top:  m.cfg.MenuBarHeight + offset,
		Left: offset,
	}, size, vp)
}
