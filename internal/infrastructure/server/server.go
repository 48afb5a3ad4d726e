// Package server wires the desktop service together: backend client,
// window manager, app controllers, pollers and the HTTP/WebSocket surface.
package server

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/AgentDesk/internal/api/http"
	"github.com/GriffinCanCode/AgentDesk/internal/api/middleware"
	"github.com/GriffinCanCode/AgentDesk/internal/api/ws"
	"github.com/GriffinCanCode/AgentDesk/internal/apps/browser"
	"github.com/GriffinCanCode/AgentDesk/internal/apps/filemanager"
	"github.com/GriffinCanCode/AgentDesk/internal/apps/mailbox"
	"github.com/GriffinCanCode/AgentDesk/internal/apps/notepad"
	"github.com/GriffinCanCode/AgentDesk/internal/apps/processes"
	"github.com/GriffinCanCode/AgentDesk/internal/apps/slideshow"
	"github.com/GriffinCanCode/AgentDesk/internal/apps/syncapp"
	"github.com/GriffinCanCode/AgentDesk/internal/backend"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/chat"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/dispatch"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/events"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/notify"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/sched"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/session"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/views"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/wm"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/monitoring"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	router  *gin.Engine
	mgr     *wm.Manager
	poller  *notify.Poller
	tasks   *sched.Scheduler
	bus     *events.Bus
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// NewServer creates a fully wired server instance.
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		return nil, err
	}

	logger.Info("initializing desktop service",
		zap.String("port", cfg.Server.Port),
		zap.String("backend", cfg.Backend.BaseURL),
	)

	metrics := monitoring.New(prometheus.DefaultRegisterer)
	bus := events.NewBus()
	tasks := sched.New()

	upstream := backend.New(cfg.Backend, logger).WithMetrics(metrics)

	registry, err := views.NewRegistry()
	if err != nil {
		return nil, err
	}

	mgr := wm.NewManager(registry, cfg.Desktop, bus, logger).WithMetrics(metrics)
	sessions := session.NewTable()
	poller := notify.NewPoller(upstream, cfg.Poll.Notifications, tasks, bus, logger).
		WithMetrics(metrics)

	// App controllers. Construction registers each one's window hooks.
	files := filemanager.New(mgr, upstream, logger)
	pad := notepad.New(mgr, upstream, logger)
	mail := mailbox.New(mgr, upstream, poller, logger)
	web := browser.New(mgr, sessions, upstream, tasks,
		cfg.Poll.Agent, cfg.Poll.AgentRetry, logger)
	slides := slideshow.New(mgr, upstream, upstream, logger)
	syncer := syncapp.New(mgr, upstream, tasks, cfg.Poll.SyncPopup, logger)
	procs := processes.New(mgr, upstream, poller, logger)

	// File manager handoffs into the other controllers.
	files.OpenInNotepad = func(ctx context.Context, path, content string) {
		pad.OpenContent(ctx, path, content)
	}
	files.OpenInBrowser = func(ctx context.Context, path, content string) {
		web.OpenContent(ctx, path, content)
	}

	dispatcher := dispatch.New(mgr, files, mail, web, slides, upstream, upstream,
		tasks, cfg.Poll.FanOutDelay, cfg.Poll.FanOutStagger, logger).
		WithMetrics(metrics)
	chatSvc := chat.NewService(upstream, dispatcher, bus, logger)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(metrics.Middleware())
	router.Use(middleware.CORS(cfg.Server.ShellOrigins))
	if cfg.RateLimit.Enabled {
		logger.Info("rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(apihttp.Deps{
		Manager:    mgr,
		Chat:       chatSvc,
		Dispatcher: dispatcher,
		Poller:     poller,
		Files:      files,
		Notepad:    pad,
		Mail:       mail,
		Browser:    web,
		Slideshow:  slides,
		Sync:       syncer,
		Processes:  procs,
		Upstream:   upstream,
		Tasks:      tasks,
		Bus:        bus,
		Config:     cfg,
		Log:        logger,
	})
	wsHandler := ws.NewHandler(bus, chatSvc, cfg.Backend.ChatTimeout, logger).
		WithMetrics(metrics)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Desktop state
	router.GET("/desktop", handlers.Desktop)
	router.POST("/desktop/pointer", handlers.Pointer)
	router.POST("/desktop/viewport", handlers.Viewport)

	// Window lifecycle
	router.GET("/desktop/windows", handlers.ListWindows)
	router.POST("/desktop/windows", handlers.OpenWindow)
	router.POST("/desktop/windows/:id/focus", handlers.FocusWindow)
	router.POST("/desktop/windows/:id/minimize", handlers.MinimizeWindow)
	router.POST("/desktop/windows/:id/maximize", handlers.MaximizeWindow)
	router.POST("/desktop/windows/:id/resize", handlers.ResizeWindow)
	router.DELETE("/desktop/windows/:id", handlers.CloseWindow)
	router.DELETE("/desktop/windows", handlers.CloseAllWindows)

	// Sidebar chat
	router.POST("/desktop/chat", handlers.SubmitChat)
	router.GET("/desktop/chat", handlers.ChatMessages)
	router.GET("/desktop/chat/stream", handlers.ChatStream)

	// Notifications
	router.GET("/desktop/notifications", handlers.Notifications)
	router.POST("/desktop/notifications/seen", handlers.MarkNotificationsSeen)

	// File manager
	router.POST("/desktop/files/:id/list", handlers.FilesList)
	router.POST("/desktop/files/:id/open", handlers.FilesOpen)
	router.POST("/desktop/files/:id/file", handlers.FilesCreate)
	router.POST("/desktop/files/:id/folder", handlers.FilesCreateFolder)
	router.POST("/desktop/files/:id/delete", handlers.FilesDelete)

	// Notepad
	router.POST("/desktop/notepad/open", handlers.NotepadOpen)
	router.POST("/desktop/notepad/:id/load", handlers.NotepadLoad)
	router.POST("/desktop/notepad/:id/save", handlers.NotepadSave)

	// Mail
	router.POST("/desktop/mail/:id/inbox", handlers.MailInbox)
	router.POST("/desktop/mail/:id/next", handlers.MailNext)
	router.POST("/desktop/mail/:id/prev", handlers.MailPrev)
	router.POST("/desktop/mail/:id/notifications", handlers.MailNotifications)
	router.POST("/desktop/mail/:id/compose", handlers.MailCompose)

	// Browser
	router.POST("/desktop/browser/:id/navigate", handlers.BrowserNavigate)
	router.POST("/desktop/browser/:id/back", handlers.BrowserBack)
	router.POST("/desktop/browser/:id/forward", handlers.BrowserForward)
	router.POST("/desktop/browser/:id/control", handlers.BrowserControl)

	// Slideshow
	router.POST("/desktop/slideshow/open", handlers.SlideshowOpen)
	router.POST("/desktop/slideshow/:id/generate", handlers.SlideshowGenerate)
	router.POST("/desktop/slideshow/:id/show", handlers.SlideshowShow)
	router.POST("/desktop/slideshow/:id/next", handlers.SlideshowNext)
	router.POST("/desktop/slideshow/:id/prev", handlers.SlideshowPrev)
	router.POST("/desktop/slideshow/:id/save", handlers.SlideshowSave)
	router.POST("/desktop/slideshow/:id/load", handlers.SlideshowLoad)

	// Sync
	router.POST("/desktop/sync/:id/refresh", handlers.SyncRefresh)
	router.POST("/desktop/sync/:id/connect", handlers.SyncConnect)
	router.POST("/desktop/sync/:id/popup-closed", handlers.SyncPopupClosed)
	router.POST("/desktop/sync/:id/disconnect", handlers.SyncDisconnect)

	// Processes
	router.POST("/desktop/processes/:id/active", handlers.ProcessesActive)
	router.POST("/desktop/processes/:id/completed", handlers.ProcessesCompleted)
	router.POST("/desktop/processes/:id/logs", handlers.ProcessesLogs)
	router.POST("/desktop/processes/:id/archive", handlers.ProcessesArchive)

	// WebSocket event feed
	router.GET("/stream", wsHandler.HandleConnection)

	logger.Info("server initialized")

	return &Server{
		router:  router,
		mgr:     mgr,
		poller:  poller,
		tasks:   tasks,
		bus:     bus,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

// Run starts the notification poller and the HTTP server.
func (s *Server) Run() error {
	s.poller.Start()
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close stops background work and flushes logs.
func (s *Server) Close() error {
	s.logger.Info("shutting down")
	s.tasks.StopAll()
	s.bus.Close()
	s.logger.Sync()
	return nil
}
