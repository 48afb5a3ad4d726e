// Package ws streams desktop events to the rendering shell over a
// WebSocket connection.
package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentDesk/internal/domain/chat"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/events"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/monitoring"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is one inbound shell request.
type Message struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

// Handler manages WebSocket connections.
type Handler struct {
	bus         *events.Bus
	chat        *chat.Service
	chatTimeout time.Duration
	metrics     *monitoring.Metrics
	log         *logging.Logger
}

// NewHandler creates a WebSocket handler.
func NewHandler(bus *events.Bus, chatSvc *chat.Service, chatTimeout time.Duration, log *logging.Logger) *Handler {
	return &Handler{
		bus:         bus,
		chat:        chatSvc,
		chatTimeout: chatTimeout,
		log:         log.Named("ws"),
	}
}

// WithMetrics attaches metrics collectors.
func (h *Handler) WithMetrics(metrics *monitoring.Metrics) *Handler {
	h.metrics = metrics
	return h
}

// HandleConnection upgrades the request and fans desktop events out until
// the shell disconnects. Inbound frames carry chat submissions and pings.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.WSConnections.Inc()
		defer h.metrics.WSConnections.Dec()
	}

	var writeMu sync.Mutex
	send := func(v interface{}) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(v)
	}

	// Subscribe before the welcome frame so no event published after the
	// shell sees it can be missed.
	ch, cancel := h.bus.Subscribe()
	defer cancel()

	send(map[string]interface{}{
		"type":    "system",
		"message": "connected",
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for evt := range ch {
			if err := send(evt); err != nil {
				return
			}
		}
	}()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		switch msg.Type {
		case "chat":
			h.submit(msg.Message)
		case "ping":
			send(map[string]interface{}{"type": "pong"})
		default:
			send(map[string]interface{}{
				"type":    "error",
				"message": "unknown message type",
			})
		}
	}

	cancel()
	<-done
}

func (h *Handler) submit(message string) {
	if message == "" || h.chat == nil {
		return
	}
	ctx, cancelCtx := context.WithTimeout(context.Background(), h.chatTimeout)
	go func() {
		defer cancelCtx()
		h.chat.Submit(ctx, message)
	}()
}
