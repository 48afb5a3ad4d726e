package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentDesk/internal/domain/events"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/logging"
)

type frame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func dial(t *testing.T, bus *events.Bus) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewHandler(bus, nil, time.Minute, logging.Nop())
	r := gin.New()
	r.GET("/stream", h.HandleConnection)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWelcomeFrame(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()
	conn := dial(t, bus)

	var msg frame
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "system", msg.Type)
}

func TestBusEventsForwarded(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()
	conn := dial(t, bus)

	var welcome frame
	require.NoError(t, conn.ReadJSON(&welcome))

	// The subscription is registered before the welcome frame is sent, so
	// publishing after reading it is safe.
	bus.Publish(events.WindowOpened, map[string]string{"id": "win_1"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var evt struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&evt))
	assert.Equal(t, string(events.WindowOpened), evt.Type)
	assert.Equal(t, "win_1", evt.Payload["id"])
}

func TestPingPong(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()
	conn := dial(t, bus)

	var welcome frame
	require.NoError(t, conn.ReadJSON(&welcome))

	require.NoError(t, conn.WriteJSON(Message{Type: "ping"}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg frame
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "pong", msg.Type)
}

func TestUnknownTypeRejected(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()
	conn := dial(t, bus)

	var welcome frame
	require.NoError(t, conn.ReadJSON(&welcome))

	require.NoError(t, conn.WriteJSON(Message{Type: "summon"}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg frame
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "error", msg.Type)
}
