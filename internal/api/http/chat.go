package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/AgentDesk/internal/domain/events"
	"github.com/GriffinCanCode/AgentDesk/internal/shared/types"
)

// SubmitChat accepts one sidebar message. The exchange runs in the
// background; the shell observes progress through the event stream.
func (h *Handlers) SubmitChat(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.cfg.Backend.ChatTimeout)
	go func() {
		defer cancel()
		h.chat.Submit(ctx, req.Message)
	}()
	c.JSON(http.StatusAccepted, gin.H{"accepted": true})
}

// ChatMessages returns the conversation log.
func (h *Handlers) ChatMessages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"messages": h.chat.Messages()})
}

// ChatStream relays chat messages as server-sent events until the client
// disconnects. Provisional messages arrive repeatedly under the same id;
// the shell rewrites in place.
func (h *Handlers) ChatStream(c *gin.Context) {
	ch, cancel := h.bus.Subscribe()
	defer cancel()

	c.Writer.Header().Set("Content-Type", sse.ContentType)
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	done := c.Request.Context().Done()
	for {
		select {
		case <-done:
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			if evt.Type != events.ChatMessage {
				continue
			}
			if err := sse.Encode(c.Writer, sse.Event{
				Event: string(evt.Type),
				Data:  evt.Payload,
			}); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}
