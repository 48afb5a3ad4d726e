package backend

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentDesk/internal/shared/types"
)

// ChatReply is the outcome of one chat submission. Exactly one of Result
// and Stream is set: Result for single-JSON responses, Stream for SSE
// responses. A Stream channel is closed when the upstream stream ends.
type ChatReply struct {
	Result *types.AssistantResult
	Stream <-chan types.StreamEvent
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat submits a message to the assistant. The upstream decides per
// request whether to answer with a single JSON object or an event stream.
func (c *Client) Chat(ctx context.Context, message string) (*ChatReply, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var reply *ChatReply
	err := c.breaker.Execute(func() error {
		resp, err := c.stream.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(chatRequest{Message: message}).
			Post("/api/chat")
		if err != nil {
			return fmt.Errorf("POST /api/chat: %w", err)
		}

		body := resp.RawBody()
		if resp.IsError() {
			body.Close()
			return fmt.Errorf("/api/chat returned %s", resp.Status())
		}

		if strings.HasPrefix(resp.Header().Get("Content-Type"), "text/event-stream") {
			reply = &ChatReply{Stream: c.scanStream(body)}
			return nil
		}

		defer body.Close()
		data, err := io.ReadAll(body)
		if err != nil {
			return fmt.Errorf("read /api/chat response: %w", err)
		}
		var result types.AssistantResult
		if err := sonic.Unmarshal(data, &result); err != nil {
			return fmt.Errorf("decode /api/chat response: %w", err)
		}
		reply = &ChatReply{Result: &result}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reply, nil
}

// scanStream decodes "data: {...}" lines into events until the stream
// closes. Malformed chunks are logged and skipped.
func (c *Client) scanStream(body io.ReadCloser) <-chan types.StreamEvent {
	out := make(chan types.StreamEvent)
	go func() {
		defer close(out)
		defer body.Close()

		scanner := bufio.NewScanner(body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if payload == "" {
				continue
			}

			var evt types.StreamEvent
			if err := sonic.Unmarshal([]byte(payload), &evt); err != nil {
				c.log.Warn("skipping malformed stream chunk", zap.Error(err))
				continue
			}
			out <- evt
			if evt.Terminal() {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			c.log.Warn("chat stream ended abnormally", zap.Error(err))
		}
	}()
	return out
}
