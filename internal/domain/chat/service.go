// Package chat owns the sidebar conversation: message log, single-JSON
// results and the streaming exchange state machine.
package chat

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentDesk/internal/backend"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/dispatch"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/events"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentDesk/internal/shared/id"
	"github.com/GriffinCanCode/AgentDesk/internal/shared/types"
)

// Assistant is the backend slice the service needs.
type Assistant interface {
	Chat(ctx context.Context, message string) (*backend.ChatReply, error)
}

// Service owns the conversation log and drives one exchange at a time
// through to dispatch.
type Service struct {
	assistant  Assistant
	dispatcher *dispatch.Dispatcher
	bus        *events.Bus
	log        *logging.Logger
	gen        *id.Generator

	mu       sync.RWMutex
	messages []types.ChatMessage
}

// NewService creates the chat service.
func NewService(assistant Assistant, dispatcher *dispatch.Dispatcher, bus *events.Bus, log *logging.Logger) *Service {
	return &Service{
		assistant:  assistant,
		dispatcher: dispatcher,
		bus:        bus,
		log:        log.Named("chat"),
		gen:        id.Default(),
	}
}

// Submit sends one user message and applies the reply. Transport failures
// surface as a final assistant message, not an error to the shell.
func (s *Service) Submit(ctx context.Context, message string) {
	s.append(types.RoleUser, message, true)

	reply, err := s.assistant.Chat(ctx, message)
	if err != nil {
		s.log.Warn("chat submission failed", zap.Error(err))
		s.append(types.RoleAssistant, "Sorry, I could not reach the assistant.", true)
		return
	}

	if reply.Result != nil {
		s.append(types.RoleAssistant, reply.Result.Response, true)
		s.dispatcher.Dispatch(ctx, reply.Result)
		return
	}
	s.consumeStream(ctx, reply.Stream)
}

// consumeStream applies the streaming protocol: the first progress event
// creates one provisional assistant message, later progress rewrites it in
// place, and the terminal event finalizes it. A stream that ends without a
// terminal event finalizes whatever text is showing.
func (s *Service) consumeStream(ctx context.Context, stream <-chan types.StreamEvent) {
	var provisionalID string
	for evt := range stream {
		switch evt.Type {
		case types.StreamProgress:
			if provisionalID == "" {
				provisionalID = s.append(types.RoleAssistant, evt.Message, false)
			} else {
				s.rewrite(provisionalID, evt.Message, false)
			}
		case types.StreamComplete, types.StreamError:
			if provisionalID == "" {
				provisionalID = s.append(types.RoleAssistant, evt.Message, true)
			} else {
				s.rewrite(provisionalID, evt.Message, true)
			}
			if evt.Type == types.StreamComplete {
				s.dispatcher.RefreshDesktop(ctx)
			}
			return
		default:
			s.log.Debug("ignoring unknown stream event",
				zap.String("type", string(evt.Type)))
		}
	}
	if provisionalID != "" {
		s.rewrite(provisionalID, "", true)
	}
}

// Messages returns a copy of the conversation log.
func (s *Service) Messages() []types.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.ChatMessage(nil), s.messages...)
}

func (s *Service) append(role types.ChatRole, text string, final bool) string {
	msg := types.ChatMessage{
		ID:        s.gen.MessageID(),
		Role:      role,
		Text:      text,
		Final:     final,
		CreatedAt: time.Now(),
	}
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	s.bus.Publish(events.ChatMessage, msg)
	return msg.ID
}

// rewrite updates a message in place; an empty text keeps the current one.
func (s *Service) rewrite(msgID, text string, final bool) {
	var updated types.ChatMessage
	s.mu.Lock()
	for i := range s.messages {
		if s.messages[i].ID != msgID {
			continue
		}
		if text != "" {
			s.messages[i].Text = text
		}
		s.messages[i].Final = final
		updated = s.messages[i]
		break
	}
	s.mu.Unlock()

	if updated.ID != "" {
		s.bus.Publish(events.ChatMessage, updated)
	}
}
