// Package events provides the in-process event bus that fans desktop
// state changes out to subscribers, including the WebSocket feed.
package events

import (
	"sync"
)

// Type identifies an event category.
type Type string

const (
	WindowOpened     Type = "window.opened"
	WindowClosed     Type = "window.closed"
	WindowFocused    Type = "window.focused"
	WindowMoved      Type = "window.moved"
	WindowResized    Type = "window.resized"
	WindowMinimized  Type = "window.minimized"
	WindowMaximized  Type = "window.maximized"
	WindowRestored   Type = "window.restored"
	DesktopRelaid    Type = "desktop.relaid"
	IconsChanged     Type = "icons.changed"
	NotificationNew  Type = "notification.new"
	NotificationGone Type = "notification.removed"
	BadgesChanged    Type = "badges.changed"
	ChatMessage      Type = "chat.message"
	AppStateChanged  Type = "app.state"
	SyncStateChanged Type = "sync.state"
)

// Event is a typed payload published on the bus.
type Event struct {
	Type    Type `json:"type"`
	Payload any  `json:"payload,omitempty"`
}

// Bus is a non-blocking publish/subscribe hub. Subscriber channels are
// buffered; events are dropped for subscribers that fall behind rather
// than stalling publishers.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	closed bool
}

const subscriberBuffer = 64

// NewBus creates an event bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan Event)}
}

// Subscribe registers a subscriber and returns its channel plus a cancel
// function. Cancel is idempotent.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan Event)
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// Publish delivers an event to all current subscribers without blocking.
func (b *Bus) Publish(t Type, payload any) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	evt := Event{Type: t, Payload: payload}
	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

// Close shuts the bus down and closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
