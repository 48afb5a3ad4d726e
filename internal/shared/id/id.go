// Package id provides centralized ID generation for the desktop service.
//
// IDs are prefixed ULIDs: lexicographically sortable, unique without
// coordination, and readable in logs (win_*, bsess_*, msg_*). Window ids
// being k-sortable is what makes "monotonic id" cheap: creation order is
// recoverable from the id itself.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// WindowID identifies one open window.
type WindowID string

// BrowserSessionID scopes one browser window's navigation state.
type BrowserSessionID string

// MessageID identifies a chat message.
type MessageID string

const (
	WindowPrefix  = "win"
	SessionPrefix = "bsess"
	MessagePrefix = "msg"
	IconPrefix    = "icon"
)

// Generator produces ULIDs from a guarded entropy source.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand.
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source,
// useful for deterministic tests.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string.
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// WindowID generates a window id string.
func (g *Generator) WindowID() string {
	return g.GenerateWithPrefix(WindowPrefix)
}

// BrowserSessionID generates a browser session id string.
func (g *Generator) BrowserSessionID() string {
	return g.GenerateWithPrefix(SessionPrefix)
}

// MessageID generates a chat message id string.
func (g *Generator) MessageID() string {
	return g.GenerateWithPrefix(MessagePrefix)
}

// NewWindowID generates a window id.
func NewWindowID() WindowID {
	return WindowID(Default().GenerateWithPrefix(WindowPrefix))
}

// NewBrowserSessionID generates a browser session id.
func NewBrowserSessionID() BrowserSessionID {
	return BrowserSessionID(Default().GenerateWithPrefix(SessionPrefix))
}

// NewMessageID generates a chat message id.
func NewMessageID() MessageID {
	return MessageID(Default().GenerateWithPrefix(MessagePrefix))
}

// NewIconID generates a desktop icon id.
func NewIconID() string {
	return Default().GenerateWithPrefix(IconPrefix)
}

func (id WindowID) String() string         { return string(id) }
func (id BrowserSessionID) String() string { return string(id) }
func (id MessageID) String() string        { return string(id) }

// IsValid checks whether the part after the prefix parses as a ULID.
func IsValid(id string) bool {
	for i := len(id) - 1; i >= 0; i-- {
		if id[i] == '_' {
			_, err := ulid.Parse(id[i+1:])
			return err == nil
		}
	}
	_, err := ulid.Parse(id)
	return err == nil
}
