// Package views holds the catalog of application view layouts. The
// catalog ships embedded in the binary; controllers clone an app's view
// at window creation and mutate the clone.
package views

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/GriffinCanCode/AgentDesk/internal/shared/types"
)

//go:embed catalog.yaml
var catalogYAML []byte

type catalogFile struct {
	Apps map[string]appEntry `yaml:"apps"`
}

type appEntry struct {
	Title  string         `yaml:"title"`
	Glyph  string         `yaml:"glyph"`
	Color  string         `yaml:"color"`
	Order  int            `yaml:"order"`
	Hidden bool           `yaml:"hidden"`
	View   types.ViewSpec `yaml:"view"`
}

// AppInfo describes a registered application.
type AppInfo struct {
	ID    string
	Title string
	Glyph string
	Color string
	Order int
}

// Registry resolves app IDs to their metadata and initial views.
type Registry struct {
	mu   sync.RWMutex
	apps map[string]appEntry
}

// NewRegistry parses the embedded catalog.
func NewRegistry() (*Registry, error) {
	return parse(catalogYAML)
}

// MustRegistry parses the embedded catalog or panics. The catalog is a
// build artifact; failing to parse it is a programming error.
func MustRegistry() *Registry {
	r, err := NewRegistry()
	if err != nil {
		panic(err)
	}
	return r
}

func parse(data []byte) (*Registry, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse view catalog: %w", err)
	}
	if len(file.Apps) == 0 {
		return nil, fmt.Errorf("view catalog defines no apps")
	}
	return &Registry{apps: file.Apps}, nil
}

// Info returns metadata for an app ID.
func (r *Registry) Info(appID string) (AppInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.apps[appID]
	if !ok {
		return AppInfo{}, false
	}
	return AppInfo{ID: appID, Title: entry.Title, Glyph: entry.Glyph, Color: entry.Color, Order: entry.Order}, true
}

// Build returns a fresh copy of the app's initial view. Apps the catalog
// does not know get the default template, so a window can always open.
func (r *Registry) Build(appID string) *types.ViewSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if entry, ok := r.apps[appID]; ok {
		return entry.View.Clone()
	}
	if fallback, ok := r.apps["default"]; ok {
		return fallback.View.Clone()
	}
	return &types.ViewSpec{
		Kind: "blank",
		Regions: []types.Region{
			{ID: "body", Kind: "detail", Text: "No view available for " + appID},
		},
	}
}

// Title returns the display title for an app, or the ID itself when the
// app is unknown.
func (r *Registry) Title(appID string) string {
	if info, ok := r.Info(appID); ok {
		return info.Title
	}
	return appID
}

// List returns all registered apps sorted by ID.
func (r *Registry) List() []AppInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]AppInfo, 0, len(r.apps))
	for id, entry := range r.apps {
		out = append(out, AppInfo{ID: id, Title: entry.Title, Glyph: entry.Glyph, Color: entry.Color})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Desktop returns the apps that carry a desktop icon, in grid order.
// Hidden apps still open as windows but never appear on the desktop.
func (r *Registry) Desktop() []AppInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]AppInfo, 0, len(r.apps))
	for id, entry := range r.apps {
		if entry.Hidden {
			continue
		}
		out = append(out, AppInfo{ID: id, Title: entry.Title, Glyph: entry.Glyph, Color: entry.Color, Order: entry.Order})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}
