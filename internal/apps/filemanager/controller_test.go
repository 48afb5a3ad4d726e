package filemanager

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentDesk/internal/backend"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/events"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/views"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/wm"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentDesk/internal/shared/types"
)

type fakeFiles struct {
	mu       sync.Mutex
	listings map[string][]types.FileItem
	contents map[string]string
	listErr  error
	created  []string
}

func (f *fakeFiles) ListFiles(ctx context.Context, path string) (*backend.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return &backend.Listing{Path: path, Items: f.listings[path]}, nil
}

func (f *fakeFiles) ReadFile(ctx context.Context, path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	content, ok := f.contents[path]
	if !ok {
		return "", errors.New("not found")
	}
	return content, nil
}

func (f *fakeFiles) CreateFile(ctx context.Context, path, content string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, path)
	return path, nil
}

func (f *fakeFiles) CreateFolder(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, path)
	return nil
}

func (f *fakeFiles) DeleteFile(ctx context.Context, path string) error { return nil }

func newTestController(t *testing.T, files *fakeFiles) (*Controller, *wm.Manager) {
	t.Helper()
	bus := events.NewBus()
	t.Cleanup(bus.Close)
	mgr := wm.NewManager(views.MustRegistry(), config.Default().Desktop, bus, logging.Nop())
	return New(mgr, files, logging.Nop()), mgr
}

func openWindow(t *testing.T, mgr *wm.Manager) types.Window {
	t.Helper()
	w := mgr.CreateWindow(context.Background(), types.OpenWindowRequest{App: AppID})
	// The init hook lists asynchronously; wait for it to land.
	deadline := time.After(time.Second)
	for {
		got, _ := mgr.Get(w.ID)
		if p := got.View.Region("path"); p != nil && p.Text != "" {
			return got
		}
		select {
		case <-deadline:
			t.Fatal("init hook never populated the listing")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestListPopulatesView(t *testing.T) {
	files := &fakeFiles{listings: map[string][]types.FileItem{
		"/": {
			{Name: "docs", Path: "/docs", Type: types.FileTypeFolder},
			{Name: "a.txt", Path: "/a.txt", Type: types.FileTypeFile},
		},
	}}
	c, mgr := newTestController(t, files)
	w := openWindow(t, mgr)

	c.List(context.Background(), w.ID, "/", "")
	got, _ := mgr.Get(w.ID)
	require.NotNil(t, got.View.Region("listing"))
	assert.Len(t, got.View.Region("listing").Items, 2)
	assert.Equal(t, "2 items", got.View.Region("status").Text)
	assert.Equal(t, "navigate", got.View.Region("listing").Items[0].Action)
	assert.Equal(t, "open", got.View.Region("listing").Items[1].Action)
}

func TestListFailureRendersInlineError(t *testing.T) {
	files := &fakeFiles{listings: map[string][]types.FileItem{"/": {}}}
	c, mgr := newTestController(t, files)
	w := openWindow(t, mgr)

	files.mu.Lock()
	files.listErr = errors.New("backend down")
	files.mu.Unlock()

	c.List(context.Background(), w.ID, "/broken", "")
	got, _ := mgr.Get(w.ID)
	assert.Contains(t, got.View.Region("status").Text, "/broken")
}

func TestGlobFilterKeepsFolders(t *testing.T) {
	files := &fakeFiles{listings: map[string][]types.FileItem{
		"/": {
			{Name: "docs", Path: "/docs", Type: types.FileTypeFolder},
			{Name: "notes.txt", Path: "/notes.txt", Type: types.FileTypeFile},
			{Name: "deck.html", Path: "/deck.html", Type: types.FileTypeFile},
		},
	}}
	c, mgr := newTestController(t, files)
	w := openWindow(t, mgr)

	c.List(context.Background(), w.ID, "/", "*.txt")
	got, _ := mgr.Get(w.ID)
	items := got.View.Region("listing").Items
	require.Len(t, items, 2)
	assert.Equal(t, "docs", items[0].Label)
	assert.Equal(t, "notes.txt", items[1].Label)
}

func TestOpenDispatchesByType(t *testing.T) {
	files := &fakeFiles{
		listings: map[string][]types.FileItem{
			"/":    {{Name: "sub", Path: "/sub", Type: types.FileTypeFolder}},
			"/sub": {},
		},
		contents: map[string]string{
			"/readme.txt": "plain text",
			"/page.html":  "<html><body>hi</body></html>",
		},
	}
	c, mgr := newTestController(t, files)
	w := openWindow(t, mgr)

	var notepadPath, browserPath string
	c.OpenInNotepad = func(ctx context.Context, path, content string) { notepadPath = path }
	c.OpenInBrowser = func(ctx context.Context, path, content string) { browserPath = path }

	ctx := context.Background()
	c.Open(ctx, w.ID, types.FileItem{Name: "sub", Path: "/sub", Type: types.FileTypeFolder})
	got, _ := mgr.Get(w.ID)
	assert.Equal(t, "/sub", got.View.Region("path").Text)

	c.Open(ctx, w.ID, types.FileItem{Name: "readme.txt", Path: "/readme.txt", Type: types.FileTypeFile})
	assert.Equal(t, "/readme.txt", notepadPath)
	assert.Empty(t, browserPath)

	c.Open(ctx, w.ID, types.FileItem{Name: "page.html", Path: "/page.html", Type: types.FileTypeFile})
	assert.Equal(t, "/page.html", browserPath)
}

func TestNewFileRefreshesListing(t *testing.T) {
	files := &fakeFiles{listings: map[string][]types.FileItem{"/": {}}}
	c, mgr := newTestController(t, files)
	w := openWindow(t, mgr)

	err := c.NewFile(context.Background(), w.ID, "/new.txt", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"/new.txt"}, files.created)
}
