package notepad

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentDesk/internal/domain/events"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/views"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/wm"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentDesk/internal/shared/types"
)

type fakeFiles struct {
	contents map[string]string
	writeErr error
}

func (f *fakeFiles) ReadFile(ctx context.Context, path string) (string, error) {
	content, ok := f.contents[path]
	if !ok {
		return "", errors.New("not found")
	}
	return content, nil
}

func (f *fakeFiles) WriteFile(ctx context.Context, path, content string) (string, error) {
	if f.writeErr != nil {
		return "", f.writeErr
	}
	f.contents[path] = content
	return "/home" + path, nil
}

func (f *fakeFiles) CreateFile(ctx context.Context, path, content string) (string, error) {
	f.contents[path] = content
	return "/home" + path, nil
}

func newTestController(t *testing.T, files *fakeFiles) (*Controller, *wm.Manager) {
	t.Helper()
	bus := events.NewBus()
	t.Cleanup(bus.Close)
	mgr := wm.NewManager(views.MustRegistry(), config.Default().Desktop, bus, logging.Nop())
	return New(mgr, files, logging.Nop()), mgr
}

func TestOpenContentFillsEditor(t *testing.T) {
	c, mgr := newTestController(t, &fakeFiles{contents: map[string]string{}})

	w := c.OpenContent(context.Background(), "/docs/readme.txt", "hello world")
	got, _ := mgr.Get(w.ID)
	assert.Equal(t, "readme.txt", got.Title)
	assert.Equal(t, "/docs/readme.txt", got.View.Region("filename").Text)
	assert.Equal(t, "hello world", got.View.Region("editor").Text)
}

func openReq() types.OpenWindowRequest {
	return types.OpenWindowRequest{App: AppID}
}

func TestLoadFailureRendersInline(t *testing.T) {
	c, mgr := newTestController(t, &fakeFiles{contents: map[string]string{}})

	w := mgr.CreateWindow(context.Background(), openReq())
	c.Load(context.Background(), w.ID, "/missing.txt")

	got, _ := mgr.Get(w.ID)
	status := got.View.Region("status")
	if assert.NotNil(t, status) {
		assert.Contains(t, status.Text, "/missing.txt")
		assert.False(t, status.Hidden)
	}
}

func TestSaveWithoutPathReportsErrNoPath(t *testing.T) {
	c, mgr := newTestController(t, &fakeFiles{contents: map[string]string{}})

	w := mgr.CreateWindow(context.Background(), openReq())
	_, err := c.Save(context.Background(), w.ID, "draft")
	assert.ErrorIs(t, err, ErrNoPath)
}

func TestSaveAsEchoesCanonicalPath(t *testing.T) {
	files := &fakeFiles{contents: map[string]string{}}
	c, mgr := newTestController(t, files)

	w := mgr.CreateWindow(context.Background(), openReq())
	canonical, err := c.SaveAs(context.Background(), w.ID, "/notes.txt", "content")
	require.NoError(t, err)
	assert.Equal(t, "/home/notes.txt", canonical)

	got, _ := mgr.Get(w.ID)
	assert.Equal(t, "/home/notes.txt", got.View.Region("filename").Text)
	assert.Contains(t, got.View.Region("status").Text, "/home/notes.txt")

	// A later Save reuses the echoed path.
	_, err = c.Save(context.Background(), w.ID, "more content")
	require.NoError(t, err)
}

func TestSaveAsFallsBackToCreate(t *testing.T) {
	files := &fakeFiles{contents: map[string]string{}, writeErr: errors.New("missing")}
	c, mgr := newTestController(t, files)

	w := mgr.CreateWindow(context.Background(), openReq())
	canonical, err := c.SaveAs(context.Background(), w.ID, "/fresh.txt", "x")
	require.NoError(t, err)
	assert.Equal(t, "/home/fresh.txt", canonical)
}
