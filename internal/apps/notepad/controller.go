// Package notepad drives the notepad windows: open, save and save-as
// against the path-addressed file backend.
package notepad

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/saintfish/chardet"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentDesk/internal/domain/wm"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentDesk/internal/shared/types"
)

// AppID is the notepad's registry id.
const AppID = "notepad"

// ErrNoPath is returned by Save when the window has no path yet; the
// caller should prompt for one and retry with SaveAs.
var ErrNoPath = errors.New("no file path set")

// FilesAPI is the backend slice the controller needs.
type FilesAPI interface {
	ReadFile(ctx context.Context, path string) (string, error)
	WriteFile(ctx context.Context, path, content string) (string, error)
	CreateFile(ctx context.Context, path, content string) (string, error)
}

// Controller owns notepad window state.
type Controller struct {
	mgr   *wm.Manager
	files FilesAPI
	log   *logging.Logger
}

// New creates the controller.
func New(mgr *wm.Manager, files FilesAPI, log *logging.Logger) *Controller {
	return &Controller{mgr: mgr, files: files, log: log.Named("notepad")}
}

// OpenPath opens a new notepad window showing the file at path.
func (c *Controller) OpenPath(ctx context.Context, filePath string) types.Window {
	w := c.mgr.CreateWindow(ctx, types.OpenWindowRequest{
		App:   AppID,
		Title: path.Base(filePath),
	})
	c.Load(ctx, w.ID, filePath)
	return w
}

// OpenContent opens a new notepad window pre-filled with content already
// in hand (the file manager read it during open dispatch).
func (c *Controller) OpenContent(ctx context.Context, filePath, content string) types.Window {
	w := c.mgr.CreateWindow(ctx, types.OpenWindowRequest{
		App:   AppID,
		Title: path.Base(filePath),
	})
	c.fill(w.ID, filePath, content)
	return w
}

// Load fetches the file into an existing window. Failures render inline.
func (c *Controller) Load(ctx context.Context, windowID, filePath string) {
	content, err := c.files.ReadFile(ctx, filePath)
	if err != nil {
		c.log.Warn("open failed", zap.String("path", filePath), zap.Error(err))
		c.mgr.UpdateWindow(windowID, func(w *types.Window) {
			if status := w.View.Region("status"); status != nil {
				status.Text = "Could not open " + filePath
				status.Hidden = false
			}
		})
		return
	}
	c.fill(windowID, filePath, content)
}

func (c *Controller) fill(windowID, filePath, content string) {
	charset := detectCharset(content)
	c.mgr.UpdateWindow(windowID, func(w *types.Window) {
		w.Title = path.Base(filePath)
		if name := w.View.Region("filename"); name != nil {
			name.Text = filePath
		}
		if editor := w.View.Region("editor"); editor != nil {
			editor.Text = content
		}
		if status := w.View.Region("status"); status != nil {
			status.Text = charset
			status.Hidden = charset == ""
		}
	})
}

// Save writes the window's content back to its current path. Returns
// ErrNoPath when the window was never given one.
func (c *Controller) Save(ctx context.Context, windowID, content string) (string, error) {
	w, ok := c.mgr.Get(windowID)
	if !ok {
		return "", fmt.Errorf("window %s not open", windowID)
	}
	name := w.View.Region("filename")
	if name == nil || name.Text == "" || name.Text == "untitled.txt" {
		return "", ErrNoPath
	}
	return c.SaveAs(ctx, windowID, name.Text, content)
}

// SaveAs writes content to an explicit path and echoes the canonical path
// back into the window.
func (c *Controller) SaveAs(ctx context.Context, windowID, filePath, content string) (string, error) {
	canonical, err := c.files.WriteFile(ctx, filePath, content)
	if err != nil {
		// The path may not exist yet; fall back to create.
		canonical, err = c.files.CreateFile(ctx, filePath, content)
		if err != nil {
			return "", fmt.Errorf("save %s: %w", filePath, err)
		}
	}

	c.mgr.UpdateWindow(windowID, func(w *types.Window) {
		w.Title = path.Base(canonical)
		if name := w.View.Region("filename"); name != nil {
			name.Text = canonical
		}
		if editor := w.View.Region("editor"); editor != nil {
			editor.Text = content
		}
		if status := w.View.Region("status"); status != nil {
			status.Text = "Saved to " + canonical
			status.Hidden = false
		}
	})
	return canonical, nil
}

// detectCharset names the text encoding for the status line. Plain ASCII
// and unrecognizable content report nothing.
func detectCharset(content string) string {
	if content == "" {
		return ""
	}
	result, err := chardet.NewTextDetector().DetectBest([]byte(content))
	if err != nil {
		return ""
	}
	return result.Charset
}
