// Package filemanager drives the file manager windows: listings,
// navigation, creation and the open-by-type dispatch.
package filemanager

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentDesk/internal/backend"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/wm"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentDesk/internal/shared/types"
)

// AppID is the file manager's registry id.
const AppID = "file_manager"

// FilesAPI is the backend slice the controller needs.
type FilesAPI interface {
	ListFiles(ctx context.Context, path string) (*backend.Listing, error)
	ReadFile(ctx context.Context, path string) (string, error)
	CreateFile(ctx context.Context, path, content string) (string, error)
	CreateFolder(ctx context.Context, path string) error
	DeleteFile(ctx context.Context, path string) error
}

// Opener hands a file off to another app's controller.
type Opener func(ctx context.Context, path, content string)

// Controller owns file manager window state.
type Controller struct {
	mgr   *wm.Manager
	files FilesAPI
	log   *logging.Logger

	// Handoffs into the notepad and browser controllers, injected at
	// wiring time to keep the app packages independent.
	OpenInNotepad Opener
	OpenInBrowser Opener
}

// New creates the controller and registers its window-init hook.
func New(mgr *wm.Manager, files FilesAPI, log *logging.Logger) *Controller {
	c := &Controller{
		mgr:   mgr,
		files: files,
		log:   log.Named("files"),
	}
	mgr.RegisterInit(AppID, func(ctx context.Context, w types.Window) {
		c.List(ctx, w.ID, "/", "")
	})
	return c
}

// List fetches a directory listing into the window. A non-empty pattern
// filters entries by glob match on the name. Fetch failures render as an
// inline error state.
func (c *Controller) List(ctx context.Context, windowID, dir, pattern string) {
	if !c.mgr.Exists(windowID) {
		return
	}

	listing, err := c.files.ListFiles(ctx, dir)
	if err != nil {
		c.log.Warn("listing failed", zap.String("path", dir), zap.Error(err))
		c.mgr.UpdateWindow(windowID, func(w *types.Window) {
			if status := w.View.Region("status"); status != nil {
				status.Text = "Could not load " + dir
				status.Hidden = false
			}
		})
		return
	}

	items := listing.Items
	if pattern != "" {
		items = filterGlob(items, pattern)
	}

	c.mgr.UpdateWindow(windowID, func(w *types.Window) {
		if p := w.View.Region("path"); p != nil {
			p.Text = listing.Path
		}
		if list := w.View.Region("listing"); list != nil {
			list.Items = toViewItems(items)
		}
		if status := w.View.Region("status"); status != nil {
			status.Text = fmt.Sprintf("%d items", len(items))
			status.Hidden = false
		}
	})
}

// Open dispatches a double-clicked entry: folders re-list, HTML goes to
// the browser, everything else goes to the notepad.
func (c *Controller) Open(ctx context.Context, windowID string, item types.FileItem) {
	if item.IsFolder() {
		c.List(ctx, windowID, item.Path, "")
		return
	}

	content, err := c.files.ReadFile(ctx, item.Path)
	if err != nil {
		c.log.Warn("open failed", zap.String("path", item.Path), zap.Error(err))
		c.mgr.UpdateWindow(windowID, func(w *types.Window) {
			if status := w.View.Region("status"); status != nil {
				status.Text = "Could not open " + item.Name
			}
		})
		return
	}

	if isHTML(item.Path, content) {
		if c.OpenInBrowser != nil {
			c.OpenInBrowser(ctx, item.Path, content)
		}
		return
	}
	if c.OpenInNotepad != nil {
		c.OpenInNotepad(ctx, item.Path, content)
	}
}

// NewFile creates a file in the listed directory and refreshes.
func (c *Controller) NewFile(ctx context.Context, windowID, filePath, content string) error {
	if _, err := c.files.CreateFile(ctx, filePath, content); err != nil {
		return fmt.Errorf("create file %s: %w", filePath, err)
	}
	c.List(ctx, windowID, path.Dir(filePath), "")
	return nil
}

// NewFolder creates a directory and refreshes.
func (c *Controller) NewFolder(ctx context.Context, windowID, dirPath string) error {
	if err := c.files.CreateFolder(ctx, dirPath); err != nil {
		return fmt.Errorf("create folder %s: %w", dirPath, err)
	}
	c.List(ctx, windowID, path.Dir(dirPath), "")
	return nil
}

// Delete removes an entry and refreshes.
func (c *Controller) Delete(ctx context.Context, windowID, filePath string) error {
	if err := c.files.DeleteFile(ctx, filePath); err != nil {
		return fmt.Errorf("delete %s: %w", filePath, err)
	}
	c.List(ctx, windowID, path.Dir(filePath), "")
	return nil
}

// RefreshOpenWindows re-lists the root in every open file manager window.
// The dispatcher calls this after file-mutating actions.
func (c *Controller) RefreshOpenWindows(ctx context.Context) {
	for _, w := range c.mgr.Windows() {
		if w.AppID == AppID {
			c.List(ctx, w.ID, "/", "")
		}
	}
}

func filterGlob(items []types.FileItem, pattern string) []types.FileItem {
	out := make([]types.FileItem, 0, len(items))
	for _, item := range items {
		ok, err := doublestar.Match(pattern, item.Name)
		if err != nil {
			// Bad pattern: keep everything rather than hiding the listing.
			return items
		}
		if ok || item.IsFolder() {
			out = append(out, item)
		}
	}
	return out
}

func toViewItems(items []types.FileItem) []types.ViewItem {
	out := make([]types.ViewItem, len(items))
	for i, item := range items {
		glyph := "📄"
		action := "open"
		if item.IsFolder() {
			glyph = "📁"
			action = "navigate"
		}
		out[i] = types.ViewItem{
			ID:     item.Path,
			Label:  item.Name,
			Glyph:  glyph,
			Action: action,
		}
	}
	return out
}

func isHTML(filePath, content string) bool {
	if strings.HasSuffix(strings.ToLower(filePath), ".html") {
		return true
	}
	return mimetype.Detect([]byte(content)).Is("text/html")
}
