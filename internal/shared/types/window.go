package types

import "time"

// WindowPosition is the top-left corner of a window in desktop coordinates.
type WindowPosition struct {
	Top  int `json:"top"`
	Left int `json:"left"`
}

// WindowSize is a window's outer dimensions in pixels.
type WindowSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Window is the state of one open window. Records are exclusively owned by
// the window store; every accessor returns a copy and other components keep
// only the ID.
type Window struct {
	ID        string         `json:"id"`
	AppID     string         `json:"app_id"`
	Title     string         `json:"title"`
	View      *ViewSpec      `json:"view,omitempty"`
	Position  WindowPosition `json:"position"`
	Size      WindowSize     `json:"size"`
	ZIndex    int            `json:"z_index"`
	Minimized bool           `json:"minimized"`
	Maximized bool           `json:"maximized"`
	CreatedAt time.Time      `json:"created_at"`

	// SavedSize holds the pre-maximize dimensions so un-maximize can
	// restore them.
	SavedSize *WindowSize `json:"saved_size,omitempty"`

	// SessionID is set iff AppID == "browser". Assigned once at creation
	// and immutable afterward.
	SessionID *string `json:"session_id,omitempty"`
}

// Front reports whether this window would be considered front-most among
// the given peers.
func (w *Window) Front(peers []Window) bool {
	for i := range peers {
		if peers[i].ID != w.ID && peers[i].ZIndex >= w.ZIndex {
			return false
		}
	}
	return true
}

// DragState tracks the single active drag. WindowID is empty when no drag
// is in progress.
type DragState struct {
	WindowID string `json:"window_id,omitempty"`
	OffsetX  int    `json:"offset_x"`
	OffsetY  int    `json:"offset_y"`
}

// Active reports whether a drag is in progress.
func (d DragState) Active() bool { return d.WindowID != "" }

// IconKind distinguishes app launcher icons from file-backed desktop icons.
type IconKind string

const (
	IconApp  IconKind = "app"
	IconFile IconKind = "file"
)

// DesktopIcon is one icon on the desktop surface.
type DesktopIcon struct {
	ID       string         `json:"id"`
	Kind     IconKind       `json:"kind"`
	AppID    string         `json:"app_id,omitempty"`
	Path     string         `json:"path,omitempty"`
	Label    string         `json:"label"`
	Glyph    string         `json:"glyph"`
	Color    string         `json:"color,omitempty"`
	Position WindowPosition `json:"position"`
	Badge    int            `json:"badge,omitempty"`
}

// WindowStats summarizes the window store for health reporting.
type WindowStats struct {
	Open      int     `json:"open"`
	Minimized int     `json:"minimized"`
	FrontID   *string `json:"front_id,omitempty"`
}
