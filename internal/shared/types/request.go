package types

// Request bodies for the desktop API surface.

// OpenWindowRequest opens a window for an app, optionally at an explicit
// position.
type OpenWindowRequest struct {
	App      string          `json:"app" binding:"required"`
	Title    string          `json:"title"`
	Position *WindowPosition `json:"position"`
}

// PointerPhase is one step of the drag protocol.
type PointerPhase string

const (
	PointerDown PointerPhase = "down"
	PointerMove PointerPhase = "move"
	PointerUp   PointerPhase = "up"
)

// PointerEvent reports a pointer transition from the rendering shell.
// Region tells the manager where the pointer landed inside the window
// ("header", "control", "content"); drags only begin on the header.
type PointerEvent struct {
	Phase    PointerPhase `json:"phase" binding:"required"`
	X        int          `json:"x"`
	Y        int          `json:"y"`
	WindowID string       `json:"window_id"`
	Region   string       `json:"region"`
}

// ViewportRequest reports the shell's desktop dimensions and sidebar state.
type ViewportRequest struct {
	Width            int  `json:"width" binding:"required"`
	Height           int  `json:"height" binding:"required"`
	SidebarCollapsed bool `json:"sidebar_collapsed"`
}

// ChatRequest carries one sidebar submission.
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ResizeRequest resizes a window.
type ResizeRequest struct {
	Width  int `json:"width" binding:"required"`
	Height int `json:"height" binding:"required"`
}
