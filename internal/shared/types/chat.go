package types

import "time"

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one entry in the sidebar conversation. Streaming exchanges
// create a single provisional assistant message whose Text is rewritten in
// place until Final is set.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      ChatRole  `json:"role"`
	Text      string    `json:"text"`
	Final     bool      `json:"final"`
	CreatedAt time.Time `json:"created_at"`
}

// FileType distinguishes listing entries.
type FileType string

const (
	FileTypeFile   FileType = "file"
	FileTypeFolder FileType = "folder"
)

// FileItem is one entry of a backend file listing.
type FileItem struct {
	Name string   `json:"name"`
	Path string   `json:"path"`
	Type FileType `json:"type"`
}

// IsFolder reports whether the entry is a directory.
func (f FileItem) IsFolder() bool { return f.Type == FileTypeFolder }

// MailboxPageState drives inbox pagination queries. PerPage is fixed by the
// view; the rest mirrors the server-reported pagination block.
type MailboxPageState struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	Total      int  `json:"total"`
	HasPrev    bool `json:"has_prev"`
	HasNext    bool `json:"has_next"`
}

// SlideshowState is the player-side state of a generated deck. SlideIndex
// stays within [0, SlideCount-1] whenever SlideCount > 0.
type SlideshowState struct {
	HTML       string `json:"html,omitempty"`
	SlideIndex int    `json:"slide_index"`
	SlideCount int    `json:"slide_count"`
}
