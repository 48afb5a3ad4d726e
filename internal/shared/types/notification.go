package types

// NotificationType distinguishes inbound email notifications from command
// execution notifications.
type NotificationType string

const (
	NotificationEmail   NotificationType = "email"
	NotificationCommand NotificationType = "command"
)

// Notification is a backend-sourced event surfaced for display and badging.
// Read status is client-local, derived from the poller's seen-id set; it is
// never written back except through explicit archive calls.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Subject   string           `json:"subject"`
	From      string           `json:"from"`
	Body      string           `json:"body,omitempty"`
	Command   string           `json:"command,omitempty"`
	Timestamp string           `json:"timestamp"`
	Read      bool             `json:"read"`

	// Command execution fields, populated for Type == "command".
	Status   string `json:"status,omitempty"`
	Progress string `json:"progress,omitempty"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`

	// Archive bookkeeping from the archived-processes endpoint.
	ArchivedAt  string `json:"archived_at,omitempty"`
	CompletedAt string `json:"completed_at,omitempty"`
	FailedAt    string `json:"failed_at,omitempty"`
}

// TerminalStatus reports whether a command notification has finished.
func (n *Notification) TerminalStatus() bool {
	return n.Status == "completed" || n.Status == "failed"
}

// BadgeCounts is the derived unread state pushed after each poll cycle.
type BadgeCounts struct {
	MailUnread  int `json:"mail_unread"`
	TotalUnread int `json:"total_unread"`
}
