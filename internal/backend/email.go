package backend

import (
	"context"
	"strconv"

	"github.com/GriffinCanCode/AgentDesk/internal/shared/types"
)

// Email is one inbox entry.
type Email struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	To        string `json:"to,omitempty"`
	Subject   string `json:"subject"`
	Body      string `json:"body,omitempty"`
	Preview   string `json:"preview,omitempty"`
	Timestamp string `json:"timestamp"`
}

// InboxPage is one page of the inbox plus mailbox-wide counters.
type InboxPage struct {
	Emails        []Email                `json:"emails"`
	Pagination    types.MailboxPageState `json:"pagination"`
	ReceivedCount int                    `json:"received_count"`
	SentCount     int                    `json:"sent_count"`
}

// Inbox fetches one page of email summaries.
func (c *Client) Inbox(ctx context.Context, page, perPage int) (*InboxPage, error) {
	query := map[string]string{
		"page":      strconv.Itoa(page),
		"per_page":  strconv.Itoa(perPage),
		"summaries": "true",
	}
	var out struct {
		Success bool `json:"success"`
		InboxPage
	}
	if err := c.getJSON(ctx, "email.inbox", "/api/email/inbox", query, &out); err != nil {
		return nil, err
	}
	if out.Emails == nil {
		out.Emails = []Email{}
	}
	return &out.InboxPage, nil
}

// ComposeSend asks the backend to compose and send an email from free-text
// instructions.
func (c *Client) ComposeSend(ctx context.Context, instructions string) error {
	body := map[string]string{"instructions": instructions}
	return c.postJSON(ctx, "email.compose", "/api/email/compose-send", body, nil)
}

// Notifications fetches the shared notification list.
func (c *Client) Notifications(ctx context.Context) ([]types.Notification, error) {
	var out struct {
		Success       bool                 `json:"success"`
		Notifications []types.Notification `json:"notifications"`
	}
	if err := c.getJSON(ctx, "email.notifications", "/api/email/notifications", nil, &out); err != nil {
		return nil, err
	}
	return out.Notifications, nil
}

// DeleteNotification archives a notification server-side.
func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	return c.deleteJSON(ctx, "email.notification_delete", "/api/email/notifications/"+id)
}

// ArchivedProcesses fetches completed command notifications.
func (c *Client) ArchivedProcesses(ctx context.Context) ([]types.Notification, error) {
	var out struct {
		Success   bool                 `json:"success"`
		Processes []types.Notification `json:"processes"`
	}
	if err := c.getJSON(ctx, "email.archived", "/api/email/archived", nil, &out); err != nil {
		return nil, err
	}
	return out.Processes, nil
}
