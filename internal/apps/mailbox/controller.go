// Package mailbox drives the mail windows: paginated inbox, the
// notifications tab and compose-send.
package mailbox

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentDesk/internal/backend"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/notify"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/wm"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentDesk/internal/shared/types"
)

// AppID is the mailbox's registry id.
const AppID = "mailbox"

// PerPage is the fixed inbox page size.
const PerPage = 20

// MailAPI is the backend slice the controller needs.
type MailAPI interface {
	Inbox(ctx context.Context, page, perPage int) (*backend.InboxPage, error)
	ComposeSend(ctx context.Context, instructions string) error
}

// Controller owns mailbox window state.
type Controller struct {
	mgr    *wm.Manager
	mail   MailAPI
	poller *notify.Poller
	log    *logging.Logger

	mu    sync.Mutex
	pages map[string]types.MailboxPageState
}

// New creates the controller and registers its window-init hook.
func New(mgr *wm.Manager, mail MailAPI, poller *notify.Poller, log *logging.Logger) *Controller {
	c := &Controller{
		mgr:    mgr,
		mail:   mail,
		poller: poller,
		log:    log.Named("mailbox"),
		pages:  make(map[string]types.MailboxPageState),
	}
	mgr.RegisterInit(AppID, func(ctx context.Context, w types.Window) {
		c.ShowInbox(ctx, w.ID, 1)
	})
	mgr.RegisterClose(AppID, func(w types.Window) {
		c.mu.Lock()
		delete(c.pages, w.ID)
		c.mu.Unlock()
	})
	return c
}

// ShowInbox fetches one inbox page into the window. Prev/next controls are
// gated by the server-reported has_prev/has_next.
func (c *Controller) ShowInbox(ctx context.Context, windowID string, page int) {
	if page < 1 {
		page = 1
	}
	if !c.mgr.Exists(windowID) {
		return
	}

	inbox, err := c.mail.Inbox(ctx, page, PerPage)
	if err != nil {
		c.log.Warn("inbox fetch failed", zap.Int("page", page), zap.Error(err))
		c.mgr.UpdateWindow(windowID, func(w *types.Window) {
			if pager := w.View.Region("pager"); pager != nil {
				pager.Text = "Could not load inbox"
			}
		})
		return
	}

	state := inbox.Pagination
	state.PerPage = PerPage
	c.mu.Lock()
	c.pages[windowID] = state
	c.mu.Unlock()

	c.mgr.UpdateWindow(windowID, func(w *types.Window) {
		if toolbar := w.View.Region("toolbar"); toolbar != nil {
			toolbar.Label = fmt.Sprintf("Inbox (%d received, %d sent)",
				inbox.ReceivedCount, inbox.SentCount)
		}
		if messages := w.View.Region("messages"); messages != nil {
			messages.Items = emailItems(inbox.Emails)
			messages.Hidden = false
		}
		if pager := w.View.Region("pager"); pager != nil {
			pager.Text = fmt.Sprintf("Page %d of %d", state.Page, state.TotalPages)
			pager.Items = []types.ViewItem{
				{ID: "prev", Label: "Previous", Action: "page-prev", Disabled: !state.HasPrev},
				{ID: "next", Label: "Next", Action: "page-next", Disabled: !state.HasNext},
			}
		}
		if reader := w.View.Region("reader"); reader != nil {
			reader.Hidden = true
		}
		if compose := w.View.Region("compose"); compose != nil {
			compose.Hidden = true
		}
	})
}

// NextPage advances within the server-reported bounds.
func (c *Controller) NextPage(ctx context.Context, windowID string) {
	if state, ok := c.page(windowID); ok && state.HasNext {
		c.ShowInbox(ctx, windowID, state.Page+1)
	}
}

// PrevPage goes back within the server-reported bounds.
func (c *Controller) PrevPage(ctx context.Context, windowID string) {
	if state, ok := c.page(windowID); ok && state.HasPrev {
		c.ShowInbox(ctx, windowID, state.Page-1)
	}
}

// ShowNotifications switches the window to the notifications tab and
// marks everything seen.
func (c *Controller) ShowNotifications(windowID string) {
	items := c.poller.List()
	c.mgr.UpdateWindow(windowID, func(w *types.Window) {
		if toolbar := w.View.Region("toolbar"); toolbar != nil {
			toolbar.Label = "Notifications"
		}
		if messages := w.View.Region("messages"); messages != nil {
			messages.Items = notificationItems(items)
			messages.Hidden = false
		}
		if pager := w.View.Region("pager"); pager != nil {
			pager.Text = fmt.Sprintf("%d notifications", len(items))
			pager.Items = nil
		}
	})
	c.poller.MarkAllSeen()
}

// Compose submits free-text instructions; on success the window returns to
// a freshly refreshed inbox.
func (c *Controller) Compose(ctx context.Context, windowID, instructions string) error {
	if err := c.mail.ComposeSend(ctx, instructions); err != nil {
		return fmt.Errorf("compose-send: %w", err)
	}
	c.ShowInbox(ctx, windowID, 1)
	return nil
}

// RefreshOpenWindows re-fetches each mail window's current page. The
// dispatcher calls this after compose_email actions.
func (c *Controller) RefreshOpenWindows(ctx context.Context) {
	for _, w := range c.mgr.Windows() {
		if w.AppID != AppID {
			continue
		}
		page := 1
		if state, ok := c.page(w.ID); ok {
			page = state.Page
		}
		c.ShowInbox(ctx, w.ID, page)
	}
}

// Page returns the window's pagination state.
func (c *Controller) Page(windowID string) (types.MailboxPageState, bool) {
	return c.page(windowID)
}

func (c *Controller) page(windowID string) (types.MailboxPageState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.pages[windowID]
	return state, ok
}

func emailItems(emails []backend.Email) []types.ViewItem {
	out := make([]types.ViewItem, len(emails))
	for i, e := range emails {
		label := e.Subject
		if e.From != "" {
			label = e.From + ": " + e.Subject
		}
		out[i] = types.ViewItem{ID: e.ID, Label: label, Action: "read"}
	}
	return out
}

func notificationItems(items []types.Notification) []types.ViewItem {
	out := make([]types.ViewItem, len(items))
	for i, n := range items {
		glyph := "🔔"
		if n.Type == types.NotificationEmail {
			glyph = "✉️"
		}
		out[i] = types.ViewItem{ID: n.ID, Label: n.Subject, Glyph: glyph}
	}
	return out
}
