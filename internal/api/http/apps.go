package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/AgentDesk/internal/shared/types"
)

// Per-app operation endpoints. Each acts on the window named in the path
// and replies with that window's updated snapshot, so the shell can
// re-render just the affected view.

func (h *Handlers) reply(c *gin.Context, windowID string) {
	w, ok := h.mgr.Get(windowID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "window not found"})
		return
	}
	c.JSON(http.StatusOK, w)
}

func bind[T any](c *gin.Context) (T, bool) {
	var req T
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		var zero T
		return zero, false
	}
	return req, true
}

// FilesList re-lists a directory, optionally filtered by a glob pattern.
func (h *Handlers) FilesList(c *gin.Context) {
	req, ok := bind[struct {
		Path    string `json:"path" binding:"required"`
		Pattern string `json:"pattern"`
	}](c)
	if !ok {
		return
	}
	id := c.Param("id")
	h.files.List(c.Request.Context(), id, req.Path, req.Pattern)
	h.reply(c, id)
}

// FilesOpen opens one listing entry: folders re-list, text files go to the
// notepad, pages to the browser.
func (h *Handlers) FilesOpen(c *gin.Context) {
	req, ok := bind[types.FileItem](c)
	if !ok {
		return
	}
	id := c.Param("id")
	h.files.Open(c.Request.Context(), id, req)
	h.reply(c, id)
}

// FilesCreate creates a file and refreshes the listing.
func (h *Handlers) FilesCreate(c *gin.Context) {
	req, ok := bind[struct {
		Path    string `json:"path" binding:"required"`
		Content string `json:"content"`
	}](c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.files.NewFile(c.Request.Context(), id, req.Path, req.Content); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	h.dispatcher.RefreshDesktop(c.Request.Context())
	h.reply(c, id)
}

// FilesCreateFolder creates a directory and refreshes the listing.
func (h *Handlers) FilesCreateFolder(c *gin.Context) {
	req, ok := bind[struct {
		Path string `json:"path" binding:"required"`
	}](c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.files.NewFolder(c.Request.Context(), id, req.Path); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	h.dispatcher.RefreshDesktop(c.Request.Context())
	h.reply(c, id)
}

// FilesDelete removes an entry and refreshes the listing.
func (h *Handlers) FilesDelete(c *gin.Context) {
	req, ok := bind[struct {
		Path string `json:"path" binding:"required"`
	}](c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.files.Delete(c.Request.Context(), id, req.Path); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	h.dispatcher.RefreshDesktop(c.Request.Context())
	h.reply(c, id)
}

// NotepadOpen opens a notepad window for a path or inline content.
func (h *Handlers) NotepadOpen(c *gin.Context) {
	req, ok := bind[struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	}](c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	var w types.Window
	if req.Content != "" {
		w = h.pad.OpenContent(ctx, req.Path, req.Content)
	} else {
		w = h.pad.OpenPath(ctx, req.Path)
	}
	c.JSON(http.StatusCreated, w)
}

// NotepadLoad loads a file into an existing notepad window.
func (h *Handlers) NotepadLoad(c *gin.Context) {
	req, ok := bind[struct {
		Path string `json:"path" binding:"required"`
	}](c)
	if !ok {
		return
	}
	id := c.Param("id")
	h.pad.Load(c.Request.Context(), id, req.Path)
	h.reply(c, id)
}

// NotepadSave persists the editor buffer. A request with a path is a
// save-as; without one the window's current file is written, and an
// untitled buffer is rejected so the shell can prompt for a name.
func (h *Handlers) NotepadSave(c *gin.Context) {
	req, ok := bind[struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	}](c)
	if !ok {
		return
	}
	id := c.Param("id")
	ctx := c.Request.Context()

	var saved string
	var err error
	if req.Path != "" {
		saved, err = h.pad.SaveAs(ctx, id, req.Path, req.Content)
	} else {
		saved, err = h.pad.Save(ctx, id, req.Content)
	}
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": saved})
}

// MailInbox shows one inbox page.
func (h *Handlers) MailInbox(c *gin.Context) {
	req, ok := bind[struct {
		Page int `json:"page"`
	}](c)
	if !ok {
		return
	}
	if req.Page < 1 {
		req.Page = 1
	}
	id := c.Param("id")
	h.mail.ShowInbox(c.Request.Context(), id, req.Page)
	h.reply(c, id)
}

// MailNext advances one inbox page when one exists.
func (h *Handlers) MailNext(c *gin.Context) {
	id := c.Param("id")
	h.mail.NextPage(c.Request.Context(), id)
	h.reply(c, id)
}

// MailPrev goes back one inbox page when one exists.
func (h *Handlers) MailPrev(c *gin.Context) {
	id := c.Param("id")
	h.mail.PrevPage(c.Request.Context(), id)
	h.reply(c, id)
}

// MailNotifications switches the window to the notification tab.
func (h *Handlers) MailNotifications(c *gin.Context) {
	id := c.Param("id")
	h.mail.ShowNotifications(id)
	h.reply(c, id)
}

// MailCompose sends a composed email and returns to the first inbox page.
func (h *Handlers) MailCompose(c *gin.Context) {
	req, ok := bind[struct {
		Instructions string `json:"instructions" binding:"required"`
	}](c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.mail.Compose(c.Request.Context(), id, req.Instructions); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	h.reply(c, id)
}

// BrowserNavigate loads a URL in an existing browser window.
func (h *Handlers) BrowserNavigate(c *gin.Context) {
	req, ok := bind[struct {
		URL       string `json:"url" binding:"required"`
		AgentGoal string `json:"agent_goal"`
	}](c)
	if !ok {
		return
	}
	id := c.Param("id")
	h.web.Navigate(c.Request.Context(), id, req.URL, req.AgentGoal)
	h.reply(c, id)
}

// BrowserBack navigates history backwards.
func (h *Handlers) BrowserBack(c *gin.Context) {
	id := c.Param("id")
	h.web.Back(c.Request.Context(), id)
	h.reply(c, id)
}

// BrowserForward navigates history forwards.
func (h *Handlers) BrowserForward(c *gin.Context) {
	id := c.Param("id")
	h.web.Forward(c.Request.Context(), id)
	h.reply(c, id)
}

// BrowserControl sends a free-form command to the page agent.
func (h *Handlers) BrowserControl(c *gin.Context) {
	req, ok := bind[struct {
		Command string `json:"command" binding:"required"`
	}](c)
	if !ok {
		return
	}
	id := c.Param("id")
	h.web.Control(c.Request.Context(), id, req.Command)
	h.reply(c, id)
}

// SlideshowOpen opens a player window for pre-generated markup.
func (h *Handlers) SlideshowOpen(c *gin.Context) {
	req, ok := bind[struct {
		HTML       string `json:"html" binding:"required"`
		SlideCount int    `json:"slide_count"`
	}](c)
	if !ok {
		return
	}
	w := h.slides.OpenWindow(c.Request.Context(), req.HTML, req.SlideCount)
	c.JSON(http.StatusCreated, w)
}

// SlideshowGenerate generates a deck into an existing window.
func (h *Handlers) SlideshowGenerate(c *gin.Context) {
	req, ok := bind[struct {
		Prompt        string `json:"prompt" binding:"required"`
		TemplateStyle string `json:"template_style"`
	}](c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.slides.Generate(c.Request.Context(), id, req.Prompt, req.TemplateStyle); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	h.reply(c, id)
}

// SlideshowShow jumps to a slide index.
func (h *Handlers) SlideshowShow(c *gin.Context) {
	req, ok := bind[struct {
		Index int `json:"index"`
	}](c)
	if !ok {
		return
	}
	id := c.Param("id")
	h.slides.Show(id, req.Index)
	h.reply(c, id)
}

// SlideshowNext advances one slide.
func (h *Handlers) SlideshowNext(c *gin.Context) {
	id := c.Param("id")
	h.slides.Next(id)
	h.reply(c, id)
}

// SlideshowPrev goes back one slide.
func (h *Handlers) SlideshowPrev(c *gin.Context) {
	id := c.Param("id")
	h.slides.Prev(id)
	h.reply(c, id)
}

// SlideshowSave writes the deck markup to a file.
func (h *Handlers) SlideshowSave(c *gin.Context) {
	req, ok := bind[struct {
		Path string `json:"path" binding:"required"`
	}](c)
	if !ok {
		return
	}
	saved, err := h.slides.Save(c.Request.Context(), c.Param("id"), req.Path)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": saved})
}

// SlideshowLoad loads deck markup from a file.
func (h *Handlers) SlideshowLoad(c *gin.Context) {
	req, ok := bind[struct {
		Path string `json:"path" binding:"required"`
	}](c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.slides.Load(c.Request.Context(), id, req.Path); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	h.reply(c, id)
}

// SyncRefresh re-reads the integration catalog.
func (h *Handlers) SyncRefresh(c *gin.Context) {
	id := c.Param("id")
	h.syncer.Refresh(c.Request.Context(), id)
	h.reply(c, id)
}

// SyncConnect starts an integration link flow and returns the popup URL.
func (h *Handlers) SyncConnect(c *gin.Context) {
	req, ok := bind[struct {
		IntegrationID string `json:"integration_id" binding:"required"`
	}](c)
	if !ok {
		return
	}
	link, err := h.syncer.Connect(c.Request.Context(), c.Param("id"), req.IntegrationID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"link": link})
}

// SyncPopupClosed reports that the shell closed the link popup.
func (h *Handlers) SyncPopupClosed(c *gin.Context) {
	id := c.Param("id")
	h.syncer.PopupClosed(id)
	h.reply(c, id)
}

// SyncDisconnect removes a connection from the local view.
func (h *Handlers) SyncDisconnect(c *gin.Context) {
	req, ok := bind[struct {
		IntegrationID string `json:"integration_id" binding:"required"`
	}](c)
	if !ok {
		return
	}
	id := c.Param("id")
	h.syncer.Disconnect(c.Request.Context(), id, req.IntegrationID)
	h.reply(c, id)
}

// ProcessesActive switches to the running-tasks tab.
func (h *Handlers) ProcessesActive(c *gin.Context) {
	id := c.Param("id")
	h.procs.ShowActive(id)
	h.reply(c, id)
}

// ProcessesCompleted switches to the archived-tasks tab.
func (h *Handlers) ProcessesCompleted(c *gin.Context) {
	id := c.Param("id")
	h.procs.ShowCompleted(c.Request.Context(), id)
	h.reply(c, id)
}

// ProcessesLogs reveals one task's output.
func (h *Handlers) ProcessesLogs(c *gin.Context) {
	req, ok := bind[struct {
		NotificationID string `json:"notification_id" binding:"required"`
	}](c)
	if !ok {
		return
	}
	id := c.Param("id")
	h.procs.ShowLogs(id, req.NotificationID)
	h.reply(c, id)
}

// ProcessesArchive dismisses a finished task.
func (h *Handlers) ProcessesArchive(c *gin.Context) {
	req, ok := bind[struct {
		NotificationID string `json:"notification_id" binding:"required"`
	}](c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.procs.Archive(c.Request.Context(), id, req.NotificationID); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	h.reply(c, id)
}
