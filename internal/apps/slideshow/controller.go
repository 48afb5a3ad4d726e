// Package slideshow drives the slideshow windows: deck generation, the
// clamped player navigation, and save/load through the file backend.
package slideshow

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentDesk/internal/backend"
	"github.com/GriffinCanCode/AgentDesk/internal/domain/wm"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentDesk/internal/shared/types"
)

// AppID is the slideshow's registry id.
const AppID = "slideshow"

// GeneratorAPI is the backend slice that builds decks.
type GeneratorAPI interface {
	GenerateSlideshow(ctx context.Context, prompt, templateStyle string) (*backend.Slideshow, error)
}

// FilesAPI persists decks through the file backend.
type FilesAPI interface {
	ReadFile(ctx context.Context, path string) (string, error)
	CreateFile(ctx context.Context, path, content string) (string, error)
}

// Controller owns slideshow window state.
type Controller struct {
	mgr   *wm.Manager
	gen   GeneratorAPI
	files FilesAPI
	log   *logging.Logger

	mu    sync.Mutex
	decks map[string]types.SlideshowState
}

// New creates the controller.
func New(mgr *wm.Manager, gen GeneratorAPI, files FilesAPI, log *logging.Logger) *Controller {
	c := &Controller{
		mgr:   mgr,
		gen:   gen,
		files: files,
		log:   log.Named("slideshow"),
		decks: make(map[string]types.SlideshowState),
	}
	mgr.RegisterClose(AppID, func(w types.Window) {
		c.mu.Lock()
		delete(c.decks, w.ID)
		c.mu.Unlock()
	})
	return c
}

// Generate builds a deck from a prompt and switches the window to the
// player view.
func (c *Controller) Generate(ctx context.Context, windowID, prompt, templateStyle string) error {
	deck, err := c.gen.GenerateSlideshow(ctx, prompt, templateStyle)
	if err != nil {
		c.log.Warn("deck generation failed", zap.Error(err))
		c.mgr.UpdateWindow(windowID, func(w *types.Window) {
			if controls := w.View.Region("controls"); controls != nil {
				controls.Label = "Generation failed"
			}
		})
		return fmt.Errorf("generate slideshow: %w", err)
	}
	c.Open(windowID, deck.HTML, deck.SlideCount)
	return nil
}

// Open loads a deck into the window's player. When the slide count is
// missing it is recovered from the markup.
func (c *Controller) Open(windowID, html string, slideCount int) {
	if slideCount <= 0 {
		slideCount = countSlides(html)
	}

	state := types.SlideshowState{HTML: html, SlideCount: slideCount}
	c.mu.Lock()
	c.decks[windowID] = state
	c.mu.Unlock()

	c.renderSlide(windowID, state)
}

// OpenWindow creates a new window pre-loaded with a deck, used by the
// open_slideshow action.
func (c *Controller) OpenWindow(ctx context.Context, html string, slideCount int) types.Window {
	w := c.mgr.CreateWindow(ctx, types.OpenWindowRequest{App: AppID})
	c.Open(w.ID, html, slideCount)
	return w
}

// Show jumps to a slide index, clamped to [0, SlideCount-1].
func (c *Controller) Show(windowID string, index int) {
	c.mu.Lock()
	state, ok := c.decks[windowID]
	if !ok {
		c.mu.Unlock()
		return
	}
	state.SlideIndex = clamp(index, state.SlideCount)
	c.decks[windowID] = state
	c.mu.Unlock()

	c.renderSlide(windowID, state)
}

// Next and Prev step through the deck; both clamp at the edges. The shell
// maps arrow-key and space presses onto these.
func (c *Controller) Next(windowID string) {
	if state, ok := c.state(windowID); ok {
		c.Show(windowID, state.SlideIndex+1)
	}
}

func (c *Controller) Prev(windowID string) {
	if state, ok := c.state(windowID); ok {
		c.Show(windowID, state.SlideIndex-1)
	}
}

// Save writes the deck's markup to a path through the file backend.
func (c *Controller) Save(ctx context.Context, windowID, path string) (string, error) {
	state, ok := c.state(windowID)
	if !ok || state.HTML == "" {
		return "", fmt.Errorf("window %s has no deck to save", windowID)
	}
	canonical, err := c.files.CreateFile(ctx, path, state.HTML)
	if err != nil {
		return "", fmt.Errorf("save slideshow %s: %w", path, err)
	}
	return canonical, nil
}

// Load reads a saved deck from a path into the window.
func (c *Controller) Load(ctx context.Context, windowID, path string) error {
	html, err := c.files.ReadFile(ctx, path)
	if err != nil {
		return fmt.Errorf("load slideshow %s: %w", path, err)
	}
	c.Open(windowID, html, 0)
	return nil
}

// State returns the window's deck state.
func (c *Controller) State(windowID string) (types.SlideshowState, bool) {
	return c.state(windowID)
}

func (c *Controller) state(windowID string) (types.SlideshowState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	state, ok := c.decks[windowID]
	return state, ok
}

func (c *Controller) renderSlide(windowID string, state types.SlideshowState) {
	c.mgr.UpdateWindow(windowID, func(w *types.Window) {
		if canvas := w.View.Region("canvas"); canvas != nil {
			canvas.Text = state.HTML
		}
		if controls := w.View.Region("controls"); controls != nil {
			controls.Label = fmt.Sprintf("Slide %d of %d",
				state.SlideIndex+1, state.SlideCount)
			controls.Items = []types.ViewItem{
				{ID: "prev", Label: "Previous", Action: "slide-prev", Disabled: state.SlideIndex == 0},
				{ID: "next", Label: "Next", Action: "slide-next", Disabled: state.SlideIndex >= state.SlideCount-1},
			}
		}
	})
}

func clamp(index, count int) int {
	if count <= 0 {
		return 0
	}
	if index < 0 {
		return 0
	}
	if index >= count {
		return count - 1
	}
	return index
}

// countSlides recovers the slide count from deck markup.
func countSlides(html string) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0
	}
	if n := doc.Find(".slide").Length(); n > 0 {
		return n
	}
	return doc.Find("section").Length()
}
