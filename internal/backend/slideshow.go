package backend

import (
	"context"
)

// Slideshow is a generated deck.
type Slideshow struct {
	Success    bool   `json:"success"`
	HTML       string `json:"html"`
	SlideCount int    `json:"slide_count"`
}

// GenerateSlideshow asks the backend to build a deck from a prompt and a
// template choice.
func (c *Client) GenerateSlideshow(ctx context.Context, prompt, templateStyle string) (*Slideshow, error) {
	body := map[string]string{"prompt": prompt, "template_style": templateStyle}
	var out Slideshow
	if err := c.postJSON(ctx, "slideshow.generate", "/api/slideshow/generate", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
