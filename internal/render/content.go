package render

// Content is review text with an optional "show more" affordance. Revealing
// is one-way and lives only as long as the render that produced it.
type Content struct {
	full      string
	preview   string
	truncated bool
	revealed  bool
}

// NewContent truncates text to limit runes when it is longer. limit <= 0
// keeps the full text.
func NewContent(text string, limit int) *Content {
	c := &Content{full: text, preview: text}
	if limit <= 0 {
		return c
	}
	if r := []rune(text); len(r) > limit {
		c.preview = string(r[:limit])
		c.truncated = true
	}
	return c
}

// Text is what is currently displayed.
func (c *Content) Text() string {
	if c.ShowMoreVisible() {
		return c.preview + Ellipsis
	}
	return c.full
}

func (c *Content) Full() string { return c.full }

func (c *Content) ShowMoreVisible() bool { return c.truncated && !c.revealed }

// ShowMore reveals the full text and hides the affordance. It reports whether
// anything changed.
func (c *Content) ShowMore() bool {
	if !c.ShowMoreVisible() {
		return false
	}
	c.revealed = true
	return true
}
