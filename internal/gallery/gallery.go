// Package gallery is the full-screen lightbox: an ordered image list, a
// cursor that wraps in both directions, and an open flag.
package gallery

// Gallery holds the lightbox state. The zero value is closed.
type Gallery struct {
	images []string
	index  int
	open   bool
}

// Open shows images starting at start. The list is copied; start is reduced
// modulo the list length. Opening an empty list leaves the gallery closed.
func (g *Gallery) Open(images []string, start int) {
	if len(images) == 0 {
		g.Close()
		return
	}
	g.images = append([]string(nil), images...)
	g.index = wrap(start, len(g.images))
	g.open = true
}

// Next moves one image forward, wrapping after the last.
func (g *Gallery) Next() { g.step(1) }

// Prev moves one image back, wrapping before the first.
func (g *Gallery) Prev() { g.step(-1) }

func (g *Gallery) step(delta int) {
	if !g.open || len(g.images) == 0 {
		return
	}
	g.index = wrap(g.index+delta, len(g.images))
}

// Close discards the image list and the cursor.
func (g *Gallery) Close() {
	g.images = nil
	g.index = 0
	g.open = false
}

// IsOpen reports whether the lightbox is showing.
func (g *Gallery) IsOpen() bool { return g.open }

// Index returns the cursor position.
func (g *Gallery) Index() int { return g.index }

// Len returns the number of images in the open list.
func (g *Gallery) Len() int { return len(g.images) }

// Current returns the image under the cursor, or "" when closed.
func (g *Gallery) Current() string {
	if !g.open {
		return ""
	}
	return g.images[g.index]
}

// Images returns a copy of the open list.
func (g *Gallery) Images() []string {
	return append([]string(nil), g.images...)
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
