// Package tui hosts a review widget inside a bubbletea program. The Board is
// the widget's Surface; the Model draws what the widget shows on it.
package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"review_carousel/internal/widget"
)

// viewMsg carries one fragment the widget rendered into target id.
type viewMsg struct {
	id   string
	view widget.View
}

// Board implements widget.Surface on top of a running tea.Program.
type Board struct {
	mu       sync.Mutex
	send     func(tea.Msg)
	handlers map[string]map[int]func()
	nextID   int
}

func NewBoard() *Board {
	return &Board{handlers: map[string]map[int]func(){}}
}

// Attach routes rendered fragments into the program (normally p.Send).
// Fragments shown before Attach are dropped.
func (b *Board) Attach(send func(tea.Msg)) {
	b.mu.Lock()
	b.send = send
	b.mu.Unlock()
}

func (b *Board) Slot(id string) (widget.Slot, bool) {
	switch id {
	case widget.IDAverageRating, widget.IDStarIcons, widget.IDReviewContainer:
		return slot{id: id, b: b}, true
	}
	return nil, false
}

func (b *Board) Control(id string) (widget.Control, bool) {
	switch id {
	case widget.IDPrevButton, widget.IDNextButton:
		return control{id: id, b: b}, true
	}
	return nil, false
}

// Activate runs every handler bound to control id. It must not run on the
// program's event loop: handlers render, and rendering sends to that loop.
func (b *Board) Activate(id string) {
	b.mu.Lock()
	fns := make([]func(), 0, len(b.handlers[id]))
	for _, fn := range b.handlers[id] {
		fns = append(fns, fn)
	}
	b.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Bound is the number of handlers attached to control id.
func (b *Board) Bound(id string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[id])
}

func (b *Board) show(id string, v widget.View) {
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()
	if send != nil {
		send(viewMsg{id: id, view: v})
	}
}

func (b *Board) bind(id string, fn func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handlers[id] == nil {
		b.handlers[id] = map[int]func(){}
	}
	n := b.nextID
	b.nextID++
	b.handlers[id][n] = fn
	return func() {
		b.mu.Lock()
		delete(b.handlers[id], n)
		b.mu.Unlock()
	}
}

type slot struct {
	id string
	b  *Board
}

func (s slot) Show(v widget.View) { s.b.show(s.id, v) }

type control struct {
	id string
	b  *Board
}

func (c control) Bind(fn func()) func() { return c.b.bind(c.id, fn) }
