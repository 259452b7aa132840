package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"review_carousel/internal/widget"
)

// MountFunc (re)mounts the widget onto the board.
type MountFunc func() error

type mountedMsg struct{ err error }

// Model draws the fragments the widget shows on its Board and maps keys to
// the widget's controls.
type Model struct {
	board  *Board
	mount  MountFunc
	styles Styles

	header widget.View
	stars  widget.View
	card   widget.View

	mounting bool
	err      error
}

func NewModel(board *Board, mount MountFunc) Model {
	return Model{board: board, mount: mount, styles: DefaultStyles(), mounting: true}
}

func (m Model) Init() tea.Cmd { return m.mountCmd() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case viewMsg:
		switch msg.id {
		case widget.IDAverageRating:
			m.header = msg.view
		case widget.IDStarIcons:
			m.stars = msg.view
		case widget.IDReviewContainer:
			m.card = msg.view
		}
		return m, nil

	case mountedMsg:
		m.mounting, m.err = false, msg.err
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			return m, m.activate(widget.IDPrevButton)
		case "right", "l":
			return m, m.activate(widget.IDNextButton)
		case "m":
			if c, ok := m.card.(widget.CardView); ok && c.Model.Content != nil {
				c.Model.Content.ShowMore()
			}
			return m, nil
		case "r":
			if m.mounting {
				return m, nil
			}
			m.mounting = true
			return m, m.mountCmd()
		}
	}
	return m, nil
}

// activate runs the control's handlers off the event loop.
func (m Model) activate(id string) tea.Cmd {
	b := m.board
	return func() tea.Msg {
		b.Activate(id)
		return nil
	}
}

func (m Model) mountCmd() tea.Cmd {
	if m.mount == nil {
		return nil
	}
	mount := m.mount
	return func() tea.Msg { return mountedMsg{err: mount()} }
}

func (m Model) View() string {
	s := m.styles
	var b strings.Builder

	if h, ok := m.header.(widget.HeaderView); ok {
		if h.EntityName != "" {
			b.WriteString(s.Title.Render(h.EntityName))
			b.WriteString("\n")
		}
		line := s.Average.Render(h.Text)
		if st, ok := m.stars.(widget.StarsView); ok {
			line += "  " + s.stars(st.Stars)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	switch c := m.card.(type) {
	case widget.CardView:
		b.WriteString(m.renderCard(c))
	case widget.EmptyView:
		b.WriteString(s.Empty.Render(c.Message))
	default:
		if m.mounting {
			b.WriteString(s.Empty.Render("Loading reviews..."))
		}
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(s.Error.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(s.Footer.Render("←/h prev  →/l next  m show more  r reload  q quit"))
	return b.String()
}

func (m Model) renderCard(c widget.CardView) string {
	s := m.styles
	d := c.Model

	var lines []string
	meta := d.Date
	if label := publisherLabels[d.Publisher]; label != "" {
		meta = label + " · " + meta
	}
	lines = append(lines,
		lipgloss.JoinHorizontal(lipgloss.Top, s.stars(d.Stars), "  ", s.Meta.Render(meta)),
		s.Author.Render(d.AuthorName),
	)
	if d.Content != nil {
		lines = append(lines, s.Body.Render(d.Content.Text()))
		if d.Content.ShowMoreVisible() {
			lines = append(lines, s.ShowMore.Render("Show more"))
		}
	}
	for _, cm := range d.Comments {
		lines = append(lines, s.Comment.Render(cm.AuthorName+": "+cm.Content))
	}
	lines = append(lines, s.Meta.Render(fmt.Sprintf("%d / %d", c.Position, c.Total)))
	return s.Card.Render(strings.Join(lines, "\n"))
}
