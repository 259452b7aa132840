package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"review_carousel/internal/carousel/carouseltest"
	"review_carousel/internal/domain"
	"review_carousel/internal/widget"
)

// recorder stands in for tea.Program.Send.
type recorder struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *recorder) send(msg tea.Msg) {
	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()
}

// drain feeds every recorded message to the model.
func (r *recorder) drain(m Model) Model {
	r.mu.Lock()
	msgs := r.msgs
	r.msgs = nil
	r.mu.Unlock()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

type staticSource struct {
	reviews []domain.ReviewRecord
	err     error
}

func (s staticSource) FetchEntityDetails(ctx context.Context, base, id string) (domain.EntityDetails, error) {
	return domain.EntityDetails{ID: id, Name: "Main St Bakery"}, s.err
}

func (s staticSource) FetchReviews(ctx context.Context, base, id string) ([]domain.ReviewRecord, error) {
	return s.reviews, s.err
}

func pf(f float64) *float64 { return &f }

func mounted(t *testing.T, src staticSource) (Model, *Board, *recorder, *widget.Widget) {
	t.Helper()
	rec := &recorder{}
	board := NewBoard()
	board.Attach(rec.send)

	cfg := widget.DefaultConfig("http://feed/", "42")
	cfg.Container = board
	cfg.Ticker = (&carouseltest.Clock{}).NewTicker
	w, err := widget.New(cfg, src)
	require.NoError(t, err)
	t.Cleanup(w.Teardown)

	m := NewModel(board, func() error { return w.Init(context.Background()) })
	msg := m.Init()()
	next, _ := m.Update(msg)
	return rec.drain(next.(Model)), board, rec, w
}

func TestModel_MountAndNavigate(t *testing.T) {
	long := strings.Repeat("x", 200)
	m, board, rec, w := mounted(t, staticSource{reviews: []domain.ReviewRecord{
		{AuthorName: "Ana", Rating: pf(5), Publisher: domain.PublisherGoogleMyBusiness, ReviewDate: "2024-01-05", Content: long},
		{AuthorName: "Bob", Rating: pf(4), Publisher: domain.PublisherFacebook},
	}})

	require.Equal(t, 1, board.Bound(widget.IDNextButton))
	view := m.View()
	require.Contains(t, view, "Main St Bakery")
	require.Contains(t, view, "4.50 / 5")
	require.Contains(t, view, "Ana")
	require.Contains(t, view, "Google · January 5, 2024")
	require.Contains(t, view, "Show more")
	require.Contains(t, view, "1 / 2")

	next, _ := m.Update(key("m"))
	m = next.(Model)
	require.NotContains(t, m.View(), "Show more")
	c := m.card.(widget.CardView)
	require.Equal(t, long, c.Model.Content.Text())

	next, cmd := m.Update(key("right"))
	m = next.(Model)
	require.NotNil(t, cmd)
	require.Nil(t, cmd())
	m = rec.drain(m)
	require.Contains(t, m.View(), "Bob")
	require.Contains(t, m.View(), "2 / 2")

	next, cmd = m.Update(key("h"))
	cmd()
	m = rec.drain(next.(Model))
	require.Contains(t, m.View(), "Ana")

	s, _ := w.Slide()
	require.Equal(t, 0, s.Index)
}

func TestModel_Reload(t *testing.T) {
	m, board, rec, _ := mounted(t, staticSource{reviews: []domain.ReviewRecord{{AuthorName: "Ana", Rating: pf(3)}}})

	next, cmd := m.Update(key("r"))
	m = next.(Model)
	require.True(t, m.mounting)
	next, _ = m.Update(cmd())
	m = rec.drain(next.(Model))

	require.False(t, m.mounting)
	require.Equal(t, 1, board.Bound(widget.IDPrevButton), "reload does not double-bind")
	require.Contains(t, m.View(), "Ana")
}

func TestModel_FetchFailure(t *testing.T) {
	m, board, _, _ := mounted(t, staticSource{err: errors.New("503 Service Unavailable")})

	view := m.View()
	require.Contains(t, view, widget.EmptyMessage)
	require.Contains(t, view, "No ratings yet")
	require.Contains(t, view, "503 Service Unavailable")
	require.Zero(t, board.Bound(widget.IDNextButton))
}

func TestModel_Quit(t *testing.T) {
	m := NewModel(NewBoard(), nil)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestBoard_UnknownTargets(t *testing.T) {
	b := NewBoard()
	_, ok := b.Slot("nope")
	require.False(t, ok)
	_, ok = b.Control(widget.IDReviewContainer)
	require.False(t, ok)

	s, ok := b.Slot(widget.IDReviewContainer)
	require.True(t, ok)
	s.Show(widget.EmptyView{}) // not attached: dropped
}
