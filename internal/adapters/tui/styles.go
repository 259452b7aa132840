package tui

import (
	"github.com/charmbracelet/lipgloss"

	"review_carousel/internal/domain"
	"review_carousel/internal/rating"
)

var (
	Gold   = lipgloss.Color("#f5b301")
	Muted  = lipgloss.Color("#7a7a7a")
	Accent = lipgloss.Color("#4f8cc9")
	Danger = lipgloss.Color("#d9534f")
)

type Styles struct {
	Title    lipgloss.Style
	Average  lipgloss.Style
	Star     lipgloss.Style
	StarOff  lipgloss.Style
	Card     lipgloss.Style
	Author   lipgloss.Style
	Meta     lipgloss.Style
	Body     lipgloss.Style
	ShowMore lipgloss.Style
	Comment  lipgloss.Style
	Empty    lipgloss.Style
	Error    lipgloss.Style
	Footer   lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true),

		Average: lipgloss.NewStyle().
			Foreground(Gold).
			Bold(true),

		Star: lipgloss.NewStyle().
			Foreground(Gold),

		StarOff: lipgloss.NewStyle().
			Foreground(Muted),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Accent).
			Padding(0, 1).
			Width(64),

		Author: lipgloss.NewStyle().
			Bold(true),

		Meta: lipgloss.NewStyle().
			Foreground(Muted),

		Body: lipgloss.NewStyle().
			Width(60),

		ShowMore: lipgloss.NewStyle().
			Foreground(Accent).
			Underline(true),

		Comment: lipgloss.NewStyle().
			Foreground(Muted).
			PaddingLeft(2).
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(Muted),

		Empty: lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true),

		Error: lipgloss.NewStyle().
			Foreground(Danger),

		Footer: lipgloss.NewStyle().
			Foreground(Muted).
			MarginTop(1),
	}
}

var starGlyphs = map[rating.Star]string{
	rating.Filled: "★",
	rating.Half:   "⯪",
	rating.Empty:  "☆",
}

func (s Styles) stars(row [rating.MaxStars]rating.Star) string {
	out := ""
	for _, st := range row {
		style := s.Star
		if st == rating.Empty {
			style = s.StarOff
		}
		out += style.Render(starGlyphs[st])
	}
	return out
}

var publisherLabels = map[domain.Publisher]string{
	domain.PublisherGoogleMyBusiness: "Google",
	domain.PublisherFirstParty:       "First party",
	domain.PublisherFacebook:         "Facebook",
}
