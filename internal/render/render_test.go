package render_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"review_carousel/internal/domain"
	"review_carousel/internal/rating"
	"review_carousel/internal/render"
)

func pf(f float64) *float64 { return &f }

func TestRender_FullRecord(t *testing.T) {
	r := render.New(render.Options{})
	dm := r.Render(domain.ReviewRecord{
		AuthorName: "Ana",
		Content:    "Great croissants",
		Publisher:  domain.PublisherFacebook,
		Rating:     pf(3.5),
		ReviewDate: "2024-01-05T10:00:00Z",
		Comments:   []domain.Comment{{AuthorName: "Owner", Content: "Thanks"}},
	})

	require.Equal(t, "Ana", dm.AuthorName)
	require.Equal(t, "January 5, 2024", dm.Date)
	require.Equal(t, render.DefaultIcons[domain.PublisherFacebook], dm.PublisherIcon)
	require.Equal(t, [5]rating.Star{rating.Filled, rating.Filled, rating.Filled, rating.Half, rating.Empty}, dm.Stars)
	require.Equal(t, rating.Markup(dm.Stars), dm.StarMarkup)
	require.NotNil(t, dm.Content)
	require.Equal(t, "Great croissants", dm.Content.Text())
	require.False(t, dm.Content.ShowMoreVisible())
	require.Len(t, dm.Comments, 1)
}

func TestRender_UnknownPublisherAndNoContent(t *testing.T) {
	dm := render.New(render.Options{}).Render(domain.ReviewRecord{AuthorName: "Bo", Publisher: domain.PublisherUnknown})
	require.Empty(t, dm.PublisherIcon)
	require.Nil(t, dm.Content)
	require.Equal(t, render.DateFallback, dm.Date)
	require.Equal(t, [5]rating.Star{}, dm.Stars)
}

func TestFormatDate(t *testing.T) {
	cases := map[string]string{
		"2024-01-05":                    "January 5, 2024",
		"2024-01-05T23:30:00-05:00":     "January 6, 2024",
		"2023-12-31 08:00:00":           "December 31, 2023",
		"Fri, 05 Jan 2024 10:00:00 GMT": "January 5, 2024",
		"1704448800000":                 "January 5, 2024",
		"":                              render.DateFallback,
		"yesterday":                     render.DateFallback,
		"2024-13-45":                    render.DateFallback,
		"20240105":                      render.DateFallback,
		"1704412800":                    render.DateFallback,
		"1704412800000":                 "January 5, 2024",
		"2024-01-05T10:00:00+0000":      "January 5, 2024",
		"2024-01-05T10:00:00.000+0000":  "January 5, 2024",
	}
	for in, want := range cases {
		require.Equal(t, want, render.FormatDate(in, nil), "input %q", in)
	}

	tokyo := time.FixedZone("JST", 9*3600)
	require.Equal(t, "January 6, 2024", render.FormatDate("2024-01-05T20:00:00Z", tokyo))
	ny := time.FixedZone("EST", -5*3600)
	require.Equal(t, "January 5, 2024", render.FormatDate("2024-01-05", ny), "date-only values do not shift")
}

func TestContent_TruncatesAndRevealsOnce(t *testing.T) {
	text := strings.Repeat("x", 200)
	dm := render.New(render.Options{Truncate: true}).Render(domain.ReviewRecord{Content: text})
	c := dm.Content
	require.NotNil(t, c)

	require.True(t, c.ShowMoreVisible())
	require.Equal(t, strings.Repeat("x", 175)+render.Ellipsis, c.Text())

	require.True(t, c.ShowMore())
	require.Equal(t, text, c.Text())
	require.Len(t, c.Text(), 200)
	require.False(t, c.ShowMoreVisible())

	require.False(t, c.ShowMore(), "second activation is a no-op")
	require.Equal(t, text, c.Text())
}

func TestContent_Boundaries(t *testing.T) {
	exact := strings.Repeat("é", 175)
	c := render.NewContent(exact, 175)
	require.False(t, c.ShowMoreVisible())
	require.Equal(t, exact, c.Text())

	c = render.NewContent(strings.Repeat("é", 176), 175)
	require.True(t, c.ShowMoreVisible())
	require.Equal(t, 175+len(render.Ellipsis), len([]rune(c.Text())))

	// truncation disabled
	long := strings.Repeat("y", 500)
	dm := render.New(render.Options{}).Render(domain.ReviewRecord{Content: long})
	require.Equal(t, long, dm.Content.Text())
	require.False(t, dm.Content.ShowMore())
}

func TestRender_FreshToggleEachRender(t *testing.T) {
	r := render.New(render.Options{Truncate: true, TruncateAt: 10})
	rv := domain.ReviewRecord{Content: strings.Repeat("z", 20)}
	first := r.Render(rv)
	require.True(t, first.Content.ShowMore())
	second := r.Render(rv)
	require.True(t, second.Content.ShowMoreVisible())
}
