// Package render maps review records to display-ready models.
package render

import (
	"strconv"
	"strings"
	"time"

	"review_carousel/internal/domain"
	"review_carousel/internal/rating"
)

const (
	DefaultTruncateAt = 175
	Ellipsis          = "..."
	DateFallback      = "Date Not Available"

	dateLayout = "January 2, 2006"

	minEpochMillisDigits = 12 // 1973-03-03 onwards
)

var DefaultIcons = map[domain.Publisher]string{
	domain.PublisherGoogleMyBusiness: "https://www.yext-static.com/cms/spark/1/site-icon-250.svg",
	domain.PublisherFirstParty:       "https://www.yext-static.com/cms/spark/1/site-icon-283.svg",
	domain.PublisherFacebook:         "https://www.yext-static.com/cms/spark/1/site-icon-71.svg",
}

type Options struct {
	Truncate   bool
	TruncateAt int                         // runes; DefaultTruncateAt when <= 0
	Icons      map[domain.Publisher]string // DefaultIcons when nil
	Location   *time.Location              // UTC when nil
}

type Renderer struct{ opts Options }

func New(opts Options) *Renderer {
	if opts.TruncateAt <= 0 {
		opts.TruncateAt = DefaultTruncateAt
	}
	if opts.Icons == nil {
		opts.Icons = DefaultIcons
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Renderer{opts: opts}
}

type DisplayModel struct {
	Publisher     domain.Publisher
	PublisherIcon string // empty for publishers without an icon
	Date          string
	Stars         [rating.MaxStars]rating.Star
	StarMarkup    string
	AuthorName    string
	Content       *Content // nil when the review has no text
	Comments      []domain.Comment
}

// Render has no side effects; every call yields a fresh Content toggle.
func (r *Renderer) Render(rv domain.ReviewRecord) DisplayModel {
	stars := rating.Stars(rv.RatingValue())
	dm := DisplayModel{
		Publisher:     rv.Publisher,
		PublisherIcon: r.opts.Icons[rv.Publisher],
		Date:          FormatDate(rv.ReviewDate, r.opts.Location),
		Stars:         stars,
		StarMarkup:    rating.Markup(stars),
		AuthorName:    rv.AuthorName,
		Comments:      rv.Comments,
	}
	if rv.Content != "" {
		limit := 0
		if r.opts.Truncate {
			limit = r.opts.TruncateAt
		}
		dm.Content = NewContent(rv.Content, limit)
	}
	return dm
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// FormatDate renders raw as a long-form date ("January 5, 2024"), or
// DateFallback when it is missing or unparseable. Values without a zone are
// read in loc.
func FormatDate(raw string, loc *time.Location) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DateFallback
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t.In(loc).Format(dateLayout)
		}
	}
	// epoch milliseconds; shorter digit runs (20240105) are not timestamps
	if len(raw) < minEpochMillisDigits {
		return DateFallback
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil && ms > 0 {
		return time.UnixMilli(ms).In(loc).Format(dateLayout)
	}
	return DateFallback
}
