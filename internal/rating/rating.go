// Package rating derives the aggregate rating and the five-slot star display.
package rating

import (
	"fmt"
	"math"
	"strings"

	"review_carousel/internal/domain"
)

const (
	MaxStars = 5
	// NoRatingsLabel is shown instead of an average when there are no reviews.
	NoRatingsLabel = "No ratings yet"
)

type Star int

const (
	Empty Star = iota
	Half
	Filled
)

func (s Star) String() string {
	switch s {
	case Filled:
		return "filled"
	case Half:
		return "half"
	default:
		return "empty"
	}
}

// ComputeAverage is the arithmetic mean of all ratings, absent ones counting
// as 0. ok is false for an empty list.
func ComputeAverage(reviews []domain.ReviewRecord) (avg float64, ok bool) {
	if len(reviews) == 0 {
		return 0, false
	}
	var total float64
	for _, r := range reviews {
		total += r.RatingValue()
	}
	return total / float64(len(reviews)), true
}

// Stars maps a rating onto five slots. Slot i is Filled below floor(v), Half
// between floor(v) and ceil(v), Empty otherwise. v is clamped to [0,5].
func Stars(v float64) [MaxStars]Star {
	v = clamp(v)
	lo, hi := math.Floor(v), math.Ceil(v)
	var out [MaxStars]Star
	for i := range out {
		f := float64(i)
		switch {
		case f < lo:
			out[i] = Filled
		case f < hi:
			out[i] = Half
		default:
			out[i] = Empty
		}
	}
	return out
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > MaxStars {
		return MaxStars
	}
	return v
}

// Markup renders stars as the span markup the embed stylesheet targets.
func Markup(stars [MaxStars]Star) string {
	var sb strings.Builder
	for _, s := range stars {
		switch s {
		case Filled:
			sb.WriteString(`<span class="star filled">&#9733;</span>`)
		case Half:
			sb.WriteString(`<span class="star half-filled">&#9733;</span>`)
		default:
			sb.WriteString(`<span class="star">&#9734;</span>`)
		}
	}
	return sb.String()
}

// HeaderText formats the aggregate header, e.g. "4.25 / 5".
func HeaderText(avg float64, ok bool) string {
	if !ok {
		return NoRatingsLabel
	}
	return fmt.Sprintf("%.2f / %d", avg, MaxStars)
}
