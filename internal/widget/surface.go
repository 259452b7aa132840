package widget

import (
	"review_carousel/internal/rating"
	"review_carousel/internal/render"
)

// Target identifiers a host surface is expected to provide.
const (
	IDAverageRating   = "average-rating"
	IDStarIcons       = "star-icons"
	IDReviewContainer = "review-carousel-container"
	IDPrevButton      = "prev-button"
	IDNextButton      = "next-button"
)

// EmptyMessage is shown in the review container when there is nothing to show.
const EmptyMessage = "No reviews yet"

type View interface{ isView() }

type HeaderView struct {
	EntityName string
	Text       string // "4.25 / 5" or rating.NoRatingsLabel
	Average    float64
	HasRatings bool
}

type StarsView struct {
	Stars  [rating.MaxStars]rating.Star
	Markup string
}

type CardView struct {
	Model    render.DisplayModel
	Position int // 1-based
	Total    int
}

type EmptyView struct{ Message string }

func (HeaderView) isView() {}
func (StarsView) isView()  {}
func (CardView) isView()   {}
func (EmptyView) isView()  {}

type Slot interface {
	Show(v View)
}

type Control interface {
	// Bind attaches fn to the control's activation and returns its detach func.
	Bind(fn func()) (unbind func())
}

// Surface is the host the widget renders into. Lookups report false for
// targets the host does not have; the widget then skips that fragment.
type Surface interface {
	Slot(id string) (Slot, bool)
	Control(id string) (Control, bool)
}

type noSurface struct{}

func (noSurface) Slot(string) (Slot, bool)       { return nil, false }
func (noSurface) Control(string) (Control, bool) { return nil, false }
