// Package widget mounts a review carousel into a host surface: it fetches the
// entity and its reviews, renders the aggregate header and the current review,
// binds the prev/next controls and runs auto-advance.
package widget

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"review_carousel/internal/adapters/observability"
	"review_carousel/internal/carousel"
	"review_carousel/internal/domain"
	"review_carousel/internal/rating"
	"review_carousel/internal/render"
)

type Widget struct {
	id       string
	cfg      Config
	src      domain.ReviewSource
	surface  Surface
	renderer *render.Renderer
	log      zerolog.Logger

	lifecycle sync.Mutex // serializes Init and Teardown

	mu       sync.Mutex
	carousel *carousel.Carousel
	entity   domain.EntityDetails
	average  float64
	rated    bool
	unbind   []func()
	mounted  bool
}

func New(cfg Config, src domain.ReviewSource) (*Widget, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("%w: review source is required", ErrInvalidConfig)
	}
	var s Surface = noSurface{}
	if cfg.Container != nil {
		s = cfg.Container
	}
	id := uuid.NewString()
	return &Widget{
		id:      id,
		cfg:     cfg,
		src:     src,
		surface: s,
		renderer: render.New(render.Options{
			Truncate:   cfg.Truncate,
			TruncateAt: cfg.TruncateAt,
			Location:   cfg.Location,
		}),
		log: log.With().Str("widget", id).Str("entity", cfg.EntityID).Logger(),
	}, nil
}

func (w *Widget) ID() string { return w.id }

// Init mounts the widget. Calling it again tears the previous mount down
// first. A failed fetch leaves the empty state on screen and is returned.
func (w *Widget) Init(ctx context.Context) (err error) {
	w.lifecycle.Lock()
	defer w.lifecycle.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("widget: init panicked: %v", r)
			w.log.Error().Err(err).Msg("widget init failed")
		}
	}()

	w.teardownLocked()

	entity, reviews, err := w.fetch(ctx)
	if err != nil {
		observability.ObserveWidget("fetch_error")
		w.log.Error().Err(err).Msg("fetching reviews failed; showing empty state")
		w.mu.Lock()
		w.carousel = carousel.New(nil)
		w.average, w.rated = 0, false
		w.mu.Unlock()
		w.renderHeader(domain.EntityDetails{}, 0, false)
		w.show(IDReviewContainer, EmptyView{Message: EmptyMessage})
		return fmt.Errorf("widget: init entity %s: %w", w.cfg.EntityID, err)
	}

	avg, ok := rating.ComputeAverage(reviews)

	var c *carousel.Carousel
	c = carousel.New(reviews,
		carousel.WithPolicy(w.cfg.Policy),
		carousel.WithTicker(w.ticker()),
		carousel.OnAdvance(func(int) {
			observability.ObserveWidget("auto_advance")
			w.renderSlide(c)
		}),
	)

	w.mu.Lock()
	w.carousel = c
	w.entity = entity
	w.average, w.rated = avg, ok
	w.mu.Unlock()

	w.renderHeader(entity, avg, ok)
	w.renderSlide(c)
	w.bindControls()

	if w.cfg.AutoAdvance > 0 && c.Len() > 0 {
		if err := c.StartAutoAdvance(w.cfg.AutoAdvance); err != nil {
			w.log.Warn().Err(err).Msg("auto-advance not started")
		}
	}

	w.mu.Lock()
	w.mounted = true
	w.mu.Unlock()
	observability.ObserveWidget("mount")
	w.log.Info().Int("reviews", len(reviews)).Bool("rated", ok).Float64("average", avg).Msg("widget mounted")
	return nil
}

// Teardown stops auto-advance and detaches control handlers. Safe to call
// on a widget that was never mounted.
func (w *Widget) Teardown() {
	w.lifecycle.Lock()
	defer w.lifecycle.Unlock()
	w.teardownLocked()
}

func (w *Widget) teardownLocked() {
	w.mu.Lock()
	c, unbind, was := w.carousel, w.unbind, w.mounted
	w.unbind, w.mounted = nil, false
	w.mu.Unlock()

	for _, u := range unbind {
		u()
	}
	if c != nil {
		c.StopAutoAdvance()
	}
	if was {
		observability.ObserveWidget("teardown")
		w.log.Info().Msg("widget torn down")
	}
}

// Next and Previous are the manual controls.
func (w *Widget) Next()     { w.manual(carousel.Forward) }
func (w *Widget) Previous() { w.manual(carousel.Backward) }

func (w *Widget) manual(dir carousel.Direction) {
	c := w.current()
	if c == nil {
		return
	}
	c.Manual(dir)
	observability.ObserveWidget("manual")
	w.renderSlide(c)
}

func (w *Widget) Mounted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mounted
}

func (w *Widget) Entity() domain.EntityDetails {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.entity
}

// Average is the aggregate rating; ok is false when there are no reviews.
func (w *Widget) Average() (avg float64, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.average, w.rated
}

func (w *Widget) Slide() (carousel.Slide, bool) {
	c := w.current()
	if c == nil {
		return carousel.Slide{}, false
	}
	return c.CurrentSlide()
}

func (w *Widget) AutoAdvancing() bool {
	c := w.current()
	return c != nil && c.AutoAdvancing()
}

// ---- internals ----

func (w *Widget) current() *carousel.Carousel {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.carousel
}

func (w *Widget) ticker() carousel.TickerFunc {
	if w.cfg.Ticker != nil {
		return w.cfg.Ticker
	}
	return carousel.NewStdTicker
}

func (w *Widget) fetch(ctx context.Context) (domain.EntityDetails, []domain.ReviewRecord, error) {
	base, id := w.cfg.BaseURL, w.cfg.EntityID
	if !w.cfg.ParallelFetch {
		entity, err := w.src.FetchEntityDetails(ctx, base, id)
		if err != nil {
			return domain.EntityDetails{}, nil, err
		}
		reviews, err := w.src.FetchReviews(ctx, base, id)
		if err != nil {
			return domain.EntityDetails{}, nil, err
		}
		return entity, reviews, nil
	}

	var (
		entity  domain.EntityDetails
		reviews []domain.ReviewRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entity, err = w.src.FetchEntityDetails(gctx, base, id)
		return err
	})
	g.Go(func() error {
		var err error
		reviews, err = w.src.FetchReviews(gctx, base, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.EntityDetails{}, nil, err
	}
	return entity, reviews, nil
}

func (w *Widget) bindControls() {
	var unbind []func()
	for id, fn := range map[string]func(){IDPrevButton: w.Previous, IDNextButton: w.Next} {
		ctl, ok := w.surface.Control(id)
		if !ok {
			w.log.Debug().Str("target", id).Msg("control missing; not bound")
			continue
		}
		unbind = append(unbind, ctl.Bind(fn))
	}
	w.mu.Lock()
	w.unbind = unbind
	w.mu.Unlock()
}

func (w *Widget) renderHeader(entity domain.EntityDetails, avg float64, ok bool) {
	w.show(IDAverageRating, HeaderView{
		EntityName: entity.Name,
		Text:       rating.HeaderText(avg, ok),
		Average:    avg,
		HasRatings: ok,
	})
	if !ok {
		w.show(IDStarIcons, EmptyView{})
		return
	}
	stars := rating.Stars(avg)
	w.show(IDStarIcons, StarsView{Stars: stars, Markup: rating.Markup(stars)})
}

func (w *Widget) renderSlide(c *carousel.Carousel) {
	s, ok := c.CurrentSlide()
	if !ok {
		w.show(IDReviewContainer, EmptyView{Message: EmptyMessage})
		return
	}
	w.show(IDReviewContainer, CardView{
		Model:    w.renderer.Render(s.Review),
		Position: s.Index + 1,
		Total:    s.Total,
	})
}

func (w *Widget) show(id string, v View) {
	slot, ok := w.surface.Slot(id)
	if !ok {
		w.log.Debug().Str("target", id).Msg("render target missing; skipped")
		return
	}
	slot.Show(v)
}
