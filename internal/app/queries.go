package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"review_carousel/internal/domain"
)

// Feed pages are cached per limit. These are the limits the mirror evicts
// after a refresh; other limits simply age out with the TTL.
var cachedLimits = []int{DefaultReviewLimit, 10, 100, MaxReviewLimit}

const (
	DefaultReviewLimit = 50
	MaxReviewLimit     = 200
)

func entityKey(id string) string { return fmt.Sprintf("entity:%s", id) }

func reviewsKey(id string, limit int) string { return fmt.Sprintf("reviews:%s:%d", id, limit) }

type QueryService struct {
	repo     domain.ReviewRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.ReviewRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) GetEntity(ctx context.Context, id string) (domain.EntityDetails, error) {
	key := entityKey(id)
	var e domain.EntityDetails
	if ok, _ := s.cache.Get(ctx, key, &e); ok {
		return e, nil
	}
	e, err := s.repo.GetEntity(ctx, id)
	if err != nil {
		return domain.EntityDetails{}, err
	}
	_ = s.cache.Set(ctx, key, e, int(s.cacheTTL.Seconds()))
	return e, nil
}

// ListReviews returns the entity's most recent reviews, newest first. An
// entity that does not exist is domain.ErrNotFound; one without reviews is an
// empty page.
func (s *QueryService) ListReviews(ctx context.Context, id string, limit int) (domain.ReviewsPage, error) {
	if limit <= 0 {
		limit = DefaultReviewLimit
	}
	key := reviewsKey(id, limit)
	var out domain.ReviewsPage
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	if _, err := s.GetEntity(ctx, id); err != nil {
		return domain.ReviewsPage{}, err
	}
	rs, err := s.repo.ListReviews(ctx, id, limit)
	if err != nil {
		return domain.ReviewsPage{}, err
	}

	// copy so the cached value never aliases the repo's backing array
	page := domain.ReviewsPage{Docs: make([]domain.ReviewRecord, len(rs))}
	copy(page.Docs, rs)

	// optional size guard
	if b, _ := json.Marshal(page); len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, key, page, int(s.cacheTTL.Seconds()))
	}
	return page, nil
}
