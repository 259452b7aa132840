package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"review_carousel/internal/adapters/reviewsapi"
	"review_carousel/internal/domain"
)

// MirrorService copies entities and their reviews from an upstream review
// API into the local store the feed serves from.
type MirrorService struct {
	src      domain.ReviewSource
	upstream string
	repo     domain.ReviewRepository
	cache    domain.Cache
}

func NewMirrorService(src domain.ReviewSource, upstream string, r domain.ReviewRepository, cache domain.Cache) *MirrorService {
	return &MirrorService{src: src, upstream: upstream, repo: r, cache: cache}
}

// MirrorEntity refreshes one entity. Upstream 404/401/403 answers are recorded
// as misses and are not errors; anything else is returned.
func (s *MirrorService) MirrorEntity(ctx context.Context, id string) error {
	e, err := s.src.FetchEntityDetails(ctx, s.upstream, id)
	if err != nil {
		if status, reason, ok := missOf(err, "entity"); ok {
			_ = s.repo.LogMiss(ctx, id, status, reason)
			s.invalidate(ctx, id)
			return nil
		}
		return err
	}
	// The feed is addressed by the id we were asked for; upstream ids
	// (id, meta.id) may differ.
	if e.ID != "" && e.ID != id {
		log.Debug().Str("entity", id).Str("upstream_id", e.ID).Msg("upstream id differs; keeping requested id")
	}
	e.ID = id

	// Parent first so reviews have an entity to hang off.
	if err := s.repo.UpsertEntity(ctx, e); err != nil {
		return fmt.Errorf("upsert entity %s: %w", id, err)
	}

	rs, err := s.src.FetchReviews(ctx, s.upstream, id)
	if err != nil {
		if status, reason, ok := missOf(err, "reviews"); ok {
			_ = s.repo.LogMiss(ctx, id, status, reason)
			s.invalidate(ctx, id)
			return nil
		}
		return err
	}
	// Empty lists replace too, so removed reviews disappear from the feed.
	if err := s.repo.ReplaceReviews(ctx, id, rs); err != nil {
		return fmt.Errorf("replace reviews for %s: %w", id, err)
	}
	s.invalidate(ctx, id)

	log.Info().Str("entity", id).Int("reviews", len(rs)).Msg("entity mirrored")
	return nil
}

// missOf classifies upstream answers that mean "nothing to mirror".
func missOf(err error, what string) (status int, reason string, ok bool) {
	var ae *reviewsapi.APIError
	if !errors.As(err, &ae) {
		return 0, "", false
	}
	switch ae.StatusCode {
	case http.StatusNotFound:
		return http.StatusNotFound, what + ": not found", true
	case http.StatusUnauthorized, http.StatusForbidden:
		return http.StatusForbidden, what + ": inactive", true
	}
	return 0, "", false
}

func (s *MirrorService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, entityKey(id))
	for _, lim := range cachedLimits {
		_ = s.cache.Del(ctx, reviewsKey(id, lim))
	}
}
