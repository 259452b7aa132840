package domain

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

type ReviewRepository interface {
	// Write paths
	UpsertEntity(ctx context.Context, e EntityDetails) error
	ReplaceReviews(ctx context.Context, entityID string, rs []ReviewRecord) error
	LogMiss(ctx context.Context, entityID string, status int, reason string) error

	// Read paths
	GetEntity(ctx context.Context, id string) (EntityDetails, error)
	ListReviews(ctx context.Context, entityID string, limit int) ([]ReviewRecord, error)
}

// ReviewSource is the remote review API. baseURL carries a trailing slash.
type ReviewSource interface {
	FetchEntityDetails(ctx context.Context, baseURL, entityID string) (EntityDetails, error)
	FetchReviews(ctx context.Context, baseURL, entityID string) ([]ReviewRecord, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// ReviewsPage is what the feed serves for an entity's reviews.
type ReviewsPage struct {
	Docs []ReviewRecord `json:"docs"`
}
