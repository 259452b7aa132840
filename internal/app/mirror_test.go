package app_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"review_carousel/internal/adapters/reviewsapi"
	"review_carousel/internal/app"
	"review_carousel/internal/domain"
)

type fakeSource struct {
	entity     domain.EntityDetails
	reviews    []domain.ReviewRecord
	entityErr  error
	reviewsErr error
	bases      []string
}

func (f *fakeSource) FetchEntityDetails(ctx context.Context, base, id string) (domain.EntityDetails, error) {
	f.bases = append(f.bases, base)
	return f.entity, f.entityErr
}

func (f *fakeSource) FetchReviews(ctx context.Context, base, id string) ([]domain.ReviewRecord, error) {
	f.bases = append(f.bases, base)
	return f.reviews, f.reviewsErr
}

func apiErr(code int) error {
	return &reviewsapi.APIError{StatusCode: code, Status: http.StatusText(code), URL: "http://upstream/entity/1"}
}

func TestMirrorEntity_UpsertsAndInvalidates(t *testing.T) {
	repo, cache := newFakeRepo(), &fakeCache{}
	src := &fakeSource{
		entity: domain.EntityDetails{Name: "Main St Bakery"},
		reviews: []domain.ReviewRecord{
			{AuthorName: "Ana", Rating: pfloat(5), Comments: []domain.Comment{{AuthorName: "Owner", Content: "Thanks!"}}},
		},
	}
	q := app.NewQueryService(repo, cache, time.Minute)
	m := app.NewMirrorService(src, "http://upstream/", repo, cache)

	// warm a stale copy first
	repo.entities["1"] = domain.EntityDetails{ID: "1", Name: "Old"}
	_, err := q.GetEntity(context.Background(), "1")
	require.NoError(t, err)

	require.NoError(t, m.MirrorEntity(context.Background(), "1"))
	require.Equal(t, []string{"http://upstream/", "http://upstream/"}, src.bases)

	require.Equal(t, domain.EntityDetails{ID: "1", Name: "Main St Bakery"}, repo.entities["1"], "id defaults to the requested one")
	require.Len(t, repo.reviews["1"], 1)
	require.Contains(t, cache.deleted, "entity:1")
	require.Contains(t, cache.deleted, "reviews:1:50")

	e, err := q.GetEntity(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, "Main St Bakery", e.Name)

	page, err := q.ListReviews(context.Background(), "1", 0)
	require.NoError(t, err)
	require.Equal(t, "Thanks!", page.Docs[0].Comments[0].Content)
}

func TestMirrorEntity_MissesAreLogged(t *testing.T) {
	cases := []struct {
		name       string
		src        *fakeSource
		wantStatus int
		wantReason string
	}{
		{"entity 404", &fakeSource{entityErr: apiErr(http.StatusNotFound)}, 404, "entity: not found"},
		{"entity 401", &fakeSource{entityErr: apiErr(http.StatusUnauthorized)}, 403, "entity: inactive"},
		{"reviews 403", &fakeSource{reviewsErr: apiErr(http.StatusForbidden)}, 403, "reviews: inactive"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo, cache := newFakeRepo(), &fakeCache{}
			m := app.NewMirrorService(tc.src, "http://upstream/", repo, cache)

			require.NoError(t, m.MirrorEntity(context.Background(), "9"))
			require.Len(t, repo.misses, 1)
			require.Equal(t, tc.wantStatus, repo.misses[0].status)
			require.Equal(t, tc.wantReason, repo.misses[0].reason)
			require.Contains(t, cache.deleted, "entity:9")
			require.Empty(t, repo.reviews)
		})
	}
}

func TestMirrorEntity_OtherErrorsSurface(t *testing.T) {
	repo := newFakeRepo()

	m := app.NewMirrorService(&fakeSource{entityErr: apiErr(http.StatusBadGateway)}, "u/", repo, nil)
	err := m.MirrorEntity(context.Background(), "1")
	require.ErrorIs(t, err, reviewsapi.ErrFetch)

	boom := errors.New("dial tcp: connection refused")
	m = app.NewMirrorService(&fakeSource{reviewsErr: boom}, "u/", repo, nil)
	require.ErrorIs(t, m.MirrorEntity(context.Background(), "1"), boom)
	require.Empty(t, repo.misses)
}

func TestMirrorEntity_KeysOnRequestedID(t *testing.T) {
	repo, cache := newFakeRepo(), &fakeCache{}
	src := &fakeSource{
		entity:  domain.EntityDetails{ID: "store-42", Name: "Main St Bakery"},
		reviews: []domain.ReviewRecord{{AuthorName: "Ana", Rating: pfloat(5)}},
	}
	m := app.NewMirrorService(src, "http://upstream/", repo, cache)
	q := app.NewQueryService(repo, cache, time.Minute)

	const requested = "8986600075955733488"
	require.NoError(t, m.MirrorEntity(context.Background(), requested))

	require.Contains(t, repo.entities, requested)
	require.NotContains(t, repo.entities, "store-42")
	require.Len(t, repo.reviews[requested], 1)

	e, err := q.GetEntity(context.Background(), requested)
	require.NoError(t, err)
	require.Equal(t, requested, e.ID)

	page, err := q.ListReviews(context.Background(), requested, 10)
	require.NoError(t, err)
	require.Len(t, page.Docs, 1)
}
