package reviewsapi

import (
	"testing"

	"github.com/stretchr/testify/require"

	"review_carousel/internal/domain"
)

func TestMapReviews_Aliases(t *testing.T) {
	items := NormalizeReviews([]byte(`{"docs":[
		{"author":"Dee","text":"Lovely","source":"first_party","starRating":"4,5","date":1704448800000,
		 "comments":[{"authorName":"Owner","content":"Thanks!"},"junk"]},
		{"reviewer":{"name":"Eve"},"publisherId":"google","rating":{"value":2}},
		42
	]}`))
	require.Len(t, items, 2)

	got := mapReviews(items)
	require.Equal(t, "Dee", got[0].AuthorName)
	require.Equal(t, "Lovely", got[0].Content)
	require.Equal(t, domain.PublisherFirstParty, got[0].Publisher)
	require.NotNil(t, got[0].Rating)
	require.InDelta(t, 4.5, *got[0].Rating, 1e-9)
	require.Equal(t, "2024-01-05T10:00:00Z", got[0].ReviewDate)
	require.Equal(t, []domain.Comment{{AuthorName: "Owner", Content: "Thanks!"}}, got[0].Comments)

	require.Equal(t, "Eve", got[1].AuthorName)
	require.Equal(t, domain.PublisherGoogleMyBusiness, got[1].Publisher)
	require.InDelta(t, 2.0, got[1].RatingValue(), 1e-9)
	require.Empty(t, got[1].ReviewDate)
}

func TestMapEntity_NestedResponse(t *testing.T) {
	e := mapEntity(map[string]any{
		"response": map[string]any{
			"meta": map[string]any{"id": "e-1"},
			"name": "Downtown",
		},
		"reviewGenerationUrl": "https://r.example",
	})
	require.Equal(t, domain.EntityDetails{ID: "e-1", Name: "Downtown", ReviewGenerationURL: "https://r.example"}, e)
}
