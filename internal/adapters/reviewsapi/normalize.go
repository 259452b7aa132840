package reviewsapi

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"review_carousel/internal/domain"
)

/********** alias registries (single source of truth) **********/

var reviewAliases = map[string][]string{
	"author":    {"authorName", "author", "reviewer.name", "name", "userName"},
	"content":   {"content", "text", "body", "comment", "review"},
	"publisher": {"publisher", "publisherId", "source", "platform"},
	"rating":    {"rating", "starRating", "score", "rating.value"},
	"date":      {"reviewDate", "date", "publisherDate", "createdAt", "created_at"},
	"comments":  {"comments", "responses", "replies"},
}

var commentAliases = map[string][]string{
	"author":  {"authorName", "author", "responder", "commenter.name", "name"},
	"content": {"content", "text", "body", "comment"},
	"date":    {"date", "commentDate", "createdAt"},
}

var entityAliases = map[string][]string{
	"id":   {"id", "meta.id", "entityId", "response.id", "response.meta.id"},
	"name": {"name", "response.name", "entity.name"},
	"url":  {"reviewGenerationUrl", "response.reviewGenerationUrl", "c_reviewGenerationUrl"},
}

/********** response shapes **********/

// NormalizeReviews flattens the three review response shapes (bare array,
// {docs}, {response:{docs}}) into the raw review objects, in response order.
// Unrecognized shapes and non-object items yield nothing.
func NormalizeReviews(body []byte) []map[string]any {
	var root any
	if err := json.Unmarshal(body, &root); err != nil {
		log.Warn().Err(err).Msg("reviews body is not JSON")
		return []map[string]any{}
	}

	var items []any
	switch v := root.(type) {
	case []any:
		items = v
	case map[string]any:
		if docs, ok := lookupAny(v, "docs").([]any); ok {
			items = docs
		} else if docs, ok := lookupAny(v, "response.docs").([]any); ok {
			items = docs
		}
	}

	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the string at path or "". Numbers are formatted.
func lookupStr(m map[string]any, path string) string {
	switch v := lookupAny(m, path).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s := strings.TrimSpace(lookupStr(m, p)); s != "" {
			return s
		}
	}
	return ""
}

// getFloatFlexible: number from several paths (float64/string like "4,5").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// dateFlexible returns the date as a string. Epoch milliseconds become RFC3339.
func dateFlexible(m map[string]any, paths ...string) string {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			if v > 0 {
				return time.UnixMilli(int64(v)).UTC().Format(time.RFC3339)
			}
		}
	}
	return ""
}

/********** mappers **********/

func mapReviews(in []map[string]any) []domain.ReviewRecord {
	out := make([]domain.ReviewRecord, 0, len(in))
	for _, r := range in {
		rv := domain.ReviewRecord{
			AuthorName: firstNonEmptyAlias(r, reviewAliases, "author"),
			Content:    firstNonEmptyAlias(r, reviewAliases, "content"),
			Publisher:  domain.ParsePublisher(firstNonEmptyAlias(r, reviewAliases, "publisher")),
			Rating:     getFloatFlexible(r, reviewAliases["rating"]...),
			ReviewDate: dateFlexible(r, reviewAliases["date"]...),
			Comments:   mapComments(r),
		}
		out = append(out, rv)
	}
	return out
}

func mapComments(r map[string]any) []domain.Comment {
	for _, p := range reviewAliases["comments"] {
		raw, ok := lookupAny(r, p).([]any)
		if !ok {
			continue
		}
		out := make([]domain.Comment, 0, len(raw))
		for _, it := range raw {
			c, ok := it.(map[string]any)
			if !ok {
				continue
			}
			out = append(out, domain.Comment{
				AuthorName: firstNonEmptyAlias(c, commentAliases, "author"),
				Content:    firstNonEmptyAlias(c, commentAliases, "content"),
				Date:       dateFlexible(c, commentAliases["date"]...),
			})
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func mapEntity(p map[string]any) domain.EntityDetails {
	return domain.EntityDetails{
		ID:                  firstNonEmptyAlias(p, entityAliases, "id"),
		Name:                firstNonEmptyAlias(p, entityAliases, "name"),
		ReviewGenerationURL: firstNonEmptyAlias(p, entityAliases, "url"),
	}
}
