// internal/adapters/reviewsapi/client.go
package reviewsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"review_carousel/internal/adapters/observability"
	"review_carousel/internal/domain"
)

// DefaultRecentCap is the "recent reviews" cap used by the capped widget variant.
const DefaultRecentCap = 10

type Client struct {
	hc        *http.Client
	rl        *rate.Limiter
	recentCap int
}

type Option func(*Client)

// WithRecentCap keeps at most n reviews, in response order. n <= 0 disables the cap.
func WithRecentCap(n int) Option { return func(c *Client) { c.recentCap = n } }

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.hc = hc } }

func New(rps int, opts ...Option) *Client {
	if rps <= 0 {
		rps = 5
	}
	c := &Client{
		hc: &http.Client{Timeout: 20 * time.Second},
		rl: rate.NewLimiter(rate.Limit(rps), rps),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ---- Public API ----

func (c *Client) FetchEntityDetails(ctx context.Context, baseURL, entityID string) (domain.EntityDetails, error) {
	var raw map[string]any
	if err := c.get(ctx, "entity", entityURL(baseURL, entityID), &raw); err != nil {
		return domain.EntityDetails{}, fmt.Errorf("fetch entity details: %w", err)
	}
	e := mapEntity(raw)
	if e.ID == "" {
		e.ID = entityID
	}
	return e, nil
}

// FetchReviews accepts a bare array, {"docs": [...]} or {"response": {"docs": [...]}}.
// An unreadable body yields an empty list rather than an error.
func (c *Client) FetchReviews(ctx context.Context, baseURL, entityID string) ([]domain.ReviewRecord, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "reviews", entityURL(baseURL, entityID)+"/reviews", &raw); err != nil {
		if errors.Is(err, errMalformed) {
			log.Warn().Err(err).Str("entity", entityID).Msg("reviews response malformed; using empty list")
			return []domain.ReviewRecord{}, nil
		}
		return nil, fmt.Errorf("fetch reviews: %w", err)
	}
	out := mapReviews(NormalizeReviews(raw))
	if c.recentCap > 0 && len(out) > c.recentCap {
		out = out[:c.recentCap]
	}
	return out, nil
}

// ---- Errors ----

// ErrFetch marks every fetch failure: non-2xx status or a transport error.
var ErrFetch = errors.New("reviewsapi: fetch failed")

var errMalformed = errors.New("reviewsapi: malformed response")

// APIError is a non-success HTTP status. It unwraps to ErrFetch.
type APIError struct {
	StatusCode int
	Status     string // status text, e.g. "404 Not Found"
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("reviewsapi: %s: %s", e.URL, e.Status)
}

func (e *APIError) Unwrap() error { return ErrFetch }

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.StatusCode == http.StatusNotFound
}

// ---- Internals ----

func entityURL(base, entityID string) string {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + "entity/" + url.PathEscape(entityID)
}

// get performs one rate-limited GET and decodes JSON into out. No retries.
func (c *Client) get(ctx context.Context, endpoint, u string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "review-carousel/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("reviewsapi", endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("reviewsapi", endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Status: resp.Status, URL: u}
	}
	if resp.StatusCode == http.StatusNoContent {
		return errMalformed
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	return nil
}
