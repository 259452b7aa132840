package httpserver

import (
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"review_carousel/internal/adapters/observability"
)

func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return http.TimeoutHandler(next, d, "timeout") }
}

// ---- status-recording ResponseWriter ----

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusRecorder) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// served describes a finished feed request. The route context is filled in by
// the router while next runs, so it is read afterwards.
type served struct {
	route  string
	entity string
	status int
	took   time.Duration
}

func serve(next http.Handler, w http.ResponseWriter, r *http.Request) served {
	start := time.Now()
	sw := &statusRecorder{ResponseWriter: w}
	next.ServeHTTP(sw, r)

	s := served{route: r.URL.Path, status: sw.Status(), took: time.Since(start)}
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			s.route = p
		}
		s.entity = rc.URLParam("id")
	}
	return s
}

// outcome buckets a feed answer; not_modified is the ETag revalidation path.
func (s served) outcome() string {
	switch {
	case s.status == http.StatusNotModified:
		return "not_modified"
	case s.status == http.StatusNotFound && s.entity != "":
		return "unknown_entity"
	case s.status >= 500:
		return "server_error"
	case s.status >= 400:
		return "client_error"
	}
	return "served"
}

// ---- Metrics middleware ----

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := serve(next, w, r)
		observability.ObserveHTTP(s.route, r.Method, s.status, s.took)
		if s.entity != "" {
			observability.ObserveFeed(s.route, s.outcome())
		}
	})
}

// ---- Structured logging middleware ----

func Logger(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := serve(next, w, r)
			ev := l.Info()
			if s.status >= 500 {
				ev = l.Error()
			}
			if s.entity != "" {
				ev = ev.Str("entity", s.entity).Str("outcome", s.outcome())
			}
			ev.Str("route", s.route).
				Str("method", r.Method).
				Int("status", s.status).
				Dur("duration", s.took).
				Str("request_id", chimw.GetReqID(r.Context())).
				Str("remote", remoteHost(r)).
				Str("ua", r.UserAgent()).
				Msg("feed_request")
		})
	}
}

// remoteHost strips the port; chi's RealIP has already applied
// X-Forwarded-For / X-Real-IP to RemoteAddr.
func remoteHost(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// ---- CORS ----

// CORS lets embedding pages on other origins read the feed.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Expose-Headers", "ETag")
		if r.Method == http.MethodOptions {
			h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "If-None-Match")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
