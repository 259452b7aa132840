package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogFile     string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	CacheTTL    time.Duration
	APIRPS      int

	// widget host
	WidgetBaseURL  string
	WidgetEntityID string
	AutoAdvance    time.Duration
	NavPolicy      string
	RecentCap      int
	Truncate       bool
	ParallelFetch  bool

	// mirror
	UpstreamBase string
	MirrorIDs    []string
	Workers      int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer; using default")
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogFile:     env("LOG_FILE", ""),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/carousel?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		APIRPS:      atoi("API_RPS", 5),

		WidgetBaseURL:  env("WIDGET_BASE_URL", "http://localhost:8080/"),
		WidgetEntityID: env("WIDGET_ENTITY_ID", ""),
		AutoAdvance:    time.Duration(atoi("WIDGET_AUTO_ADVANCE_MS", 7000)) * time.Millisecond,
		NavPolicy:      env("WIDGET_NAV_POLICY", "wrap"),
		RecentCap:      atoi("WIDGET_RECENT_CAP", 10),
		Truncate:       boolEnv("WIDGET_TRUNCATE", true),
		ParallelFetch:  boolEnv("WIDGET_PARALLEL_FETCH", false),

		UpstreamBase: env("UPSTREAM_BASE_URL", ""),
		MirrorIDs:    list(env("MIRROR_ENTITY_IDS", "")),
		Workers:      atoi("MIRROR_WORKERS", 8),
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func boolEnv(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("not a boolean; using default")
		return def
	}
	return b
}

// list splits a comma-separated value, dropping blanks.
func list(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
