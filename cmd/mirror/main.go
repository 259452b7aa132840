package main

import (
	"context"
	"database/sql"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"review_carousel/internal/adapters/observability"
	redisad "review_carousel/internal/adapters/redis"
	"review_carousel/internal/adapters/reviewsapi"
	"review_carousel/internal/app"
	"review_carousel/internal/shared"
	mysqlrepo "review_carousel/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, nil)

	if cfg.UpstreamBase == "" {
		log.Fatal().Msg("UPSTREAM_BASE_URL is required")
	}
	if len(cfg.MirrorIDs) == 0 {
		log.Warn().Msg("MIRROR_ENTITY_IDS is empty; nothing to mirror")
		return
	}

	log.Info().
		Str("upstream", cfg.UpstreamBase).
		Int("workers", cfg.Workers).
		Int("entities", len(cfg.MirrorIDs)).
		Msg("mirror starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	// the feed applies its own limit; keep every upstream review
	client := reviewsapi.New(cfg.APIRPS, reviewsapi.WithRecentCap(0))
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	mirror := app.NewMirrorService(client, cfg.UpstreamBase, repo, cache)
	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, id := range cfg.MirrorIDs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("mirror interrupted")
			break
		}

		wg.Add(1)
		go func(entityID string) {
			defer wg.Done()
			defer sem.Release(1)

			if err := mirror.MirrorEntity(ctx, entityID); err != nil {
				log.Warn().Str("id", entityID).Str("kind", observability.LabelErr(err)).Err(err).Msg("mirror failed")
				return
			}
			log.Debug().Str("id", entityID).Msg("mirror ok")
		}(id)
	}

	wg.Wait()
	log.Info().Msg("mirror completed")
}
