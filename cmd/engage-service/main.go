package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/creatorhub/engage/internal/api"
	"github.com/creatorhub/engage/internal/auth"
	"github.com/creatorhub/engage/internal/config"
	"github.com/creatorhub/engage/internal/dashboard"
	"github.com/creatorhub/engage/internal/feed"
	"github.com/creatorhub/engage/internal/feed/providers"
	"github.com/creatorhub/engage/internal/ledger"
	"github.com/creatorhub/engage/internal/notify"
	"github.com/creatorhub/engage/internal/platform/logger"
	"github.com/creatorhub/engage/internal/store"
	"github.com/creatorhub/engage/internal/store/postgres"
	"github.com/creatorhub/engage/internal/store/sqlite"
	"github.com/creatorhub/engage/internal/ws"
)

func main() {
	log := logger.New("engage-service")
	zlog.Logger = log

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Msg("Engagement service starting")

	// -------- Storage layer -----------------
	ctx := context.Background()
	var db *sql.DB
	var st store.Store
	switch cfg.DBDriver {
	case "postgres":
		db, err = postgres.Open(cfg.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres unavailable")
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("postgres schema setup failed")
		}
		st = postgres.NewWithDB(db)
	case "sqlite":
		db, err = sqlite.Open(cfg.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("sqlite unavailable")
		}
		if err := sqlite.EnsureSchema(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("sqlite schema setup failed")
		}
		st = sqlite.NewWithDB(db)
	}
	defer func() { _ = db.Close() }()

	// -------- Websocket hub -----------------
	hub := ws.NewHub(log)
	go hub.Run()
	defer hub.Stop()

	// -------- Domain services ---------------
	authz := auth.NewJWTAuthorizer(cfg.JWTSecret)
	notifyService := notify.NewService(st, hub)
	ledgerService := ledger.NewService(st, notifyService)
	dashboardService := dashboard.NewService(st)

	var feedProviders []feed.Provider
	if cfg.RedditBaseURL != "" {
		feedProviders = append(feedProviders,
			providers.NewReddit(cfg.RedditBaseURL, cfg.RedditSubreddit, cfg.ProviderTimeout))
	}
	if cfg.TwitterBearerToken != "" {
		feedProviders = append(feedProviders,
			providers.NewTwitter(cfg.TwitterBaseURL, cfg.TwitterBearerToken, cfg.TwitterQuery, cfg.ProviderTimeout))
	}
	gateway := feed.NewGateway(log, feedProviders...)
	feedService := feed.NewService(gateway, feed.NewMemoryCache(), cfg.FeedCacheTTL, log)

	// -------- Router & Server --------------
	router := api.NewRouter(api.Deps{
		Store:      st,
		Feed:       feedService,
		Ledger:     ledgerService,
		Notify:     notifyService,
		Dashboard:  dashboardService,
		Authorizer: authz,
		Logger:     log,
		WS:         ws.NewHandler(hub, authz, log),
	})
	server := &http.Server{
		Addr:         cfg.GetHTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}
