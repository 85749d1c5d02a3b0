// Command tack runs the Tack API server.
package main

import (
	"context"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tackboard/tack/internal/auth"
	"github.com/tackboard/tack/internal/config"
	"github.com/tackboard/tack/internal/events"
	"github.com/tackboard/tack/internal/mail"
	"github.com/tackboard/tack/internal/server"
	"github.com/tackboard/tack/internal/store/postgres"
	redisstore "github.com/tackboard/tack/internal/store/redis"
	"github.com/tackboard/tack/internal/upload"
)

func main() {
	setupLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}

	maxConns := cfg.Database.MaxConns
	if maxConns > math.MaxInt32 {
		maxConns = math.MaxInt32
	}
	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(maxConns)) //nolint:gosec // G115: bounded above
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to postgres")
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("running migrations")
	}

	pubsub, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to redis")
	}
	defer pubsub.Close()

	authSvc := auth.NewService(store.Users(), cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	providers := oauthProviders(cfg)

	// The mail queue shares the pubsub connection; only the worker
	// binary dials Redis twice.
	queue := mail.NewQueueFromClient(pubsub.Client())

	dispatcher := events.NewDispatcher()
	events.Wire(dispatcher,
		events.NewNotificationWriter(store.Notifications()).WithPublisher(pubsub),
		events.NewEmailQueuer(queue, cfg.AppName, cfg.FrontendURL),
	)

	uploads, err := upload.NewStore(cfg.Uploads.Dir, cfg.Uploads.MaxSizeBytes)
	if err != nil {
		log.Fatal().Err(err).Msg("preparing upload dir")
	}

	srv := server.New(ctx, cfg, store, pubsub, authSvc, providers, dispatcher, uploads)

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if err := srv.Start(ctx); err != nil {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

func oauthProviders(cfg *config.Config) map[string]*auth.OAuthProvider {
	providers := make(map[string]*auth.OAuthProvider)
	base := cfg.OAuth.RedirectBaseURL
	if cfg.OAuth.GoogleClientID != "" {
		p := auth.NewGoogleProvider(cfg.OAuth.GoogleClientID, cfg.OAuth.GoogleClientSecret,
			base+"/api/v1/auth/oauth/google/callback")
		providers[p.Name] = p
	}
	if cfg.OAuth.GitHubClientID != "" {
		p := auth.NewGitHubProvider(cfg.OAuth.GitHubClientID, cfg.OAuth.GitHubClientSecret,
			base+"/api/v1/auth/oauth/github/callback")
		providers[p.Name] = p
	}
	return providers
}

func setupLogging() {
	level, err := zerolog.ParseLevel(os.Getenv("TACK_LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if os.Getenv("TACK_LOG_FORMAT") == "text" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
