package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/isdelr/social-be/internal/api"
	"github.com/isdelr/social-be/internal/auth"
	"github.com/isdelr/social-be/internal/config"
	"github.com/isdelr/social-be/internal/events"
	"github.com/isdelr/social-be/internal/logger"
	"github.com/isdelr/social-be/internal/monitoring"
	"github.com/isdelr/social-be/internal/services"
	"github.com/isdelr/social-be/internal/websocket"
)

const (
	shutdownTimeout = 5 * time.Second
	recentEventsCap = 100
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE:  serveCommand,
	}
}

func serveCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogPretty)

	return serve(cmd.Context(), cfg)
}

func serve(ctx context.Context, cfg *config.Config) error {
	testToken := ""
	if cfg.TestTokenEnabled() {
		testToken = cfg.TestToken
		log.Warn().Msg("ALLOW_TEST_TOKEN is set: the static test token authenticates as user 1. Do not enable this in production.")
	}

	// Set up database
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info().Str("driver", cfg.DatabaseDriver).Msg("Database ready")

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	recent := events.NewRecent(recentEventsCap)
	publishers := events.Multi{hub, recent}
	if cfg.RedisAddr != "" {
		stream, err := events.NewRedisStream(ctx, cfg.RedisAddr, cfg.RedisStream)
		if err != nil {
			return err
		}
		defer stream.Close()
		publishers = append(publishers, stream)
	}

	// Set up services
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	eventService := services.NewEventService(publishers)
	userService := services.NewUserService(db, tokens)
	postService := services.NewPostService(db, eventService)
	commentService := services.NewCommentService(db, eventService)
	likeService := services.NewLikeService(db, eventService)
	statsService := services.NewStatsService(db)

	// Set up and run the background stats reporter
	if cfg.StatsEnabled() {
		reporter := monitoring.NewStatsReporter(statsService, eventService, cfg.StatsSchedule)
		if err := reporter.Start(); err != nil {
			return err
		}
		defer reporter.Stop()
	}

	router := api.NewRouter(
		hub,
		auth.NewAuthenticator(tokens, testToken),
		statsService,
		userService,
		postService,
		commentService,
		likeService,
		recent,
		cfg.CORSOrigins,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return fmt.Errorf("ListenAndServe: %w", err)
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down server...")
	case <-ctx.Done():
		log.Info().Msg("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("Server exiting")
	return nil
}
