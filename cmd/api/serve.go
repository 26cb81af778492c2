package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/cfo-dashboard/internal/config"
	"github.com/Dan9191/cfo-dashboard/internal/handler"
	"github.com/Dan9191/cfo-dashboard/internal/insight"
	"github.com/Dan9191/cfo-dashboard/internal/integrations/newsfeed"
	"github.com/Dan9191/cfo-dashboard/internal/middleware"
	"github.com/Dan9191/cfo-dashboard/internal/repository"
	"github.com/Dan9191/cfo-dashboard/internal/scheduler"
	"github.com/Dan9191/cfo-dashboard/internal/service"
	"github.com/Dan9191/cfo-dashboard/internal/session"
	"github.com/Dan9191/cfo-dashboard/internal/tax"
	"github.com/Dan9191/cfo-dashboard/internal/utils"
	"github.com/Dan9191/cfo-dashboard/internal/utils/email"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	sessions, closeSessions, err := openSessionStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSessions()

	taxCfg, err := config.LoadTaxConfig(cfg.TaxConfigPath)
	if err != nil {
		return err
	}
	key, err := cfg.EncryptionKeyBytes()
	if err != nil {
		return err
	}
	cipher, err := utils.NewTokenCipher(key)
	if err != nil {
		return err
	}

	deps := service.Deps{
		Repo:     repo,
		Sessions: sessions,
		Signer:   session.NewSigner(cfg.JWTSecret),
		Log:      logger,
		Config:   cfg,
		Tax:      tax.NewCalculator(taxCfg),
		Cipher:   cipher,
		Provider: newProvider(ctx, cfg, logger),
		News:     newNewsSource(cfg, logger),
	}
	if cfg.EmailEnabled() {
		deps.Alerts = email.NewSender(cfg, logger)
	}

	// Initialize layers
	svc := service.NewService(deps)
	h := handler.NewHandler(svc, logger, cfg.SessionTTL)
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	defer limiter.Stop()

	sched, err := scheduler.New(svc, logger, cfg.EmailEnabled())
	if err != nil {
		return err
	}
	sched.Start()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.NewRouter(h, svc, limiter),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	sched.Stop(shutdownCtx)
	return server.Shutdown(shutdownCtx)
}

func openRepository(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (repository.Repository, func(), error) {
	if cfg.DBConn == "" {
		logger.Warn("DB_CONN not set, using in-memory repository")
		return repository.NewMemory(), func() {}, nil
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	repo := repository.NewPostgres(db)
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return repo, func() { db.Close() }, nil
}

func openSessionStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (session.Store, func(), error) {
	if cfg.RedisAddr == "" {
		return session.NewMemoryStore(), func() {}, nil
	}
	store := session.NewRedisStore(cfg.RedisAddr, cfg.RedisPass)
	if err := store.Ping(ctx); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Infof("Sessions stored in redis at %s", cfg.RedisAddr)
	return store, func() { store.Close() }, nil
}

func newProvider(ctx context.Context, cfg *config.Config, logger *logrus.Logger) insight.Provider {
	if cfg.GeminiAPIKey == "" {
		logger.Info("GEMINI_API_KEY not set, using fallback insights")
		return insight.FallbackProvider{}
	}
	gen, err := insight.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Warnf("Gemini unavailable, using fallback insights: %v", err)
		return insight.FallbackProvider{}
	}
	return insight.NewLiveProvider(gen)
}

func newNewsSource(cfg *config.Config, logger *logrus.Logger) newsfeed.Source {
	if len(cfg.NewsFeedURLs) == 0 {
		return newsfeed.NewStaticSource()
	}
	return newsfeed.NewRSSSource(cfg.NewsFeedURLs, logger)
}
