package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cafe-site/internal/config"
	"cafe-site/internal/docstore"
	"cafe-site/internal/fallback"
	"cafe-site/internal/handler"
	"cafe-site/internal/notify"
	"cafe-site/internal/realtime"
	"cafe-site/internal/router"
	"cafe-site/internal/service"
	"cafe-site/internal/store"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Str("adapter", cfg.Adapter.Driver).Msg("starting cafe-site API server")

	// Cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Remote document store
	adapter, closeAdapter, err := docstore.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open document store: %w", err)
	}
	defer closeAdapter()

	// Fallback content shown until the remote store answers
	dataset := fallback.Resolve(ctx, newFallbackLoader(ctx, cfg.Fallback, logger), cfg.Fallback.Path, logger)

	st := store.New(adapter, dataset, logger)

	// Live views
	publicHub := realtime.NewHub("public", logger)
	adminHub := realtime.NewHub("admin", logger)
	publish := func(snap store.Snapshot) {
		publicHub.Publish(snap.Version, service.PublicView(snap))
		adminHub.Publish(snap.Version, snap)
	}
	publish(st.Snapshot())
	unsubscribeHubs := st.Subscribe(publish)
	defer unsubscribeHubs()

	var notifier *notify.ReservationNotifier
	if cfg.Telegram.Enabled {
		sender, err := notify.NewTelegramSender(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			logger.Warn().Err(err).Msg("telegram unavailable, reservation notifications disabled")
		} else {
			notifier = notify.NewReservationNotifier(sender, logger)
			notifier.Observe(st.Snapshot())
			unsubscribeNotifier := st.Subscribe(notifier.Observe)
			defer unsubscribeNotifier()
		}
	}

	st.Start()

	// Initialize services
	menuService := service.NewMenuService(st, logger)
	categoryService := service.NewCategoryService(st, logger)
	reservationService := service.NewReservationService(st, logger)
	siteService := service.NewSiteService(st, logger)

	// Initialize router
	mux := router.New(router.Handlers{
		Site:        handler.NewSiteHandler(siteService, logger),
		Menu:        handler.NewMenuHandler(menuService, categoryService, logger),
		Reservation: handler.NewReservationHandler(reservationService, logger),
		Auth:        handler.NewAuthHandler(cfg.Auth.AdminKey, logger),
		PublicWS:    publicHub,
		AdminWS:     adminHub,
	}, cfg.Auth.AdminKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error { return publicHub.Run(gctx) })
	g.Go(func() error { return adminHub.Run(gctx) })
	if notifier != nil {
		g.Go(func() error { return notifier.Run(gctx) })
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
		}

		// Pending writes still reach the remote store
		if err := st.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("store shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
		return nil
	})

	return g.Wait()
}

// newFallbackLoader reads fallback datasets from S3 when enabled, otherwise
// from the local file system only.
func newFallbackLoader(ctx context.Context, cfg config.FallbackConfig, logger zerolog.Logger) fallback.Loader {
	fileLoader := fallback.NewFileLoader(logger)
	if !cfg.S3Enabled {
		return fileLoader
	}

	s3Loader, err := fallback.NewS3Loader(ctx, cfg.S3Bucket, cfg.S3Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 loader, falling back to local file system only")
		return fileLoader
	}

	return fallback.NewChainLoader(s3Loader, fileLoader, cfg.S3Prefix, true, logger)
}
