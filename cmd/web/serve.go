package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"karangjaladri.id/mangrove-web/internal/config"
	"karangjaladri.id/mangrove-web/internal/httpserver"
	"karangjaladri.id/mangrove-web/internal/live"
	"karangjaladri.id/mangrove-web/internal/observability"
	"karangjaladri.id/mangrove-web/internal/session"
	"karangjaladri.id/mangrove-web/internal/ui"
	"karangjaladri.id/mangrove-web/public"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(parent context.Context, opts *rootOptions) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}
	logger, err := observability.NewLogger(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	srv, sessions, hub, err := buildServer(cfg, logger)
	if err != nil {
		return err
	}
	defer hub.Close()
	defer sessions.Close()

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sessions.Run(ctx, cfg.Session.SweepInterval)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	logger.Info("mangrove web listening",
		zap.String("addr", cfg.HTTP.Addr),
		zap.Bool("dev", cfg.Dev),
		zap.Strings("languages", cfg.I18n.Supported))

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("mangrove web stopped")
	return nil
}

// buildServer wires configuration into the HTTP stack.
func buildServer(cfg *config.Config, logger *zap.Logger) (*http.Server, *session.Store, *live.Hub, error) {
	bundle, err := loadBundle(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("dictionaries: %w", err)
	}
	if err := bundle.Check(); err != nil {
		if cfg.I18n.Strict {
			return nil, nil, nil, fmt.Errorf("dictionaries: %w", err)
		}
		logger.Warn("dictionaries differ; missing keys render empty", zap.Error(err))
	}
	store, err := loadContent(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("content: %w", err)
	}
	if err := store.Validate(bundle.Supported()); err != nil {
		return nil, nil, nil, fmt.Errorf("content: %w", err)
	}

	var tmplFS fs.FS
	if cfg.Templates.Dir != "" {
		tmplFS = os.DirFS(cfg.Templates.Dir)
	}
	renderer, err := httpserver.NewRenderer(tmplFS, cfg.Dev)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("templates: %w", err)
	}

	assets, err := public.StaticFS()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("static assets: %w", err)
	}
	var media fs.FS
	if cfg.Public.Dir != "" {
		media = os.DirFS(cfg.Public.Dir)
	}

	codec, ephemeral := session.NewCodec([]byte(cfg.Session.SigningKey), cfg.Session.Secure, 0)
	if ephemeral {
		logger.Warn("session.signing_key not set; sessions will not survive a restart")
	}

	hub := live.NewHub(logger)
	sessions := httpserver.NewSessions(httpserver.SessionsConfig{
		TTL:          cfg.Session.TTL,
		ProbationTTL: cfg.Session.ProbationTTL,
		MaxSessions:  cfg.Session.MaxSessions,
		Content:      store,
		Bundle:       bundle,
		Renderer:     renderer,
		Hub:          hub,
		State: ui.Options{
			Interval:       cfg.Carousel.Interval,
			TopThreshold:   cfg.Scroll.TopThreshold,
			ParallaxFactor: cfg.Scroll.ParallaxFactor,
			Logger:         logger,
		},
		Logger: logger,
	})

	srv := httpserver.New(httpserver.Config{
		Address:        cfg.HTTP.Addr,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		Renderer:       renderer,
		Assets:         assets,
		Media:          media,
		Bundle:         bundle,
		Content:        store,
		Sessions:       sessions,
		Codec:          codec,
		Hub:            hub,
		Negotiate:      cfg.I18n.Negotiate,
		SwipeThreshold: cfg.Gallery.SwipeThreshold,
		TrackMouse:     cfg.Gallery.TrackMouse,
		AllowedOrigins: cfg.API.AllowedOrigins,
		Logger:         logger,
	})
	return srv, sessions, hub, nil
}
