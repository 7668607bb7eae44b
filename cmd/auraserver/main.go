package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aurawell/aura/internal/ai"
	"github.com/aurawell/aura/internal/app"
	"github.com/aurawell/aura/internal/app/httpapi"
	"github.com/aurawell/aura/internal/app/metrics"
	"github.com/aurawell/aura/internal/app/storage/memory"
	"github.com/aurawell/aura/internal/config"
	"github.com/aurawell/aura/pkg/logger"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to the YAML config file")
		addr       = flag.String("addr", "", "listen address, overrides the config")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.NewDefault("auraserver").WithError(err).Error("configuration failed")
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	log := logger.New(logger.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		FilePrefix: cfg.Logging.FilePrefix,
	}).WithField("component", "auraserver")

	if err := run(cfg, log); err != nil {
		log.WithError(err).Error("server exited with error")
		os.Exit(1)
	}
}

func run(cfg config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var collaborators app.Collaborators
	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		gemini, err := ai.NewGemini(ctx, cfg.AI.APIKey, log.WithField("component", "ai"))
		if err != nil {
			return err
		}
		collaborators = app.Collaborators{
			Tasks:     gemini,
			Texts:     gemini,
			Images:    gemini,
			Stats:     gemini,
			Summaries: gemini,
			Avatars:   gemini,
			Chat:      gemini,
		}
	} else {
		log.Warn("model collaborators disabled, AI endpoints will report unavailable")
	}

	mem := memory.New()
	stores := app.Stores{Days: mem, Targets: mem, Ledger: mem, Members: mem, Profile: mem}

	application, err := app.New(app.Options{
		Stores:           stores,
		Collaborators:    collaborators,
		Logger:           log,
		Metrics:          metrics.New("aura"),
		RolloverInterval: cfg.Server.RolloverInterval,
	})
	if err != nil {
		return err
	}

	if cfg.Seed {
		if err := app.SeedDefaults(ctx, stores); err != nil {
			return err
		}
		log.Info("seeded demo dataset")
	}

	audit, err := httpapi.NewAuditLog(cfg.Audit.Limit, cfg.Audit.Path, log.WithField("component", "audit"))
	if err != nil {
		return err
	}
	defer audit.Close()

	var handler http.Handler = httpapi.NewHandler(application, audit, log.WithField("component", "httpapi"))
	handler = httpapi.WithRateLimit(handler, cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	handler = httpapi.WrapWithAuth(handler, cfg.Auth.Tokens, []byte(cfg.Auth.JWTSecret))
	handler = httpapi.WithCORS(handler, cfg.CORS.Origins)
	handler = httpapi.WithMetrics(handler, application.Metrics)

	if err := application.Start(ctx); err != nil {
		return err
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		_ = application.Stop(context.Background())
		return err
	case <-ctx.Done():
	}

	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown incomplete")
	}
	return application.Stop(shutdownCtx)
}
