package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stayhub/internal/app/registry"
	authsvc "stayhub/internal/app/services/auth"
	"stayhub/internal/infra/config"
	ginserver "stayhub/internal/infra/http/gin"
	"stayhub/internal/infra/obs"
	"stayhub/internal/infra/outbox"
	"stayhub/internal/infra/platform"
	"stayhub/internal/infra/schedule"
	"stayhub/internal/infra/security"
	"stayhub/internal/infra/validation"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	logger := obs.NewLogger(cfg.Env)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	p, err := platform.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("platform startup failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.Close(closeCtx); err != nil {
			logger.Error("platform shutdown failed", "error", err)
		}
	}()

	buses := registry.Build(registry.Deps{
		UoW:         p.UoW,
		Outbox:      p.Outbox,
		Idempotency: p.Idempotency,
		Validator:   validation.New(),
		Uploader:    p.Uploader,
		Seeding:     registry.DefaultSeeding(cfg.Seed.AvailabilityDays, cfg.Seed.PropertyRateDays, cfg.Seed.RoomTypeRateDays, cfg.Seed.BatchDays, logger),
		Timeout:     cfg.RequestTimeout,
		Logger:      logger,
	})

	auth := &authsvc.Service{
		Users:      p.Users,
		Sessions:   p.Sessions,
		Passwords:  security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{Prefix: "sh_"},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}
	if err := auth.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Error("admin bootstrap failed", "error", err)
		os.Exit(1)
	}

	if p.Relay != nil {
		worker := &outbox.Worker{
			Store:    p.Relay,
			Producer: p.Producer,
			Envelope: p.Envelope,
			Interval: cfg.OutboxPollInterval,
			Backoff:  cfg.RetryBackoff,
			Logger:   logger,
		}
		go func() {
			if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	maintenance := &schedule.Maintenance{
		Spec:            cfg.MaintenanceCron,
		Outbox:          p.Janitor,
		Sessions:        p.Purger,
		OutboxRetention: cfg.OutboxRetention,
		Logger:          logger,
	}
	if err := maintenance.Start(); err != nil {
		logger.Error("maintenance schedule rejected", "error", err, "spec", cfg.MaintenanceCron)
		os.Exit(1)
	}

	responder := ginserver.ErrorResponder{Logger: logger, Verbose: cfg.IsDev()}
	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Checks: p.Checks}, ginserver.Handlers{
		Search:         ginserver.SearchHandler{Queries: buses.Queries, ErrorResponder: responder},
		Catalog:        ginserver.CatalogHandler{Queries: buses.Queries, ErrorResponder: responder},
		Auth:           ginserver.AuthHandler{Service: auth, ErrorResponder: responder},
		Host:           ginserver.HostHandler{Commands: buses.Commands, Queries: buses.Queries, ErrorResponder: responder},
		Admin:          ginserver.AdminHandler{Commands: buses.Commands, Auth: auth, ErrorResponder: responder},
		AuthMiddleware: ginserver.AuthMiddleware{Service: auth, Logger: logger}.Handle,
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		maintenance.Stop(shutdownCtx)
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "db_driver", cfg.DBDriver)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}
