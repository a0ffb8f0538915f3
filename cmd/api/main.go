package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"filmleads_backend/internal/archive"
	"filmleads_backend/internal/email"
	"filmleads_backend/internal/events"
	apphttp "filmleads_backend/internal/http"
	"filmleads_backend/internal/http/router"
	"filmleads_backend/internal/leads"
	"filmleads_backend/internal/leads/service"
	"filmleads_backend/internal/pdf"
	"filmleads_backend/internal/scheduler"
	"filmleads_backend/internal/store"
	"filmleads_backend/platform/config"
	"filmleads_backend/platform/logger"
	"filmleads_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "store", cfg.StoreDriver)

	if strings.EqualFold(cfg.Env, "production") {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var (
		docStore   store.Store
		closeStore func()
	)
	if err := withRetry(ctx, log, "store connection", 5, 2*time.Second, func() error {
		s, closeFn, err := store.Open(ctx, cfg)
		if err != nil {
			return err
		}
		docStore, closeStore = s, closeFn
		return nil
	}); err != nil {
		log.Error("failed to open store", "error", err)
		panic("failed to open store: " + err.Error())
	}
	defer closeStore()
	log.Info("store ready", "driver", cfg.StoreDriver, "key", cfg.StoreKey)

	seed, err := leads.SeedWithSettings(cfg.SettingsFile)
	if err != nil {
		log.Error("failed to load settings file", "error", err, "path", cfg.SettingsFile)
		panic("failed to load settings file: " + err.Error())
	}
	codec := store.NewCodec(docStore, log, seed)

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	reminderScheduler, closeScheduler := initReminderScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}
	if reminderScheduler != nil {
		scheduler.SubscribeFollowUps(eventBus, reminderScheduler, log)
	}

	var sender service.EmailSender
	if cfg.IsSMTPEnabled() {
		sender = email.NewFromConfig(cfg)
		log.Info("smtp sender initialized", "host", cfg.SMTPHost)
	} else {
		log.Warn("SMTP not configured; message sending disabled")
	}

	initArchive(ctx, cfg, eventBus, log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	leadsModule := leads.NewModule(codec, eventBus, val, cfg, log, sender, pdf.NewRenderer(cfg.BusinessName))

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   store.NewHealth(docStore),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			leadsModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}

	eventBus.Wait()
	log.Info("server stopped")
}

func initReminderScheduler(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.ReminderScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; follow-up reminders disabled")
		return nil, nil
	}

	reminderClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize reminder scheduler client", "error", err)
		return nil, nil
	}

	return reminderClient, func() {
		_ = reminderClient.Close()
	}
}

// initArchive subscribes the MinIO archiver when object storage is configured.
func initArchive(ctx context.Context, cfg *config.Config, bus events.Bus, log *logger.Logger) {
	if !cfg.IsMinIOEnabled() {
		log.Warn("MINIO_ENDPOINT not configured; export archiving disabled")
		return
	}

	objects, err := archive.NewMinIOStore(cfg)
	if err != nil {
		log.Error("failed to initialize archive storage", "error", err)
		panic("failed to initialize archive storage: " + err.Error())
	}
	archiver := archive.New(objects, cfg.GetMinIOBucketArchive(), log)

	if err := withRetry(ctx, log, "ensure archive bucket", 5, 2*time.Second, func() error {
		return archiver.EnsureBucket(ctx)
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", cfg.GetMinIOBucketArchive())
		panic("failed to ensure storage bucket exists: " + err.Error())
	}

	archiver.Subscribe(bus)
	log.Info("archive storage initialized", "bucket", cfg.GetMinIOBucketArchive())
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
