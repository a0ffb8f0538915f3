package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"filmleads_backend/internal/events"
	"filmleads_backend/internal/leads"
	"filmleads_backend/internal/leads/service"
	"filmleads_backend/internal/scheduler"
	"filmleads_backend/internal/store"
	"filmleads_backend/platform/config"
	"filmleads_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "store", cfg.StoreDriver)

	if cfg.StoreDriver == config.DriverMemory {
		log.Warn("memory store is private to this process; reminders will only see seed data")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	seed, err := leads.SeedWithSettings(cfg.SettingsFile)
	if err != nil {
		log.Error("failed to load settings file", "error", err, "path", cfg.SettingsFile)
		panic("failed to load settings file: " + err.Error())
	}

	eventBus := events.NewInMemoryBus(log)
	eventBus.Subscribe(events.NameFollowUpDue, events.HandlerFunc(func(_ context.Context, event events.Event) error {
		e, ok := event.(events.FollowUpDue)
		if !ok {
			return nil
		}
		log.Info("follow-up reminder", "leadId", e.LeadID, "taskId", e.TaskID, "type", e.Type, "title", e.Title)
		return nil
	}))

	// Worker-side read access to lead tasks (no HTTP handlers required).
	svc := service.New(store.NewCodec(docStore, log, seed), eventBus, log)

	worker, err := scheduler.NewWorker(cfg, svc, eventBus, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
	eventBus.Wait()
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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
