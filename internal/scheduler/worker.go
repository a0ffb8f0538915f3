package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"filmleads_backend/internal/events"
	"filmleads_backend/internal/leads/domain"
	"filmleads_backend/internal/leads/transport"
	"filmleads_backend/platform/config"
	"filmleads_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// TaskSource looks up the current follow-up tasks of a lead.
type TaskSource interface {
	ListTasks(ctx context.Context, leadID string) (transport.TaskListResponse, error)
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	tasks  TaskSource
	bus    events.Bus
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, tasks TaskSource, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		tasks:  tasks,
		bus:    bus,
		log:    log,
	}

	mux.HandleFunc(TaskFollowUpDue, w.handleFollowUpDue)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleFollowUpDue(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseFollowUpDuePayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	return w.followUpDue(ctx, payload)
}

// followUpDue publishes the reminder unless the task was closed or removed meanwhile.
func (w *Worker) followUpDue(ctx context.Context, payload FollowUpDuePayload) error {
	current, err := w.tasks.ListTasks(ctx, payload.LeadID)
	if err != nil {
		return err
	}

	open := false
	for _, t := range current.Items {
		if t.ID == payload.TaskID && t.Status == domain.TaskOpen {
			open = true
			break
		}
	}
	if !open {
		w.log.Debug("follow-up no longer open", "leadId", payload.LeadID, "taskId", payload.TaskID)
		return nil
	}

	w.log.LeadEvent("follow-up due", payload.LeadID, slog.String("task_id", payload.TaskID), slog.String("type", payload.Type))
	if w.bus == nil {
		return nil
	}
	w.bus.Publish(ctx, events.FollowUpDue{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    payload.LeadID,
		TaskID:    payload.TaskID,
		Type:      payload.Type,
		Title:     payload.Title,
	})
	return nil
}
