package scheduler

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"filmleads_backend/internal/events"
	"filmleads_backend/platform/config"
	"filmleads_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

type Client struct {
	client *asynq.Client
	queue  string
}

type ReminderScheduler interface {
	ScheduleFollowUp(ctx context.Context, payload FollowUpDuePayload) error
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ScheduleFollowUp enqueues a reminder that fires at the task's due time.
// The task id doubles as the asynq task id so re-enqueueing is a no-op.
func (c *Client) ScheduleFollowUp(ctx context.Context, payload FollowUpDuePayload) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewFollowUpDueTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.ProcessAt(payload.DueAt),
		asynq.Queue(c.queue),
		asynq.TaskID(payload.TaskID),
	)
	if err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		return err
	}
	return nil
}

// SubscribeFollowUps schedules a reminder for every follow-up task created on the bus.
func SubscribeFollowUps(bus events.Bus, scheduler ReminderScheduler, log *logger.Logger) {
	bus.Subscribe(events.NameFollowUpsCreated, events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.FollowUpsCreated)
		if !ok {
			return nil
		}
		for _, t := range e.Tasks {
			payload := FollowUpDuePayload{LeadID: e.LeadID, TaskID: t.TaskID, Type: t.Type, Title: t.Title, DueAt: t.DueAt}
			if err := scheduler.ScheduleFollowUp(ctx, payload); err != nil {
				log.Error("failed to schedule follow-up reminder", "error", err, "leadId", e.LeadID, "taskId", t.TaskID)
				return err
			}
		}
		return nil
	}))
}

func queueName(cfg config.SchedulerConfig) string {
	if q := cfg.GetAsynqQueueName(); q != "" {
		return q
	}
	return "default"
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
