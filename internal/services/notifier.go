package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/verba-app/verba-backend/internal/logger"
	"github.com/verba-app/verba-backend/internal/utils"
)

// ThreadActivity is published whenever a thread item completes, so
// other sessions of the same user can refresh their thread list.
type ThreadActivity struct {
	ThreadID     uuid.UUID `json:"threadId"`
	ThreadItemID uuid.UUID `json:"threadItemId"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Notifier interface {
	NotifyThreadUpdated(ctx context.Context, userID string, activity ThreadActivity)
	Subscribe(ctx context.Context, userID string) (<-chan ThreadActivity, func())
	Close() error
}

type redisNotifier struct {
	rdb *redis.Client
	log *logger.Logger
}

// NewRedisNotifier connects to Redis using REDIS_ADDR / REDIS_PASSWORD /
// REDIS_DB. The connection is verified eagerly so a misconfigured
// broker fails at startup, not on the first publish.
func NewRedisNotifier(ctx context.Context, log *logger.Logger) (Notifier, error) {
	addr := utils.GetEnv("REDIS_ADDR", "localhost:6379", log)
	password := utils.GetEnv("REDIS_PASSWORD", "", log)
	db := utils.GetEnvAsInt("REDIS_DB", 0, log)

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &redisNotifier{rdb: rdb, log: log.With("service", "RedisNotifier")}, nil
}

func threadActivityChannel(userID string) string {
	return "thread_updated:" + userID
}

func (rn *redisNotifier) NotifyThreadUpdated(ctx context.Context, userID string, activity ThreadActivity) {
	payload, err := json.Marshal(activity)
	if err != nil {
		rn.log.Error("failed to marshal thread activity", "error", err)
		return
	}
	if err := rn.rdb.Publish(ctx, threadActivityChannel(userID), payload).Err(); err != nil {
		rn.log.Warn("failed to publish thread activity", "userId", userID, "error", err)
	}
}

func (rn *redisNotifier) Subscribe(ctx context.Context, userID string) (<-chan ThreadActivity, func()) {
	sub := rn.rdb.Subscribe(ctx, threadActivityChannel(userID))
	out := make(chan ThreadActivity, 16)

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var activity ThreadActivity
			if err := json.Unmarshal([]byte(msg.Payload), &activity); err != nil {
				rn.log.Warn("failed to decode thread activity", "error", err)
				continue
			}
			select {
			case out <- activity:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() {
		_ = sub.Close()
	}
	return out, cancel
}

func (rn *redisNotifier) Close() error {
	return rn.rdb.Close()
}

// noopNotifier keeps the pipeline working when Redis is not configured.
type noopNotifier struct{}

func NewNoopNotifier() Notifier { return noopNotifier{} }

func (noopNotifier) NotifyThreadUpdated(context.Context, string, ThreadActivity) {}

func (noopNotifier) Subscribe(ctx context.Context, _ string) (<-chan ThreadActivity, func()) {
	ch := make(chan ThreadActivity)
	var once bool
	cancel := func() {
		if !once {
			once = true
			close(ch)
		}
	}
	return ch, cancel
}

func (noopNotifier) Close() error { return nil }
