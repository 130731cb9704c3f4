package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/milestones-backend/internal/events"
	"github.com/yungbote/milestones-backend/internal/pkg/logger"
)

// courseBus carries course events over a redis pub/sub channel. It is one
// possible transport behind events.Bus; hosts with their own event system
// plug in their own implementation instead.
type courseBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewCourseBus(log *logger.Logger) (events.Bus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(os.Getenv("REDIS_COURSE_EVENT_CHANNEL"))
	if ch == "" {
		ch = "course-events"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &courseBus{
		log:     log.With("service", "RedisCourseBus"),
		rdb:     rdb,
		channel: ch,
	}, nil
}

func (b *courseBus) PublishCourseEvent(ctx context.Context, event events.CourseEvent) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis course bus not initialized")
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *courseBus) Subscribe(ctx context.Context, onEvent func(events.CourseEvent)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis course bus not initialized")
	}
	sub := b.rdb.Subscribe(ctx, b.channel)
	defer func() { _ = sub.Close() }()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe: %w", err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var event events.CourseEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.log.Warn("dropping undecodable course event", "error", err)
				continue
			}
			onEvent(event)
		}
	}
}

func (b *courseBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
