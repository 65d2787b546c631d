package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"courtside-quiz/internal/domain"
	"github.com/redis/go-redis/v9"
)

// AnswerLog appends practice answers to one list per display name:
//
//	RPUSH quiz:events:{displayName} <json>
type AnswerLog struct {
	client *redis.Client
}

func NewAnswerLog(client *redis.Client) *AnswerLog {
	return &AnswerLog{client: client}
}

func (l *AnswerLog) AppendEvent(ctx context.Context, event domain.AnswerEvent) error {
	id, err := l.client.Incr(ctx, "quiz:events:seq").Result()
	if err != nil {
		return fmt.Errorf("event sequence: %w: %w", domain.ErrStoreUnavailable, err)
	}
	event.ID = id
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := l.client.RPush(ctx, l.key(event.DisplayName), data).Err(); err != nil {
		return fmt.Errorf("append event: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (l *AnswerLog) EventsFor(ctx context.Context, displayName string) ([]domain.AnswerEvent, error) {
	raw, err := l.client.LRange(ctx, l.key(displayName), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("query events: %w: %w", domain.ErrStoreUnavailable, err)
	}
	events := make([]domain.AnswerEvent, 0, len(raw))
	for _, item := range raw {
		var event domain.AnswerEvent
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			return nil, fmt.Errorf("unmarshal event: %w", err)
		}
		events = append(events, event)
	}
	return events, nil
}

func (l *AnswerLog) key(displayName string) string {
	return "quiz:events:" + displayName
}
