package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"courtside-quiz/internal/app"
	"courtside-quiz/internal/domain"
	"github.com/redis/go-redis/v9"
)

// LeaderboardStore appends entries to one list per mode:
//
//	INCR  quiz:leaderboard:seq
//	RPUSH quiz:leaderboard:{mode} <json>
//
// Reads take the whole list with a single LRANGE and rank it in process.
type LeaderboardStore struct {
	client *redis.Client
}

func NewLeaderboardStore(client *redis.Client) *LeaderboardStore {
	return &LeaderboardStore{client: client}
}

func (s *LeaderboardStore) InsertEntry(ctx context.Context, entry domain.LeaderboardEntry) (domain.LeaderboardEntry, error) {
	id, err := s.client.Incr(ctx, "quiz:leaderboard:seq").Result()
	if err != nil {
		return domain.LeaderboardEntry{}, fmt.Errorf("leaderboard sequence: %w: %w", domain.ErrStoreUnavailable, err)
	}
	entry.ID = id
	data, err := json.Marshal(entry)
	if err != nil {
		return domain.LeaderboardEntry{}, fmt.Errorf("marshal entry: %w", err)
	}
	if err := s.client.RPush(ctx, s.key(entry.Mode), data).Err(); err != nil {
		return domain.LeaderboardEntry{}, fmt.Errorf("insert entry: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return entry, nil
}

func (s *LeaderboardStore) TopEntries(ctx context.Context, q domain.LeaderboardQuery) ([]domain.LeaderboardEntry, error) {
	raw, err := s.client.LRange(ctx, s.key(q.Mode), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w: %w", domain.ErrStoreUnavailable, err)
	}
	entries := make([]domain.LeaderboardEntry, 0, len(raw))
	for _, item := range raw {
		var entry domain.LeaderboardEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, fmt.Errorf("unmarshal entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return app.RankEntries(entries, q), nil
}

func (s *LeaderboardStore) key(mode domain.Mode) string {
	return "quiz:leaderboard:" + string(mode)
}
