package memory

import (
	"context"
	"sync"

	"courtside-quiz/internal/app"
	"courtside-quiz/internal/domain"
)

// LeaderboardStore keeps entries in insertion order and ranks on read.
type LeaderboardStore struct {
	mu      sync.RWMutex
	nextID  int64
	entries []domain.LeaderboardEntry
}

func NewLeaderboardStore() *LeaderboardStore {
	return &LeaderboardStore{}
}

func (s *LeaderboardStore) InsertEntry(_ context.Context, entry domain.LeaderboardEntry) (domain.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	entry.ID = s.nextID
	s.entries = append(s.entries, entry)
	return entry, nil
}

func (s *LeaderboardStore) TopEntries(_ context.Context, q domain.LeaderboardQuery) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	// RankEntries copies, so callers never see the backing slice.
	return app.RankEntries(s.entries, q), nil
}
