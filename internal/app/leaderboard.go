package app

import (
	"context"
	"slices"
	"strings"
	"time"

	"courtside-quiz/internal/domain"
	"go.uber.org/zap"
)

const (
	// DefaultTopN is used when a caller does not ask for a specific board size.
	DefaultTopN = 10
	// MaxTopN caps board reads.
	MaxTopN = 100

	anonymousName = "Anonymous"
)

// LeaderboardStore persists leaderboard entries. Implementations assign ID
// and must return entries ranked as RankEntries does.
type LeaderboardStore interface {
	InsertEntry(ctx context.Context, entry domain.LeaderboardEntry) (domain.LeaderboardEntry, error)
	TopEntries(ctx context.Context, q domain.LeaderboardQuery) ([]domain.LeaderboardEntry, error)
}

// Submission is a finished result offered to the leaderboard.
type Submission struct {
	Mode        domain.Mode
	Difficulty  domain.Difficulty
	DisplayName string
	Metric      int
	Total       int
}

// LeaderboardService ranks finished sessions per mode.
type LeaderboardService struct {
	store  LeaderboardStore
	logger *zap.Logger
	now    func() time.Time
}

func NewLeaderboardService(store LeaderboardStore, logger *zap.Logger) *LeaderboardService {
	return NewLeaderboardServiceWithClock(store, logger, time.Now)
}

// NewLeaderboardServiceWithClock is test-only for deterministic timestamps.
func NewLeaderboardServiceWithClock(store LeaderboardStore, logger *zap.Logger, now func() time.Time) *LeaderboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeaderboardService{store: store, logger: logger, now: now}
}

// Submit appends a result. Practice results are rejected and never stored.
func (l *LeaderboardService) Submit(ctx context.Context, sub Submission) (domain.LeaderboardEntry, error) {
	if !sub.Mode.Ranked() {
		l.logger.Info("rejected unranked leaderboard submission",
			zap.String("mode", string(sub.Mode)), zap.String("displayName", sub.DisplayName))
		return domain.LeaderboardEntry{}, domain.ErrUnrankedMode
	}
	name := strings.TrimSpace(sub.DisplayName)
	if name == "" {
		name = anonymousName
	}
	if sub.Metric < 0 {
		sub.Metric = 0
	}
	entry, err := l.store.InsertEntry(ctx, domain.LeaderboardEntry{
		Mode:        sub.Mode,
		Difficulty:  sub.Difficulty,
		DisplayName: name,
		Metric:      sub.Metric,
		Total:       sub.Total,
		Timestamp:   l.now().UTC(),
	})
	if err != nil {
		l.logger.Error("leaderboard insert failed", zap.String("mode", string(sub.Mode)), zap.Error(err))
		return domain.LeaderboardEntry{}, err
	}
	return entry, nil
}

// TopN returns up to n entries of a board, best first. An empty difficulty
// reads every difficulty of the mode.
func (l *LeaderboardService) TopN(ctx context.Context, mode domain.Mode, difficulty domain.Difficulty, n int) ([]domain.LeaderboardEntry, error) {
	if !mode.Ranked() {
		return []domain.LeaderboardEntry{}, nil
	}
	entries, err := l.store.TopEntries(ctx, domain.LeaderboardQuery{
		Mode:       mode,
		Difficulty: difficulty,
		Limit:      clampTopN(n),
	})
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return entries, nil
}

func clampTopN(n int) int {
	switch {
	case n <= 0:
		return DefaultTopN
	case n > MaxTopN:
		return MaxTopN
	}
	return n
}

// RankEntries filters entries to the query's board and orders them by metric
// descending, then earlier timestamp, then insertion order. The input is not modified.
func RankEntries(entries []domain.LeaderboardEntry, q domain.LeaderboardQuery) []domain.LeaderboardEntry {
	ranked := make([]domain.LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		if e.Mode != q.Mode {
			continue
		}
		if q.Difficulty != "" && e.Difficulty != q.Difficulty {
			continue
		}
		ranked = append(ranked, e)
	}
	slices.SortStableFunc(ranked, func(a, b domain.LeaderboardEntry) int {
		if a.Metric != b.Metric {
			return b.Metric - a.Metric
		}
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	if q.Limit > 0 && len(ranked) > q.Limit {
		ranked = ranked[:q.Limit]
	}
	return ranked
}
