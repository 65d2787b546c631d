package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"courtside-quiz/internal/domain"
	sq "github.com/Masterminds/squirrel"
)

// LeaderboardStore persists entries in leaderboard_entries.
type LeaderboardStore struct {
	db *sql.DB
}

func NewLeaderboardStore(db *sql.DB) *LeaderboardStore {
	return &LeaderboardStore{db: db}
}

func (s *LeaderboardStore) InsertEntry(ctx context.Context, entry domain.LeaderboardEntry) (domain.LeaderboardEntry, error) {
	query, args, err := builder.
		Insert("leaderboard_entries").
		Columns("mode", "difficulty", "display_name", "metric", "total", "created_at").
		Values(string(entry.Mode), string(entry.Difficulty), entry.DisplayName, entry.Metric, entry.Total, entry.Timestamp.UnixNano()).
		ToSql()
	if err != nil {
		return domain.LeaderboardEntry{}, err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return domain.LeaderboardEntry{}, fmt.Errorf("insert entry: %w: %w", domain.ErrStoreUnavailable, err)
	}
	if entry.ID, err = res.LastInsertId(); err != nil {
		return domain.LeaderboardEntry{}, fmt.Errorf("insert entry: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return entry, nil
}

func (s *LeaderboardStore) TopEntries(ctx context.Context, q domain.LeaderboardQuery) ([]domain.LeaderboardEntry, error) {
	where := sq.Eq{"mode": string(q.Mode)}
	if q.Difficulty != "" {
		where["difficulty"] = string(q.Difficulty)
	}
	sel := builder.
		Select("id", "mode", "difficulty", "display_name", "metric", "total", "created_at").
		From("leaderboard_entries").
		Where(where).
		OrderBy("metric DESC", "created_at ASC", "id ASC")
	if q.Limit > 0 {
		sel = sel.Limit(uint64(q.Limit))
	}
	query, args, err := sel.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w: %w", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	entries := []domain.LeaderboardEntry{}
	for rows.Next() {
		var (
			e                domain.LeaderboardEntry
			mode, difficulty string
			createdAt        int64
		)
		if err := rows.Scan(&e.ID, &mode, &difficulty, &e.DisplayName, &e.Metric, &e.Total, &createdAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Mode = domain.Mode(mode)
		e.Difficulty = domain.Difficulty(difficulty)
		e.Timestamp = time.Unix(0, createdAt).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query leaderboard: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return entries, nil
}
