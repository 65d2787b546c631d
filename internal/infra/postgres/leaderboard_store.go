package postgres

import (
	"context"
	"fmt"

	"courtside-quiz/internal/domain"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4/pgxpool"
)

// LeaderboardStore persists entries in leaderboard_entries and ranks in SQL.
type LeaderboardStore struct {
	pool *pgxpool.Pool
}

func NewLeaderboardStore(pool *pgxpool.Pool) *LeaderboardStore {
	return &LeaderboardStore{pool: pool}
}

func (s *LeaderboardStore) InsertEntry(ctx context.Context, entry domain.LeaderboardEntry) (domain.LeaderboardEntry, error) {
	query, args, err := psql.
		Insert("leaderboard_entries").
		Columns("mode", "difficulty", "display_name", "metric", "total", "created_at").
		Values(string(entry.Mode), string(entry.Difficulty), entry.DisplayName, entry.Metric, entry.Total, entry.Timestamp).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return domain.LeaderboardEntry{}, err
	}
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&entry.ID); err != nil {
		return domain.LeaderboardEntry{}, fmt.Errorf("insert entry: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return entry, nil
}

func (s *LeaderboardStore) TopEntries(ctx context.Context, q domain.LeaderboardQuery) ([]domain.LeaderboardEntry, error) {
	where := sq.Eq{"mode": string(q.Mode)}
	if q.Difficulty != "" {
		where["difficulty"] = string(q.Difficulty)
	}
	builder := psql.
		Select("id", "mode", "difficulty", "display_name", "metric", "total", "created_at").
		From("leaderboard_entries").
		Where(where).
		OrderBy("metric DESC", "created_at ASC", "id ASC")
	if q.Limit > 0 {
		builder = builder.Limit(uint64(q.Limit))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w: %w", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	entries := []domain.LeaderboardEntry{}
	for rows.Next() {
		var (
			e                domain.LeaderboardEntry
			mode, difficulty string
		)
		if err := rows.Scan(&e.ID, &mode, &difficulty, &e.DisplayName, &e.Metric, &e.Total, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Mode = domain.Mode(mode)
		e.Difficulty = domain.Difficulty(difficulty)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query leaderboard: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return entries, nil
}
