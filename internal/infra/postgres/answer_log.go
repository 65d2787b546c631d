package postgres

import (
	"context"
	"fmt"

	"courtside-quiz/internal/domain"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4/pgxpool"
)

// AnswerLog persists practice answers in answer_events.
type AnswerLog struct {
	pool *pgxpool.Pool
}

func NewAnswerLog(pool *pgxpool.Pool) *AnswerLog {
	return &AnswerLog{pool: pool}
}

func (l *AnswerLog) AppendEvent(ctx context.Context, event domain.AnswerEvent) error {
	query, args, err := psql.
		Insert("answer_events").
		Columns("display_name", "player_name", "player_team", "nba_conference", "college_conference", "correct", "created_at").
		Values(event.DisplayName, event.PlayerName, nullable(event.PlayerTeam), nullable(event.NBAConference),
			nullable(event.CollegeConference), event.Correct, event.Timestamp).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := l.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("append event: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (l *AnswerLog) EventsFor(ctx context.Context, displayName string) ([]domain.AnswerEvent, error) {
	query, args, err := psql.
		Select("id", "display_name", "player_name", "player_team", "nba_conference", "college_conference", "correct", "created_at").
		From("answer_events").
		Where(sq.Eq{"display_name": displayName}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := l.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w: %w", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	events := []domain.AnswerEvent{}
	for rows.Next() {
		var (
			e                          domain.AnswerEvent
			team, nbaConf, collegeConf *string
		)
		if err := rows.Scan(&e.ID, &e.DisplayName, &e.PlayerName, &team, &nbaConf, &collegeConf, &e.Correct, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.PlayerTeam = deref(team)
		e.NBAConference = deref(nbaConf)
		e.CollegeConference = deref(collegeConf)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query events: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return events, nil
}
