package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"courtside-quiz/internal/domain"
	sq "github.com/Masterminds/squirrel"
)

// AnswerLog persists practice answers in answer_events.
type AnswerLog struct {
	db *sql.DB
}

func NewAnswerLog(db *sql.DB) *AnswerLog {
	return &AnswerLog{db: db}
}

func (l *AnswerLog) AppendEvent(ctx context.Context, event domain.AnswerEvent) error {
	query, args, err := builder.
		Insert("answer_events").
		Columns("display_name", "player_name", "player_team", "nba_conference", "college_conference", "correct", "created_at").
		Values(event.DisplayName, event.PlayerName, nullString(event.PlayerTeam), nullString(event.NBAConference),
			nullString(event.CollegeConference), event.Correct, event.Timestamp.UnixNano()).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append event: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (l *AnswerLog) EventsFor(ctx context.Context, displayName string) ([]domain.AnswerEvent, error) {
	query, args, err := builder.
		Select("id", "display_name", "player_name", "player_team", "nba_conference", "college_conference", "correct", "created_at").
		From("answer_events").
		Where(sq.Eq{"display_name": displayName}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w: %w", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	events := []domain.AnswerEvent{}
	for rows.Next() {
		var (
			e                          domain.AnswerEvent
			team, nbaConf, collegeConf sql.NullString
			createdAt                  int64
		)
		if err := rows.Scan(&e.ID, &e.DisplayName, &e.PlayerName, &team, &nbaConf, &collegeConf, &e.Correct, &createdAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.PlayerTeam = team.String
		e.NBAConference = nbaConf.String
		e.CollegeConference = collegeConf.String
		e.Timestamp = time.Unix(0, createdAt).UTC()
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query events: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return events, nil
}
