package postgres

import (
	"context"
	"fmt"

	"courtside-quiz/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// PlayerLoader loads the player catalog from the players table.
type PlayerLoader struct {
	pool *pgxpool.Pool
}

func NewPlayerLoader(pool *pgxpool.Pool) *PlayerLoader {
	return &PlayerLoader{pool: pool}
}

func (l *PlayerLoader) LoadPlayers(ctx context.Context) ([]domain.Player, error) {
	query, args, err := psql.
		Select("name", "origin", "type", "team", "nba_conference", "college_conference", "alternate_answer", "difficulty").
		From("players").
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := l.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load players: %w: %w", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		var (
			p                                           domain.Player
			originType                                  string
			team, nbaConf, collegeConf, alt, difficulty *string
		)
		if err := rows.Scan(&p.Name, &p.Origin, &originType, &team, &nbaConf, &collegeConf, &alt, &difficulty); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		p.Type = domain.OriginType(originType)
		p.Team = deref(team)
		p.NBAConference = deref(nbaConf)
		p.CollegeConference = deref(collegeConf)
		p.AlternateAnswer = deref(alt)
		p.Difficulty = domain.Difficulty(deref(difficulty))
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load players: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return players, nil
}

// SavePlayers upserts catalog records, used to seed the table from a data file.
func (l *PlayerLoader) SavePlayers(ctx context.Context, players []domain.Player) error {
	for _, p := range players {
		query, args, err := psql.
			Insert("players").
			Columns("name", "origin", "type", "team", "nba_conference", "college_conference", "alternate_answer", "difficulty").
			Values(p.Name, p.Origin, string(p.Type), nullable(p.Team), nullable(p.NBAConference),
				nullable(p.CollegeConference), nullable(p.AlternateAnswer), nullable(string(p.Difficulty))).
			Suffix(`ON CONFLICT (name) DO UPDATE SET origin=EXCLUDED.origin, type=EXCLUDED.type, team=EXCLUDED.team,
				nba_conference=EXCLUDED.nba_conference, college_conference=EXCLUDED.college_conference,
				alternate_answer=EXCLUDED.alternate_answer, difficulty=EXCLUDED.difficulty`).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := l.pool.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("save player %q: %w: %w", p.Name, domain.ErrStoreUnavailable, err)
		}
	}
	return nil
}
