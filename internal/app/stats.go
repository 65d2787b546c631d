package app

import (
	"cmp"
	"context"
	"slices"

	"courtside-quiz/internal/domain"
	"golang.org/x/sync/singleflight"
)

const (
	// MinGroupSample is the number of attempts a team or conference needs
	// before it can be reported as best or worst.
	MinGroupSample = 3
	// MissThreshold is the number of misses that puts a player on the most-missed list.
	MissThreshold = 2
	// TrendWindow is how many recent answers the trend covers.
	TrendWindow = 50
)

// AnswerLog is the append-only log of practice answers.
type AnswerLog interface {
	AppendEvent(ctx context.Context, event domain.AnswerEvent) error
	EventsFor(ctx context.Context, displayName string) ([]domain.AnswerEvent, error)
}

// StatsService records practice answers and reports on them.
type StatsService struct {
	log AnswerLog
	sf  singleflight.Group
}

func NewStatsService(log AnswerLog) *StatsService {
	return &StatsService{log: log}
}

// Record appends one answer event.
func (s *StatsService) Record(ctx context.Context, event domain.AnswerEvent) error {
	return s.log.AppendEvent(ctx, event)
}

// StatsFor scans every event of displayName. Concurrent calls for the same
// name share a single scan; nothing is cached between calls. The shared scan
// is not tied to any one caller's cancellation, and each caller gets its own
// copy of the report.
func (s *StatsService) StatsFor(ctx context.Context, displayName string) (domain.StatsReport, error) {
	ch := s.sf.DoChan(displayName, func() (interface{}, error) {
		events, err := s.log.EventsFor(context.WithoutCancel(ctx), displayName)
		if err != nil {
			return domain.StatsReport{}, err
		}
		return Aggregate(displayName, events), nil
	})
	select {
	case <-ctx.Done():
		return domain.StatsReport{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return domain.StatsReport{}, res.Err
		}
		return res.Val.(domain.StatsReport).Clone(), nil
	}
}

// Aggregate computes a report from the complete event history of one name.
func Aggregate(displayName string, events []domain.AnswerEvent) domain.StatsReport {
	report := domain.StatsReport{
		DisplayName:       displayName,
		TotalQuestions:    len(events),
		MostMissedPlayers: []domain.MissedPlayer{},
		Recent:            []domain.TrendPoint{},
	}
	for _, e := range events {
		if e.Correct {
			report.CorrectCount++
		}
	}
	if report.TotalQuestions > 0 {
		report.OverallAccuracy = float64(report.CorrectCount) / float64(report.TotalQuestions)
	}

	report.AccuracyByTeam = breakdown(events, func(e domain.AnswerEvent) string { return e.PlayerTeam })
	report.AccuracyByNBAConference = breakdown(events, func(e domain.AnswerEvent) string { return e.NBAConference })
	report.AccuracyByCollegeConference = breakdown(events, func(e domain.AnswerEvent) string { return e.CollegeConference })
	report.MostMissedPlayers = mostMissed(events)
	report.Recent = recentTrend(events)
	return report
}

func breakdown(events []domain.AnswerEvent, key func(domain.AnswerEvent) string) domain.Breakdown {
	index := make(map[string]int)
	groups := []domain.GroupAccuracy{}
	for _, e := range events {
		k := key(e)
		if k == "" {
			continue
		}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, domain.GroupAccuracy{Key: k})
		}
		groups[i].Attempts++
		if e.Correct {
			groups[i].Correct++
		}
	}
	for i := range groups {
		groups[i].Accuracy = float64(groups[i].Correct) / float64(groups[i].Attempts)
	}

	// Best first; ties go to the larger sample, then the name.
	slices.SortFunc(groups, func(a, b domain.GroupAccuracy) int {
		if c := compareAccuracy(b, a); c != 0 {
			return c
		}
		if a.Attempts != b.Attempts {
			return b.Attempts - a.Attempts
		}
		return cmp.Compare(a.Key, b.Key)
	})

	out := domain.Breakdown{Groups: groups}
	for i := range groups {
		g := groups[i]
		if g.Attempts < MinGroupSample {
			continue
		}
		if out.Best == nil {
			best := g
			out.Best = &best
		}
		if out.Worst == nil || worseThan(g, *out.Worst) {
			worst := g
			out.Worst = &worst
		}
	}
	return out
}

// compareAccuracy orders by correct/attempts without floating point.
func compareAccuracy(a, b domain.GroupAccuracy) int {
	return cmp.Compare(a.Correct*b.Attempts, b.Correct*a.Attempts)
}

func worseThan(a, b domain.GroupAccuracy) bool {
	if c := compareAccuracy(a, b); c != 0 {
		return c < 0
	}
	if a.Attempts != b.Attempts {
		return a.Attempts > b.Attempts
	}
	return a.Key < b.Key
}

func mostMissed(events []domain.AnswerEvent) []domain.MissedPlayer {
	index := make(map[string]int)
	players := []domain.MissedPlayer{}
	for _, e := range events {
		i, ok := index[e.PlayerName]
		if !ok {
			i = len(players)
			index[e.PlayerName] = i
			players = append(players, domain.MissedPlayer{PlayerName: e.PlayerName})
		}
		players[i].Attempts++
		if !e.Correct {
			players[i].Misses++
		}
	}
	missed := slices.DeleteFunc(players, func(p domain.MissedPlayer) bool {
		return p.Misses < MissThreshold
	})
	slices.SortFunc(missed, func(a, b domain.MissedPlayer) int {
		if a.Misses != b.Misses {
			return b.Misses - a.Misses
		}
		return cmp.Compare(a.PlayerName, b.PlayerName)
	})
	return missed
}

func recentTrend(events []domain.AnswerEvent) []domain.TrendPoint {
	ordered := slices.Clone(events)
	slices.SortStableFunc(ordered, func(a, b domain.AnswerEvent) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	if len(ordered) > TrendWindow {
		ordered = ordered[len(ordered)-TrendWindow:]
	}
	points := make([]domain.TrendPoint, len(ordered))
	for i, e := range ordered {
		points[i] = domain.TrendPoint{Correct: e.Correct}
	}
	return points
}
