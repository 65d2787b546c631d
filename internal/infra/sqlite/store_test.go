package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"courtside-quiz/internal/domain"
)

func openTestDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quiz.db")
	db, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, path
}

func TestLeaderboardStoreRanksAndFilters(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)
	store := NewLeaderboardStore(db)
	base := time.Date(2026, 7, 4, 18, 0, 0, 0, time.UTC)

	for _, e := range []domain.LeaderboardEntry{
		{Mode: domain.ModeQuickQuiz, Difficulty: domain.DifficultyHard, DisplayName: "Bob", Metric: 8, Total: 10, Timestamp: base.Add(time.Second)},
		{Mode: domain.ModeQuickQuiz, Difficulty: domain.DifficultyHard, DisplayName: "Alice", Metric: 8, Total: 10, Timestamp: base},
		{Mode: domain.ModeQuickQuiz, Difficulty: domain.DifficultyEasy, DisplayName: "Cy", Metric: 10, Total: 10, Timestamp: base},
		{Mode: domain.ModePerfectRun, Difficulty: domain.DifficultyHard, DisplayName: "Dee", Metric: 30, Total: 31, Timestamp: base},
	} {
		saved, err := store.InsertEntry(ctx, e)
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		if saved.ID == 0 {
			t.Fatalf("expected generated id")
		}
	}

	hard, err := store.TopEntries(ctx, domain.LeaderboardQuery{Mode: domain.ModeQuickQuiz, Difficulty: domain.DifficultyHard, Limit: 10})
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(hard) != 2 || hard[0].DisplayName != "Alice" || hard[1].DisplayName != "Bob" {
		t.Fatalf("expected Alice before Bob, got %+v", hard)
	}
	if !hard[0].Timestamp.Equal(base) || hard[0].Total != 10 || hard[0].Difficulty != domain.DifficultyHard {
		t.Fatalf("entry did not round trip: %+v", hard[0])
	}

	all, err := store.TopEntries(ctx, domain.LeaderboardQuery{Mode: domain.ModeQuickQuiz, Limit: 1})
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(all) != 1 || all[0].DisplayName != "Cy" {
		t.Fatalf("expected Cy on top, got %+v", all)
	}
}

func TestEntriesSurviveReopen(t *testing.T) {
	ctx := context.Background()
	db, path := openTestDB(t)
	if _, err := NewLeaderboardStore(db).InsertEntry(ctx, domain.LeaderboardEntry{
		Mode: domain.ModeChallenge, DisplayName: "Eli", Metric: 41, Timestamp: time.Now(),
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	top, err := NewLeaderboardStore(reopened).TopEntries(ctx, domain.LeaderboardQuery{Mode: domain.ModeChallenge, Limit: 10})
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 1 || top[0].Metric != 41 {
		t.Fatalf("expected persisted entry, got %+v", top)
	}
}

func TestAnswerLogRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, _ := openTestDB(t)
	log := NewAnswerLog(db)
	base := time.Date(2026, 7, 4, 18, 0, 0, 0, time.UTC)

	events := []domain.AnswerEvent{
		{DisplayName: "Gia", PlayerName: "Jayson Tatum", PlayerTeam: "Boston Celtics", NBAConference: "Eastern", CollegeConference: "ACC", Correct: true, Timestamp: base.Add(time.Minute)},
		{DisplayName: "Gia", PlayerName: "Luka Doncic", PlayerTeam: "Dallas Mavericks", NBAConference: "Western", Correct: false, Timestamp: base},
		{DisplayName: "Hal", PlayerName: "Luka Doncic", Correct: true, Timestamp: base},
	}
	for _, e := range events {
		if err := log.AppendEvent(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := log.EventsFor(ctx, "Gia")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].PlayerName != "Luka Doncic" || got[0].Correct || got[0].CollegeConference != "" {
		t.Fatalf("unexpected first event %+v", got[0])
	}
	if got[1].PlayerTeam != "Boston Celtics" || !got[1].Correct || !got[1].Timestamp.Equal(base.Add(time.Minute)) {
		t.Fatalf("unexpected second event %+v", got[1])
	}

	none, err := log.EventsFor(ctx, "Nobody")
	if err != nil || len(none) != 0 {
		t.Fatalf("expected empty history, got %+v %v", none, err)
	}
}
