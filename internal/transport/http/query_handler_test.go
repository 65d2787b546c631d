package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"courtside-quiz/internal/app"
	"courtside-quiz/internal/domain"
)

func newQueryServer(t *testing.T, board *app.LeaderboardService, stats *app.StatsService) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	NewQueryHandler(board, stats, nil).Register(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func getJSON(t *testing.T, url string, wantStatus int, out any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("get %s: expected status %d, got %d", url, wantStatus, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}

func TestLeaderboardEndpoint(t *testing.T) {
	ctx := context.Background()
	_, board, stats := newTestServices()
	for i, name := range []string{"Ann", "Ben", "Cat"} {
		if _, err := board.Submit(ctx, app.Submission{Mode: domain.ModeChallenge, Difficulty: domain.DifficultyHard, DisplayName: name, Metric: 10 * (i + 1)}); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	server := newQueryServer(t, board, stats)

	var resp leaderboardResponse
	getJSON(t, server.URL+"/leaderboard/challenge?limit=2&difficulty=hard", http.StatusOK, &resp)
	if resp.Mode != domain.ModeChallenge || len(resp.Entries) != 2 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Entries[0].Rank != 1 || resp.Entries[0].DisplayName != "Cat" || resp.Entries[1].DisplayName != "Ben" {
		t.Fatalf("unexpected ranking %+v", resp.Entries)
	}

	var practice leaderboardResponse
	getJSON(t, server.URL+"/leaderboard/unlimited", http.StatusOK, &practice)
	if len(practice.Entries) != 0 {
		t.Fatalf("expected empty practice board, got %+v", practice.Entries)
	}

	var bad errorPayload
	getJSON(t, server.URL+"/leaderboard/blitz", http.StatusBadRequest, &bad)
	if bad.Code != "bad_request" {
		t.Fatalf("expected bad_request, got %+v", bad)
	}
	getJSON(t, server.URL+"/leaderboard/quick?limit=ten", http.StatusBadRequest, &bad)
}

func TestStatsEndpoint(t *testing.T) {
	ctx := context.Background()
	_, board, stats := newTestServices()
	for _, correct := range []bool{true, false, false} {
		if err := stats.Record(ctx, domain.AnswerEvent{DisplayName: "Dev", PlayerName: "X", PlayerTeam: "Heat", Correct: correct}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	server := newQueryServer(t, board, stats)

	var report domain.StatsReport
	getJSON(t, server.URL+"/stats/Dev", http.StatusOK, &report)
	if report.TotalQuestions != 3 || report.CorrectCount != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(report.MostMissedPlayers) != 1 || report.MostMissedPlayers[0].PlayerName != "X" {
		t.Fatalf("expected X most missed, got %+v", report.MostMissedPlayers)
	}
	if report.AccuracyByTeam.Worst == nil || report.AccuracyByTeam.Worst.Key != "Heat" {
		t.Fatalf("expected Heat breakdown, got %+v", report.AccuracyByTeam)
	}
}

type brokenLog struct{}

func (brokenLog) AppendEvent(context.Context, domain.AnswerEvent) error { return nil }

func (brokenLog) EventsFor(context.Context, string) ([]domain.AnswerEvent, error) {
	return nil, errors.Join(domain.ErrStoreUnavailable, errors.New("connection refused"))
}

func TestStatsEndpointStoreUnavailable(t *testing.T) {
	_, board, _ := newTestServices()
	server := newQueryServer(t, board, app.NewStatsService(brokenLog{}))

	var body errorPayload
	getJSON(t, server.URL+"/stats/Dev", http.StatusServiceUnavailable, &body)
	if body.Code != "store_unavailable" {
		t.Fatalf("expected store_unavailable, got %+v", body)
	}
}
