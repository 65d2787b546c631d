package app_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"courtside-quiz/internal/app"
	"courtside-quiz/internal/domain"
	"courtside-quiz/internal/infra/memory"
)

type testEnv struct {
	service  *app.QuizService
	sessions *memory.SessionStore
	board    *app.LeaderboardService
	stats    *app.StatsService
	origins  map[string]string
}

func newTestEnv(t *testing.T, players []domain.Player) *testEnv {
	t.Helper()
	return newTestEnvWithStores(t, players, memory.NewLeaderboardStore(), memory.NewAnswerLog())
}

func newTestEnvWithStores(t *testing.T, players []domain.Player, lb app.LeaderboardStore, log app.AnswerLog) *testEnv {
	t.Helper()
	origins := make(map[string]string, len(players))
	for _, p := range players {
		origins[p.Name] = p.Origin
	}
	sessions := memory.NewSessionStore(time.Hour)
	board := app.NewLeaderboardService(lb, nil)
	stats := app.NewStatsService(log)
	generator := app.NewQuestionGeneratorWithSource(players, rand.NewSource(7))
	return &testEnv{
		service:  app.NewQuizService(sessions, generator, stats, board, nil),
		sessions: sessions,
		board:    board,
		stats:    stats,
		origins:  origins,
	}
}

func makePlayers(n int) []domain.Player {
	players := make([]domain.Player, n)
	for i := range players {
		players[i] = domain.Player{
			Name:          fmt.Sprintf("Player %02d", i),
			Origin:        fmt.Sprintf("College %02d", i),
			Type:          domain.OriginCollege,
			Team:          fmt.Sprintf("Team %d", i%3),
			NBAConference: "Eastern",
		}
	}
	return players
}

func (e *testEnv) start(t *testing.T, mode domain.Mode, name string) string {
	t.Helper()
	view, err := e.service.Start(context.Background(), app.StartRequest{Mode: mode, DisplayName: name})
	if err != nil {
		t.Fatalf("start %s: %v", mode, err)
	}
	if view.Status != domain.StatusActive || view.QuestionsAsked != 0 || view.CorrectCount != 0 {
		t.Fatalf("expected fresh active session, got %+v", view)
	}
	return view.ID
}

func (e *testEnv) answer(t *testing.T, id string, correct bool) app.AnswerResult {
	t.Helper()
	ctx := context.Background()
	next, err := e.service.NextQuestion(ctx, id)
	if err != nil {
		t.Fatalf("next question: %v", err)
	}
	if next.Question == nil {
		t.Fatalf("expected a question, got %+v", next)
	}
	chosen := "Nowhere In Particular"
	if correct {
		chosen = e.origins[next.Question.PlayerName]
	}
	res, err := e.service.SubmitAnswer(ctx, id, chosen)
	if err != nil {
		t.Fatalf("submit answer: %v", err)
	}
	if res.Correct != correct {
		t.Fatalf("expected correct=%v for %q, got %+v", correct, chosen, res)
	}
	return res
}

func TestCatalogExhaustionFinishesSession(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, []domain.Player{
		{Name: "P1", Origin: "Duke", Type: domain.OriginCollege},
		{Name: "P2", Origin: "Kentucky", Type: domain.OriginCollege},
	})
	id := env.start(t, domain.ModeQuickQuiz, "")

	env.answer(t, id, true)
	env.answer(t, id, true)

	session, err := env.sessions.Get(ctx, id)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	used := session.Used()
	if len(used) != 2 || len(session.UsedPlayers) != 2 {
		t.Fatalf("expected both players used once, got %v", session.UsedPlayers)
	}
	if _, ok := used["P1"]; !ok {
		t.Fatalf("expected P1 used, got %v", session.UsedPlayers)
	}

	next, err := env.service.NextQuestion(ctx, id)
	if err != nil {
		t.Fatalf("exhaustion must not be an error, got %v", err)
	}
	if !next.Exhausted || next.Question != nil {
		t.Fatalf("expected exhausted signal, got %+v", next)
	}
	if next.Session.Status != domain.StatusFinished || next.Session.Metric != 2 {
		t.Fatalf("expected finished with metric 2, got %+v", next.Session)
	}
}

func TestPerfectRunEndsOnFirstMistake(t *testing.T) {
	env := newTestEnv(t, makePlayers(10))
	id := env.start(t, domain.ModePerfectRun, "Dana")

	for i := 1; i <= 5; i++ {
		res := env.answer(t, id, true)
		if res.Session.CurrentStreak != i {
			t.Fatalf("expected streak %d, got %d", i, res.Session.CurrentStreak)
		}
		if res.Session.Status != domain.StatusActive {
			t.Fatalf("expected active after correct answer, got %s", res.Session.Status)
		}
	}
	res := env.answer(t, id, false)
	if res.Session.Status != domain.StatusFinished {
		t.Fatalf("expected finished after mistake, got %s", res.Session.Status)
	}
	if res.Session.Metric != 5 {
		t.Fatalf("expected metric 5, got %d", res.Session.Metric)
	}
	if res.Session.CurrentStreak != 0 {
		t.Fatalf("expected streak reset to 0, got %d", res.Session.CurrentStreak)
	}
	if res.Session.QuestionsLimit != nil {
		t.Fatalf("perfect run has no limit, got %d", *res.Session.QuestionsLimit)
	}

	entry, err := env.service.SubmitScore(context.Background(), id, "")
	if err != nil {
		t.Fatalf("submit score: %v", err)
	}
	if entry.Metric != 5 || entry.DisplayName != "Dana" || entry.Mode != domain.ModePerfectRun {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if _, err := env.sessions.Get(context.Background(), id); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session discarded after submission, got %v", err)
	}
}

func TestWrongAnswerRequiresContinue(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, makePlayers(30))
	id := env.start(t, domain.ModeStandard, "")

	res := env.answer(t, id, false)
	if res.Session.Status != domain.StatusAwaitingContinue {
		t.Fatalf("expected awaiting continue, got %s", res.Session.Status)
	}
	if res.CorrectAnswer == "" {
		t.Fatalf("expected correct answer to be revealed")
	}

	before, _ := env.service.Session(ctx, id)
	if _, err := env.service.SubmitAnswer(ctx, id, "anything"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if _, err := env.service.NextQuestion(ctx, id); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition for next, got %v", err)
	}
	after, _ := env.service.Session(ctx, id)
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("session changed by rejected calls: %+v -> %+v", before, after)
	}

	view, err := env.service.Continue(ctx, id)
	if err != nil {
		t.Fatalf("continue: %v", err)
	}
	if view.Status != domain.StatusActive {
		t.Fatalf("expected active after continue, got %s", view.Status)
	}
	if _, err := env.service.Continue(ctx, id); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected continue to fail while active, got %v", err)
	}

	res = env.answer(t, id, false)
	if res.Session.Status != domain.StatusAwaitingContinue || res.Session.QuestionsAsked != 2 {
		t.Fatalf("expected second miss to wait again, got %+v", res.Session)
	}
}

func TestCappedModeFinishesAtLimit(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, makePlayers(20))
	id := env.start(t, domain.ModeQuickQuiz, "Eve")

	for i := 1; i <= 9; i++ {
		correct := i%3 != 0
		res := env.answer(t, id, correct)
		if res.Session.Status == domain.StatusFinished {
			t.Fatalf("finished early at question %d", i)
		}
		if !correct {
			if _, err := env.service.Continue(ctx, id); err != nil {
				t.Fatalf("continue: %v", err)
			}
		}
	}
	res := env.answer(t, id, true)
	if res.Session.Status != domain.StatusFinished {
		t.Fatalf("expected finished at limit, got %s", res.Session.Status)
	}
	if res.Session.QuestionsAsked != 10 || *res.Session.QuestionsLimit != 10 {
		t.Fatalf("expected 10/10 asked, got %+v", res.Session)
	}
	if res.Session.Metric != 7 {
		t.Fatalf("expected 7 correct, got %d", res.Session.Metric)
	}
	if _, err := env.service.NextQuestion(ctx, id); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected no questions after finish, got %v", err)
	}
	if _, err := env.service.Stop(ctx, id); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected stop to be rejected for capped mode, got %v", err)
	}
}

func TestWrongFinalAnswerFinishesWithoutContinue(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, makePlayers(20))
	id := env.start(t, domain.ModeQuickQuiz, "")
	for i := 0; i < 9; i++ {
		env.answer(t, id, true)
	}
	res := env.answer(t, id, false)
	if res.Session.Status != domain.StatusFinished || res.Session.Metric != 9 {
		t.Fatalf("expected finished with 9, got %+v", res.Session)
	}
	if _, err := env.service.Continue(ctx, id); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected continue rejected after finish, got %v", err)
	}
}

func TestNextQuestionIsIdempotentUntilAnswered(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, makePlayers(20))
	id := env.start(t, domain.ModeChallenge, "")

	first, err := env.service.NextQuestion(ctx, id)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	again, err := env.service.NextQuestion(ctx, id)
	if err != nil {
		t.Fatalf("next again: %v", err)
	}
	if first.Question.PlayerName != again.Question.PlayerName || again.Question.QuestionNumber != 1 {
		t.Fatalf("expected the pending question again, got %+v and %+v", first.Question, again.Question)
	}
	if again.Session.QuestionsAsked != 0 {
		t.Fatalf("dispatch must not count as asked, got %d", again.Session.QuestionsAsked)
	}
}

func TestSessionNeverRepeatsPlayers(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, makePlayers(15))
	id := env.start(t, domain.ModeUnlimited, "Finn")
	for i := 0; i < 15; i++ {
		env.answer(t, id, i%2 == 0)
	}
	session, _ := env.sessions.Get(ctx, id)
	if len(session.Used()) != len(session.UsedPlayers) || session.QuestionsAsked != 15 {
		t.Fatalf("expected 15 distinct players, got %v", session.UsedPlayers)
	}
	next, err := env.service.NextQuestion(ctx, id)
	if err != nil || !next.Exhausted {
		t.Fatalf("expected exhaustion after the whole catalog, got %+v %v", next, err)
	}
}

func TestStreakResetsAndGrows(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, makePlayers(20))
	id := env.start(t, domain.ModeUnlimited, "Gus")

	pattern := []bool{true, true, false, true, true, true, false, false, true}
	streak := 0
	for _, correct := range pattern {
		res := env.answer(t, id, correct)
		if correct {
			streak++
		} else {
			streak = 0
		}
		if res.Session.CurrentStreak != streak {
			t.Fatalf("expected streak %d, got %d", streak, res.Session.CurrentStreak)
		}
		if res.Session.Status != domain.StatusActive {
			t.Fatalf("unlimited mode must stay active, got %s", res.Session.Status)
		}
	}
	view, err := env.service.Stop(ctx, id)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if view.Status != domain.StatusFinished || view.Metric != 6 {
		t.Fatalf("expected finished with 6 correct, got %+v", view)
	}
}

func TestPracticeAnswersAreLogged(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, makePlayers(10))
	id := env.start(t, domain.ModeUnlimited, "Hana")
	for i := 0; i < 4; i++ {
		res := env.answer(t, id, i != 1)
		if !res.StatRecorded {
			t.Fatalf("expected stat recorded")
		}
	}
	report, err := env.stats.StatsFor(ctx, "Hana")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if report.TotalQuestions != 4 || report.CorrectCount != 3 {
		t.Fatalf("expected 3/4, got %+v", report)
	}

	quick := env.start(t, domain.ModeQuickQuiz, "Hana")
	env.answer(t, quick, true)
	report, _ = env.stats.StatsFor(ctx, "Hana")
	if report.TotalQuestions != 4 {
		t.Fatalf("ranked modes must not log answers, got %d events", report.TotalQuestions)
	}

	if _, err := env.service.SubmitScore(ctx, id, ""); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected unfinished practice submission rejected, got %v", err)
	}
	if _, err := env.service.Stop(ctx, id); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if _, err := env.service.SubmitScore(ctx, id, ""); !errors.Is(err, domain.ErrUnrankedMode) {
		t.Fatalf("expected practice submission rejected, got %v", err)
	}
}

func TestPracticeRequiresDisplayName(t *testing.T) {
	env := newTestEnv(t, makePlayers(3))
	_, err := env.service.Start(context.Background(), app.StartRequest{Mode: domain.ModeUnlimited, DisplayName: "  "})
	if !errors.Is(err, domain.ErrDisplayNameRequired) {
		t.Fatalf("expected display name error, got %v", err)
	}
}

func TestStartRejectsUnknownOptions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, makePlayers(3))
	for _, mode := range []domain.Mode{"", "blitz"} {
		if _, err := env.service.Start(ctx, app.StartRequest{Mode: mode, DisplayName: "Ola"}); !errors.Is(err, domain.ErrUnknownMode) {
			t.Fatalf("mode %q: expected unknown mode, got %v", mode, err)
		}
	}
	_, err := env.service.Start(ctx, app.StartRequest{Mode: domain.ModeQuickQuiz, Difficulty: "impossible"})
	if !errors.Is(err, domain.ErrUnknownDifficulty) {
		t.Fatalf("expected unknown difficulty, got %v", err)
	}
	if env.sessions.Len() != 0 {
		t.Fatalf("rejected starts must not create sessions, got %d", env.sessions.Len())
	}
}

func TestUnknownSession(t *testing.T) {
	env := newTestEnv(t, makePlayers(3))
	ctx := context.Background()
	if _, err := env.service.SubmitAnswer(ctx, "missing", "Duke"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
	if _, err := env.service.Continue(ctx, "missing"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session not found, got %v", err)
	}
}

type failingLog struct{ *memory.AnswerLog }

func (failingLog) AppendEvent(context.Context, domain.AnswerEvent) error {
	return fmt.Errorf("append: %w", domain.ErrStoreUnavailable)
}

func TestFailedEventWriteKeepsAnswer(t *testing.T) {
	env := newTestEnvWithStores(t, makePlayers(5), memory.NewLeaderboardStore(), failingLog{memory.NewAnswerLog()})
	id := env.start(t, domain.ModeUnlimited, "Ivy")
	res := env.answer(t, id, true)
	if res.StatRecorded {
		t.Fatalf("expected stat not recorded")
	}
	if res.Session.CorrectCount != 1 || res.Session.QuestionsAsked != 1 {
		t.Fatalf("expected answer counted anyway, got %+v", res.Session)
	}
}

type flakyBoard struct {
	*memory.LeaderboardStore
	fail bool
}

func (f *flakyBoard) InsertEntry(ctx context.Context, e domain.LeaderboardEntry) (domain.LeaderboardEntry, error) {
	if f.fail {
		return domain.LeaderboardEntry{}, fmt.Errorf("insert: %w", domain.ErrStoreUnavailable)
	}
	return f.LeaderboardStore.InsertEntry(ctx, e)
}

func TestFailedSubmissionKeepsFinishedSession(t *testing.T) {
	ctx := context.Background()
	board := &flakyBoard{LeaderboardStore: memory.NewLeaderboardStore(), fail: true}
	env := newTestEnvWithStores(t, makePlayers(5), board, memory.NewAnswerLog())
	id := env.start(t, domain.ModePerfectRun, "Jo")
	env.answer(t, id, true)
	env.answer(t, id, false)

	if _, err := env.service.SubmitScore(ctx, id, ""); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected store unavailable, got %v", err)
	}
	view, err := env.service.Session(ctx, id)
	if err != nil {
		t.Fatalf("session should survive failed submission: %v", err)
	}
	if view.Status != domain.StatusFinished || view.Metric != 1 {
		t.Fatalf("expected finished result to stand, got %+v", view)
	}

	board.fail = false
	entry, err := env.service.SubmitScore(ctx, id, "Jo R.")
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if entry.Metric != 1 || entry.DisplayName != "Jo R." {
		t.Fatalf("unexpected entry %+v", entry)
	}
}
