package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"courtside-quiz/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionRepository abstracts how quiz sessions are stored (in-memory, Redis, etc).
// Get returns a private copy; changes only take effect through Save.
type SessionRepository interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// StartRequest opens a new session.
type StartRequest struct {
	Mode        domain.Mode
	Difficulty  domain.Difficulty
	DisplayName string
}

// QuestionView is what the player sees for a dispatched question.
type QuestionView struct {
	PlayerName     string `json:"playerName"`
	Team           string `json:"team,omitempty"`
	NBAConference  string `json:"nbaConference,omitempty"`
	QuestionNumber int    `json:"questionNumber"`
}

// NextResult is either a question or the signal that the catalog ran dry
// and the session has finished.
type NextResult struct {
	Question  *QuestionView `json:"question,omitempty"`
	Exhausted bool          `json:"exhausted"`
	Session   SessionView   `json:"session"`
}

// QuizService contains the core quiz use cases.
type QuizService struct {
	sessions  SessionRepository
	generator *QuestionGenerator
	stats     *StatsService
	board     *LeaderboardService
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// QuizOption customises a QuizService.
type QuizOption func(*QuizService)

// WithClock is test-only for deterministic timestamps.
func WithClock(now func() time.Time) QuizOption {
	return func(s *QuizService) { s.now = now }
}

// WithIDGenerator overrides session id generation.
func WithIDGenerator(newID func() string) QuizOption {
	return func(s *QuizService) { s.newID = newID }
}

func NewQuizService(sessions SessionRepository, generator *QuestionGenerator, stats *StatsService, board *LeaderboardService, logger *zap.Logger, opts ...QuizOption) *QuizService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &QuizService{
		sessions:  sessions,
		generator: generator,
		stats:     stats,
		board:     board,
		logger:    logger,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start creates a session in the Active state.
func (s *QuizService) Start(ctx context.Context, req StartRequest) (SessionView, error) {
	if !req.Mode.Valid() {
		return SessionView{}, fmt.Errorf("%w: %q", domain.ErrUnknownMode, req.Mode)
	}
	if req.Difficulty == "" {
		req.Difficulty = domain.DifficultyHard
	}
	if !req.Difficulty.Valid() {
		return SessionView{}, fmt.Errorf("%w: %q", domain.ErrUnknownDifficulty, req.Difficulty)
	}
	name := strings.TrimSpace(req.DisplayName)
	if req.Mode == domain.ModeUnlimited && name == "" {
		return SessionView{}, domain.ErrDisplayNameRequired
	}

	session := NewSession(s.newID(), req.Mode, req.Difficulty, name, s.now().UTC())
	if err := s.sessions.Save(ctx, session); err != nil {
		return SessionView{}, err
	}
	s.logger.Info("session started",
		zap.String("sessionId", session.ID),
		zap.String("mode", string(session.Mode)),
		zap.String("difficulty", string(session.Difficulty)),
		zap.Int("pool", s.generator.PoolSize(session.Difficulty)))
	return session.View(), nil
}

// Session returns the current view of a session.
func (s *QuizService) Session(ctx context.Context, id string) (SessionView, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return SessionView{}, err
	}
	return session.View(), nil
}

// NextQuestion dispatches a question. A question that was dispatched but not
// yet answered is returned again, so retries never count twice.
func (s *QuizService) NextQuestion(ctx context.Context, id string) (NextResult, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return NextResult{}, err
	}
	if session.Status == domain.StatusActive && session.Current != nil {
		return NextResult{Question: s.questionView(session, *session.Current), Session: session.View()}, nil
	}
	if session.Status != domain.StatusActive {
		return NextResult{}, session.invalid("next")
	}

	now := s.now().UTC()
	q, err := s.generator.Next(session.Difficulty, session.Used())
	if errors.Is(err, domain.ErrCatalogExhausted) {
		if err := session.Exhaust(now); err != nil {
			return NextResult{}, err
		}
		if err := s.sessions.Save(ctx, session); err != nil {
			return NextResult{}, err
		}
		s.logger.Info("catalog exhausted, session finished",
			zap.String("sessionId", session.ID), zap.Int("asked", session.QuestionsAsked))
		return NextResult{Exhausted: true, Session: session.View()}, nil
	}
	if err != nil {
		return NextResult{}, err
	}

	if err := session.Dispatch(q, now); err != nil {
		return NextResult{}, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return NextResult{}, err
	}
	return NextResult{Question: s.questionView(session, q), Session: session.View()}, nil
}

// SubmitAnswer grades the pending question. In practice mode the answer is
// also logged; a failed log write is reported through StatRecorded and does
// not undo the answer.
func (s *QuizService) SubmitAnswer(ctx context.Context, id, chosen string) (AnswerResult, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return AnswerResult{}, err
	}
	if session.Current == nil {
		return AnswerResult{}, session.invalid("answer")
	}
	player := session.Current.Player

	now := s.now().UTC()
	correct, err := session.Answer(chosen, now)
	if err != nil {
		return AnswerResult{}, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return AnswerResult{}, err
	}

	result := AnswerResult{
		PlayerName:    player.Name,
		Correct:       correct,
		CorrectAnswer: answerDisplay(player),
		Session:       session.View(),
	}
	if session.Mode == domain.ModeUnlimited {
		err := s.stats.Record(ctx, domain.AnswerEvent{
			DisplayName:       session.DisplayName,
			PlayerName:        player.Name,
			PlayerTeam:        player.Team,
			NBAConference:     player.NBAConference,
			CollegeConference: player.CollegeConference,
			Correct:           correct,
			Timestamp:         now,
		})
		if err != nil {
			s.logger.Warn("answer event not recorded", zap.String("sessionId", session.ID), zap.Error(err))
		} else {
			result.StatRecorded = true
		}
	}
	if session.Status == domain.StatusFinished {
		s.logger.Info("session finished",
			zap.String("sessionId", session.ID),
			zap.String("mode", string(session.Mode)),
			zap.Int("metric", session.Metric()))
	}
	return result, nil
}

// Continue resumes after a wrong answer in a capped mode.
func (s *QuizService) Continue(ctx context.Context, id string) (SessionView, error) {
	return s.transition(ctx, id, (*Session).Continue)
}

// Stop ends a practice session.
func (s *QuizService) Stop(ctx context.Context, id string) (SessionView, error) {
	return s.transition(ctx, id, (*Session).Stop)
}

// SubmitScore records a finished session on the leaderboard and discards
// the session. If the store fails the session stays finished so the caller
// can retry.
func (s *QuizService) SubmitScore(ctx context.Context, id, displayName string) (domain.LeaderboardEntry, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return domain.LeaderboardEntry{}, err
	}
	if session.Status != domain.StatusFinished {
		return domain.LeaderboardEntry{}, session.invalid("submit")
	}
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = session.DisplayName
	}

	entry, err := s.board.Submit(ctx, Submission{
		Mode:        session.Mode,
		Difficulty:  session.Difficulty,
		DisplayName: name,
		Metric:      session.Metric(),
		Total:       session.QuestionsAsked,
	})
	if err != nil {
		return domain.LeaderboardEntry{}, err
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		s.logger.Warn("finished session not discarded", zap.String("sessionId", id), zap.Error(err))
	}
	return entry, nil
}

func (s *QuizService) transition(ctx context.Context, id string, apply func(*Session, time.Time) error) (SessionView, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return SessionView{}, err
	}
	if err := apply(session, s.now().UTC()); err != nil {
		return SessionView{}, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return SessionView{}, err
	}
	return session.View(), nil
}

func (s *QuizService) questionView(session *Session, q domain.Question) *QuestionView {
	return &QuestionView{
		PlayerName:     q.Prompt(),
		Team:           q.Player.Team,
		NBAConference:  q.Player.NBAConference,
		QuestionNumber: session.QuestionsAsked + 1,
	}
}
