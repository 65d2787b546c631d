package app

import (
	"fmt"
	"slices"
	"time"

	"courtside-quiz/internal/domain"
)

// Session is a single quiz attempt. It holds no locks: a session belongs to
// one client and repositories hand out copies, so mutations happen on a
// private value that is saved back only when a transition succeeds.
type Session struct {
	ID             string            `json:"id"`
	Mode           domain.Mode       `json:"mode"`
	Difficulty     domain.Difficulty `json:"difficulty"`
	DisplayName    string            `json:"displayName,omitempty"`
	Status         domain.Status     `json:"status"`
	QuestionsAsked int               `json:"questionsAsked"`
	QuestionsLimit int               `json:"questionsLimit,omitempty"` // zero for uncapped modes
	CorrectCount   int               `json:"correctCount"`
	CurrentStreak  int               `json:"currentStreak"`
	FinalMetric    int               `json:"finalMetric"`
	UsedPlayers    []string          `json:"usedPlayers"`
	Current        *domain.Question  `json:"current,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// SessionView is the externally observable part of a session.
type SessionView struct {
	ID             string            `json:"sessionId"`
	Mode           domain.Mode       `json:"mode"`
	Difficulty     domain.Difficulty `json:"difficulty"`
	Status         domain.Status     `json:"status"`
	QuestionsAsked int               `json:"questionsAsked"`
	QuestionsLimit *int              `json:"questionsLimit"`
	CorrectCount   int               `json:"correctCount"`
	CurrentStreak  int               `json:"currentStreak"`
	Metric         int               `json:"metric"`
}

// AnswerResult describes the outcome of one submitted answer.
type AnswerResult struct {
	PlayerName    string      `json:"playerName"`
	Correct       bool        `json:"correct"`
	CorrectAnswer string      `json:"correctAnswer"`
	StatRecorded  bool        `json:"statRecorded"`
	Session       SessionView `json:"session"`
}

// NewSession starts a session in the Active state with all counters at zero.
func NewSession(id string, mode domain.Mode, difficulty domain.Difficulty, displayName string, now time.Time) *Session {
	limit, _ := mode.Limit()
	return &Session{
		ID:             id,
		Mode:           mode,
		Difficulty:     difficulty,
		DisplayName:    displayName,
		Status:         domain.StatusActive,
		QuestionsLimit: limit,
		UsedPlayers:    []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Used returns the set of players already asked in this session.
func (s *Session) Used() map[string]struct{} {
	used := make(map[string]struct{}, len(s.UsedPlayers))
	for _, name := range s.UsedPlayers {
		used[name] = struct{}{}
	}
	return used
}

// Dispatch records q as the pending question.
func (s *Session) Dispatch(q domain.Question, now time.Time) error {
	if s.Status != domain.StatusActive || s.Current != nil {
		return s.invalid("dispatch")
	}
	s.Current = &q
	s.UpdatedAt = now
	return nil
}

// Answer grades chosen against the pending question and advances the state machine.
func (s *Session) Answer(chosen string, now time.Time) (bool, error) {
	if s.Status != domain.StatusActive || s.Current == nil {
		return false, s.invalid("answer")
	}
	q := *s.Current
	correct := MatchAnswer(chosen, q.Player)

	s.QuestionsAsked++
	s.UsedPlayers = append(s.UsedPlayers, q.Player.Name)
	s.Current = nil
	s.UpdatedAt = now

	if correct {
		s.CorrectCount++
		s.CurrentStreak++
	} else {
		if s.Mode == domain.ModePerfectRun {
			// One mistake ends the run; the streak reached before it is the result.
			s.FinalMetric = s.CurrentStreak
			s.CurrentStreak = 0
			s.Status = domain.StatusFinished
			return correct, nil
		}
		s.CurrentStreak = 0
	}

	switch {
	case s.Mode.Capped() && s.QuestionsAsked >= s.QuestionsLimit:
		s.finish()
	case s.Mode.Capped() && !correct:
		s.Status = domain.StatusAwaitingContinue
	}
	return correct, nil
}

// Continue resumes a session that is waiting for acknowledgement of a wrong answer.
func (s *Session) Continue(now time.Time) error {
	if s.Status != domain.StatusAwaitingContinue {
		return s.invalid("continue")
	}
	s.Status = domain.StatusActive
	s.UpdatedAt = now
	return nil
}

// Stop ends a practice session. Other modes terminate on their own.
func (s *Session) Stop(now time.Time) error {
	if s.Mode != domain.ModeUnlimited || s.Status == domain.StatusFinished {
		return s.invalid("stop")
	}
	s.Current = nil
	s.finish()
	s.UpdatedAt = now
	return nil
}

// Exhaust finishes the session because the catalog ran out of unused players.
func (s *Session) Exhaust(now time.Time) error {
	if s.Status != domain.StatusActive {
		return s.invalid("exhaust")
	}
	s.Current = nil
	s.finish()
	s.UpdatedAt = now
	return nil
}

// Metric is the ranked number: streak length for perfect runs, correct answers otherwise.
func (s *Session) Metric() int {
	if s.Status == domain.StatusFinished {
		return s.FinalMetric
	}
	if s.Mode == domain.ModePerfectRun {
		return s.CurrentStreak
	}
	return s.CorrectCount
}

// View returns the observable fields.
func (s *Session) View() SessionView {
	v := SessionView{
		ID:             s.ID,
		Mode:           s.Mode,
		Difficulty:     s.Difficulty,
		Status:         s.Status,
		QuestionsAsked: s.QuestionsAsked,
		CorrectCount:   s.CorrectCount,
		CurrentStreak:  s.CurrentStreak,
		Metric:         s.Metric(),
	}
	if s.Mode.Capped() {
		limit := s.QuestionsLimit
		v.QuestionsLimit = &limit
	}
	return v
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	c := *s
	c.UsedPlayers = slices.Clone(s.UsedPlayers)
	if s.Current != nil {
		q := *s.Current
		c.Current = &q
	}
	return &c
}

func (s *Session) finish() {
	if s.Mode == domain.ModePerfectRun {
		s.FinalMetric = s.CurrentStreak
	} else {
		s.FinalMetric = s.CorrectCount
	}
	s.Status = domain.StatusFinished
}

func (s *Session) invalid(op string) error {
	return fmt.Errorf("%w: %s while %s", domain.ErrInvalidTransition, op, s.Status)
}
