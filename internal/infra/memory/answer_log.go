package memory

import (
	"context"
	"sync"

	"courtside-quiz/internal/domain"
)

// AnswerLog is an append-only in-memory event log indexed by display name.
type AnswerLog struct {
	mu     sync.RWMutex
	nextID int64
	byName map[string][]domain.AnswerEvent
}

func NewAnswerLog() *AnswerLog {
	return &AnswerLog{byName: make(map[string][]domain.AnswerEvent)}
}

func (l *AnswerLog) AppendEvent(_ context.Context, event domain.AnswerEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	event.ID = l.nextID
	l.byName[event.DisplayName] = append(l.byName[event.DisplayName], event)
	return nil
}

func (l *AnswerLog) EventsFor(_ context.Context, displayName string) ([]domain.AnswerEvent, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	events := l.byName[displayName]
	out := make([]domain.AnswerEvent, len(events))
	copy(out, events)
	return out, nil
}
