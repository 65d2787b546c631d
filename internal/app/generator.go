package app

import (
	"math/rand"
	"sync"
	"time"

	"courtside-quiz/internal/domain"
)

// QuestionGenerator draws players from the catalog. It is shared by every
// session and never mutates the catalog or the caller's used set.
type QuestionGenerator struct {
	players []domain.Player
	tagged  bool

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewQuestionGenerator copies the catalog; the caller keeps ownership of players.
func NewQuestionGenerator(players []domain.Player) *QuestionGenerator {
	return NewQuestionGeneratorWithSource(players, rand.NewSource(time.Now().UnixNano()))
}

// NewQuestionGeneratorWithSource allows deterministic draws in tests.
func NewQuestionGeneratorWithSource(players []domain.Player, src rand.Source) *QuestionGenerator {
	g := &QuestionGenerator{
		players: append([]domain.Player(nil), players...),
		rnd:     rand.New(src),
	}
	for _, p := range g.players {
		if p.Difficulty != "" {
			g.tagged = true
			break
		}
	}
	return g
}

// PoolSize returns how many players a session of the given difficulty can be asked about.
func (g *QuestionGenerator) PoolSize(difficulty domain.Difficulty) int {
	n := 0
	for _, p := range g.players {
		if g.inPool(p, difficulty) {
			n++
		}
	}
	return n
}

// Next picks a player uniformly at random among those not in used.
func (g *QuestionGenerator) Next(difficulty domain.Difficulty, used map[string]struct{}) (domain.Question, error) {
	candidates := make([]int, 0, len(g.players))
	for i, p := range g.players {
		if !g.inPool(p, difficulty) {
			continue
		}
		if _, ok := used[p.Name]; ok {
			continue
		}
		candidates = append(candidates, i)
	}
	if len(candidates) == 0 {
		return domain.Question{}, domain.ErrCatalogExhausted
	}

	g.mu.Lock()
	pick := candidates[g.rnd.Intn(len(candidates))]
	g.mu.Unlock()
	return domain.Question{Player: g.players[pick]}, nil
}

func (g *QuestionGenerator) inPool(p domain.Player, difficulty domain.Difficulty) bool {
	if !g.tagged {
		return true
	}
	return difficulty.Includes(p.Difficulty)
}
