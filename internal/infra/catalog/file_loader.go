package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"courtside-quiz/internal/domain"
)

// FileLoader reads the player catalog from a JSON array of player records,
// the format produced by the roster export script.
type FileLoader struct {
	path string
}

func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

func (l *FileLoader) LoadPlayers(_ context.Context) ([]domain.Player, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var raw []domain.Player
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", l.path, err)
	}
	return Clean(raw), nil
}

// Clean drops records without a name or origin and keeps the first record
// for each name, so names stay unique within the catalog.
func Clean(players []domain.Player) []domain.Player {
	seen := make(map[string]struct{}, len(players))
	out := make([]domain.Player, 0, len(players))
	for _, p := range players {
		p.Name = strings.TrimSpace(p.Name)
		p.Origin = strings.TrimSpace(p.Origin)
		if p.Name == "" || p.Origin == "" {
			continue
		}
		if _, dup := seen[p.Name]; dup {
			continue
		}
		seen[p.Name] = struct{}{}
		if p.Type == "" {
			p.Type = domain.OriginOther
		}
		out = append(out, p)
	}
	return out
}
