package memory

import (
	"context"

	"courtside-quiz/internal/domain"
)

// StaticCatalogLoader is a simple loader backed by an in-memory slice (useful for tests/demos).
type StaticCatalogLoader struct {
	players []domain.Player
}

func NewStaticCatalogLoader(players []domain.Player) *StaticCatalogLoader {
	return &StaticCatalogLoader{players: players}
}

func (l *StaticCatalogLoader) LoadPlayers(_ context.Context) ([]domain.Player, error) {
	out := make([]domain.Player, len(l.players))
	copy(out, l.players)
	return out, nil
}

// SamplePlayers is the fallback catalog used when no data file is configured.
func SamplePlayers() []domain.Player {
	return []domain.Player{
		{Name: "LeBron James", Origin: "St. Vincent-St. Mary HS", Type: domain.OriginOther, Team: "Los Angeles Lakers", NBAConference: "Western", CollegeConference: "Other", Difficulty: domain.DifficultyEasy},
		{Name: "Stephen Curry", Origin: "Davidson", Type: domain.OriginCollege, Team: "Golden State Warriors", NBAConference: "Western", CollegeConference: "Atlantic 10", Difficulty: domain.DifficultyEasy},
		{Name: "Kevin Durant", Origin: "Texas", Type: domain.OriginCollege, Team: "Phoenix Suns", NBAConference: "Western", CollegeConference: "Big 12", Difficulty: domain.DifficultyEasy},
		{Name: "Giannis Antetokounmpo", Origin: "Greece", Type: domain.OriginCountry, Team: "Milwaukee Bucks", NBAConference: "Eastern", CollegeConference: "Other", Difficulty: domain.DifficultyEasy},
		{Name: "Luka Doncic", Origin: "Slovenia", Type: domain.OriginCountry, Team: "Dallas Mavericks", NBAConference: "Western", CollegeConference: "Other", Difficulty: domain.DifficultyEasy},
		{Name: "Nikola Jokic", Origin: "Serbia", Type: domain.OriginCountry, Team: "Denver Nuggets", NBAConference: "Western", CollegeConference: "Other", Difficulty: domain.DifficultyEasy},
		{Name: "Joel Embiid", Origin: "Kansas", Type: domain.OriginCollege, Team: "Philadelphia 76ers", NBAConference: "Eastern", CollegeConference: "Big 12", Difficulty: domain.DifficultyMedium},
		{Name: "Damian Lillard", Origin: "Weber State", Type: domain.OriginCollege, Team: "Milwaukee Bucks", NBAConference: "Eastern", CollegeConference: "Big Sky", Difficulty: domain.DifficultyMedium},
		{Name: "Jayson Tatum", Origin: "Duke", Type: domain.OriginCollege, Team: "Boston Celtics", NBAConference: "Eastern", CollegeConference: "ACC", Difficulty: domain.DifficultyEasy},
		{Name: "Anthony Davis", Origin: "Kentucky", Type: domain.OriginCollege, Team: "Los Angeles Lakers", NBAConference: "Western", CollegeConference: "SEC", Difficulty: domain.DifficultyMedium},
		{Name: "Scoot Henderson", Origin: "G League Ignite", Type: domain.OriginOther, Team: "Portland Trail Blazers", NBAConference: "Western", CollegeConference: "Other", AlternateAnswer: "USA", Difficulty: domain.DifficultyHard},
	}
}
