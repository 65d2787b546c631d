package cli

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"courtside-quiz/internal/app"
	"courtside-quiz/internal/config"
	"courtside-quiz/internal/domain"
	"courtside-quiz/internal/infra/catalog"
	"courtside-quiz/internal/infra/memory"
	"courtside-quiz/internal/infra/postgres"
	redisstore "courtside-quiz/internal/infra/redis"
	"courtside-quiz/internal/infra/sqlite"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// backends holds the process-wide handles. They are opened once at startup
// and passed explicitly to the services.
type backends struct {
	sessions    app.SessionRepository
	leaderboard app.LeaderboardStore
	answers     app.AnswerLog
	pool        *pgxpool.Pool
	redis       *redis.Client
	sqlite      *sql.DB
}

func (b *backends) Close() {
	if b.pool != nil {
		b.pool.Close()
	}
	if b.redis != nil {
		_ = b.redis.Close()
	}
	if b.sqlite != nil {
		_ = b.sqlite.Close()
	}
}

func openBackends(ctx context.Context, cfg config.Config, logger *zap.Logger) (*backends, error) {
	b := &backends{}
	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	sessionTTL := config.TTLDuration(cfg.Session.TTL, 30*time.Minute)
	if b.redis != nil {
		b.sessions = redisstore.NewSessionStore(b.redis, sessionTTL)
	} else {
		b.sessions = memory.NewSessionStore(sessionTTL)
	}

	driver := cfg.StoreDriver()
	switch driver {
	case config.DriverMemory:
		b.leaderboard = memory.NewLeaderboardStore()
		b.answers = memory.NewAnswerLog()
	case config.DriverSQLite:
		if cfg.SQLite.Path == "" {
			return b, fmt.Errorf("sqlite path not configured")
		}
		db, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return b, err
		}
		b.sqlite = db
		b.leaderboard = sqlite.NewLeaderboardStore(db)
		b.answers = sqlite.NewAnswerLog(db)
	case config.DriverPostgres:
		if cfg.Postgres.URL == "" {
			return b, fmt.Errorf("postgres url not configured")
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return b, err
		}
		b.pool = pool
		b.leaderboard = postgres.NewLeaderboardStore(pool)
		b.answers = postgres.NewAnswerLog(pool)
	case config.DriverRedis:
		if b.redis == nil {
			return b, fmt.Errorf("redis addr not configured")
		}
		b.leaderboard = redisstore.NewLeaderboardStore(b.redis)
		b.answers = redisstore.NewAnswerLog(b.redis)
	default:
		return b, fmt.Errorf("unsupported store driver %q", driver)
	}

	logger.Info("backends ready",
		zap.String("store", driver),
		zap.Bool("redisSessions", b.redis != nil),
		zap.Duration("sessionTTL", sessionTTL))
	return b, nil
}

// loadCatalog reads the player catalog once: a configured data file wins,
// then the Postgres players table, then the built-in sample.
func loadCatalog(ctx context.Context, cfg config.Config, b *backends, logger *zap.Logger) ([]domain.Player, error) {
	var (
		players []domain.Player
		source  string
		err     error
	)
	switch {
	case cfg.Catalog.Path != "":
		source = cfg.Catalog.Path
		players, err = catalog.NewFileLoader(cfg.Catalog.Path).LoadPlayers(ctx)
	case b.pool != nil:
		source = "postgres"
		players, err = postgres.NewPlayerLoader(b.pool).LoadPlayers(ctx)
		players = catalog.Clean(players)
	}
	if err != nil {
		return nil, err
	}
	if len(players) == 0 {
		source = "sample"
		players, _ = memory.NewStaticCatalogLoader(memory.SamplePlayers()).LoadPlayers(ctx)
	}
	logger.Info("player catalog loaded", zap.String("source", source), zap.Int("players", len(players)))
	return players, nil
}
