package cli

import (
	"context"
	"fmt"

	"courtside-quiz/internal/config"
	"courtside-quiz/internal/infra/catalog"
	"courtside-quiz/internal/infra/postgres"
	"courtside-quiz/internal/infra/sqlite"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewMigrateCmd applies database migrations.
func NewMigrateCmd(configPath *string) *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()
			return runMigrationsWithConfig(cmd.Context(), cfg, logger, seed)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed-players", false, "load the catalog file into the players table (postgres)")
	return cmd
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config, logger *zap.Logger, seed bool) error {
	switch cfg.StoreDriver() {
	case config.DriverPostgres:
		if cfg.Postgres.URL == "" {
			return fmt.Errorf("postgres url not configured")
		}
		applied, err := postgres.Migrate(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		logger.Info("migrations applied", zap.Strings("migrations", applied))
		if seed {
			return seedPlayers(ctx, cfg, logger)
		}
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return err
		}
		defer db.Close()
		logger.Info("sqlite schema ready", zap.String("path", cfg.SQLite.Path))
	default:
		logger.Info("nothing to migrate", zap.String("store", cfg.StoreDriver()))
	}
	return nil
}

func seedPlayers(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	if cfg.Catalog.Path == "" {
		return fmt.Errorf("catalog path not configured")
	}
	players, err := catalog.NewFileLoader(cfg.Catalog.Path).LoadPlayers(ctx)
	if err != nil {
		return err
	}
	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := postgres.NewPlayerLoader(pool).SavePlayers(ctx, players); err != nil {
		return err
	}
	logger.Info("players seeded", zap.Int("players", len(players)))
	return nil
}
