package cli

import (
	"encoding/json"
	"fmt"

	"courtside-quiz/internal/app"
	"courtside-quiz/internal/domain"
	"github.com/spf13/cobra"
)

// NewTopCmd prints a leaderboard as JSON.
func NewTopCmd(configPath *string) *cobra.Command {
	var (
		difficulty string
		limit      int
	)
	cmd := &cobra.Command{
		Use:   "top <mode>",
		Short: "Print the top leaderboard entries for a mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := domain.ParseMode(args[0])
			if err != nil {
				return err
			}
			var diff domain.Difficulty
			if difficulty != "" {
				if diff, err = domain.ParseDifficulty(difficulty); err != nil {
					return err
				}
			}

			cfg, logger, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()
			b, err := openBackends(cmd.Context(), cfg, logger)
			if err != nil {
				b.Close()
				return err
			}
			defer b.Close()

			entries, err := app.NewLeaderboardService(b.leaderboard, logger).TopN(cmd.Context(), mode, diff, limit)
			if err != nil {
				return err
			}
			return printJSON(cmd, entries)
		},
	}
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "only entries of this difficulty")
	cmd.Flags().IntVar(&limit, "limit", app.DefaultTopN, "number of entries")
	return cmd
}

// NewStatsCmd prints the practice stats of a display name as JSON.
func NewStatsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <display-name>",
		Short: "Print practice-mode stats for a display name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()
			b, err := openBackends(cmd.Context(), cfg, logger)
			if err != nil {
				b.Close()
				return err
			}
			defer b.Close()

			report, err := app.NewStatsService(b.answers).StatsFor(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, report)
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
