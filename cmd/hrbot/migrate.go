package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/artem13815/hrbot/pkg/storage/postgres"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|status]",
	Short:     "Apply, roll back or inspect database migrations",
	ValidArgs: []string{"up", "down", "status"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := setup()
		defer logger.Sync() //nolint:errcheck

		pool, err := postgres.Connect(cmd.Context(), cfg.Database.DSN(), logger)
		if err != nil {
			logger.Fatal("connecting to postgres", zap.Error(err))
		}
		defer pool.Close()

		if err := postgres.Migrate(cmd.Context(), pool, args[0]); err != nil {
			return err
		}
		logger.Info("migrations done", zap.String("command", args[0]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
