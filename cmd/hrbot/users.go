package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/artem13815/hrbot/pkg/auth"
	pgrepo "github.com/artem13815/hrbot/pkg/repository/postgres"
	"github.com/artem13815/hrbot/pkg/security/jwt"
	"github.com/artem13815/hrbot/pkg/storage/postgres"
)

var addUserCmd = &cobra.Command{
	Use:   "add-user <telegram_id> <role>",
	Short: "Allow a Telegram user to talk to the bot (role: HR, Employer or Admin)",
	Args:  exactArgs(2, "add-user <telegram_id> <role>"),
	RunE: func(cmd *cobra.Command, args []string) error {
		telegramID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("telegram id %q: %w", args[0], err)
		}
		role, err := auth.ParseRole(args[1])
		if err != nil {
			return fmt.Errorf("role %q: %w", args[1], err)
		}

		users, logger, closeFn := userService(cmd)
		defer closeFn()

		created, err := users.AddUser(cmd.Context(), telegramID, role)
		if err != nil {
			return err
		}
		logger.Info("add user", zap.Int64("telegram_id", telegramID), zap.String("role", string(role)), zap.Bool("created", created))
		if !created {
			fmt.Printf("user %d already exists, role unchanged\n", telegramID)
			return nil
		}
		fmt.Printf("user %d added with role %s\n", telegramID, role)
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token <telegram_id>",
	Short: "Issue an admin API token for an Admin user",
	Args:  exactArgs(1, "token <telegram_id>"),
	RunE: func(cmd *cobra.Command, args []string) error {
		telegramID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("telegram id %q: %w", args[0], err)
		}
		users, _, closeFn := userService(cmd)
		defer closeFn()

		token, err := users.IssueToken(cmd.Context(), telegramID)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addUserCmd, tokenCmd)
}

func userService(cmd *cobra.Command) (auth.UseCase, *zap.Logger, func()) {
	cfg, logger := setup()
	pool, err := postgres.Connect(cmd.Context(), cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("connecting to postgres", zap.Error(err))
	}
	tokens := jwt.NewGenerator(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.TTLMinutes)*time.Minute)
	users := auth.NewService(pgrepo.NewUserRepository(pool), tokens)
	return users, logger, func() {
		pool.Close()
		_ = logger.Sync()
	}
}
