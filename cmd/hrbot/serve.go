package main

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "github.com/artem13815/hrbot/docs"

	httpapi "github.com/artem13815/hrbot/api/http"
	"github.com/artem13815/hrbot/api/http/handlers"
	"github.com/artem13815/hrbot/pkg/auth"
	"github.com/artem13815/hrbot/pkg/config"
	"github.com/artem13815/hrbot/pkg/conversation"
	"github.com/artem13815/hrbot/pkg/health"
	"github.com/artem13815/hrbot/pkg/health/checkers"
	"github.com/artem13815/hrbot/pkg/llm"
	"github.com/artem13815/hrbot/pkg/llm/deepseek"
	"github.com/artem13815/hrbot/pkg/llm/gemini"
	"github.com/artem13815/hrbot/pkg/report"
	pgrepo "github.com/artem13815/hrbot/pkg/repository/postgres"
	"github.com/artem13815/hrbot/pkg/resume"
	"github.com/artem13815/hrbot/pkg/scoring"
	"github.com/artem13815/hrbot/pkg/security/jwt"
	"github.com/artem13815/hrbot/pkg/session"
	"github.com/artem13815/hrbot/pkg/sheets"
	"github.com/artem13815/hrbot/pkg/storage/postgres"
	"github.com/artem13815/hrbot/pkg/telegram"
	"github.com/artem13815/hrbot/pkg/vacancy"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook server",
	Run: func(cmd *cobra.Command, _ []string) {
		cfg, logger := setup()
		defer logger.Sync() //nolint:errcheck

		if err := serve(cmd.Context(), cfg, logger); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}
	logger.Info("starting the hrbot", zap.String("version", version), zap.String("llm_provider", cfg.LLM.Provider))

	pool, err := postgres.Connect(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool, "up"); err != nil {
		return err
	}

	userRepo := pgrepo.NewUserRepository(pool)
	tokens := jwt.NewGenerator(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.TTLMinutes)*time.Minute)
	vacancies := vacancy.NewService(pgrepo.NewVacancyRepository(pool))
	resumes := resume.NewService(pgrepo.NewResumeRepository(pool))

	readiness := []health.Checker{checkers.NewPostgresChecker(pool)}
	var sessions session.Store = session.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
		sessions = session.NewRedisStore(rdb, cfg.Session.TTL, logger)
		readiness = append(readiness, checkers.NewRedisChecker(rdb))
		logger.Info("sessions stored in redis", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Session.TTL))
	}

	model, err := chatModel(ctx, cfg.LLM)
	if err != nil {
		return err
	}
	if model == nil {
		logger.Warn("LLM api key is not set, every resume gets the default score")
	}

	bot, err := telegram.New(cfg.Telegram.Token, logger)
	if err != nil {
		return err
	}

	deps := conversation.Deps{
		Gate:      auth.NewGate(userRepo, logger),
		Users:     auth.NewService(userRepo, tokens),
		Vacancies: vacancies,
		Resumes:   resumes,
		Sessions:  sessions,
		Files:     bot,
		Extractor: resume.NewExtractor(logger),
		Scorer:    scoring.NewScorer(model, scoring.Options{Delay: cfg.LLM.Delay, RPS: cfg.LLM.RPS}, logger),
		Messenger: bot,
		Log:       logger,
	}
	if cfg.Report.Enabled {
		deps.Reporter = report.NewChromedpRenderer(cfg.Report.ChromePath)
	}
	if cfg.Sheets.SpreadsheetID != "" {
		exporter, err := sheets.NewExporter(ctx, cfg.Sheets.CredentialsFile, cfg.Sheets.SpreadsheetID, cfg.Sheets.Range)
		if err != nil {
			logger.Warn("spreadsheet export disabled", zap.Error(err))
		} else {
			deps.Exporter = exporter
		}
	}
	machine := conversation.NewMachine(deps)

	if cfg.Telegram.WebhookURL != "" {
		if err := bot.SetWebhook(cfg.Telegram.WebhookURL, cfg.Telegram.WebhookSecret); err != nil {
			return err
		}
	}

	var (
		admin  *handlers.AdminHandler
		authMW fiber.Handler
	)
	if cfg.JWT.Enabled() {
		admin = handlers.NewAdminHandler(resumes, vacancies)
		authMW = jwt.NewAuthMiddleware(cfg.JWT.Secret, cfg.JWT.Issuer)
	} else {
		logger.Warn("admin HTTP API disabled, set JWT_SECRET to enable it")
	}

	server := fiber.New(fiber.Config{AppName: app, DisableStartupMessage: true})
	httpapi.Register(server,
		handlers.NewWebhookHandler(machine, cfg.Telegram.WebhookSecret, logger),
		handlers.NewHealthHandler(health.NewService(readiness...)),
		admin,
		authMW,
		jwt.RequireAdmin,
	)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("port", cfg.Port))
		errCh <- server.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// chatModel builds the scoring provider. A missing key yields a nil model.
func chatModel(ctx context.Context, cfg config.LLMConfig) (llm.ChatModel, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		g, err := gemini.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if errors.Is(err, llm.ErrNoAPIKey) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		if cfg.DeepSeekAPIKey == "" {
			return nil, nil
		}
		return deepseek.New(cfg.DeepSeekAPIKey, cfg.DeepSeekBaseURL, cfg.DeepSeekModel), nil
	}
}
