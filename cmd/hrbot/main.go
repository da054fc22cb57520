// @title         hrbot API
// @version       1.0
// @description   Telegram-бот для рекрутеров: приём вакансий, оценка резюме с помощью LLM и шорт-лист кандидатов.
// @BasePath      /
// @schemes       http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Токен администратора (команда `hrbot token`). Поддерживаются форматы: "Bearer <JWT>" или "<JWT>".
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
