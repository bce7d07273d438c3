package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/quiz-bank-bot/internal/config"
	"github.com/aliskhannn/quiz-bank-bot/internal/delivery/telegram"
	"github.com/aliskhannn/quiz-bank-bot/internal/infra/postgres"
	"github.com/aliskhannn/quiz-bank-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/quiz-bank-bot/internal/logger"
	"github.com/aliskhannn/quiz-bank-bot/internal/service"
	"github.com/aliskhannn/quiz-bank-bot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		lg.Fatal("failed to create bot", zap.Error(err))
	}

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the bot"},
		{Command: "quiz", Description: "Start a quiz from the loaded file"},
		{Command: "retry", Description: "Start another quiz on the same file"},
		{Command: "stop", Description: "Stop the running quiz"},
		{Command: "history", Description: "Show recent results"},
		{Command: "new", Description: "Discard the loaded file"},
		{Command: "format", Description: "Question bank format"},
		{Command: "help", Description: "Help"},
	}

	if _, err = bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	bot.Debug = cfg.Env != "production"
	lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dsn, err := cfg.DB.DSN()
	if err != nil {
		lg.Fatal("database is not configured", zap.Error(err))
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		lg.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	// Initialize repositories and services.
	tr := postgres.NewTransactor(pool)
	userRepo := repository.NewUserRepository(pool)
	resultRepo := repository.NewResultRepository(pool, tr)

	userService := service.NewUserService(userRepo, lg)
	quizService := service.NewQuizService(
		storage.NewQuizStorage(),
		resultRepo,
		service.NewSampler(cfg.Quiz.SessionSize, nil),
		service.QuizOptions{
			PassThreshold: cfg.Quiz.PassThreshold,
			TimeLimit:     cfg.Quiz.TimeLimit,
		},
		lg,
	)
	expiryService := service.NewExpiryService(quizService, cfg.Quiz.ExpirySchedule, cfg.Quiz.LowTimeWarning, lg)

	handler := telegram.NewHandler(
		bot,
		lg,
		userService,
		quizService,
		&http.Client{Timeout: 30 * time.Second},
		telegram.Options{
			MaxUploadBytes: cfg.Upload.MaxBytes,
			HistoryLimit:   cfg.Quiz.HistoryLimit,
		},
	)
	expiryService.SetNotifier(handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return expiryService.Start(gctx)
	})
	g.Go(func() error {
		defer bot.StopReceivingUpdates()
		return handler.Run(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		lg.Error("bot stopped with error", zap.Error(err))
	}
	lg.Info("shutdown complete")
}
