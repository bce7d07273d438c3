package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/quiz-bank-bot/internal/domain/entities"
)

// BotAPI is the subset of *tgbotapi.BotAPI used by the handler.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	GetFileDirectURL(fileID string) (string, error)
}

type UserService interface {
	EnsureUser(ctx context.Context, userID, chatID int64) error
}

type QuizService interface {
	LoadBank(ctx context.Context, userID int64, text string) ([]entities.Question, error)
	BankSize(userID int64) int
	DiscardBank(ctx context.Context, userID int64)

	StartSession(ctx context.Context, userID, chatID int64) (*entities.QuizSession, error)
	Session(ctx context.Context, sessionID string) (*entities.QuizSession, error)
	UserSession(ctx context.Context, userID int64) (*entities.QuizSession, error)
	SelectOption(ctx context.Context, sessionID, optionID string) (*entities.QuizSession, error)
	CheckAnswer(ctx context.Context, sessionID string) (*entities.QuizSession, bool, error)
	Next(ctx context.Context, sessionID string) (*entities.QuizSession, bool, error)
	Submit(ctx context.Context, sessionID string, expired bool) (*entities.QuizResult, error)
	Abandon(ctx context.Context, sessionID string) error
	SetMessageID(ctx context.Context, sessionID string, messageID int) error

	History(ctx context.Context, userID int64, limit int) ([]*entities.QuizResult, error)
	Stats(ctx context.Context, userID int64) (*entities.UserStats, error)

	PassThreshold() int
	TimeLimit() time.Duration
	SessionSize() int
	Now() time.Time
}
