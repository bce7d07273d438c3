package service

import (
	"context"

	"github.com/aliskhannn/quiz-bank-bot/internal/domain/entities"
)

type UserRepository interface {
	Save(ctx context.Context, user *entities.User) (bool, error)
}

// ResultRepository is the append-only history of graded sessions.
type ResultRepository interface {
	Append(ctx context.Context, result *entities.QuizResult) (int64, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.QuizResult, error)
	Stats(ctx context.Context, userID int64) (*entities.UserStats, error)
}

// QuizStorage keeps banks and sessions in memory.
type QuizStorage interface {
	StoreBank(userID int64, bank []entities.Question)
	Bank(userID int64) ([]entities.Question, bool)
	DeleteBank(userID int64)
	StoreSession(session *entities.QuizSession)
	Session(id string) (*entities.QuizSession, error)
	UserSession(userID int64) (*entities.QuizSession, error)
	UpdateSession(id string, fn func(*entities.QuizSession) error) (*entities.QuizSession, error)
	ActiveSessions() []*entities.QuizSession
	DeleteUserSession(userID int64)
}

// ExpiryNotifier tells users about the state of their timer.
type ExpiryNotifier interface {
	NotifyExpired(ctx context.Context, session *entities.QuizSession, result *entities.QuizResult) error
	NotifyLowTime(ctx context.Context, session *entities.QuizSession) error
}
