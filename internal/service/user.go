package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-bank-bot/internal/domain/entities"
)

type UserService struct {
	repository UserRepository
	logger     *zap.Logger
}

func NewUserService(repository UserRepository, logger *zap.Logger) *UserService {
	return &UserService{repository: repository, logger: logger}
}

func (s *UserService) EnsureUser(ctx context.Context, userID, chatID int64) error {
	user := entities.NewUser(userID, chatID)

	created, err := s.repository.Save(ctx, user)
	if err != nil {
		return err
	}
	if created {
		s.logger.Info("new user registered", zap.Int64("user_id", userID))
	}

	return nil
}
