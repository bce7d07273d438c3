package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-bank-bot/internal/domain/entities"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user *entities.User) (bool, error) {
	args := m.Called(ctx, user)
	return args.Bool(0), args.Error(1)
}

func TestUserService_EnsureUser(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("db down")

	tests := []struct {
		name    string
		created bool
		err     error
	}{
		{name: "new user", created: true},
		{name: "existing user", created: false},
		{name: "repository error", err: boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockUserRepository{}
			repo.On("Save", ctx, mock.MatchedBy(func(u *entities.User) bool {
				return u.ID == testUserID && u.ChatID == testChatID && u.IsActive
			})).Return(tt.created, tt.err).Once()

			err := NewUserService(repo, zap.NewNop()).EnsureUser(ctx, testUserID, testChatID)
			if tt.err != nil {
				assert.ErrorIs(t, err, boom)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}
