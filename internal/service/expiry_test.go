package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-bank-bot/internal/domain/entities"
)

// MockExpiryNotifier is a mock implementation of ExpiryNotifier
type MockExpiryNotifier struct {
	mock.Mock
}

func (m *MockExpiryNotifier) NotifyExpired(ctx context.Context, session *entities.QuizSession, result *entities.QuizResult) error {
	args := m.Called(ctx, session, result)
	return args.Error(0)
}

func (m *MockExpiryNotifier) NotifyLowTime(ctx context.Context, session *entities.QuizSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func TestExpiryService_SubmitsExpiredSessionOnce(t *testing.T) {
	ctx := context.Background()
	results := &MockResultRepository{}
	svc, c := newTestQuizService(t, results)

	_, err := svc.LoadBank(ctx, testUserID, bankDocument(3))
	require.NoError(t, err)
	session, err := svc.StartSession(ctx, testUserID, testChatID)
	require.NoError(t, err)

	q := session.CurrentQuestion()
	_, err = svc.SelectOption(ctx, session.ID, correctOption(q))
	require.NoError(t, err)

	notifier := &MockExpiryNotifier{}
	expiry := NewExpiryService(svc, "@every 1s", 5*time.Minute, zap.NewNop())
	expiry.SetNotifier(notifier)

	results.On("Append", ctx, mock.Anything).Return(int64(1), nil).Once()
	notifier.On("NotifyExpired", ctx,
		mock.MatchedBy(func(s *entities.QuizSession) bool { return s.ID == session.ID }),
		mock.MatchedBy(func(r *entities.QuizResult) bool {
			return r.Expired && r.Total == 3 && r.CorrectAnswers == 1 && r.ScorePercentage == 33 && !r.Passed
		}),
	).Return(nil).Once()

	c.now = testStart.Add(time.Hour + time.Second)

	assert.Equal(t, 1, expiry.Sweep(ctx))
	assert.Equal(t, 0, expiry.Sweep(ctx))

	stored, err := svc.Session(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.SessionSubmitted, stored.Status)

	results.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestExpiryService_WarnsOnceWhenTimeIsLow(t *testing.T) {
	ctx := context.Background()
	svc, c := newTestQuizService(t, &MockResultRepository{})

	_, err := svc.LoadBank(ctx, testUserID, bankDocument(1))
	require.NoError(t, err)
	session, err := svc.StartSession(ctx, testUserID, testChatID)
	require.NoError(t, err)

	notifier := &MockExpiryNotifier{}
	expiry := NewExpiryService(svc, "@every 1s", 5*time.Minute, zap.NewNop())
	expiry.SetNotifier(notifier)

	c.now = testStart.Add(30 * time.Minute)
	assert.Equal(t, 0, expiry.Sweep(ctx))
	notifier.AssertNotCalled(t, "NotifyLowTime", mock.Anything, mock.Anything)

	notifier.On("NotifyLowTime", ctx,
		mock.MatchedBy(func(s *entities.QuizSession) bool { return s.ID == session.ID }),
	).Return(nil).Once()

	c.now = testStart.Add(56 * time.Minute)
	assert.Equal(t, 0, expiry.Sweep(ctx))
	assert.Equal(t, 0, expiry.Sweep(ctx))

	notifier.AssertExpectations(t)
}

func TestExpiryService_IgnoresFinishedSessions(t *testing.T) {
	ctx := context.Background()
	svc, c := newTestQuizService(t, &MockResultRepository{})

	_, err := svc.LoadBank(ctx, testUserID, bankDocument(1))
	require.NoError(t, err)
	session, err := svc.StartSession(ctx, testUserID, testChatID)
	require.NoError(t, err)
	require.NoError(t, svc.Abandon(ctx, session.ID))

	notifier := &MockExpiryNotifier{}
	expiry := NewExpiryService(svc, "@every 1s", 5*time.Minute, zap.NewNop())
	expiry.SetNotifier(notifier)

	c.now = testStart.Add(2 * time.Hour)
	assert.Equal(t, 0, expiry.Sweep(ctx))
	notifier.AssertNotCalled(t, "NotifyExpired", mock.Anything, mock.Anything, mock.Anything)
}

func TestExpiryService_StartRejectsBadSchedule(t *testing.T) {
	svc, _ := newTestQuizService(t, &MockResultRepository{})
	expiry := NewExpiryService(svc, "not a schedule", time.Minute, zap.NewNop())

	assert.Error(t, expiry.Start(context.Background()))
}
