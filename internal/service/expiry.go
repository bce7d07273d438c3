package service

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-bank-bot/internal/domain/entities"
)

// ExpiringQuiz is the part of the quiz service the sweeper works with.
type ExpiringQuiz interface {
	ActiveSessions() []*entities.QuizSession
	Submit(ctx context.Context, sessionID string, expired bool) (*entities.QuizResult, error)
	MarkWarningSent(ctx context.Context, sessionID string) (bool, error)
	Now() time.Time
}

// ExpiryService submits sessions whose time budget is spent and warns users
// shortly before that happens.
type ExpiryService struct {
	quiz     ExpiringQuiz
	notifier ExpiryNotifier
	schedule string
	warning  time.Duration
	logger   *zap.Logger
}

// NewExpiryService creates a new expiry service.
func NewExpiryService(quiz ExpiringQuiz, schedule string, warning time.Duration, logger *zap.Logger) *ExpiryService {
	return &ExpiryService{
		quiz:     quiz,
		schedule: schedule,
		warning:  warning,
		logger:   logger,
	}
}

// SetNotifier sets the notifier (called after handler is created).
func (s *ExpiryService) SetNotifier(notifier ExpiryNotifier) {
	s.notifier = notifier
}

// Start runs the sweeper until ctx is done.
func (s *ExpiryService) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(s.schedule, func() {
		s.Sweep(ctx)
	})
	if err != nil {
		return err
	}

	c.Start()
	s.logger.Info("expiry sweeper started", zap.String("schedule", s.schedule))

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("expiry sweeper stopped")
	return nil
}

// Sweep checks all active sessions once and returns how many were submitted.
func (s *ExpiryService) Sweep(ctx context.Context) int {
	now := s.quiz.Now()
	submitted := 0

	for _, session := range s.quiz.ActiveSessions() {
		if session.Expired(now) {
			if s.expire(ctx, session) {
				submitted++
			}
			continue
		}

		if s.warning > 0 && session.Remaining(now) <= s.warning && !session.WarningSent {
			s.warn(ctx, session)
		}
	}

	return submitted
}

func (s *ExpiryService) expire(ctx context.Context, session *entities.QuizSession) bool {
	result, err := s.quiz.Submit(ctx, session.ID, true)
	if errors.Is(err, ErrSessionNotActive) || errors.Is(err, ErrSessionNotFound) {
		// Finished or replaced by the user in the meantime.
		return false
	}
	if err != nil {
		s.logger.Error("failed to submit expired session",
			zap.String("session_id", session.ID),
			zap.Error(err),
		)
		if result == nil {
			return false
		}
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyExpired(ctx, session, result); err != nil {
			s.logger.Error("failed to notify about expired session",
				zap.Int64("user_id", session.UserID),
				zap.Error(err),
			)
		}
	}

	return true
}

func (s *ExpiryService) warn(ctx context.Context, session *entities.QuizSession) {
	marked, err := s.quiz.MarkWarningSent(ctx, session.ID)
	if err != nil || !marked {
		return
	}

	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyLowTime(ctx, session); err != nil {
		s.logger.Error("failed to send low time warning",
			zap.Int64("user_id", session.UserID),
			zap.Error(err),
		)
	}
}
