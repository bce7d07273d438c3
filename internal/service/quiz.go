package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-bank-bot/internal/domain/entities"
	"github.com/aliskhannn/quiz-bank-bot/internal/parser"
	"github.com/aliskhannn/quiz-bank-bot/internal/storage"
)

var (
	ErrNoQuestionsFound = errors.New("no questions found in document")
	ErrNoBank           = errors.New("no question bank loaded")
	ErrSessionNotFound  = storage.ErrSessionNotFound
	ErrSessionNotActive = errors.New("quiz session is not active")
	ErrSessionExpired   = errors.New("quiz session time is over")
	ErrAnswerLocked     = errors.New("answer already checked")
	ErrAnswerNotChecked = errors.New("answer not checked yet")
	ErrNoSelection      = errors.New("no option selected")
	ErrUnknownOption    = errors.New("unknown option")
)

// QuizOptions holds the fixed quiz parameters.
type QuizOptions struct {
	PassThreshold int
	TimeLimit     time.Duration
}

// QuizService runs quiz sessions over uploaded question banks.
type QuizService struct {
	storage QuizStorage
	results ResultRepository
	sampler *Sampler
	opts    QuizOptions
	logger  *zap.Logger

	now   func() time.Time
	newID func() string
}

func NewQuizService(
	storage QuizStorage,
	results ResultRepository,
	sampler *Sampler,
	opts QuizOptions,
	logger *zap.Logger,
) *QuizService {
	if opts.PassThreshold <= 0 {
		opts.PassThreshold = entities.DefaultPassThreshold
	}
	if opts.TimeLimit <= 0 {
		opts.TimeLimit = entities.DefaultTimeLimit
	}

	return &QuizService{
		storage: storage,
		results: results,
		sampler: sampler,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// PassThreshold returns the minimal percentage needed to pass.
func (s *QuizService) PassThreshold() int { return s.opts.PassThreshold }

// TimeLimit returns the time budget of a session.
func (s *QuizService) TimeLimit() time.Duration { return s.opts.TimeLimit }

// SessionSize returns the maximum number of questions in a session.
func (s *QuizService) SessionSize() int { return s.sampler.Size() }

// Now returns the service clock.
func (s *QuizService) Now() time.Time { return s.now() }

// LoadBank parses a document and makes it the user's bank. A session running
// on the previous bank is dropped.
func (s *QuizService) LoadBank(_ context.Context, userID int64, text string) ([]entities.Question, error) {
	bank := parser.Parse(text)
	if len(bank) == 0 {
		return nil, ErrNoQuestionsFound
	}

	s.storage.DeleteUserSession(userID)
	s.storage.StoreBank(userID, bank)

	s.logger.Info("question bank loaded",
		zap.Int64("user_id", userID),
		zap.Int("questions", len(bank)),
	)

	return bank, nil
}

// BankSize returns the number of questions in the user's bank.
func (s *QuizService) BankSize(userID int64) int {
	bank, _ := s.storage.Bank(userID)
	return len(bank)
}

// DiscardBank forgets the user's bank and session.
func (s *QuizService) DiscardBank(_ context.Context, userID int64) {
	s.storage.DeleteUserSession(userID)
	s.storage.DeleteBank(userID)
}

// StartSession samples a fresh session from the user's bank.
func (s *QuizService) StartSession(_ context.Context, userID, chatID int64) (*entities.QuizSession, error) {
	bank, ok := s.storage.Bank(userID)
	if !ok || len(bank) == 0 {
		return nil, ErrNoBank
	}

	questions := s.sampler.Sample(bank)
	session := entities.NewQuizSession(s.newID(), userID, chatID, questions, s.now(), s.opts.TimeLimit)
	s.storage.StoreSession(session)

	s.logger.Debug("quiz session started",
		zap.Int64("user_id", userID),
		zap.String("session_id", session.ID),
		zap.Int("questions", len(questions)),
		zap.Int("bank_size", len(bank)),
	)

	return session.Clone(), nil
}

// Session returns the session with the given ID.
func (s *QuizService) Session(_ context.Context, sessionID string) (*entities.QuizSession, error) {
	return s.storage.Session(sessionID)
}

// UserSession returns the latest session of the user.
func (s *QuizService) UserSession(_ context.Context, userID int64) (*entities.QuizSession, error) {
	return s.storage.UserSession(userID)
}

// ActiveSessions returns all sessions that still accept answers.
func (s *QuizService) ActiveSessions() []*entities.QuizSession {
	return s.storage.ActiveSessions()
}

// SelectOption applies a click on an option of the current question.
func (s *QuizService) SelectOption(_ context.Context, sessionID, optionID string) (*entities.QuizSession, error) {
	now := s.now()
	return s.storage.UpdateSession(sessionID, func(session *entities.QuizSession) error {
		q, err := answerable(session, now)
		if err != nil {
			return err
		}
		if session.Checked {
			return ErrAnswerLocked
		}
		if _, ok := q.Option(optionID); !ok {
			return ErrUnknownOption
		}

		session.Answers.Toggle(q, optionID)
		return nil
	})
}

// CheckAnswer locks the answer to the current question and reports whether it
// matches the key.
func (s *QuizService) CheckAnswer(_ context.Context, sessionID string) (*entities.QuizSession, bool, error) {
	now := s.now()
	var correct bool

	session, err := s.storage.UpdateSession(sessionID, func(session *entities.QuizSession) error {
		q, err := answerable(session, now)
		if err != nil {
			return err
		}
		if !session.Checked && len(session.Answers.Selected(q.ID)) == 0 {
			return ErrNoSelection
		}

		session.Checked = true
		correct = IsAnsweredCorrectly(q, session.Answers)
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return session, correct, nil
}

// Next moves to the following question. finished is true when the checked
// question was the last one and the session should be submitted.
func (s *QuizService) Next(_ context.Context, sessionID string) (*entities.QuizSession, bool, error) {
	now := s.now()
	var finished bool

	session, err := s.storage.UpdateSession(sessionID, func(session *entities.QuizSession) error {
		if _, err := answerable(session, now); err != nil {
			return err
		}
		if !session.Checked {
			return ErrAnswerNotChecked
		}
		if session.IsLast() {
			finished = true
			return nil
		}

		session.Current++
		session.Checked = false
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return session, finished, nil
}

// Submit grades the session and appends the result to the history. A session
// is graded at most once; later calls return ErrSessionNotActive.
func (s *QuizService) Submit(ctx context.Context, sessionID string, expired bool) (*entities.QuizResult, error) {
	now := s.now()
	var result *entities.QuizResult

	session, err := s.storage.UpdateSession(sessionID, func(session *entities.QuizSession) error {
		if !session.IsActive() {
			return ErrSessionNotActive
		}

		result = &entities.QuizResult{
			UserID:       session.UserID,
			SessionID:    session.ID,
			ScoreSummary: Grade(session.Questions, session.Answers, s.opts.PassThreshold),
			TimeSpent:    now.Sub(session.StartedAt).Truncate(time.Second),
			Expired:      expired,
			CreatedAt:    now,
		}

		stored := *result
		session.Status = entities.SessionSubmitted
		session.Result = &stored
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("quiz session submitted",
		zap.Int64("user_id", session.UserID),
		zap.String("session_id", session.ID),
		zap.Int("total", result.Total),
		zap.Int("correct", result.CorrectAnswers),
		zap.Int("score", result.ScorePercentage),
		zap.Bool("passed", result.Passed),
		zap.Bool("expired", expired),
	)

	id, err := s.results.Append(ctx, result)
	if err != nil {
		return result, fmt.Errorf("append result: %w", err)
	}
	result.ID = id

	// The session may be gone by now if the user discarded the bank.
	if _, err := s.storage.UpdateSession(sessionID, func(session *entities.QuizSession) error {
		if session.Result != nil {
			session.Result.ID = id
		}
		return nil
	}); err != nil {
		s.logger.Debug("failed to store result id",
			zap.String("session_id", sessionID),
			zap.Int64("result_id", id),
			zap.Error(err),
		)
	}

	return result, nil
}

// Abandon ends an active session without grading it.
func (s *QuizService) Abandon(_ context.Context, sessionID string) error {
	_, err := s.storage.UpdateSession(sessionID, func(session *entities.QuizSession) error {
		if !session.IsActive() {
			return ErrSessionNotActive
		}
		session.Status = entities.SessionAbandoned
		return nil
	})
	return err
}

// SetMessageID remembers the message that displays the session.
func (s *QuizService) SetMessageID(_ context.Context, sessionID string, messageID int) error {
	_, err := s.storage.UpdateSession(sessionID, func(session *entities.QuizSession) error {
		session.MessageID = messageID
		return nil
	})
	return err
}

// MarkWarningSent flags the low-time warning as sent. It returns true only for
// the call that changed the flag.
func (s *QuizService) MarkWarningSent(_ context.Context, sessionID string) (bool, error) {
	var marked bool
	_, err := s.storage.UpdateSession(sessionID, func(session *entities.QuizSession) error {
		if !session.IsActive() || session.WarningSent {
			return nil
		}
		session.WarningSent = true
		marked = true
		return nil
	})
	return marked, err
}

// History returns the latest results of a user, newest first.
func (s *QuizService) History(ctx context.Context, userID int64, limit int) ([]*entities.QuizResult, error) {
	results, err := s.results.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return results, nil
}

// Stats returns aggregated history of a user.
func (s *QuizService) Stats(ctx context.Context, userID int64) (*entities.UserStats, error) {
	stats, err := s.results.Stats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	return stats, nil
}

func answerable(session *entities.QuizSession, now time.Time) (*entities.Question, error) {
	if !session.IsActive() {
		return nil, ErrSessionNotActive
	}
	if session.Expired(now) {
		return nil, ErrSessionExpired
	}
	q := session.CurrentQuestion()
	if q == nil {
		return nil, ErrSessionNotActive
	}
	return q, nil
}
