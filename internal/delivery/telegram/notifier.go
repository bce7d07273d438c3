package telegram

import (
	"context"

	"github.com/aliskhannn/quiz-bank-bot/internal/domain/entities"
)

// NotifyExpired shows the summary of a session that the timer submitted.
func (h *Handler) NotifyExpired(ctx context.Context, session *entities.QuizSession, result *entities.QuizResult) error {
	return h.showSummary(ctx, session, result)
}

// NotifyLowTime warns the user that the session is about to expire.
func (h *Handler) NotifyLowTime(_ context.Context, session *entities.QuizSession) error {
	remaining := session.Remaining(h.quizService.Now())
	return h.send(newPlainMessage(session.ChatID, formatLowTime(remaining)))
}
