package telegram

import (
	"context"
	"errors"

	"github.com/aliskhannn/quiz-bank-bot/internal/service"
)

// handleStart greets the user and explains the file format.
func (h *Handler) handleStart() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		welcome := welcomeText(h.quizService.SessionSize(), h.quizService.PassThreshold(), h.quizService.TimeLimit())
		if err := h.send(newPlainMessage(chatID, welcome)); err != nil {
			return err
		}
		return h.send(newPlainMessage(chatID, msgFormat))
	}
}

// handleQuiz starts a new session on the loaded bank.
func (h *Handler) handleQuiz(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		session, err := h.quizService.StartSession(ctx, userID, chatID)
		if err != nil {
			return err
		}
		return h.sendQuestion(ctx, session)
	}
}

// handleStop abandons the running session.
func (h *Handler) handleStop(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		session, err := h.quizService.UserSession(ctx, userID)
		if errors.Is(err, service.ErrSessionNotFound) || (err == nil && !session.IsActive()) {
			return h.send(newPlainMessage(chatID, msgNoActiveQuiz))
		}
		if err != nil {
			return err
		}

		if err := h.quizService.Abandon(ctx, session.ID); err != nil {
			return err
		}

		if session.MessageID != 0 {
			_ = h.edit(chatID, session.MessageID, md(msgQuizStopped), nil)
			return nil
		}
		return h.send(newPlainMessage(chatID, msgQuizStopped))
	}
}

// handleHistory shows aggregate stats and the latest results.
func (h *Handler) handleHistory(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		results, err := h.quizService.History(ctx, userID, h.opts.HistoryLimit)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			return h.send(newPlainMessage(chatID, msgHistoryEmpty))
		}

		stats, err := h.quizService.Stats(ctx, userID)
		if err != nil {
			return err
		}

		return h.send(newMessage(chatID, formatHistory(stats, results)))
	}
}

// handleNewFile discards the loaded bank.
func (h *Handler) handleNewFile(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.quizService.DiscardBank(ctx, userID)
		return h.send(newPlainMessage(chatID, msgBankDiscarded))
	}
}
