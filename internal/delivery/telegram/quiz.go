package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-bank-bot/internal/domain/entities"
	"github.com/aliskhannn/quiz-bank-bot/internal/service"
)

// sendQuestion posts the current question as a new message and remembers it
// so later steps edit it in place.
func (h *Handler) sendQuestion(ctx context.Context, session *entities.QuizSession) error {
	msg := newMessage(session.ChatID, formatQuestion(session, h.quizService.Now(), false))
	msg.ReplyMarkup = buildQuestionKeyboard(session)

	sent, err := h.bot.Send(msg)
	if err != nil {
		return err
	}

	return h.quizService.SetMessageID(ctx, session.ID, sent.MessageID)
}

// showQuestion redraws the question message.
func (h *Handler) showQuestion(session *entities.QuizSession, messageID int, correct bool) error {
	text := formatQuestion(session, h.quizService.Now(), correct)

	var kb tgbotapi.InlineKeyboardMarkup
	if session.Checked {
		kb = buildFeedbackKeyboard(session)
	} else {
		kb = buildQuestionKeyboard(session)
	}

	return h.edit(session.ChatID, messageID, text, &kb)
}

// finish grades the session and shows the summary. A session that was already
// graded, for example by the timer, shows its stored result.
func (h *Handler) finish(ctx context.Context, sessionID string, expired bool) error {
	result, err := h.quizService.Submit(ctx, sessionID, expired)
	switch {
	case errors.Is(err, service.ErrSessionNotActive):
		session, serr := h.quizService.Session(ctx, sessionID)
		if serr != nil {
			return serr
		}
		if session.Result == nil {
			return err
		}
		return h.showSummary(ctx, session, session.Result)
	case err != nil && result == nil:
		return err
	case err != nil:
		// Graded but not stored in the history; still show the score.
		h.logger.Error("failed to store quiz result",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	}

	session, err := h.quizService.Session(ctx, sessionID)
	if err != nil {
		return err
	}
	return h.showSummary(ctx, session, result)
}

// showSummary replaces the question message with the results screen.
func (h *Handler) showSummary(ctx context.Context, session *entities.QuizSession, result *entities.QuizResult) error {
	history, err := h.quizService.History(ctx, session.UserID, summaryHistoryLen)
	if err != nil {
		h.logger.Warn("failed to load history for summary",
			zap.Int64("user_id", session.UserID),
			zap.Error(err),
		)
		history = nil
	}

	text := formatSummary(result, h.quizService.PassThreshold(), history)
	kb := buildSummaryKeyboard(session.ID)

	if session.MessageID != 0 {
		return h.edit(session.ChatID, session.MessageID, text, &kb)
	}

	msg := newMessage(session.ChatID, text)
	msg.ReplyMarkup = kb
	return h.send(msg)
}

// showReview shows one page of the answer review.
func (h *Handler) showReview(session *entities.QuizSession, messageID, page int) error {
	total := reviewPages(session)
	if total == 0 {
		return nil
	}
	page = max(0, min(page, total-1))

	kb := buildReviewKeyboard(session.ID, page, total)
	return h.edit(session.ChatID, messageID, formatReviewPage(session, page), &kb)
}
