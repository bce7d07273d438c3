package telegram

import (
	"context"
	"errors"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-bank-bot/internal/domain/entities"
	"github.com/aliskhannn/quiz-bank-bot/internal/service"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb.ID, "")
		return
	}

	data := decodeCallback(cb.Data)

	var fn CallbackFunc
	switch data.Action {
	case actionSelect:
		fn = h.handleSelectCallback
	case actionCheck:
		fn = h.handleCheckCallback
	case actionNext:
		fn = h.handleNextCallback
	case actionExit:
		fn = h.handleExitCallback
	case actionReview:
		fn = h.handleReviewCallback
	case actionRetry:
		fn = h.handleRetryCallback
	case actionNewFile:
		fn = h.handleNewFileCallback
	case actionNoop:
		h.answerCallback(cb.ID, "")
		return
	default:
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
		h.answerCallback(cb.ID, "")
		return
	}

	text, _ := h.withCallbackErrorHandling(fn)(ctx, cb, data)
	h.answerCallback(cb.ID, text)
}

// ownedSession loads the session referenced by the callback and checks that
// it belongs to the user who pressed the button.
func (h *Handler) ownedSession(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (*entities.QuizSession, error) {
	id, ok := data.sessionID()
	if !ok {
		return nil, service.ErrSessionNotFound
	}

	session, err := h.quizService.Session(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.UserID != cb.From.ID {
		return nil, service.ErrSessionNotFound
	}

	return session, nil
}

func (h *Handler) handleSelectCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	session, err := h.ownedSession(ctx, cb, data)
	if err != nil {
		return "", err
	}
	optionID, err := selectedOption(session, data)
	if err != nil {
		return "", err
	}

	session, err = h.quizService.SelectOption(ctx, session.ID, optionID)
	if errors.Is(err, service.ErrSessionExpired) {
		return "", h.finish(ctx, sessionIDOf(data), true)
	}
	if err != nil {
		return "", err
	}

	return "", h.showQuestion(session, cb.Message.MessageID, false)
}

// selectedOption resolves the question and option positions carried by a
// select button. Buttons left over from an earlier question are refused.
func selectedOption(session *entities.QuizSession, data callbackData) (string, error) {
	qStr, _ := data.param(0)
	optStr, _ := data.param(1)

	question, err := strconv.Atoi(qStr)
	if err != nil {
		return "", service.ErrUnknownOption
	}
	option, err := strconv.Atoi(optStr)
	if err != nil {
		return "", service.ErrUnknownOption
	}

	q := session.CurrentQuestion()
	if q == nil {
		return "", service.ErrSessionNotActive
	}
	if question != session.Current {
		return "", service.ErrAnswerLocked
	}
	if option < 0 || option >= len(q.Options) {
		return "", service.ErrUnknownOption
	}

	return q.Options[option].ID, nil
}

func (h *Handler) handleCheckCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	session, err := h.ownedSession(ctx, cb, data)
	if err != nil {
		return "", err
	}

	session, correct, err := h.quizService.CheckAnswer(ctx, session.ID)
	if errors.Is(err, service.ErrSessionExpired) {
		return "", h.finish(ctx, sessionIDOf(data), true)
	}
	if err != nil {
		return "", err
	}

	if err := h.showQuestion(session, cb.Message.MessageID, correct); err != nil {
		return "", err
	}

	if correct {
		return "✅ Correct!", nil
	}
	return "❌ Incorrect", nil
}

func (h *Handler) handleNextCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	session, err := h.ownedSession(ctx, cb, data)
	if err != nil {
		return "", err
	}

	session, finished, err := h.quizService.Next(ctx, session.ID)
	if errors.Is(err, service.ErrSessionExpired) {
		return "", h.finish(ctx, sessionIDOf(data), true)
	}
	if err != nil {
		return "", err
	}

	if finished {
		return "", h.finish(ctx, session.ID, false)
	}
	return "", h.showQuestion(session, cb.Message.MessageID, false)
}

func (h *Handler) handleExitCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	session, err := h.ownedSession(ctx, cb, data)
	if err != nil {
		return "", err
	}

	if err := h.quizService.Abandon(ctx, session.ID); err != nil {
		return "", err
	}

	return "", h.edit(cb.Message.Chat.ID, cb.Message.MessageID, md(msgQuizStopped), nil)
}

func (h *Handler) handleReviewCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	session, err := h.ownedSession(ctx, cb, data)
	if err != nil {
		return "", err
	}
	if session.Result == nil {
		return "", service.ErrSessionNotActive
	}

	pageStr, _ := data.param(0)
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 0 {
		h.logger.Debug("invalid review page", zap.String("data", data.Raw))
		page = 0
	}

	return "", h.showReview(session, cb.Message.MessageID, page)
}

func (h *Handler) handleRetryCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, _ callbackData) (string, error) {
	session, err := h.quizService.StartSession(ctx, cb.From.ID, cb.Message.Chat.ID)
	if err != nil {
		return "", err
	}
	return "", h.sendQuestion(ctx, session)
}

func (h *Handler) handleNewFileCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, _ callbackData) (string, error) {
	h.quizService.DiscardBank(ctx, cb.From.ID)
	return "", h.send(newPlainMessage(cb.Message.Chat.ID, msgBankDiscarded))
}

func sessionIDOf(data callbackData) string {
	id, _ := data.sessionID()
	return id
}
