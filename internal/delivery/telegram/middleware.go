package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-bank-bot/internal/service"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// CallbackFunc handles a button press and returns the text of the callback answer.
type CallbackFunc func(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error)

func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := fn(ctx, chatID); err != nil {
			if alert, ok := userAlert(err); ok {
				h.sendError(chatID, alert)
				return nil
			}
			h.logger.Error("handle error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			h.sendError(chatID, msgInternalError)
			return nil
		}
		return nil
	}
}

func (h *Handler) withCallbackErrorHandling(fn CallbackFunc) CallbackFunc {
	return func(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
		text, err := fn(ctx, cb, data)
		if err == nil {
			return text, nil
		}
		if alert, ok := userAlert(err); ok {
			return alert, nil
		}

		h.logger.Error("handle callback error",
			zap.Int64("user_id", cb.From.ID),
			zap.String("data", data.Raw),
			zap.Error(err),
		)
		return msgInternalError, nil
	}
}

// userAlert maps expected quiz errors to a message for the user.
func userAlert(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrSessionNotActive),
		errors.Is(err, service.ErrUnknownOption):
		return msgQuizOver, true
	case errors.Is(err, service.ErrNoBank):
		return msgSendFile, true
	case errors.Is(err, service.ErrNoQuestionsFound):
		return msgNoQuestionsFound, true
	case errors.Is(err, service.ErrNoSelection):
		return msgSelectOption, true
	case errors.Is(err, service.ErrAnswerLocked):
		return msgAnswerLocked, true
	case errors.Is(err, service.ErrAnswerNotChecked):
		return msgCheckFirst, true
	default:
		return "", false
	}
}
