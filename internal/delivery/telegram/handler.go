package telegram

import (
	"context"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	defaultMaxUploadBytes = 1 << 20
	defaultHistoryLimit   = 10
)

// Options holds delivery limits taken from the configuration.
type Options struct {
	MaxUploadBytes int64
	HistoryLimit   int
}

type Handler struct {
	bot         BotAPI
	logger      *zap.Logger
	userService UserService
	quizService QuizService
	client      *http.Client
	opts        Options
}

func NewHandler(
	bot BotAPI,
	logger *zap.Logger,
	userService UserService,
	quizService QuizService,
	client *http.Client,
	opts Options,
) *Handler {
	if client == nil {
		client = http.DefaultClient
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = defaultHistoryLimit
	}

	return &Handler{
		bot:         bot,
		logger:      logger,
		userService: userService,
		quizService: quizService,
		client:      client,
		opts:        opts,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	from := update.Message.From
	chatID := update.Message.Chat.ID

	if err := h.userService.EnsureUser(ctx, from.ID, chatID); err != nil {
		h.logger.Error("failed to ensure user",
			zap.Int64("user_id", from.ID),
			zap.Error(err),
		)
	}

	if update.Message.Document != nil {
		_ = h.withErrorHandling(h.handleDocument(from.ID, update.Message.Document))(ctx, chatID)
		return
	}

	if !update.Message.IsCommand() {
		_ = h.send(newPlainMessage(chatID, msgSendFile))
		return
	}

	switch update.Message.Command() {
	case "start":
		_ = h.withErrorHandling(h.handleStart())(ctx, chatID)

	case "help":
		_ = h.send(newPlainMessage(chatID, msgHelp))

	case "format":
		_ = h.send(newPlainMessage(chatID, msgFormat))

	case "quiz", "retry":
		_ = h.withErrorHandling(h.handleQuiz(from.ID))(ctx, chatID)

	case "stop":
		_ = h.withErrorHandling(h.handleStop(from.ID))(ctx, chatID)

	case "history":
		_ = h.withErrorHandling(h.handleHistory(from.ID))(ctx, chatID)

	case "new":
		_ = h.withErrorHandling(h.handleNewFile(from.ID))(ctx, chatID)

	default:
		_ = h.send(newPlainMessage(chatID, msgUnknownCommand))
	}
}

func (h *Handler) sendError(chatID int64, err string) {
	_ = h.send(newPlainMessage(chatID, err))
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}

// edit replaces text and keyboard of a sent message. Telegram refuses edits
// that change nothing; those are not errors here.
func (h *Handler) edit(chatID int64, messageID int, text string, kb *tgbotapi.InlineKeyboardMarkup) error {
	e := newEdit(chatID, messageID, text)
	e.ReplyMarkup = kb

	if _, err := h.bot.Request(e); err != nil {
		if strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		h.logger.Error("failed to edit telegram message",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", messageID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (h *Handler) answerCallback(id, text string) {
	// Remove the user's "clock".
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}
