package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

var (
	errFileTooLarge = errors.New("file too large")
	errNotUTF8      = errors.New("file is not valid utf-8")
)

var allowedExtensions = []string{".md", ".markdown", ".txt"}

func isAllowedDocument(name string) bool {
	return slices.Contains(allowedExtensions, strings.ToLower(filepath.Ext(name)))
}

func fileTooLargeText(limit int64) string {
	return fmt.Sprintf("The file is too large. The limit is %d KB.", limit/1024)
}

// handleDocument loads an uploaded question bank and starts a session on it.
func (h *Handler) handleDocument(userID int64, doc *tgbotapi.Document) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if !isAllowedDocument(doc.FileName) {
			return h.send(newPlainMessage(chatID, msgUnsupportedFile))
		}
		if int64(doc.FileSize) > h.opts.MaxUploadBytes {
			return h.send(newPlainMessage(chatID, fileTooLargeText(h.opts.MaxUploadBytes)))
		}

		text, err := h.downloadDocument(ctx, doc.FileID)
		switch {
		case errors.Is(err, errFileTooLarge):
			return h.send(newPlainMessage(chatID, fileTooLargeText(h.opts.MaxUploadBytes)))
		case errors.Is(err, errNotUTF8):
			return h.send(newPlainMessage(chatID, msgFileNotText))
		case err != nil:
			return err
		}

		bank, err := h.quizService.LoadBank(ctx, userID, text)
		if err != nil {
			return err
		}

		h.logger.Debug("document loaded",
			zap.Int64("user_id", userID),
			zap.String("file_name", doc.FileName),
			zap.Int("questions", len(bank)),
		)

		if err := h.send(newPlainMessage(chatID, formatBankLoaded(len(bank), h.quizService.SessionSize()))); err != nil {
			return err
		}

		session, err := h.quizService.StartSession(ctx, userID, chatID)
		if err != nil {
			return err
		}
		return h.sendQuestion(ctx, session)
	}
}

// downloadDocument fetches the file contents from Telegram servers.
func (h *Handler) downloadDocument(ctx context.Context, fileID string) (string, error) {
	url, err := h.bot.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("get file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download file: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, h.opts.MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	if int64(len(data)) > h.opts.MaxUploadBytes {
		return "", errFileTooLarge
	}
	if !utf8.Valid(data) {
		return "", errNotUTF8
	}

	return strings.TrimPrefix(string(data), "\uFEFF"), nil
}
