package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/quiz-bank-bot/internal/domain/entities"
)

// buildQuestionKeyboard builds one toggle button per option plus the check and exit row.
func buildQuestionKeyboard(session *entities.QuizSession) tgbotapi.InlineKeyboardMarkup {
	q := session.CurrentQuestion()

	var rows [][]tgbotapi.InlineKeyboardButton
	for i, opt := range q.Options {
		mark := ""
		if session.Answers.IsSelected(q.ID, opt.ID) {
			mark = "✅ "
		}
		text := fmt.Sprintf("%s%s. %s", mark, opt.Label, buttonText(opt.Text))
		button := tgbotapi.NewInlineKeyboardButtonData(text, buildSelectCallback(session.ID, session.Current, i))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✔️ Check answer", buildCheckCallback(session.ID)),
		tgbotapi.NewInlineKeyboardButtonData("🚪 Exit", buildExitCallback(session.ID)),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildFeedbackKeyboard builds the keyboard shown after an answer is checked.
func buildFeedbackKeyboard(session *entities.QuizSession) tgbotapi.InlineKeyboardMarkup {
	next := "Next ▶️"
	if session.IsLast() {
		next = "🏁 Finish"
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(next, buildNextCallback(session.ID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚪 Exit", buildExitCallback(session.ID)),
		),
	)
}

// buildSummaryKeyboard builds keyboard for quiz results screen.
func buildSummaryKeyboard(sessionID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔍 Review answers", buildReviewCallback(sessionID, 0)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Retry", buildRetryCallback()),
			tgbotapi.NewInlineKeyboardButtonData("📄 New file", buildNewFileCallback()),
		),
	)
}

// buildReviewKeyboard builds pagination keyboard for the review screen.
func buildReviewKeyboard(sessionID string, page, totalPages int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	if totalPages > 1 {
		var row []tgbotapi.InlineKeyboardButton
		if page > 0 {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData("◀️ Previous", buildReviewCallback(sessionID, page-1)))
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d/%d", page+1, totalPages), actionNoop))
		if page < totalPages-1 {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData("Next ▶️", buildReviewCallback(sessionID, page+1)))
		}
		rows = append(rows, row)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔄 Retry", buildRetryCallback()),
		tgbotapi.NewInlineKeyboardButtonData("📄 New file", buildNewFileCallback()),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
