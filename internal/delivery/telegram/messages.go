// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/quiz-bank-bot/internal/domain/entities"
	"github.com/aliskhannn/quiz-bank-bot/internal/service"
)

// Error messages.
const (
	msgInternalError    = "Something went wrong. Please try again later."
	msgUnknownCommand   = "Unknown command. Use /help to see what I can do."
	msgSendFile         = "Send me a question bank file (.md, .markdown or .txt) to start."
	msgNoQuestionsFound = "No questions found in this file. Check the format with /format and try again."
	msgUnsupportedFile  = "Unsupported file type. Please send a .md, .markdown or .txt file."
	msgFileNotText      = "The file is not valid UTF-8 text."
	msgNoActiveQuiz     = "There is no running quiz."
	msgQuizOver         = "This quiz is already over."
	msgQuizStopped      = "Quiz stopped. Send /quiz to start again or upload a new file."
	msgBankDiscarded    = "The question bank was discarded. Send me a new file."
	msgSelectOption     = "Select at least one option first."
	msgAnswerLocked     = "This answer is already checked."
	msgCheckFirst       = "Check your answer first."
	msgHistoryEmpty     = "You have no finished quizzes yet."
)

const msgFormat = `Question bank format:

**Question 1:** What is the capital of France?
a. Berlin
**b. Paris**
c. Madrid

• Each question starts with a bold "Question N:" header.
• Options are lines like "a. text".
• Correct options are bold from the start of the line to the end.
• Mark several options bold to make a multi-select question.
• Lines between the header and the first option continue the question text.`

const (
	reviewPerPage     = 5
	buttonTextRunes   = 32
	questionTextRunes = 1000
	optionTextRunes   = 300
	reviewTextRunes   = 200
	summaryHistoryLen = 5
)

// Telegram rejects message texts longer than this.
const maxMessageRunes = 4096

// cutMarker ends a message whose tail did not fit.
const cutMarker = "\n…"

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

func welcomeText(sessionSize, passThreshold int, timeLimit time.Duration) string {
	return fmt.Sprintf(
		"👋 Welcome!\n\n"+
			"Send me a question bank file (.md, .markdown or .txt) and I will turn it into a quiz "+
			"of up to %d random questions.\n\n"+
			"⏱ You have %s to finish.\n"+
			"🎯 You pass with %d%% or more.\n\n"+
			"/format shows the file format, /help lists all commands.",
		sessionSize, formatDuration(timeLimit), passThreshold,
	)
}

const msgHelp = `Commands:

/quiz — start a new quiz from the loaded file
/retry — same as /quiz
/stop — stop the running quiz
/history — your recent results
/new — discard the loaded file
/format — question bank format

Upload a file at any time to replace the current bank.`

// formatDuration renders a duration as mm:ss. Minutes are not wrapped into hours.
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

func formatBankLoaded(bankSize, sessionSize int) string {
	n := min(bankSize, sessionSize)
	return fmt.Sprintf("📚 Loaded %d questions. Starting a quiz with %d of them.", bankSize, n)
}

// formatQuestion renders the question on screen. After the answer is checked
// the options are marked against the key and feedback is appended.
func formatQuestion(session *entities.QuizSession, now time.Time, correct bool) string {
	q := session.CurrentQuestion()
	if q == nil {
		return md(msgQuizOver)
	}

	var feedback string
	if session.Checked {
		feedback = "\n" + formatAnswerFeedback(correct, labels(q, q.CorrectOptionIDs()))
	}

	var head strings.Builder
	head.WriteString(bold(fmt.Sprintf("Question %d/%d", session.Current+1, len(session.Questions))))
	head.WriteString(md(fmt.Sprintf("   ⏱ %s left", formatDuration(session.Remaining(now)))))
	head.WriteString("\n\n")

	if q.Text != "" {
		head.WriteString(bold(truncate(q.Text, questionTextRunes)))
		head.WriteString("\n")
	}
	if q.IsMultiSelect() {
		head.WriteString(italic(fmt.Sprintf("Select all that apply (%d correct)", q.CorrectCount())))
		head.WriteString("\n")
	}
	head.WriteString("\n")

	text := newTextLimiter(utf8.RuneCountInString(feedback))
	text.add(head.String())

	for _, opt := range q.Options {
		line := md(fmt.Sprintf("%s %s. %s", optionMark(session, q, opt), opt.Label, truncate(opt.Text, optionTextRunes)))
		if !text.add(line + "\n") {
			break
		}
	}

	return text.String() + feedback
}

func optionMark(session *entities.QuizSession, q *entities.Question, opt entities.Option) string {
	selected := session.Answers.IsSelected(q.ID, opt.ID)

	if !session.Checked {
		if selected {
			return "🔘"
		}
		return "⚪️"
	}

	switch {
	case opt.IsCorrect:
		return "✅"
	case selected:
		return "❌"
	default:
		return "⚪️"
	}
}

// formatAnswerFeedback formats feedback for a checked answer (MarkdownV2 safe).
func formatAnswerFeedback(isCorrect bool, correctLabels string) string {
	if isCorrect {
		return bold("✅ Correct!")
	}
	return fmt.Sprintf(
		"%s\n%s %s",
		bold("❌ Incorrect"),
		md("Correct answer:"),
		bold(correctLabels),
	)
}

// labels joins the labels of the given options in display order.
func labels(q *entities.Question, optionIDs []string) string {
	var out []string
	for _, opt := range q.Options {
		for _, id := range optionIDs {
			if opt.ID == id {
				out = append(out, opt.Label)
				break
			}
		}
	}
	if len(out) == 0 {
		return "—"
	}
	return strings.Join(out, ", ")
}

// formatSummary formats the results screen (MarkdownV2 safe).
func formatSummary(result *entities.QuizResult, passThreshold int, history []*entities.QuizResult) string {
	var sb strings.Builder

	if result.Passed {
		sb.WriteString(bold("🎉 Passed!"))
	} else {
		sb.WriteString(bold("📚 Not passed"))
	}
	sb.WriteString("\n")

	if result.Expired {
		sb.WriteString(md("⏰ Time is up, your answers were submitted automatically."))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(md("Score: "))
	sb.WriteString(bold(fmt.Sprintf("%d%%", result.ScorePercentage)))
	sb.WriteString(md(fmt.Sprintf(" (%d/%d correct)", result.CorrectAnswers, result.Total)))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("Pass mark: %d%%", passThreshold)))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("Time spent: %s", formatDuration(result.TimeSpent))))

	if len(history) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(bold("Recent results"))
		sb.WriteString("\n")
		sb.WriteString(formatResultLines(history))
	}

	return sb.String()
}

func formatResultLines(results []*entities.QuizResult) string {
	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n")
		}
		mark := "❌"
		if r.Passed {
			mark = "✅"
		}
		sb.WriteString(md(fmt.Sprintf("%s %s  %d%% (%d/%d)  %s",
			mark,
			r.CreatedAt.UTC().Format("2006-01-02 15:04"),
			r.ScorePercentage,
			r.CorrectAnswers,
			r.Total,
			formatDuration(r.TimeSpent),
		)))
	}
	return sb.String()
}

// formatHistory formats the /history screen (MarkdownV2 safe).
func formatHistory(stats *entities.UserStats, results []*entities.QuizResult) string {
	var sb strings.Builder

	sb.WriteString(bold("📊 Your results"))
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("Attempts: %d\nPassed: %d\nBest score: %d%%", stats.Attempts, stats.Passed, stats.BestScore)))
	sb.WriteString("\n\n")
	sb.WriteString(formatResultLines(results))

	return sb.String()
}

// reviewPages returns the number of review pages for the session.
func reviewPages(session *entities.QuizSession) int {
	return (len(session.Questions) + reviewPerPage - 1) / reviewPerPage
}

// formatReviewPage lists the user's choice against the key for one page of questions.
func formatReviewPage(session *entities.QuizSession, page int) string {
	total := reviewPages(session)

	text := newTextLimiter(0)
	text.add(bold(fmt.Sprintf("🔍 Review %d/%d", page+1, total)))

	from := page * reviewPerPage
	to := min(from+reviewPerPage, len(session.Questions))

	for i := from; i < to; i++ {
		q := &session.Questions[i]
		selected := session.Answers.Selected(q.ID)

		mark := "❌"
		if service.IsAnsweredCorrectly(q, session.Answers) {
			mark = "✅"
		}

		row := "\n\n" +
			md(fmt.Sprintf("%s %d. ", mark, i+1)) +
			bold(truncate(q.Text, reviewTextRunes)) + "\n" +
			md(fmt.Sprintf("Your answer: %s\nCorrect: %s", labels(q, selected), labels(q, q.CorrectOptionIDs())))
		if !text.add(row) {
			break
		}
	}

	return text.String()
}

// buttonText shortens option text so it fits on an inline button.
func buttonText(s string) string {
	return truncate(s, buttonTextRunes)
}

// truncate cuts s to at most n runes, ending with "…" when shortened.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// textLimiter collects rendered MarkdownV2 fragments and stops before the
// message would exceed maxMessageRunes. Fragments are never split, so escapes
// and entities stay balanced.
type textLimiter struct {
	sb    strings.Builder
	runes int
	limit int
	cut   bool
}

// newTextLimiter keeps reserve runes free for text appended after the limiter.
func newTextLimiter(reserve int) *textLimiter {
	return &textLimiter{limit: maxMessageRunes - reserve - utf8.RuneCountInString(cutMarker)}
}

// add appends s and reports whether it fit. Once a fragment is rejected the
// cut marker is written and every later fragment is dropped.
func (l *textLimiter) add(s string) bool {
	if l.cut {
		return false
	}

	n := utf8.RuneCountInString(s)
	if l.runes+n > l.limit {
		l.cut = true
		l.sb.WriteString(cutMarker)
		return false
	}

	l.sb.WriteString(s)
	l.runes += n
	return true
}

func (l *textLimiter) String() string {
	return l.sb.String()
}

func formatLowTime(remaining time.Duration) string {
	return fmt.Sprintf("⏰ Only %s left! Finish your answers before the time runs out.", formatDuration(remaining))
}
