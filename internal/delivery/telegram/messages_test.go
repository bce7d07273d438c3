package telegram

import (
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/quiz-bank-bot/internal/domain/entities"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00"},
		{-time.Second, "00:00"},
		{59 * time.Second, "00:59"},
		{5*time.Minute + 7*time.Second, "05:07"},
		{59*time.Minute + 59*time.Second + 900*time.Millisecond, "59:59"},
		{time.Hour, "60:00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.in), tt.in.String())
	}
}

func testQuestion() entities.Question {
	return entities.Question{
		ID:     "q-0",
		Number: 1,
		Text:   "Pick primes",
		Options: []entities.Option{
			{ID: "opt-0-0", Label: "a", Text: "4"},
			{ID: "opt-0-1", Label: "b", Text: "5", IsCorrect: true},
			{ID: "opt-0-2", Label: "c", Text: "7", IsCorrect: true},
		},
	}
}

func TestFormatQuestion(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	session := entities.NewQuizSession("s", 1, 1, []entities.Question{testQuestion()}, start, time.Hour)

	text := formatQuestion(session, start.Add(15*time.Minute), false)
	assert.Contains(t, text, "*Question 1/1*")
	assert.Contains(t, text, "45:00 left")
	assert.Contains(t, text, "Select all that apply \\(2 correct\\)")
	assert.NotContains(t, text, "Correct answer")

	session.Answers["q-0"] = []string{"opt-0-0", "opt-0-1"}
	session.Checked = true

	text = formatQuestion(session, start, false)
	assert.Contains(t, text, "❌ a\\. 4")
	assert.Contains(t, text, "✅ b\\. 5")
	assert.Contains(t, text, "*b, c*")
}

func TestLabels(t *testing.T) {
	q := testQuestion()
	assert.Equal(t, "b, c", labels(&q, []string{"opt-0-2", "opt-0-1"}))
	assert.Equal(t, "—", labels(&q, nil))
}

func TestFormatSummary(t *testing.T) {
	result := &entities.QuizResult{
		ScoreSummary: entities.ScoreSummary{Total: 5, CorrectAnswers: 4, ScorePercentage: 80, Passed: true},
		TimeSpent:    12*time.Minute + 3*time.Second,
		CreatedAt:    time.Date(2025, 3, 1, 10, 12, 3, 0, time.UTC),
	}

	text := formatSummary(result, 80, []*entities.QuizResult{result})
	assert.Contains(t, text, "Passed")
	assert.Contains(t, text, "*80%*")
	assert.Contains(t, text, "4/5 correct")
	assert.Contains(t, text, "12:03")
	assert.Contains(t, text, "2025\\-03\\-01 10:12")
	assert.NotContains(t, text, "Time is up")

	result.Passed = false
	result.Expired = true
	text = formatSummary(result, 90, nil)
	assert.Contains(t, text, "Not passed")
	assert.Contains(t, text, "Time is up")
	assert.NotContains(t, text, "Recent results")
}

func TestFormatReviewPage(t *testing.T) {
	questions := make([]entities.Question, 7)
	for i := range questions {
		q := testQuestion()
		q.ID = "q-" + string(rune('0'+i))
		questions[i] = q
	}
	session := entities.NewQuizSession("s", 1, 1, questions, time.Now(), time.Hour)
	session.Answers["q-0"] = []string{"opt-0-1", "opt-0-2"}

	require.Equal(t, 2, reviewPages(session))

	first := formatReviewPage(session, 0)
	assert.Contains(t, first, "Review 1/2")
	assert.Equal(t, 5, strings.Count(first, "Correct: b, c"))
	assert.Contains(t, first, "✅ 1\\.")
	assert.Contains(t, first, "❌ 2\\.")

	second := formatReviewPage(session, 1)
	assert.Contains(t, second, "Review 2/2")
	assert.Equal(t, 2, strings.Count(second, "Your answer: —"))
}

func longQuestion(i, options int) entities.Question {
	q := entities.Question{
		ID:   fmt.Sprintf("q-%d", i),
		Text: strings.Repeat("A rather long prompt. ", 50),
	}
	for j := 0; j < options; j++ {
		q.Options = append(q.Options, entities.Option{
			ID:        fmt.Sprintf("opt-%d-%d", i, j),
			Label:     string(rune('a' + j%26)),
			Text:      strings.Repeat("option text. ", 30),
			IsCorrect: j == 1,
		})
	}
	return q
}

func TestFormatReviewPage_LongQuestions(t *testing.T) {
	questions := make([]entities.Question, reviewPerPage)
	for i := range questions {
		questions[i] = longQuestion(i, 4)
	}
	session := entities.NewQuizSession("s", 1, 1, questions, time.Now(), time.Hour)

	text := formatReviewPage(session, 0)
	assert.LessOrEqual(t, utf8.RuneCountInString(text), maxMessageRunes)
	assert.Equal(t, reviewPerPage, strings.Count(text, "Correct: b"))
	assert.Equal(t, reviewPerPage, strings.Count(text, "…*"))
}

func TestFormatQuestion_LongQuestion(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	session := entities.NewQuizSession("s", 1, 1, []entities.Question{longQuestion(0, 40)}, start, time.Hour)

	text := formatQuestion(session, start, false)
	assert.LessOrEqual(t, utf8.RuneCountInString(text), maxMessageRunes)
	assert.Contains(t, text, "…*")
	assert.True(t, strings.HasSuffix(text, cutMarker))

	session.Answers["q-0"] = []string{"opt-0-0"}
	session.Checked = true

	text = formatQuestion(session, start, false)
	assert.LessOrEqual(t, utf8.RuneCountInString(text), maxMessageRunes)
	assert.Contains(t, text, cutMarker)
	assert.True(t, strings.HasSuffix(text, "Correct answer:"+" *b*"))
}

func TestTextLimiter(t *testing.T) {
	text := newTextLimiter(0)
	assert.True(t, text.add("head"))
	assert.False(t, text.add(strings.Repeat("x", maxMessageRunes)))
	assert.False(t, text.add("tail"))
	assert.Equal(t, "head"+cutMarker, text.String())
}

func TestButtonText(t *testing.T) {
	assert.Equal(t, "short", buttonText("short"))

	long := strings.Repeat("й", 40)
	got := buttonText(long)
	assert.Equal(t, buttonTextRunes, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))
}

func TestIsAllowedDocument(t *testing.T) {
	for name, want := range map[string]bool{
		"bank.md":       true,
		"bank.MARKDOWN": true,
		"notes.txt":     true,
		"bank.pdf":      false,
		"bank":          false,
	} {
		assert.Equal(t, want, isAllowedDocument(name), name)
	}
}
