package entities

import (
	"slices"
	"time"
)

// Default quiz parameters.
const (
	DefaultSessionSize    = 40
	DefaultPassThreshold  = 80
	DefaultTimeLimit      = 60 * time.Minute
	DefaultLowTimeWarning = 5 * time.Minute
)

// Session statuses.
const (
	SessionActive    = "active"
	SessionSubmitted = "submitted"
	SessionAbandoned = "abandoned"
)

// AnswerRecord maps a question id to the ids of the options the user selected.
// A missing key means "no selection".
type AnswerRecord map[string][]string

// Selected returns the option ids selected for the question.
func (a AnswerRecord) Selected(questionID string) []string {
	return a[questionID]
}

// IsSelected reports whether the option is part of the selection for the question.
func (a AnswerRecord) IsSelected(questionID, optionID string) bool {
	return slices.Contains(a[questionID], optionID)
}

// Toggle applies a click on an option. Single-choice questions replace the
// selection, multi-select questions add or remove the option.
func (a AnswerRecord) Toggle(q *Question, optionID string) {
	if !q.IsMultiSelect() {
		a[q.ID] = []string{optionID}
		return
	}

	current := a[q.ID]
	if i := slices.Index(current, optionID); i >= 0 {
		a[q.ID] = slices.Delete(slices.Clone(current), i, i+1)
		return
	}
	a[q.ID] = append(slices.Clone(current), optionID)
}

// Clone returns a deep copy of the record.
func (a AnswerRecord) Clone() AnswerRecord {
	out := make(AnswerRecord, len(a))
	for k, v := range a {
		out[k] = slices.Clone(v)
	}
	return out
}

// ScoreSummary is the outcome of grading one session.
type ScoreSummary struct {
	Total           int  `json:"totalQuestions"`
	CorrectAnswers  int  `json:"correctAnswers"`
	ScorePercentage int  `json:"scorePercentage"`
	Passed          bool `json:"passed"`
}

// QuizResult is a graded session as it is stored in the history.
type QuizResult struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"userId"`
	SessionID string        `json:"sessionId"`
	ScoreSummary
	TimeSpent time.Duration `json:"timeSpent"`
	Expired   bool          `json:"expired"` // submitted by the timer
	CreatedAt time.Time     `json:"date"`
}

// QuizSession is one timed attempt over a sampled subset of a bank.
type QuizSession struct {
	ID          string
	UserID      int64
	ChatID      int64
	Questions   []Question
	Answers     AnswerRecord
	Current     int  // index of the question on screen
	Checked     bool // the current answer was submitted for feedback
	Status      string
	StartedAt   time.Time
	Deadline    time.Time
	WarningSent bool
	MessageID   int // telegram message that shows the current question
	Result      *QuizResult
}

// NewQuizSession creates an active session that has to be finished before deadline.
func NewQuizSession(id string, userID, chatID int64, questions []Question, startedAt time.Time, timeLimit time.Duration) *QuizSession {
	return &QuizSession{
		ID:        id,
		UserID:    userID,
		ChatID:    chatID,
		Questions: questions,
		Answers:   make(AnswerRecord),
		Status:    SessionActive,
		StartedAt: startedAt,
		Deadline:  startedAt.Add(timeLimit),
	}
}

// IsActive reports whether the session still accepts answers.
func (s *QuizSession) IsActive() bool {
	return s.Status == SessionActive
}

// CurrentQuestion returns the question on screen, or nil when the index is out of range.
func (s *QuizSession) CurrentQuestion() *Question {
	if s.Current < 0 || s.Current >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.Current]
}

// IsLast reports whether the current question is the last one.
func (s *QuizSession) IsLast() bool {
	return s.Current >= len(s.Questions)-1
}

// Remaining returns the time left until the deadline, never negative.
func (s *QuizSession) Remaining(now time.Time) time.Duration {
	d := s.Deadline.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Expired reports whether the deadline has passed.
func (s *QuizSession) Expired(now time.Time) bool {
	return !now.Before(s.Deadline)
}

// Clone returns a copy that can be read without holding the storage lock.
func (s *QuizSession) Clone() *QuizSession {
	c := *s
	c.Questions = slices.Clone(s.Questions)
	c.Answers = s.Answers.Clone()
	if s.Result != nil {
		r := *s.Result
		c.Result = &r
	}
	return &c
}
