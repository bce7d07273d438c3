package service

import (
	"math"

	"github.com/aliskhannn/quiz-bank-bot/internal/domain/entities"
)

// Grade scores a session against the answer key. A question counts only when
// the selected option set equals the correct option set.
func Grade(session []entities.Question, answers entities.AnswerRecord, passThreshold int) entities.ScoreSummary {
	correct := 0
	for i := range session {
		if IsAnsweredCorrectly(&session[i], answers) {
			correct++
		}
	}

	total := len(session)
	percentage := 0
	if total > 0 {
		percentage = int(math.Round(100 * float64(correct) / float64(total)))
	}

	return entities.ScoreSummary{
		Total:           total,
		CorrectAnswers:  correct,
		ScorePercentage: percentage,
		Passed:          percentage >= passThreshold,
	}
}

// IsAnsweredCorrectly reports whether the selection for q matches its key exactly.
func IsAnsweredCorrectly(q *entities.Question, answers entities.AnswerRecord) bool {
	return setEqual(toSet(answers.Selected(q.ID)), toSet(q.CorrectOptionIDs()))
}

func toSet(arr []string) map[string]struct{} {
	m := make(map[string]struct{}, len(arr))
	for _, s := range arr {
		m[s] = struct{}{}
	}
	return m
}

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
