package parser

import "github.com/aliskhannn/quiz-bank-bot/internal/domain/entities"

// Stats summarizes a parsed bank.
type Stats struct {
	Questions      int `json:"questions"`
	Options        int `json:"options"`
	CorrectOptions int `json:"correctOptions"`
	MultiSelect    int `json:"multiSelect"`
	WithoutCorrect int `json:"withoutCorrect"`
}

// Summarize counts questions and options of a bank. Questions without a
// correct option can never be answered correctly and are counted separately.
func Summarize(bank []entities.Question) Stats {
	var s Stats
	for i := range bank {
		q := &bank[i]
		n := q.CorrectCount()

		s.Questions++
		s.Options += len(q.Options)
		s.CorrectOptions += n
		if n > 1 {
			s.MultiSelect++
		}
		if n == 0 {
			s.WithoutCorrect++
		}
	}
	return s
}
