package entities

// Option is a single answer choice of a question.
type Option struct {
	ID        string `json:"id"`        // unique within its question
	Label     string `json:"label"`     // display letter: a, b, c, ...
	Text      string `json:"text"`      // answer text without markup
	IsCorrect bool   `json:"isCorrect"` // answer key bit
}

// Question is one multiple-choice item of a question bank.
type Question struct {
	ID      string   `json:"id"`     // unique within the bank
	Number  int      `json:"number"` // ordinal declared in the source document, display only
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}

// CorrectOptionIDs returns the ids of all options marked correct, in option order.
func (q *Question) CorrectOptionIDs() []string {
	ids := make([]string, 0, len(q.Options))
	for _, o := range q.Options {
		if o.IsCorrect {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

// CorrectCount returns the number of correct options.
func (q *Question) CorrectCount() int {
	n := 0
	for _, o := range q.Options {
		if o.IsCorrect {
			n++
		}
	}
	return n
}

// IsMultiSelect reports whether the question has to be answered with several options.
func (q *Question) IsMultiSelect() bool {
	return q.CorrectCount() > 1
}

// Option returns the option with the given id.
func (q *Question) Option(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}
