// Package parser turns a question-bank document into questions.
//
// The document is line oriented:
//
//	**Question 1:** What is the capital of France?
//	a. Berlin
//	**b. Paris**
//	c. Madrid
//
// A line that is bold from its first to its last character marks a correct
// option. Anything that does not fit the dialect is skipped silently.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aliskhannn/quiz-bank-bot/internal/domain/entities"
)

const boldMarker = "**"

var (
	questionPattern = regexp.MustCompile(`(?i)^\*\*Question\s+(\d+)\s*:?:?\*\*\s*:?\s*(.*)$`)
	optionPattern   = regexp.MustCompile(`^(\*\*)?\s*([a-zA-Z])\.\s+(.*?)(\*\*)?$`)
	labelPattern    = regexp.MustCompile(`^([a-zA-Z])\.\s+(.*)$`)
)

// Parse converts document text into questions in document order.
// It never fails: an empty result means no question could be built.
func Parse(text string) []entities.Question {
	s := &scanner{}
	for _, line := range strings.Split(text, "\n") {
		s.step(line)
	}
	return s.finish()
}

// IsWholeLineBold reports whether the trimmed line is wrapped in bold markers
// from start to end. It is the only correctness signal for an option line.
func IsWholeLineBold(line string) bool {
	line = strings.TrimSpace(line)
	return len(line) >= 2*len(boldMarker) &&
		strings.HasPrefix(line, boldMarker) &&
		strings.HasSuffix(line, boldMarker)
}

// draft is a question that is still accumulating options.
type draft struct {
	question entities.Question
	counter  int
}

// scanner folds lines into questions. A nil current means no question is open.
type scanner struct {
	questions []entities.Question
	current   *draft
}

func (s *scanner) step(line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return
	}

	if m := questionPattern.FindStringSubmatch(trimmed); m != nil {
		s.open(m[1], m[2])
		return
	}

	if s.current == nil {
		return
	}

	if optionPattern.MatchString(trimmed) {
		s.current.addOption(trimmed, len(s.questions))
		return
	}

	if len(s.current.question.Options) == 0 {
		s.current.question.Text = strings.TrimSpace(s.current.question.Text + " " + trimmed)
	}
}

func (s *scanner) open(number, text string) {
	s.flush()

	n, _ := strconv.Atoi(number)
	s.current = &draft{
		question: entities.Question{
			ID:      fmt.Sprintf("q-%d", len(s.questions)),
			Number:  n,
			Text:    strings.TrimSpace(text),
			Options: []entities.Option{},
		},
	}
}

// flush emits the open question if it collected at least one option.
func (s *scanner) flush() {
	if s.current != nil && len(s.current.question.Options) > 0 {
		s.questions = append(s.questions, s.current.question)
	}
	s.current = nil
}

func (s *scanner) finish() []entities.Question {
	s.flush()
	if s.questions == nil {
		return []entities.Question{}
	}
	return s.questions
}

func (d *draft) addOption(line string, questionIndex int) {
	correct := IsWholeLineBold(line)

	clean := line
	if correct {
		clean = strings.TrimSpace(line[len(boldMarker) : len(line)-len(boldMarker)])
	}

	var label, text string
	if m := labelPattern.FindStringSubmatch(clean); m != nil {
		label = strings.ToLower(m[1])
		text = strings.TrimSpace(m[2])
	} else {
		// The counter keeps moving on both paths, so labels may skip letters.
		label = string(rune('a' + d.counter))
		text = clean
	}

	d.question.Options = append(d.question.Options, entities.Option{
		ID:        fmt.Sprintf("opt-%d-%d", questionIndex, d.counter),
		Label:     label,
		Text:      text,
		IsCorrect: correct,
	})
	d.counter++
}
