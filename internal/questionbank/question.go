package questionbank

import (
	"errors"
	"fmt"
	"strings"
)

// Option is one answer choice of a question.
type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// Question is an immutable multiple-choice question.
type Question struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Options     []Option   `json:"options"`
	Explanation string     `json:"explanation"`
	Topic       Topic      `json:"topic"`
	Difficulty  Difficulty `json:"difficulty"`
}

// NewQuestion builds a Question and checks its invariants.
func NewQuestion(id, text string, options []Option, explanation string, topic Topic, difficulty Difficulty) (Question, error) {
	q := Question{
		ID:          id,
		Text:        text,
		Options:     append([]Option(nil), options...),
		Explanation: explanation,
		Topic:       topic,
		Difficulty:  difficulty,
	}
	if problems := q.problems(); len(problems) > 0 {
		return Question{}, errors.New(strings.Join(problems, "; "))
	}
	return q, nil
}

// problems lists every invariant the question violates.
func (q Question) problems() []string {
	var errs []string
	prefix := fmt.Sprintf("question %q", q.ID)

	if strings.TrimSpace(q.ID) == "" {
		errs = append(errs, "question has empty id")
	}
	if strings.TrimSpace(q.Text) == "" {
		errs = append(errs, prefix+": empty text")
	}
	if !q.Topic.Valid() {
		errs = append(errs, fmt.Sprintf("%s: unknown topic %q", prefix, q.Topic))
	}
	if !q.Difficulty.Valid() {
		errs = append(errs, fmt.Sprintf("%s: unknown difficulty %q", prefix, q.Difficulty))
	}
	if len(q.Options) < 2 {
		errs = append(errs, fmt.Sprintf("%s: needs at least 2 options, got %d", prefix, len(q.Options)))
	}

	seen := make(map[string]bool, len(q.Options))
	correct := 0
	for _, o := range q.Options {
		if o.ID == "" {
			errs = append(errs, prefix+": option with empty id")
		}
		if seen[o.ID] {
			errs = append(errs, fmt.Sprintf("%s: duplicate option id %q", prefix, o.ID))
		}
		seen[o.ID] = true
		if o.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		errs = append(errs, fmt.Sprintf("%s: must have exactly one correct option, got %d", prefix, correct))
	}
	return errs
}

// Clone returns a copy of q that shares no options with it.
func (q Question) Clone() Question {
	q.Options = append([]Option(nil), q.Options...)
	return q
}

// Option returns the option with the given id.
func (q Question) Option(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// CorrectOption returns the single correct option.
func (q Question) CorrectOption() Option {
	for _, o := range q.Options {
		if o.IsCorrect {
			return o
		}
	}
	return Option{}
}
