package questionbank

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a question id is not in the bank.
var ErrNotFound = errors.New("question not found")

// Bank is an ordered, read-only collection of questions. It is safe to share
// between goroutines.
type Bank struct {
	questions []Question
	byID      map[string]int
}

// New builds a bank, rejecting invalid questions and duplicate ids.
// All problems found are reported in a single error.
func New(questions []Question) (*Bank, error) {
	if err := validateQuestions(questions); err != nil {
		return nil, err
	}

	b := &Bank{
		questions: make([]Question, len(questions)),
		byID:      make(map[string]int, len(questions)),
	}
	for i, q := range questions {
		q.Options = append([]Option(nil), q.Options...)
		b.questions[i] = q
		b.byID[q.ID] = i
	}
	return b, nil
}

// Empty returns a bank with no questions.
func Empty() *Bank {
	return &Bank{byID: make(map[string]int)}
}

// validateQuestions performs all structural checks on the given question set.
func validateQuestions(questions []Question) error {
	var errs []string

	ids := make(map[string]bool, len(questions))
	for _, q := range questions {
		if ids[q.ID] {
			errs = append(errs, fmt.Sprintf("duplicate question id: %q", q.ID))
		}
		ids[q.ID] = true
		errs = append(errs, q.problems()...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("question bank validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// Len returns the number of questions.
func (b *Bank) Len() int {
	return len(b.questions)
}

// All returns a copy of every question in bank order.
func (b *Bank) All() []Question {
	out := make([]Question, len(b.questions))
	for i, q := range b.questions {
		out[i] = q.Clone()
	}
	return out
}

// Get returns the question with the given id.
func (b *Bank) Get(id string) (Question, error) {
	i, ok := b.byID[id]
	if !ok {
		return Question{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return b.questions[i].Clone(), nil
}

// Filter returns the questions matching f, in bank order.
func (b *Bank) Filter(f Filter) []Question {
	var out []Question
	for _, q := range b.questions {
		if f.Matches(q) {
			out = append(out, q.Clone())
		}
	}
	return out
}

// CountByTopic returns how many questions the bank holds per topic.
func (b *Bank) CountByTopic() map[Topic]int {
	counts := make(map[Topic]int)
	for _, q := range b.questions {
		counts[q.Topic]++
	}
	return counts
}

// Filter selects questions by topic and difficulty. Empty fields match
// everything, as does the value "all".
type Filter struct {
	Topic      Topic
	Difficulty Difficulty
}

// ParseFilter builds a Filter from user-supplied strings.
func ParseFilter(topic, difficulty string) (Filter, error) {
	var f Filter
	if topic != "" && topic != All {
		t, err := ParseTopic(topic)
		if err != nil {
			return Filter{}, err
		}
		f.Topic = t
	}
	if difficulty != "" && difficulty != All {
		d, err := ParseDifficulty(difficulty)
		if err != nil {
			return Filter{}, err
		}
		f.Difficulty = d
	}
	return f, nil
}

// Matches reports whether q satisfies the filter.
func (f Filter) Matches(q Question) bool {
	topicMatch := f.Topic == "" || f.Topic == All || q.Topic == f.Topic
	difficultyMatch := f.Difficulty == "" || f.Difficulty == All || q.Difficulty == f.Difficulty
	return topicMatch && difficultyMatch
}

// TopicLabel returns the topic filter value, "all" when unset.
func (f Filter) TopicLabel() string {
	if f.Topic == "" {
		return All
	}
	return string(f.Topic)
}

// DifficultyLabel returns the difficulty filter value, "all" when unset.
func (f Filter) DifficultyLabel() string {
	if f.Difficulty == "" {
		return All
	}
	return string(f.Difficulty)
}
