package session

import (
	"time"

	"github.com/abhisek/kubika/internal/questionbank"
)

// Phase is the engine's position in the session lifecycle.
type Phase int

const (
	PhaseBuilding  Phase = iota // No working set yet, or one is being drawn
	PhaseAnswering              // Accepting answers
	PhaseFinishing              // Finish requested with unanswered questions, awaiting confirmation
	PhaseFinished               // Result computed
)

func (p Phase) String() string {
	switch p {
	case PhaseBuilding:
		return "building"
	case PhaseAnswering:
		return "answering"
	case PhaseFinishing:
		return "finishing"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// AnswerRecord is the outcome of one submitted answer. IsCorrect is copied
// from the chosen option when the answer is accepted.
type AnswerRecord struct {
	QuestionID       string             `json:"question_id"`
	SelectedOptionID string             `json:"selected_option_id"`
	IsCorrect        bool               `json:"is_correct"`
	Topic            questionbank.Topic `json:"topic"`
	AnsweredAt       time.Time          `json:"answered_at"`
}

// sessionState is the mutable part of an engine. It is replaced wholesale on
// every build so nothing from a previous working set leaks into the next.
type sessionState struct {
	id         string
	phase      Phase
	filter     questionbank.Filter
	workingSet []questionbank.Question
	position   map[string]int
	answers    map[string]AnswerRecord
	result     *Result
	startedAt  time.Time
}

func newSessionState(id string, filter questionbank.Filter, workingSet []questionbank.Question, now time.Time) *sessionState {
	position := make(map[string]int, len(workingSet))
	for i, q := range workingSet {
		position[q.ID] = i
	}
	return &sessionState{
		id:         id,
		phase:      PhaseAnswering,
		filter:     filter,
		workingSet: workingSet,
		position:   position,
		answers:    make(map[string]AnswerRecord),
		startedAt:  now,
	}
}

// question returns the working-set question with the given id.
func (s *sessionState) question(id string) (questionbank.Question, bool) {
	i, ok := s.position[id]
	if !ok {
		return questionbank.Question{}, false
	}
	return s.workingSet[i], true
}

// unanswered returns the unanswered questions in working-set order.
func (s *sessionState) unanswered() []questionbank.Question {
	var out []questionbank.Question
	for _, q := range s.workingSet {
		if _, ok := s.answers[q.ID]; !ok {
			out = append(out, q)
		}
	}
	return out
}

func (s *sessionState) correctCount() int {
	n := 0
	for _, rec := range s.answers {
		if rec.IsCorrect {
			n++
		}
	}
	return n
}
