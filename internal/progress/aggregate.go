package progress

import (
	"fmt"
	"math"
	"time"
)

// Update is a single answered (or abandoned) question reported to the tracker.
type Update struct {
	Topic     string `json:"topic"`
	IsCorrect bool   `json:"is_correct"`
}

// TopicProgress holds the counters for one topic.
type TopicProgress struct {
	Total    int `json:"total"`
	Answered int `json:"answered"`
	Correct  int `json:"correct"`
}

// Percentage returns Correct/Total as a whole percentage, 0 when Total is 0.
func (tp TopicProgress) Percentage() int {
	return percentage(tp.Correct, tp.Total)
}

// Aggregate is the cross-session learning progress of one user.
type Aggregate struct {
	UserID            string                   `json:"user_id"`
	TotalQuestions    int                      `json:"total_questions"`
	AnsweredQuestions int                      `json:"answered_questions"`
	CorrectAnswers    int                      `json:"correct_answers"`
	TopicProgress     map[string]TopicProgress `json:"topic_progress"`
	LastUpdated       time.Time                `json:"last_updated"`
}

// NewAggregate returns a zeroed aggregate for userID.
func NewAggregate(userID string, now time.Time) Aggregate {
	return Aggregate{
		UserID:        userID,
		TopicProgress: make(map[string]TopicProgress),
		LastUpdated:   now,
	}
}

// Clone returns a deep copy of a.
func (a Aggregate) Clone() Aggregate {
	out := a
	out.TopicProgress = make(map[string]TopicProgress, len(a.TopicProgress))
	for k, v := range a.TopicProgress {
		out.TopicProgress[k] = v
	}
	return out
}

// Validate checks that no counter is negative and correct never exceeds total.
func (a Aggregate) Validate() error {
	if a.UserID == "" {
		return fmt.Errorf("aggregate has empty user id")
	}
	if err := checkCounters("overall", a.TotalQuestions, a.AnsweredQuestions, a.CorrectAnswers); err != nil {
		return err
	}
	for topic, tp := range a.TopicProgress {
		if err := checkCounters(topic, tp.Total, tp.Answered, tp.Correct); err != nil {
			return err
		}
	}
	return nil
}

func checkCounters(scope string, total, answered, correct int) error {
	if total < 0 || answered < 0 || correct < 0 {
		return fmt.Errorf("%s: negative counter (total=%d answered=%d correct=%d)", scope, total, answered, correct)
	}
	if correct > total {
		return fmt.Errorf("%s: correct %d exceeds total %d", scope, correct, total)
	}
	return nil
}

// Apply returns a copy of a with every update applied, stamped with now.
// It performs no I/O.
func Apply(a Aggregate, updates []Update, now time.Time) Aggregate {
	out := a.Clone()
	for _, u := range updates {
		out.TotalQuestions++
		out.AnsweredQuestions++
		if u.IsCorrect {
			out.CorrectAnswers++
		}

		tp := out.TopicProgress[u.Topic]
		tp.Total++
		tp.Answered++
		if u.IsCorrect {
			tp.Correct++
		}
		out.TopicProgress[u.Topic] = tp
	}
	out.LastUpdated = now
	return out
}

// PercentageFor returns the share of correct answers for topic, 0 if the
// topic has never been seen.
func (a Aggregate) PercentageFor(topic string) int {
	tp, ok := a.TopicProgress[topic]
	if !ok {
		return 0
	}
	return tp.Percentage()
}

// OverallPercentage returns the share of correct answers across all topics.
func (a Aggregate) OverallPercentage() int {
	return percentage(a.CorrectAnswers, a.TotalQuestions)
}

// percentage computes round(correct/total*100) clamped to [0, 100].
func percentage(correct, total int) int {
	if total <= 0 || correct <= 0 {
		return 0
	}
	p := int(math.Round(float64(correct) / float64(total) * 100))
	if p > 100 {
		return 100
	}
	return p
}
