package httpapi

import (
	"sort"
	"time"

	"github.com/abhisek/kubika/internal/progress"
	"github.com/abhisek/kubika/internal/questionbank"
	"github.com/abhisek/kubika/internal/session"
)

type optionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// answerView is revealed only once a question has been answered.
type answerView struct {
	OptionID        string    `json:"option_id"`
	IsCorrect       bool      `json:"is_correct"`
	CorrectOptionID string    `json:"correct_option_id"`
	Explanation     string    `json:"explanation"`
	AnsweredAt      time.Time `json:"answered_at"`
}

type questionView struct {
	ID         string       `json:"id"`
	Text       string       `json:"text"`
	Topic      string       `json:"topic"`
	Difficulty string       `json:"difficulty"`
	Options    []optionView `json:"options"`
	Answer     *answerView  `json:"answer,omitempty"`
}

func newQuestionView(q questionbank.Question) questionView {
	opts := make([]optionView, len(q.Options))
	for i, o := range q.Options {
		opts[i] = optionView{ID: o.ID, Text: o.Text}
	}
	return questionView{
		ID:         q.ID,
		Text:       q.Text,
		Topic:      string(q.Topic),
		Difficulty: string(q.Difficulty),
		Options:    opts,
	}
}

type sessionView struct {
	ID                string         `json:"id"`
	RunID             string         `json:"run_id"`
	UserID            string         `json:"user_id"`
	Phase             string         `json:"phase"`
	Topic             string         `json:"topic"`
	Difficulty        string         `json:"difficulty"`
	Questions         []questionView `json:"questions"`
	Answered          int            `json:"answered"`
	Unanswered        int            `json:"unanswered"`
	Correct           int            `json:"correct"`
	NeedsConfirmation bool           `json:"needs_confirmation"`
	Result            *resultView    `json:"result,omitempty"`
}

type resultView struct {
	*session.Result
	Grade   string `json:"grade"`
	Message string `json:"message"`
}

// newSessionView snapshots the handle's engine. Caller must hold the handle lock.
func newSessionView(h *handle) sessionView {
	e := h.engine
	ws := e.WorkingSet()
	questions := make([]questionView, len(ws))
	for i, q := range ws {
		qv := newQuestionView(q)
		if rec, ok := e.Answer(q.ID); ok {
			qv.Answer = &answerView{
				OptionID:        rec.SelectedOptionID,
				IsCorrect:       rec.IsCorrect,
				CorrectOptionID: q.CorrectOption().ID,
				Explanation:     q.Explanation,
				AnsweredAt:      rec.AnsweredAt,
			}
		}
		questions[i] = qv
	}

	v := sessionView{
		ID:                h.id,
		RunID:             e.SessionID(),
		UserID:            e.UserID(),
		Phase:             e.Phase().String(),
		Topic:             e.Filter().TopicLabel(),
		Difficulty:        e.Filter().DifficultyLabel(),
		Questions:         questions,
		Answered:          e.AnsweredCount(),
		Unanswered:        e.UnansweredCount(),
		Correct:           e.CorrectCount(),
		NeedsConfirmation: e.NeedsConfirmation(),
	}
	if res := e.Result(); res != nil {
		grade := res.Grade()
		v.Result = &resultView{Result: res, Grade: string(grade), Message: grade.Message()}
	}
	return v
}

type topicProgressView struct {
	Topic       string `json:"topic"`
	DisplayName string `json:"display_name"`
	Total       int    `json:"total"`
	Answered    int    `json:"answered"`
	Correct     int    `json:"correct"`
	Percentage  int    `json:"percentage"`
}

type progressView struct {
	UserID            string              `json:"user_id"`
	TotalQuestions    int                 `json:"total_questions"`
	AnsweredQuestions int                 `json:"answered_questions"`
	CorrectAnswers    int                 `json:"correct_answers"`
	OverallPercentage int                 `json:"overall_percentage"`
	Topics            []topicProgressView `json:"topics"`
	LastUpdated       time.Time           `json:"last_updated"`
}

// newProgressView lists known topics in bank order followed by any other
// recorded topic keys in lexical order.
func newProgressView(agg progress.Aggregate) progressView {
	v := progressView{
		UserID:            agg.UserID,
		TotalQuestions:    agg.TotalQuestions,
		AnsweredQuestions: agg.AnsweredQuestions,
		CorrectAnswers:    agg.CorrectAnswers,
		OverallPercentage: agg.OverallPercentage(),
		LastUpdated:       agg.LastUpdated,
		Topics:            []topicProgressView{},
	}

	seen := make(map[string]bool, len(agg.TopicProgress))
	for _, t := range questionbank.AllTopics() {
		key := string(t)
		seen[key] = true
		tp := agg.TopicProgress[key]
		v.Topics = append(v.Topics, topicProgressView{
			Topic:       key,
			DisplayName: t.DisplayName(),
			Total:       tp.Total,
			Answered:    tp.Answered,
			Correct:     tp.Correct,
			Percentage:  tp.Percentage(),
		})
	}

	var extra []string
	for key := range agg.TopicProgress {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		tp := agg.TopicProgress[key]
		v.Topics = append(v.Topics, topicProgressView{
			Topic:       key,
			DisplayName: key,
			Total:       tp.Total,
			Answered:    tp.Answered,
			Correct:     tp.Correct,
			Percentage:  tp.Percentage(),
		})
	}
	return v
}
