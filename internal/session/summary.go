package session

import (
	"math"
	"time"
)

// Result is the score summary of a finished session. Unanswered questions
// count as wrong.
type Result struct {
	SessionID         string         `json:"session_id"`
	TotalQuestions    int            `json:"total_questions"`
	CorrectAnswers    int            `json:"correct_answers"`
	WrongAnswers      int            `json:"wrong_answers"`
	Unanswered        int            `json:"unanswered"`
	AnsweredQuestions []AnswerRecord `json:"answered_questions"`
	Score             int            `json:"score"`
	Percentage        int            `json:"percentage"`
	FinishedAt        time.Time      `json:"finished_at"`
}

// Grade is the feedback band of a result.
type Grade string

const (
	GradeExcellent  Grade = "excellent"
	GradeGood       Grade = "good"
	GradeFair       Grade = "fair"
	GradeKeepTrying Grade = "keep_trying"
)

// Grade returns the feedback band for the result's percentage.
func (r *Result) Grade() Grade {
	switch {
	case r.Percentage >= 80:
		return GradeExcellent
	case r.Percentage >= 60:
		return GradeGood
	case r.Percentage >= 40:
		return GradeFair
	default:
		return GradeKeepTrying
	}
}

// Message returns the learner-facing feedback line for the grade.
func (g Grade) Message() string {
	switch g {
	case GradeExcellent:
		return "Luar biasa! Kamu menguasai materi dengan sangat baik!"
	case GradeGood:
		return "Bagus! Kamu memahami sebagian besar materi."
	case GradeFair:
		return "Cukup baik. Teruslah berlatih untuk meningkatkan pemahamanmu."
	default:
		return "Jangan menyerah! Cobalah pelajari materi lagi dan ulangi kuis."
	}
}

// buildResult computes the result from the state's answer records.
func buildResult(s *sessionState, now time.Time) *Result {
	total := len(s.workingSet)
	correct := s.correctCount()

	records := make([]AnswerRecord, 0, len(s.answers))
	for _, q := range s.workingSet {
		if rec, ok := s.answers[q.ID]; ok {
			records = append(records, rec)
		}
	}

	return &Result{
		SessionID:         s.id,
		TotalQuestions:    total,
		CorrectAnswers:    correct,
		WrongAnswers:      total - correct,
		Unanswered:        total - len(records),
		AnsweredQuestions: records,
		Score:             correct,
		Percentage:        scorePercentage(correct, total),
		FinishedAt:        now,
	}
}

func scorePercentage(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
