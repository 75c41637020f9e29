package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// Session event actions.
const (
	SessionActionStart = "start"
	SessionActionEnd   = "end"
)

// SessionEventData captures a session start or end.
type SessionEventData struct {
	SessionID      string
	UserID         string
	Action         string
	Topic          string
	Difficulty     string
	TotalQuestions int
	CorrectAnswers int
	Unanswered     int
	DurationSecs   int
}

// AnswerEventData captures one accepted answer.
type AnswerEventData struct {
	SessionID  string
	UserID     string
	QuestionID string
	OptionID   string
	Topic      string
	Difficulty string
	Correct    bool
}

// SessionSummaryRecord is a finished session read back from the event log.
type SessionSummaryRecord struct {
	Sequence       int64
	Timestamp      time.Time
	SessionID      string
	UserID         string
	Topic          string
	Difficulty     string
	TotalQuestions int
	CorrectAnswers int
	Unanswered     int
	DurationSecs   int
}

// TopicAnswerStats counts logged answers for one topic.
type TopicAnswerStats struct {
	Topic    string
	Answered int
	Correct  int
}

// EventRepo provides append and query access to session events.
type EventRepo interface {
	// AppendSessionEvent records a session start or end.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendAnswerEvent records an accepted answer.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// SessionHistory returns finished sessions for userID, newest first.
	SessionHistory(ctx context.Context, userID string, opts QueryOpts) ([]SessionSummaryRecord, error)

	// AnswerStats returns per-topic answer counts for userID, ordered by topic.
	AnswerStats(ctx context.Context, userID string) ([]TopicAnswerStats, error)

	// LatestAnswerTime returns when userID last answered, zero if never.
	LatestAnswerTime(ctx context.Context, userID string) (time.Time, error)
}
