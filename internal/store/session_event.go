package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo on top of the ent SQL driver.
type eventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *eventRepo) exec(ctx context.Context, query string, args []any) error {
	return r.drv.Exec(ctx, query, args, nil)
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(SessionEventsTable.Name).
		Columns("sequence", "timestamp", "session_id", "user_id", "action",
			"topic", "difficulty", "total_questions", "correct_answers",
			"unanswered", "duration_secs").
		Values(seqNum, time.Now().UTC(), data.SessionID, data.UserID, data.Action,
			orAll(data.Topic), orAll(data.Difficulty), data.TotalQuestions, data.CorrectAnswers,
			data.Unanswered, data.DurationSecs).
		Query()
	if err := r.exec(ctx, query, args); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(AnswerEventsTable.Name).
		Columns("sequence", "timestamp", "session_id", "user_id", "question_id",
			"option_id", "topic", "difficulty", "correct").
		Values(seqNum, time.Now().UTC(), data.SessionID, data.UserID, data.QuestionID,
			data.OptionID, data.Topic, data.Difficulty, data.Correct).
		Query()
	if err := r.exec(ctx, query, args); err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) SessionHistory(ctx context.Context, userID string, opts QueryOpts) ([]SessionSummaryRecord, error) {
	sel := builder().Select("sequence", "timestamp", "session_id", "user_id", "topic",
		"difficulty", "total_questions", "correct_answers", "unanswered", "duration_secs").
		From(entsql.Table(SessionEventsTable.Name)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("action", SessionActionEnd),
		)).
		OrderBy(entsql.Desc("sequence"))
	applyQueryOpts(sel, opts)

	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query session history: %w", err)
	}
	defer rows.Close()

	var out []SessionSummaryRecord
	for rows.Next() {
		var rec SessionSummaryRecord
		if err := rows.Scan(&rec.Sequence, &rec.Timestamp, &rec.SessionID, &rec.UserID,
			&rec.Topic, &rec.Difficulty, &rec.TotalQuestions, &rec.CorrectAnswers,
			&rec.Unanswered, &rec.DurationSecs); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session history: %w", err)
	}
	return out, nil
}

func (r *eventRepo) AnswerStats(ctx context.Context, userID string) ([]TopicAnswerStats, error) {
	query, args := builder().Select("topic", entsql.Count("*"), entsql.Sum("correct")).
		From(entsql.Table(AnswerEventsTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		GroupBy("topic").
		OrderBy("topic").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query answer stats: %w", err)
	}
	defer rows.Close()

	var out []TopicAnswerStats
	for rows.Next() {
		var s TopicAnswerStats
		if err := rows.Scan(&s.Topic, &s.Answered, &s.Correct); err != nil {
			return nil, fmt.Errorf("scan answer stats: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate answer stats: %w", err)
	}
	return out, nil
}

func (r *eventRepo) LatestAnswerTime(ctx context.Context, userID string) (time.Time, error) {
	query, args := builder().Select("timestamp").
		From(entsql.Table(AnswerEventsTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("sequence")).
		Limit(1).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return time.Time{}, fmt.Errorf("query latest answer time: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return time.Time{}, rows.Err()
	}
	var ts time.Time
	if err := rows.Scan(&ts); err != nil {
		return time.Time{}, fmt.Errorf("scan latest answer time: %w", err)
	}
	return ts, nil
}

// applyQueryOpts adds the pagination and range predicates in opts to sel.
func applyQueryOpts(sel *entsql.Selector, opts QueryOpts) {
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To.UTC()))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}

func orAll(s string) string {
	if s == "" {
		return "all"
	}
	return s
}
