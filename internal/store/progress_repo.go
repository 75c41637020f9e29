package store

import (
	"context"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/kubika/internal/progress"
)

// ProgressRepo stores progress aggregates in SQLite, one row per user with
// the topic buckets as JSON.
type ProgressRepo struct {
	drv *entsql.Driver
}

var _ progress.Repository = (*ProgressRepo)(nil)

func (r *ProgressRepo) Get(ctx context.Context, userID string) (*progress.Aggregate, error) {
	query, args := builder().Select("user_id", "total_questions", "answered_questions",
		"correct_answers", "topic_progress", "last_updated").
		From(entsql.Table(ProgressAggregatesTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query progress: %w", err)
		}
		return nil, nil
	}

	var (
		agg    progress.Aggregate
		topics string
	)
	if err := rows.Scan(&agg.UserID, &agg.TotalQuestions, &agg.AnsweredQuestions,
		&agg.CorrectAnswers, &topics, &agg.LastUpdated); err != nil {
		return nil, fmt.Errorf("scan progress: %w", err)
	}
	agg.TopicProgress = make(map[string]progress.TopicProgress)
	if topics != "" {
		if err := json.Unmarshal([]byte(topics), &agg.TopicProgress); err != nil {
			return nil, fmt.Errorf("unmarshal topic progress: %w", err)
		}
	}
	if err := agg.Validate(); err != nil {
		return nil, fmt.Errorf("stored progress for %q: %w", userID, err)
	}
	return &agg, nil
}

func (r *ProgressRepo) Put(ctx context.Context, agg progress.Aggregate) error {
	if err := agg.Validate(); err != nil {
		return fmt.Errorf("put progress: %w", err)
	}
	topics, err := json.Marshal(agg.TopicProgress)
	if err != nil {
		return fmt.Errorf("marshal topic progress: %w", err)
	}

	query, args := builder().Insert(ProgressAggregatesTable.Name).
		Columns("user_id", "total_questions", "answered_questions",
			"correct_answers", "topic_progress", "last_updated").
		Values(agg.UserID, agg.TotalQuestions, agg.AnsweredQuestions,
			agg.CorrectAnswers, string(topics), agg.LastUpdated.UTC()).
		OnConflict(
			entsql.ConflictColumns("user_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// Delete removes userID's stored aggregate.
func (r *ProgressRepo) Delete(ctx context.Context, userID string) error {
	query, args := builder().Delete(ProgressAggregatesTable.Name).
		Where(entsql.EQ("user_id", userID)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}

// Users lists every user with a stored aggregate.
func (r *ProgressRepo) Users(ctx context.Context) ([]string, error) {
	query, args := builder().Select("user_id").
		From(entsql.Table(ProgressAggregatesTable.Name)).
		OrderBy("user_id").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
