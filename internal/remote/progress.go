package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/abhisek/kubika/internal/progress"
)

// progressRecord is one user's aggregate row.
type progressRecord struct {
	UserID            string         `gorm:"column:user_id;primaryKey;size:128"`
	TotalQuestions    int            `gorm:"column:total_questions;not null;default:0"`
	AnsweredQuestions int            `gorm:"column:answered_questions;not null;default:0"`
	CorrectAnswers    int            `gorm:"column:correct_answers;not null;default:0"`
	TopicProgress     datatypes.JSON `gorm:"column:topic_progress"`
	LastUpdated       time.Time      `gorm:"column:last_updated;not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (progressRecord) TableName() string { return "learning_progress" }

func toRecord(agg progress.Aggregate) (progressRecord, error) {
	topics, err := json.Marshal(agg.TopicProgress)
	if err != nil {
		return progressRecord{}, fmt.Errorf("marshal topic progress: %w", err)
	}
	return progressRecord{
		UserID:            agg.UserID,
		TotalQuestions:    agg.TotalQuestions,
		AnsweredQuestions: agg.AnsweredQuestions,
		CorrectAnswers:    agg.CorrectAnswers,
		TopicProgress:     datatypes.JSON(topics),
		LastUpdated:       agg.LastUpdated.UTC(),
	}, nil
}

func (r progressRecord) aggregate() (progress.Aggregate, error) {
	agg := progress.Aggregate{
		UserID:            r.UserID,
		TotalQuestions:    r.TotalQuestions,
		AnsweredQuestions: r.AnsweredQuestions,
		CorrectAnswers:    r.CorrectAnswers,
		TopicProgress:     make(map[string]progress.TopicProgress),
		LastUpdated:       r.LastUpdated,
	}
	if len(r.TopicProgress) > 0 {
		if err := json.Unmarshal(r.TopicProgress, &agg.TopicProgress); err != nil {
			return progress.Aggregate{}, fmt.Errorf("unmarshal topic progress: %w", err)
		}
	}
	return agg, nil
}

// ProgressRepo implements progress.Repository with gorm.
type ProgressRepo struct {
	db *gorm.DB
}

var _ progress.Repository = (*ProgressRepo)(nil)

func (r *ProgressRepo) Get(ctx context.Context, userID string) (*progress.Aggregate, error) {
	var rec progressRecord
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}

	agg, err := rec.aggregate()
	if err != nil {
		return nil, err
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
	rec, err := toRecord(agg)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_questions", "answered_questions", "correct_answers",
			"topic_progress", "last_updated", "updated_at",
		}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// Delete removes userID's row.
func (r *ProgressRepo) Delete(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&progressRecord{}).Error
	if err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}

// Users lists every user with a stored aggregate.
func (r *ProgressRepo) Users(ctx context.Context) ([]string, error) {
	var users []string
	err := r.db.WithContext(ctx).Model(&progressRecord{}).Order("user_id").Pluck("user_id", &users).Error
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	return users, nil
}
