package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"

	"github.com/abhisek/kubika/internal/progress"
)

// ProgressAggregate is a learner's running totals, one row per user.
type ProgressAggregate struct {
	ent.Schema
}

func (ProgressAggregate) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("user_id").
			NotEmpty().
			Immutable(),
		field.Int("total_questions").
			Default(0),
		field.Int("answered_questions").
			Default(0),
		field.Int("correct_answers").
			Default(0),
		field.JSON("topic_progress", map[string]progress.TopicProgress{}).
			Comment("Per-topic counters keyed by topic"),
		field.Time("last_updated"),
	}
}
