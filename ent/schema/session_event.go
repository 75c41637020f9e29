package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SessionEvent records a quiz session starting or ending.
type SessionEvent struct {
	ent.Schema
}

func (SessionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (SessionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("Engine session id, new for every working set"),
		field.String("user_id").
			Default("").
			Comment("Empty for anonymous practice"),
		field.String("action").
			NotEmpty().
			Comment("start or end"),
		field.String("topic").
			Default("all"),
		field.String("difficulty").
			Default("all"),
		field.Int("total_questions").
			Default(0).
			Comment("Working set size"),
		field.Int("correct_answers").
			Default(0).
			Comment("On end only"),
		field.Int("unanswered").
			Default(0).
			Comment("On end only"),
		field.Int("duration_secs").
			Default(0).
			Comment("On end only"),
	}
}

func (SessionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("user_id", "action"),
	}
}
