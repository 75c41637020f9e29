package store

import (
	"fmt"
	"reflect"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/kubika/ent/schema"
)

var (
	// ProgressAggregatesTable holds the schema information for the "progress_aggregates" table.
	ProgressAggregatesTable = newTable("progress_aggregates", entschema.ProgressAggregate{})
	// SessionEventsTable holds the schema information for the "session_events" table.
	SessionEventsTable = newTable("session_events", entschema.SessionEvent{})
	// AnswerEventsTable holds the schema information for the "answer_events" table.
	AnswerEventsTable = newTable("answer_events", entschema.AnswerEvent{})

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		ProgressAggregatesTable,
		SessionEventsTable,
		AnswerEventsTable,
	}
)

// newTable builds the migration table for an ent schema. Mixin fields come
// first. An auto-increment int id is added unless the schema declares an
// "id" field, which then becomes the primary key.
func newTable(name string, s ent.Interface) *schema.Table {
	var (
		fields  []ent.Field
		indexes []ent.Index
	)
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	t := &schema.Table{Name: name}
	byField := make(map[string]*schema.Column, len(fields))
	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			panic(fmt.Sprintf("table %s: field %s: %v", name, d.Name, d.Err))
		}
		col := &schema.Column{
			Name:       d.Name,
			Type:       d.Info.Type,
			SchemaType: d.SchemaType,
			Size:       int64(d.Size),
			Unique:     d.Unique,
			Nullable:   d.Optional,
			Comment:    d.Comment,
		}
		if d.StorageKey != "" {
			col.Name = d.StorageKey
		}
		if d.Default != nil && reflect.TypeOf(d.Default).Kind() != reflect.Func {
			col.Default = d.Default
		}
		if d.Name == "id" {
			col.Unique = false
			t.PrimaryKey = []*schema.Column{col}
		}
		t.Columns = append(t.Columns, col)
		byField[d.Name] = col
	}

	if t.PrimaryKey == nil {
		id := &schema.Column{Name: "id", Type: field.TypeInt, Increment: true}
		t.Columns = append([]*schema.Column{id}, t.Columns...)
		t.PrimaryKey = []*schema.Column{id}
	}

	prefix := strings.ToLower(reflect.TypeOf(s).Name())
	for _, idx := range indexes {
		d := idx.Descriptor()
		cols := make([]*schema.Column, len(d.Fields))
		for i, f := range d.Fields {
			col, ok := byField[f]
			if !ok {
				panic(fmt.Sprintf("table %s: index on unknown field %s", name, f))
			}
			cols[i] = col
		}
		idxName := d.StorageKey
		if idxName == "" {
			idxName = prefix + "_" + strings.Join(d.Fields, "_")
		}
		t.Indexes = append(t.Indexes, &schema.Index{Name: idxName, Unique: d.Unique, Columns: cols})
	}
	return t
}
