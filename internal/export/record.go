package export

import (
	"fmt"
	"strings"
	"time"
)

// Schema is the fixed, ordered column set of one media type
type Schema struct {
	columns []string
	index   map[string]int
}

// NewSchema builds a schema from an ordered column list
func NewSchema(columns ...string) Schema {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	return Schema{columns: columns, index: index}
}

// Columns returns a copy of the header
func (s Schema) Columns() []string {
	return append([]string(nil), s.columns...)
}

// NewRecord returns a record with every column null
func (s Schema) NewRecord() *Record {
	return &Record{schema: s, values: make([]any, len(s.columns))}
}

// Record is the flat projection of one item. Every column of its schema is
// present; missing source data is nil.
type Record struct {
	schema Schema
	values []any
}

// Set stores v under column. Unknown columns are a programming error.
func (r *Record) Set(column string, v any) {
	i, ok := r.schema.index[column]
	if !ok {
		panic(fmt.Sprintf("export: unknown column %q", column))
	}
	r.values[i] = v
}

// Value implements tabular.Row
func (r *Record) Value(column string) any {
	if i, ok := r.schema.index[column]; ok {
		return r.values[i]
	}
	return nil
}

// Values returns the values in header order
func (r *Record) Values() []any {
	return append([]any(nil), r.values...)
}

const timestampLayout = "2006-01-02 15:04:05"

func timestamp(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.Format(timestampLayout)
}

func joinTags(tags []string) any {
	if len(tags) == 0 {
		return nil
	}
	return strings.Join(tags, ", ")
}

func optString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func optInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func optFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
