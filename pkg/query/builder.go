package query

import (
	"fmt"
	"reflect"
	"strings"
)

// condition renders a WHERE fragment, drawing placeholders from next.
type condition func(next func(arg any) string) string

// Builder assembles SELECT statements with sequential $N placeholders.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	sort        []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder. defaultSort applies when no valid
// OrderByFields terms are supplied.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

// WhereEquals adds "col = $n". Nil values and nil pointers are ignored.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	value, ok := deref(value)
	if !ok {
		return b
	}
	col := b.projection.mustColumn(field)
	b.conditions = append(b.conditions, func(next func(any) string) string {
		return fmt.Sprintf("%s = %s", col, next(value))
	})
	return b
}

// WhereContains adds a case-insensitive substring match.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	col := b.projection.mustColumn(field)
	pattern := "%" + escapeLike(*value) + "%"
	b.conditions = append(b.conditions, func(next func(any) string) string {
		return fmt.Sprintf("%s ILIKE %s", col, next(pattern))
	})
	return b
}

// WhereSearch ORs a substring match across fields.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = b.projection.mustColumn(f)
	}
	pattern := "%" + escapeLike(*search) + "%"
	b.conditions = append(b.conditions, func(next func(any) string) string {
		clauses := make([]string, len(cols))
		for i, col := range cols {
			clauses[i] = fmt.Sprintf("%s ILIKE %s", col, next(pattern))
		}
		return "(" + strings.Join(clauses, " OR ") + ")"
	})
	return b
}

// WhereIn adds "col IN (...)". Empty value lists are ignored.
func WhereIn[T any](b *Builder, field string, values []T) *Builder {
	if len(values) == 0 {
		return b
	}
	col := b.projection.mustColumn(field)
	b.conditions = append(b.conditions, func(next func(any) string) string {
		ph := make([]string, len(values))
		for i, v := range values {
			ph[i] = next(v)
		}
		return fmt.Sprintf("%s IN (%s)", col, strings.Join(ph, ", "))
	})
	return b
}

// WhereBefore adds "col <= $n". Nil values are ignored.
func (b *Builder) WhereBefore(field string, value any) *Builder {
	return b.compare(field, "<=", value)
}

// WhereAfter adds "col >= $n". Nil values are ignored.
func (b *Builder) WhereAfter(field string, value any) *Builder {
	return b.compare(field, ">=", value)
}

func (b *Builder) compare(field, op string, value any) *Builder {
	value, ok := deref(value)
	if !ok {
		return b
	}
	col := b.projection.mustColumn(field)
	b.conditions = append(b.conditions, func(next func(any) string) string {
		return fmt.Sprintf("%s %s %s", col, op, next(value))
	})
	return b
}

// OrderByFields replaces the ordering. Unknown field names are dropped so
// client-supplied sorts cannot inject SQL.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	valid := make([]SortField, 0, len(fields))
	for _, f := range fields {
		if _, ok := b.projection.Column(f.Field); ok {
			valid = append(valid, f)
		}
	}
	b.sort = valid
	return b
}

// BuildCount returns a COUNT(*) statement over the current conditions.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.buildWhere()
	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", b.projection.Table(), where), args
}

// BuildPage returns a paginated SELECT. page is 1-based.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	if page < 1 {
		page = 1
	}
	where, args := b.buildWhere()
	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s%s LIMIT %d OFFSET %d",
		b.projection.Columns(),
		b.projection.Table(),
		where,
		b.buildOrderBy(),
		pageSize,
		(page-1)*pageSize,
	)
	return sql, args
}

// BuildAll returns an unpaginated SELECT with ordering.
func (b *Builder) BuildAll() (string, []any) {
	where, args := b.buildWhere()
	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s%s",
		b.projection.Columns(),
		b.projection.Table(),
		where,
		b.buildOrderBy(),
	)
	return sql, args
}

// BuildSingle returns a SELECT for one row keyed by idField.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	col := b.projection.mustColumn(idField)
	sql := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		b.projection.Columns(),
		b.projection.Table(),
		col,
	)
	return sql, []any{id}
}

func (b *Builder) buildWhere() (string, []any) {
	if len(b.conditions) == 0 {
		return "", nil
	}

	var args []any
	next := func(arg any) string {
		args = append(args, arg)
		return fmt.Sprintf("$%d", len(args))
	}

	clauses := make([]string, len(b.conditions))
	for i, cond := range b.conditions {
		clauses[i] = cond(next)
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (b *Builder) buildOrderBy() string {
	fields := b.sort
	if len(fields) == 0 {
		fields = b.defaultSort
	}
	if len(fields) == 0 {
		return ""
	}

	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		col, ok := b.projection.Column(f.Field)
		if !ok {
			continue
		}
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		terms = append(terms, col+" "+dir)
	}
	if len(terms) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// deref unwraps pointers so optional filters can be passed directly.
// Nil values and nil pointers report false.
func deref(value any) (any, bool) {
	if value == nil {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Pointer {
		return value, true
	}
	if rv.IsNil() {
		return nil, false
	}
	return rv.Elem().Interface(), true
}
