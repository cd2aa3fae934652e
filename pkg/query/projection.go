// Package query builds parameterized PostgreSQL statements from projection
// maps that translate API field names into qualified columns.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps view names (as exposed over the API) to table columns.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	columns []string
	views   map[string]string
}

// NewProjectionMap starts a projection over schema.table using alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema: schema,
		table:  table,
		alias:  alias,
		views:  make(map[string]string),
	}
}

// Project registers column under view. Columns are selected in registration order.
func (p *ProjectionMap) Project(column, view string) *ProjectionMap {
	qualified := fmt.Sprintf("%s.%s", p.alias, column)
	p.columns = append(p.columns, qualified)
	p.views[view] = qualified
	return p
}

func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Table returns the FROM clause target, e.g. "public.processes p".
func (p *ProjectionMap) Table() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Column resolves a view name to its qualified column.
func (p *ProjectionMap) Column(view string) (string, bool) {
	col, ok := p.views[view]
	return col, ok
}

// Columns returns the comma-separated select list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columns, ", ")
}

// ColumnList returns a copy of the qualified columns in select order.
func (p *ProjectionMap) ColumnList() []string {
	out := make([]string, len(p.columns))
	copy(out, p.columns)
	return out
}

// mustColumn panics on unknown view names. Filters are wired in code, so
// an unknown name is a programming error rather than bad input.
func (p *ProjectionMap) mustColumn(view string) string {
	col, ok := p.views[view]
	if !ok {
		panic(fmt.Sprintf("query: unknown field %q for %s", view, p.table))
	}
	return col
}
