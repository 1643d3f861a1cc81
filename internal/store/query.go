package store

import "slices"

// Op is a filter comparison operator.
type Op string

// Supported filter operators.
const (
	OpEq    Op = "eq"
	OpILike Op = "ilike"
	OpGte   Op = "gte"
	OpIn    Op = "in"
)

// Filter restricts a query to rows whose Column satisfies Op against Value.
type Filter struct {
	Column string
	Op     Op
	Value  any
}

// Order sorts query results by Column.
type Order struct {
	Column string
	Desc   bool
}

// Query describes a filtered, ordered and optionally ranged row selection.
// The zero value selects every row. Builder methods return modified copies.
type Query struct {
	Filters []Filter
	Orders  []Order
	Limit   int
	Offset  int
}

// Where returns an empty query, for readability at call sites.
func Where() Query {
	return Query{}
}

func (q Query) filter(column string, op Op, value any) Query {
	q.Filters = append(slices.Clip(q.Filters), Filter{Column: column, Op: op, Value: value})
	return q
}

// Eq adds an equality filter.
func (q Query) Eq(column string, value any) Query { return q.filter(column, OpEq, value) }

// ILike adds a case-insensitive pattern filter using % and _ wildcards.
func (q Query) ILike(column, pattern string) Query { return q.filter(column, OpILike, pattern) }

// Gte adds a greater-than-or-equal filter.
func (q Query) Gte(column string, value any) Query { return q.filter(column, OpGte, value) }

// In adds a membership filter. values must be a slice.
func (q Query) In(column string, values any) Query { return q.filter(column, OpIn, values) }

// OrderBy appends a sort key.
func (q Query) OrderBy(column string, desc bool) Query {
	q.Orders = append(slices.Clip(q.Orders), Order{Column: column, Desc: desc})
	return q
}

// Range restricts results to the inclusive row window [from, to].
func (q Query) Range(from, to int) Query {
	q.Offset = from
	q.Limit = to - from + 1
	return q
}

// Page restricts results to the given 1-based page of size limit.
func (q Query) Page(page, limit int) Query {
	if page < 1 {
		page = 1
	}
	from := (page - 1) * limit
	return q.Range(from, from+limit-1)
}

// Unranged returns q without limit and offset, used for counting.
func (q Query) Unranged() Query {
	q.Limit = 0
	q.Offset = 0
	q.Orders = nil
	return q
}
