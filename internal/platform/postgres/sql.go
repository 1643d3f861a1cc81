package postgres

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/carehire/carehire-api/internal/store"
)

// errUnfiltered guards against updates and deletes that would touch every row.
var errUnfiltered = errors.New("refusing to modify a table without filters")

// jsonRows wraps a row-returning statement so it yields one JSON array.
const jsonRows = "SELECT coalesce(json_agg(row_to_json(t)%s), '[]'::json) FROM (%s) t"

// statement accumulates SQL text and positional arguments.
type statement struct {
	sql  strings.Builder
	args []any
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// arg binds v and returns its placeholder. UUIDs are bound as text so they
// compare against both uuid and text columns.
func (s *statement) arg(v any) string {
	switch x := v.(type) {
	case uuid.UUID:
		v = x.String()
	case *uuid.UUID:
		if x == nil {
			v = nil
		} else {
			v = x.String()
		}
	case []uuid.UUID:
		ids := make([]string, len(x))
		for i, id := range x {
			ids[i] = id.String()
		}
		v = ids
	}
	s.args = append(s.args, v)
	return "$" + strconv.Itoa(len(s.args))
}

func (s *statement) write(parts ...string) {
	for _, p := range parts {
		s.sql.WriteString(p)
	}
}

func (s *statement) where(filters []store.Filter) error {
	for i, f := range filters {
		if i == 0 {
			s.write(" WHERE ")
		} else {
			s.write(" AND ")
		}
		col := ident(f.Column)
		switch f.Op {
		case store.OpEq:
			s.write(col, " = ", s.arg(f.Value))
		case store.OpGte:
			s.write(col, " >= ", s.arg(f.Value))
		case store.OpILike:
			s.write(col, " ILIKE ", s.arg(f.Value))
		case store.OpIn:
			s.write(col, "::text = ANY(", s.arg(f.Value), "::text[])")
		default:
			return fmt.Errorf("unsupported operator %q on %s", f.Op, f.Column)
		}
	}
	return nil
}

func orderBy(orders []store.Order, prefix string) string {
	if len(orders) == 0 {
		return ""
	}
	parts := make([]string, len(orders))
	for i, o := range orders {
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		parts[i] = prefix + ident(o.Column) + " " + dir + " NULLS LAST"
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func buildSelect(table string, q store.Query) (*statement, error) {
	var inner statement
	inner.write("SELECT * FROM ", ident(table))
	if err := inner.where(q.Filters); err != nil {
		return nil, err
	}
	inner.write(orderBy(q.Orders, ""))
	if q.Limit > 0 {
		inner.write(" LIMIT ", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		inner.write(" OFFSET ", strconv.Itoa(q.Offset))
	}

	out := &statement{args: inner.args}
	out.write(fmt.Sprintf(jsonRows, orderBy(q.Orders, "t."), inner.sql.String()))
	return out, nil
}

func buildCount(table string, q store.Query) (*statement, error) {
	s := &statement{}
	s.write("SELECT count(*) FROM ", ident(table))
	if err := s.where(q.Filters); err != nil {
		return nil, err
	}
	return s, nil
}

// buildInsert inserts rows in one statement. Columns are the union of every
// row's keys; a row lacking a column gets the column default.
func buildInsert(table string, rows []store.Values) (*statement, error) {
	if len(rows) == 0 {
		return nil, errors.New("insert without rows")
	}
	seen := map[string]struct{}{}
	for _, r := range rows {
		for k := range r {
			seen[k] = struct{}{}
		}
	}
	columns := slices.Sorted(maps.Keys(seen))

	var inner statement
	inner.write("INSERT INTO ", ident(table))
	if len(columns) == 0 {
		inner.write(" DEFAULT VALUES")
	} else {
		quoted := make([]string, len(columns))
		for i, c := range columns {
			quoted[i] = ident(c)
		}
		inner.write(" (", strings.Join(quoted, ", "), ") VALUES ")
		for i, r := range rows {
			if i > 0 {
				inner.write(", ")
			}
			vals := make([]string, len(columns))
			for j, c := range columns {
				if v, ok := r[c]; ok {
					vals[j] = inner.arg(v)
				} else {
					vals[j] = "DEFAULT"
				}
			}
			inner.write("(", strings.Join(vals, ", "), ")")
		}
	}
	inner.write(" RETURNING *")
	return wrapReturning(&inner), nil
}

func buildUpdate(table string, q store.Query, values store.Values) (*statement, error) {
	if len(values) == 0 {
		return nil, errors.New("update without values")
	}
	if len(q.Filters) == 0 {
		return nil, errUnfiltered
	}
	var inner statement
	inner.write("UPDATE ", ident(table), " SET ")
	for i, c := range slices.Sorted(maps.Keys(values)) {
		if i > 0 {
			inner.write(", ")
		}
		inner.write(ident(c), " = ", inner.arg(values[c]))
	}
	if err := inner.where(q.Filters); err != nil {
		return nil, err
	}
	inner.write(" RETURNING *")
	return wrapReturning(&inner), nil
}

func buildDelete(table string, q store.Query) (*statement, error) {
	if len(q.Filters) == 0 {
		return nil, errUnfiltered
	}
	s := &statement{}
	s.write("DELETE FROM ", ident(table))
	if err := s.where(q.Filters); err != nil {
		return nil, err
	}
	return s, nil
}

// buildCall invokes fn with named arguments and returns its result as JSON.
func buildCall(fn string, args store.Values) *statement {
	s := &statement{}
	named := make([]string, 0, len(args))
	for _, k := range slices.Sorted(maps.Keys(args)) {
		named = append(named, ident(k)+" => "+s.arg(args[k]))
	}
	s.write("SELECT to_json(", ident(fn), "(", strings.Join(named, ", "), "))")
	return s
}

func wrapReturning(inner *statement) *statement {
	out := &statement{args: inner.args}
	out.write("WITH t AS (", inner.sql.String(), ") ",
		"SELECT coalesce(json_agg(row_to_json(t)), '[]'::json) FROM t")
	return out
}
