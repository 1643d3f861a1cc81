package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Repository is a typed view over one table of a Scope. Row types are decoded
// from the table's JSON results using their json tags.
type Repository[T any] struct {
	name  string
	table Table
}

// For returns a Repository for table within scope s.
func For[T any](s Scope, table string) Repository[T] {
	return Repository[T]{name: table, table: s.From(table)}
}

// List returns every row matching q, in q's order.
func (r Repository[T]) List(ctx context.Context, q Query) ([]T, error) {
	raw, err := r.table.Select(ctx, q)
	if err != nil {
		return nil, err
	}
	return r.decode(raw)
}

// Single returns the one row matching q. Zero matches yield ErrNotFound and
// more than one yields ErrMultipleRows.
func (r Repository[T]) Single(ctx context.Context, q Query) (*T, error) {
	rows, err := r.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return r.one(rows)
}

// Maybe returns the one row matching q, or nil when nothing matches.
func (r Repository[T]) Maybe(ctx context.Context, q Query) (*T, error) {
	row, err := r.Single(ctx, q)
	if IsNotFound(err) {
		return nil, nil
	}
	return row, err
}

// Exists reports whether any row matches q.
func (r Repository[T]) Exists(ctx context.Context, q Query) (bool, error) {
	n, err := r.Count(ctx, q)
	return n > 0, err
}

// Count returns the number of rows matching q, ignoring its range.
func (r Repository[T]) Count(ctx context.Context, q Query) (int, error) {
	return r.table.Count(ctx, q.Unranged())
}

// Insert inserts one row and returns it as stored.
func (r Repository[T]) Insert(ctx context.Context, values Values) (*T, error) {
	raw, err := r.table.Insert(ctx, values)
	if err != nil {
		return nil, err
	}
	rows, err := r.decode(raw)
	if err != nil {
		return nil, err
	}
	return r.one(rows)
}

// InsertMany inserts all rows in one statement. An empty batch is a no-op.
func (r Repository[T]) InsertMany(ctx context.Context, rows []Values) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := r.table.Insert(ctx, rows...)
	return err
}

// Update applies values to the single row matching q and returns it.
func (r Repository[T]) Update(ctx context.Context, q Query, values Values) (*T, error) {
	raw, err := r.table.Update(ctx, q, values)
	if err != nil {
		return nil, err
	}
	rows, err := r.decode(raw)
	if err != nil {
		return nil, err
	}
	return r.one(rows)
}

// Delete removes every row matching q. Matching nothing yields ErrNotFound.
func (r Repository[T]) Delete(ctx context.Context, q Query) error {
	n, err := r.table.Delete(ctx, q)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("delete from %s: %w", r.name, ErrNotFound)
	}
	return nil
}

func (r Repository[T]) one(rows []T) (*T, error) {
	switch len(rows) {
	case 0:
		return nil, fmt.Errorf("%s: %w", r.name, ErrNotFound)
	case 1:
		return &rows[0], nil
	default:
		return nil, fmt.Errorf("%s: %w", r.name, ErrMultipleRows)
	}
}

func (r Repository[T]) decode(raw json.RawMessage) ([]T, error) {
	var rows []T
	if len(raw) == 0 {
		return rows, nil
	}
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode %s rows: %w", r.name, err)
	}
	return rows, nil
}

// Call invokes fn in scope s and decodes its result into T.
func Call[T any](ctx context.Context, s Scope, fn string, args Values) (T, error) {
	var out T
	raw, err := s.Call(ctx, fn, args)
	if err != nil {
		return out, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode %s result: %w", fn, err)
	}
	return out, nil
}
