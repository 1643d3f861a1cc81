// Package memstore is an in-memory implementation of the store contract. It
// evaluates the same query vocabulary as the PostgreSQL client and is used by
// tests and local development without a database.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carehire/carehire-api/internal/store"
)

// Operation names accepted by FailOn.
const (
	OpSelect = "select"
	OpCount  = "count"
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

type row map[string]any

// Procedure is a server-side function registered with Handle.
type Procedure func(ctx context.Context, m *Memory, cred store.Credential, args store.Values) (any, error)

// Policy decides whether a row is visible to a scoped operation, the way a
// row-level security policy does. Rows it rejects are skipped by select,
// count, update and delete.
type Policy func(a Access, r map[string]any) bool

// Access is the caller and operation a Policy is evaluated for.
type Access struct {
	// Op is OpSelect (also used for counts), OpUpdate or OpDelete.
	Op string
	// Subject is the caller's subject id, empty for anonymous callers.
	Subject string

	m *Memory
}

// Lookup returns the rows of table whose column equals value, ignoring
// policies. Policies run while the store is locked and must use Lookup
// instead of Rows.
func (a Access) Lookup(table, column string, value any) []map[string]any {
	return a.m.lookup(table, column, value)
}

// Memory is a concurrency-safe in-memory row store.
type Memory struct {
	mu       sync.Mutex
	tables   map[string][]row
	unique   map[string][][]string
	failures map[string]error
	procs    map[string]Procedure
	policies map[string]Policy
	pingErr  error
	now      func() time.Time

	// Credentials records the credential of every scoped call, for assertions.
	Credentials []store.Credential
}

var _ store.Client = (*Memory)(nil)

// New returns an empty Memory.
func New() *Memory {
	return &Memory{
		tables:   make(map[string][]row),
		unique:   make(map[string][][]string),
		failures: make(map[string]error),
		procs:    make(map[string]Procedure),
		policies: make(map[string]Policy),
		now:      time.Now,
	}
}

// Unique declares a uniqueness constraint over columns of table.
func (m *Memory) Unique(table string, columns ...string) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unique[table] = append(m.unique[table], columns)
	return m
}

// Handle registers a procedure callable through Scope.Call.
func (m *Memory) Handle(fn string, p Procedure) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.procs[fn] = p
	return m
}

// Policy restricts the rows of table visible to scoped operations. Seed and
// Rows are not affected.
func (m *Memory) Policy(table string, p Policy) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.policies[table] = p
	return m
}

// FailOn makes every op on table fail with err until cleared with a nil err.
func (m *Memory) FailOn(table, op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := table + "/" + op
	if err == nil {
		delete(m.failures, key)
		return
	}
	m.failures[key] = err
}

// SetPingError makes Ping return err.
func (m *Memory) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingErr = err
}

// SetClock overrides the timestamp source.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Rows returns a snapshot of table decoded as generic JSON objects.
func (m *Memory) Rows(table string) []map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]map[string]any, 0, len(m.tables[table]))
	for _, r := range m.tables[table] {
		out = append(out, copyRow(r))
	}
	return out
}

// Seed inserts rows directly, bypassing constraints and failure injection.
// It returns the stored rows with generated ids and timestamps.
func (m *Memory) Seed(table string, rows ...store.Values) []map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]map[string]any, 0, len(rows))
	for _, v := range rows {
		r := m.prepare(v)
		m.tables[table] = append(m.tables[table], r)
		out = append(out, copyRow(r))
	}
	return out
}

// Ping implements store.Client.
func (m *Memory) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.pingErr
}

// Scope implements store.Client.
func (m *Memory) Scope(cred store.Credential) store.Scope {
	m.mu.Lock()
	m.Credentials = append(m.Credentials, cred)
	m.mu.Unlock()
	return &scope{m: m, cred: cred}
}

type scope struct {
	m    *Memory
	cred store.Credential
}

func (s *scope) From(name string) store.Table {
	return &table{m: s.m, name: name, cred: s.cred}
}

func (s *scope) Call(ctx context.Context, fn string, args store.Values) (json.RawMessage, error) {
	s.m.mu.Lock()
	p, ok := s.m.procs[fn]
	s.m.mu.Unlock()
	if !ok {
		return nil, &store.Error{Code: "42883", Message: fmt.Sprintf("function %s does not exist", fn)}
	}
	out, err := p(ctx, s.m, s.cred, args)
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

type table struct {
	m    *Memory
	name string
	cred store.Credential
}

func (t *table) failure(op string) error {
	return t.m.failures[t.name+"/"+op]
}

// visible applies the table's policy, if any. Callers hold m.mu.
func (t *table) visible(op string, r row) bool {
	p, ok := t.m.policies[t.name]
	if !ok {
		return true
	}
	a := Access{Op: op, m: t.m}
	if !t.cred.Anonymous() {
		a.Subject = t.cred.Subject
	}
	return p(a, r)
}

func (t *table) Select(ctx context.Context, q store.Query) (json.RawMessage, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if err := t.failure(OpSelect); err != nil {
		return nil, err
	}
	matched, err := t.match(OpSelect, q)
	if err != nil {
		return nil, err
	}
	sortRows(matched, q.Orders)
	matched = window(matched, q.Offset, q.Limit)
	return marshalRows(matched)
}

func (t *table) Count(ctx context.Context, q store.Query) (int, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if err := t.failure(OpCount); err != nil {
		return 0, err
	}
	matched, err := t.match(OpSelect, q)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

func (t *table) Insert(ctx context.Context, rows ...store.Values) (json.RawMessage, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if err := t.failure(OpInsert); err != nil {
		return nil, err
	}
	prepared := make([]row, 0, len(rows))
	for _, v := range rows {
		r := t.m.prepare(v)
		if err := t.checkUnique(r, prepared, ""); err != nil {
			return nil, err
		}
		prepared = append(prepared, r)
	}
	t.m.tables[t.name] = append(t.m.tables[t.name], prepared...)
	return marshalRows(prepared)
}

func (t *table) Update(ctx context.Context, q store.Query, values store.Values) (json.RawMessage, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if err := t.failure(OpUpdate); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("update %s: no values", t.name)
	}
	patch := normalizeRow(values)
	if _, ok := values["updated_at"]; !ok {
		patch["updated_at"] = normalize(t.m.now().UTC())
	}

	var updated []row
	for i, r := range t.m.tables[t.name] {
		ok, err := matches(r, q.Filters)
		if err != nil {
			return nil, err
		}
		if !ok || !t.visible(OpUpdate, r) {
			continue
		}
		next := copyRow(r)
		for k, v := range patch {
			next[k] = v
		}
		if err := t.checkUnique(next, nil, fmt.Sprint(r["id"])); err != nil {
			return nil, err
		}
		t.m.tables[t.name][i] = next
		updated = append(updated, next)
	}
	return marshalRows(updated)
}

func (t *table) Delete(ctx context.Context, q store.Query) (int64, error) {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if err := t.failure(OpDelete); err != nil {
		return 0, err
	}
	var kept []row
	var n int64
	for _, r := range t.m.tables[t.name] {
		ok, err := matches(r, q.Filters)
		if err != nil {
			return 0, err
		}
		if ok && t.visible(OpDelete, r) {
			n++
			continue
		}
		kept = append(kept, r)
	}
	t.m.tables[t.name] = kept
	return n, nil
}

func (t *table) match(op string, q store.Query) ([]row, error) {
	var out []row
	for _, r := range t.m.tables[t.name] {
		ok, err := matches(r, q.Filters)
		if err != nil {
			return nil, err
		}
		if ok && t.visible(op, r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// lookup returns copies of the rows of table whose column equals value.
// Callers hold m.mu.
func (m *Memory) lookup(table, column string, value any) []map[string]any {
	want := normalize(value)
	var out []map[string]any
	for _, r := range m.tables[table] {
		if v := r[column]; v != nil && compare(v, want) == 0 {
			out = append(out, copyRow(r))
		}
	}
	return out
}

func (t *table) checkUnique(candidate row, pending []row, selfID string) error {
	for _, cols := range t.m.unique[t.name] {
		for _, existing := range slices.Concat(t.m.tables[t.name], pending) {
			if selfID != "" && fmt.Sprint(existing["id"]) == selfID {
				continue
			}
			same := true
			for _, c := range cols {
				if fmt.Sprint(existing[c]) != fmt.Sprint(candidate[c]) {
					same = false
					break
				}
			}
			if same {
				return &store.Error{
					Code:       store.CodeUniqueViolation,
					Message:    fmt.Sprintf("duplicate key value violates unique constraint on %s(%s)", t.name, strings.Join(cols, ", ")),
					Constraint: t.name + "_" + strings.Join(cols, "_") + "_key",
				}
			}
		}
	}
	return nil
}

// prepare normalises v into a stored row, filling id and timestamps the way
// column defaults would. Callers hold m.mu.
func (m *Memory) prepare(v store.Values) row {
	r := normalizeRow(v)
	if _, ok := r["id"]; !ok {
		r["id"] = uuid.NewString()
	}
	now := normalize(m.now().UTC())
	if _, ok := r["created_at"]; !ok {
		r["created_at"] = now
	}
	if _, ok := r["updated_at"]; !ok {
		r["updated_at"] = now
	}
	return r
}

// normalize round-trips v through JSON so stored values and filter operands
// share one representation (strings, float64, bool, nil, []any, map[string]any).
func normalize(v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}

func normalizeRow(v store.Values) row {
	out, _ := normalize(map[string]any(v)).(map[string]any)
	if out == nil {
		out = map[string]any{}
	}
	return out
}

func matches(r row, filters []store.Filter) (bool, error) {
	for _, f := range filters {
		ok, err := test(r[f.Column], f)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func test(actual any, f store.Filter) (bool, error) {
	want := normalize(f.Value)
	switch f.Op {
	case store.OpEq:
		return actual != nil && compare(actual, want) == 0, nil
	case store.OpGte:
		return actual != nil && compare(actual, want) >= 0, nil
	case store.OpIn:
		list, ok := want.([]any)
		if !ok {
			return false, fmt.Errorf("in filter on %s: value is not a list", f.Column)
		}
		for _, w := range list {
			if actual != nil && compare(actual, w) == 0 {
				return true, nil
			}
		}
		return false, nil
	case store.OpILike:
		s, ok := actual.(string)
		if !ok {
			return false, nil
		}
		pattern, _ := want.(string)
		re, err := likeRegexp(pattern)
		if err != nil {
			return false, err
		}
		return re.MatchString(s), nil
	default:
		return false, fmt.Errorf("unsupported operator %q", f.Op)
	}
}

func likeRegexp(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("(?is)^")
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

// compare orders two normalised values. Mixed or unordered types compare by
// their string form.
func compare(a, b any) int {
	switch av := a.(type) {
	case float64:
		if bv, ok := b.(float64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			if av == bv {
				return 0
			}
			if !av {
				return -1
			}
			return 1
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func sortRows(rows []row, orders []store.Order) {
	if len(orders) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range orders {
			a, b := rows[i][o.Column], rows[j][o.Column]
			// nulls sort last in both directions
			if a == nil || b == nil {
				if a == nil && b == nil {
					continue
				}
				return b == nil
			}
			c := compare(a, b)
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func window(rows []row, offset, limit int) []row {
	if offset >= len(rows) {
		return nil
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

func marshalRows(rows []row) (json.RawMessage, error) {
	if rows == nil {
		rows = []row{}
	}
	return json.Marshal(rows)
}

func copyRow(r row) row {
	out := make(row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
