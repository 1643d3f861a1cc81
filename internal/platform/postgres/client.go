package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/carehire/carehire-api/internal/config"
	"github.com/carehire/carehire-api/internal/store"
)

// probeQuery is the single row-existence query used by health checks.
const probeQuery = "SELECT EXISTS(SELECT 1 FROM job_seekers LIMIT 1)"

// Client is a store.Client backed by a pgx connection pool.
type Client struct {
	pool              *pgxpool.Pool
	anonRole          string
	authenticatedRole string
	probeTimeout      time.Duration
	logger            *slog.Logger
}

var _ store.Client = (*Client)(nil)

// Open creates a connection pool for cfg and verifies connectivity.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		panic("logger cannot be nil for postgres.Client")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ProbeTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewClient(pool, cfg, logger), nil
}

// NewClient wraps an existing pool.
func NewClient(pool *pgxpool.Pool, cfg config.DatabaseConfig, logger *slog.Logger) *Client {
	if logger == nil {
		panic("logger cannot be nil for postgres.Client")
	}
	return &Client{
		pool:              pool,
		anonRole:          cfg.AnonRole,
		authenticatedRole: cfg.AuthenticatedRole,
		probeTimeout:      cfg.ProbeTimeout,
		logger:            logger.With("component", "postgres"),
	}
}

// Close releases every pooled connection.
func (c *Client) Close() {
	c.pool.Close()
}

// DB returns a database/sql handle sharing the pool, for tools such as goose.
// Closing it does not close the pool.
func (c *Client) DB() *sql.DB {
	return stdlib.OpenDBFromPool(c.pool)
}

// Ping implements store.Client by running the probe query under the probe timeout.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	var exists bool
	if err := c.pool.QueryRow(ctx, probeQuery).Scan(&exists); err != nil {
		return MapError(err)
	}
	return nil
}

// Scope implements store.Client.
func (c *Client) Scope(cred store.Credential) store.Scope {
	return &scope{c: c, cred: cred}
}

// scope runs every operation under one caller credential.
type scope struct {
	c    *Client
	cred store.Credential
}

func (s *scope) role() string {
	if s.cred.Anonymous() {
		return s.c.anonRole
	}
	return s.c.authenticatedRole
}

// run executes fn in a transaction carrying the caller's credential.
func (s *scope) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	claims := []byte("{}")
	if s.cred.Claims != nil {
		b, err := json.Marshal(s.cred.Claims)
		if err != nil {
			return fmt.Errorf("failed to encode claims: %w", err)
		}
		claims = b
	}

	return pgx.BeginFunc(ctx, s.c.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			"SELECT set_config('request.jwt', $1, true), "+
				"set_config('request.jwt.claims', $2, true), "+
				"set_config('request.jwt.claim.sub', $3, true)",
			s.cred.Token, string(claims), s.cred.Subject,
		); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, "SET LOCAL ROLE "+ident(s.role())); err != nil {
			return err
		}
		return fn(tx)
	})
}

func (s *scope) From(name string) store.Table {
	return &table{s: s, name: name}
}

func (s *scope) Call(ctx context.Context, fn string, args store.Values) (json.RawMessage, error) {
	stmt := buildCall(fn, args)
	var out json.RawMessage
	err := s.run(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, stmt.sql.String(), stmt.args...).Scan(&out)
	})
	if err != nil {
		s.c.logger.DebugContext(ctx, "procedure call failed", "function", fn, "error", err)
		return nil, MapError(err)
	}
	return out, nil
}

type table struct {
	s    *scope
	name string
}

func (t *table) queryJSON(ctx context.Context, op string, stmt *statement, err error) (json.RawMessage, error) {
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, t.name, err)
	}
	var out json.RawMessage
	err = t.s.run(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, stmt.sql.String(), stmt.args...).Scan(&out)
	})
	if err != nil {
		t.s.c.logger.DebugContext(ctx, "query failed", "op", op, "table", t.name, "error", err)
		return nil, MapError(err)
	}
	return out, nil
}

func (t *table) Select(ctx context.Context, q store.Query) (json.RawMessage, error) {
	stmt, err := buildSelect(t.name, q)
	return t.queryJSON(ctx, "select", stmt, err)
}

func (t *table) Insert(ctx context.Context, rows ...store.Values) (json.RawMessage, error) {
	stmt, err := buildInsert(t.name, rows)
	return t.queryJSON(ctx, "insert", stmt, err)
}

func (t *table) Update(ctx context.Context, q store.Query, values store.Values) (json.RawMessage, error) {
	stmt, err := buildUpdate(t.name, q, values)
	return t.queryJSON(ctx, "update", stmt, err)
}

func (t *table) Count(ctx context.Context, q store.Query) (int, error) {
	stmt, err := buildCount(t.name, q)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", t.name, err)
	}
	var n int64
	err = t.s.run(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, stmt.sql.String(), stmt.args...).Scan(&n)
	})
	if err != nil {
		return 0, MapError(err)
	}
	return int(n), nil
}

func (t *table) Delete(ctx context.Context, q store.Query) (int64, error) {
	stmt, err := buildDelete(t.name, q)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", t.name, err)
	}
	var affected int64
	err = t.s.run(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, stmt.sql.String(), stmt.args...)
		affected = tag.RowsAffected()
		return err
	})
	if err != nil {
		return 0, MapError(err)
	}
	return affected, nil
}
