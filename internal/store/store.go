package store

import (
	"context"
	"encoding/json"
)

// Values is a column-to-value mapping used for inserts, updates and RPC arguments.
type Values map[string]any

// Credential identifies the caller a Scope acts for.
type Credential struct {
	// Token is the raw bearer token, forwarded verbatim. Empty for anonymous callers.
	Token string
	// Subject is the verified subject id of the token.
	Subject string
	// Role is the database role claim, if any.
	Role string
	// Claims is the decoded claim set of Token.
	Claims map[string]any
}

// Anonymous reports whether the credential carries no token.
func (c Credential) Anonymous() bool {
	return c.Token == ""
}

// Client constructs credential-scoped handles onto the row store.
type Client interface {
	// Scope returns a handle whose operations run under cred. Scopes are cheap
	// and must not be cached across requests.
	Scope(cred Credential) Scope

	// Ping performs a single row-existence probe used by health checks.
	Ping(ctx context.Context) error
}

// Scope is a per-request handle bound to one caller credential.
type Scope interface {
	// From returns the table with the given name.
	From(table string) Table

	// Call invokes a server-side procedure with named arguments and returns its
	// JSON-encoded result.
	Call(ctx context.Context, fn string, args Values) (json.RawMessage, error)
}

// Table is the untyped operation set of one table. Row results are JSON arrays.
type Table interface {
	Select(ctx context.Context, q Query) (json.RawMessage, error)
	Count(ctx context.Context, q Query) (int, error)
	Insert(ctx context.Context, rows ...Values) (json.RawMessage, error)
	Update(ctx context.Context, q Query, values Values) (json.RawMessage, error)
	Delete(ctx context.Context, q Query) (int64, error)
}
