package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carehire/carehire-api/internal/store"
)

// MapError maps a database error to a *store.Error carrying the SQLSTATE code.
// It wraps the original error to preserve context and provide better debugging information.
// Context cancellation and deadline errors are returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &store.Error{
			Code:       pgErr.Code,
			Message:    pgErr.Message,
			Details:    pgErr.Detail,
			Hint:       pgErr.Hint,
			Constraint: pgErr.ConstraintName,
			Err:        err,
		}
	}

	return err
}
