package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/mog-workshop/internal/adapter/docstore"
)

// mapError converts pgx/pgconn errors to docstore errors.
// Schema and credential problems are misconfiguration; everything else,
// including context deadlines, means the store is unavailable.
func mapError(err error, op, collection string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", op, collection, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42P01": // undefined_table
			return fmt.Errorf("%s %s: %w: %w", op, collection, docstore.ErrMisconfigured, err)
		case "28P01", "28000": // invalid_password, invalid_authorization_specification
			return fmt.Errorf("%s %s: %w: %w", op, collection, docstore.ErrMisconfigured, err)
		}
	}

	return fmt.Errorf("%s %s: %w: %w", op, collection, docstore.ErrUnavailable, err)
}
