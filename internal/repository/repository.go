package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("record not found")

// Keeps each multi-row INSERT well below MySQL's 65535 placeholder limit.
const chunkSize = 500

// insertAll writes records with query in a single transaction, chunkSize rows
// per statement. Nothing is committed if any chunk fails.
func insertAll[T any](ctx context.Context, db *sqlx.DB, query string, records []T) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := 0; i < len(records); i += chunkSize {
		end := min(i+chunkSize, len(records))
		if _, err := tx.NamedExecContext(ctx, query, records[i:end]); err != nil {
			return fmt.Errorf("error inserting chunk %d-%d: %w", i+1, end, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
