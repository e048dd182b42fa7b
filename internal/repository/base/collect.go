package base

import (
	"github.com/jackc/pgx/v5"
)

// CollectExactlyOne drains rows that are expected to hold a single
// result. Zero rows surface as pgx.ErrNoRows, more than one as
// pgx.ErrTooManyRows so callers can tell "missing" from "the query
// was not as singular as the contract assumed".
func CollectExactlyOne[T any](rows pgx.Rows, scan func(pgx.Rows) (T, error)) (T, error) {
	defer rows.Close()

	var (
		value T
		found bool
	)

	for rows.Next() {
		if found {
			return value, pgx.ErrTooManyRows
		}
		v, err := scan(rows)
		if err != nil {
			return value, err
		}
		value = v
		found = true
	}

	if err := rows.Err(); err != nil {
		return value, err
	}
	if !found {
		return value, pgx.ErrNoRows
	}
	return value, nil
}
