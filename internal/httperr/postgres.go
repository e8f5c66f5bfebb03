package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

// IsExclusionConflict reports whether err is a postgres exclusion
// constraint violation (overlapping appointment ranges).
func IsExclusionConflict(err error) bool {
	return pgCode(err) == pgExclusionViolation
}

func IsUniqueViolation(err error) bool {
	return pgCode(err) == pgUniqueViolation
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
