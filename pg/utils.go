package pg

import (
	"errors"
	"fmt"
	"strings"

	"github.com/code19m/errx"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorDetails collects the failed query and, for PostgreSQL errors, the
// server diagnostics into error details.
func ErrorDetails(err error, query fmt.Stringer) errx.D {
	details := make(errx.D)
	if q := safeQueryString(query); q != "" {
		details["query"] = strings.ReplaceAll(q, `"`, ``)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return details
	}

	details["pg.code"] = pgErr.Code
	details["pg.message"] = pgErr.Message
	details["pg.detail"] = pgErr.Detail
	details["pg.table"] = pgErr.TableName
	details["pg.column"] = pgErr.ColumnName
	details["pg.constraint"] = pgErr.ConstraintName

	return details
}

// safeQueryString renders a query, tolerating bun queries that panic in String.
func safeQueryString(query fmt.Stringer) (s string) {
	defer func() {
		if recover() != nil {
			s = ""
		}
	}()

	if query == nil {
		return ""
	}
	return query.String()
}
