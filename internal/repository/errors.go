package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

var ErrNotFound = errors.New("record not found")

// UniqueViolation reports the index behind a unique-constraint failure.
// PostgreSQL returns the constraint name directly; SQLite reports
// "UNIQUE constraint failed: table.column", which is mapped onto the
// idx_<table>_<column> naming used by the migrations.
func UniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgUniqueViolation {
			return pgErr.ConstraintName, true
		}
		return "", false
	}

	msg := err.Error()
	const marker = "UNIQUE constraint failed: "
	i := strings.Index(msg, marker)
	if i < 0 {
		return "", false
	}
	column := msg[i+len(marker):]
	if j := strings.IndexAny(column, ", ("); j >= 0 {
		column = column[:j]
	}
	return "idx_" + strings.ReplaceAll(strings.TrimSpace(column), ".", "_"), true
}
