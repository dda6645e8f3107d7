package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestUniqueViolation(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		index  string
		unique bool
	}{
		{"nil", nil, "", false},
		{"plain", errors.New("boom"), "", false},
		{"postgres", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "idx_accounts_email"}), "idx_accounts_email", true},
		{"postgres other code", &pgconn.PgError{Code: "23503", ConstraintName: "fk"}, "", false},
		{"sqlite", errors.New("constraint failed: UNIQUE constraint failed: accounts.username (2067)"), "idx_accounts_username", true},
		{"sqlite composite", errors.New("UNIQUE constraint failed: chats.client_id, chats.professional_id"), "idx_chats_client_id", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, ok := UniqueViolation(tt.err)
			assert.Equal(t, tt.unique, ok)
			assert.Equal(t, tt.index, index)
		})
	}
}
