package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestIsUniqueViolationPgError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	wrapped := fmt.Errorf("create account: %w", pgErr)

	if !IsUniqueViolation(wrapped, "") {
		t.Fatal("expected unique violation for pg error 23505")
	}
	if !IsUniqueViolation(wrapped, "users_email_key") {
		t.Fatal("expected match on constraint name")
	}
	if IsUniqueViolation(wrapped, "swipes_user_target_key") {
		t.Fatal("expected mismatch on different constraint name")
	}
}

func TestIsUniqueViolationOtherDrivers(t *testing.T) {
	if !IsUniqueViolation(gorm.ErrDuplicatedKey, "") {
		t.Fatal("expected gorm duplicated key to count")
	}
	if !IsUniqueViolation(errors.New("UNIQUE constraint failed: users.email"), "") {
		t.Fatal("expected sqlite message to count")
	}
	if IsUniqueViolation(errors.New("connection refused"), "") {
		t.Fatal("expected unrelated error to not count")
	}
	if IsUniqueViolation(nil, "") {
		t.Fatal("expected nil error to not count")
	}
}
