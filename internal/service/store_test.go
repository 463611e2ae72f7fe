package service

import (
	"errors"
	"testing"

	"github.com/dinepos/api/internal/database"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestWithRetry_RetriesUniqueViolation(t *testing.T) {
	calls := 0
	err := withRetry(func() error {
		calls++
		if calls < 2 {
			return &pgconn.PgError{Code: "23505"}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls: got %d, want 2", calls)
	}
}

func TestWithRetry_GivesUp(t *testing.T) {
	calls := 0
	err := withRetry(func() error {
		calls++
		return &pgconn.PgError{Code: "23505"}
	})
	if !database.IsUniqueViolation(err) {
		t.Fatalf("expected the last unique violation, got %v", err)
	}
	if calls != maxUniqueRetries {
		t.Errorf("calls: got %d, want %d", calls, maxUniqueRetries)
	}
}

func TestWithRetry_OtherErrorsReturnImmediately(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := withRetry(func() error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) || calls != 1 {
		t.Errorf("got err=%v calls=%d", err, calls)
	}
}
