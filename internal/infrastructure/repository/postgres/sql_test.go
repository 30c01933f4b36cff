package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Run("matches 23505", func(t *testing.T) {
		err := fmt.Errorf("insert fixture: %w", &pq.Error{Code: "23505"})
		if !isUniqueViolation(err) {
			t.Fatal("expected true for unique violation")
		}
	})

	t.Run("ignores other codes", func(t *testing.T) {
		err := &pq.Error{Code: "23503"}
		if isUniqueViolation(err) {
			t.Fatal("expected false for foreign key violation")
		}
	})

	t.Run("ignores plain errors", func(t *testing.T) {
		if isUniqueViolation(fmt.Errorf("connection refused")) {
			t.Fatal("expected false for non-pq error")
		}
	})
}

func TestNullConversions(t *testing.T) {
	if got := nullInt64ToInt64(sql.NullInt64{Int64: 7, Valid: true}); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
	if got := nullInt64ToInt64(sql.NullInt64{}); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}

	if got := int64ToNullInt64(0); got.Valid {
		t.Fatal("zero id must map to NULL")
	}
	if got := int64ToNullInt64(42); !got.Valid || got.Int64 != 42 {
		t.Fatalf("unexpected null int: %+v", got)
	}

	score := 3
	if got := nullIntPtr(&score); !got.Valid || got.Int64 != 3 {
		t.Fatalf("unexpected score conversion: %+v", got)
	}
	if got := nullIntPtr(nil); got.Valid {
		t.Fatal("nil score must map to NULL")
	}
	if got := nullInt64ToIntPtr(sql.NullInt64{Int64: 2, Valid: true}); got == nil || *got != 2 {
		t.Fatalf("unexpected pointer conversion: %v", got)
	}
	if got := nullInt64ToIntPtr(sql.NullInt64{}); got != nil {
		t.Fatalf("null must map to nil pointer, got %v", got)
	}
}
