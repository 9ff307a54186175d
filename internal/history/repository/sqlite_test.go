package repository

import (
	"bytes"
	"context"
	"reflect"
	"testing"

	"github.com/AlibekovAA/userfmt/internal/common/logger"
	"github.com/AlibekovAA/userfmt/internal/user/domain"
)

func setupSQLite(t *testing.T, limit int) *SQLiteRepository {
	t.Helper()
	log := logger.NewWithWriter(&bytes.Buffer{}, "test", "debug")
	repo, err := NewSQLiteRepository(context.Background(), ":memory:", log, limit)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSQLiteRepository_FindByUserID_Ordered(t *testing.T) {
	repo := setupSQLite(t, 10)
	ctx := context.Background()

	seed := []struct {
		id    domain.ID
		entry domain.HistoryEntry
	}{
		{"42", domain.HistoryEntry{Action: "purchase", Timestamp: "2023-10-02T14:20:00"}},
		{"42", domain.HistoryEntry{Action: "login", Timestamp: "2023-10-01T10:30:00"}},
		{"7", domain.HistoryEntry{Action: "logout", Timestamp: "2023-10-03T09:00:00"}},
	}
	for _, s := range seed {
		if err := repo.Append(ctx, s.id, s.entry); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.FindByUserID(ctx, "42")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := []domain.HistoryEntry{
		{Action: "login", Timestamp: "2023-10-01T10:30:00"},
		{Action: "purchase", Timestamp: "2023-10-02T14:20:00"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestSQLiteRepository_FindByUserID_Empty(t *testing.T) {
	repo := setupSQLite(t, 10)

	got, err := repo.FindByUserID(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestSQLiteRepository_FindByUserID_Limit(t *testing.T) {
	repo := setupSQLite(t, 2)
	ctx := context.Background()

	for _, ts := range []string{"2023-01-01T00:00:00", "2023-01-02T00:00:00", "2023-01-03T00:00:00"} {
		if err := repo.Append(ctx, "1", domain.HistoryEntry{Action: "login", Timestamp: ts}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.FindByUserID(ctx, "1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Timestamp != "2023-01-01T00:00:00" {
		t.Errorf("expected oldest entry first, got %s", got[0].Timestamp)
	}
}
