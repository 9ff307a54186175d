package repository

import (
	"context"
	"reflect"
	"testing"

	"github.com/AlibekovAA/userfmt/internal/user/domain"
)

func TestStaticRepository_SameEntriesForAnyID(t *testing.T) {
	repo := NewStaticRepository()
	want := []domain.HistoryEntry{
		{Action: "login", Timestamp: "2023-10-01T10:30:00"},
		{Action: "purchase", Timestamp: "2023-10-02T14:20:00"},
	}

	for _, id := range []domain.ID{"42", "ABC123456", "", "-1"} {
		got, err := repo.FindByUserID(context.Background(), id)
		if err != nil {
			t.Fatalf("id %q: expected no error, got %v", id, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("id %q: expected %+v, got %+v", id, want, got)
		}
	}
}

func TestStaticRepository_ReturnsFreshSlice(t *testing.T) {
	repo := NewStaticRepository()

	first, _ := repo.FindByUserID(context.Background(), "1")
	first[0].Action = "tampered"

	second, _ := repo.FindByUserID(context.Background(), "1")
	if second[0].Action != "login" {
		t.Errorf("mutation leaked between calls: %+v", second)
	}
}
