package repository

import (
	"context"

	"github.com/AlibekovAA/userfmt/internal/user/domain"
)

var staticHistory = [...]domain.HistoryEntry{
	{Action: "login", Timestamp: "2023-10-01T10:30:00"},
	{Action: "purchase", Timestamp: "2023-10-02T14:20:00"},
}

// StaticRepository answers every lookup with the same login and purchase
// entries, whatever the id.
type StaticRepository struct{}

func NewStaticRepository() *StaticRepository {
	return &StaticRepository{}
}

func (r *StaticRepository) FindByUserID(ctx context.Context, userID domain.ID) ([]domain.HistoryEntry, error) {
	out := make([]domain.HistoryEntry, len(staticHistory))
	copy(out, staticHistory[:])
	return out, nil
}
