package repository

import (
	"context"

	"github.com/AlibekovAA/userfmt/internal/user/domain"
)

// TimestampLayout renders stored times as ISO-8601 without zone.
const TimestampLayout = "2006-01-02T15:04:05"

type Repository interface {
	FindByUserID(ctx context.Context, userID domain.ID) ([]domain.HistoryEntry, error)
}
