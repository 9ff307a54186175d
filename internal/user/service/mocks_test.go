package service_test

import (
	"bytes"
	"context"
	"sync/atomic"
	"testing"

	"github.com/AlibekovAA/userfmt/internal/common/logger"
	"github.com/AlibekovAA/userfmt/internal/user/domain"
	"github.com/AlibekovAA/userfmt/internal/user/service"
)

type mockHistoryLookup struct {
	calls   atomic.Int32
	getFunc func(ctx context.Context, userID domain.ID) ([]domain.HistoryEntry, error)
}

func (m *mockHistoryLookup) Get(ctx context.Context, userID domain.ID) ([]domain.HistoryEntry, error) {
	m.calls.Add(1)
	if m.getFunc != nil {
		return m.getFunc(ctx, userID)
	}
	return []domain.HistoryEntry{
		{Action: "login", Timestamp: "2023-10-01T10:30:00"},
		{Action: "purchase", Timestamp: "2023-10-02T14:20:00"},
	}, nil
}

func setupFormatter(t *testing.T) (*service.UserFormatter, *mockHistoryLookup) {
	t.Helper()
	history := &mockHistoryLookup{}
	log := logger.NewWithWriter(&bytes.Buffer{}, "test", "debug")
	f := service.NewUserFormatter(service.FormatterDeps{
		History:      history,
		Log:          log,
		BatchWorkers: 4,
		MaxBatchSize: 10,
	})
	return f, history
}

func strPtr(s string) *string {
	return &s
}

func idPtr(id domain.ID) *domain.ID {
	return &id
}

func newDiscardLogger() *logger.Logger {
	return logger.NewWithWriter(&bytes.Buffer{}, "test", "debug")
}
