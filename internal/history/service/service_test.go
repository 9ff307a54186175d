package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	commonerrors "github.com/AlibekovAA/userfmt/internal/common/errors"
	"github.com/AlibekovAA/userfmt/internal/common/logger"
	"github.com/AlibekovAA/userfmt/internal/common/resilience"
	historyrepo "github.com/AlibekovAA/userfmt/internal/history/repository"
	historyservice "github.com/AlibekovAA/userfmt/internal/history/service"
	"github.com/AlibekovAA/userfmt/internal/user/domain"
	userservice "github.com/AlibekovAA/userfmt/internal/user/service"
)

type mockRepo struct {
	findFunc func(ctx context.Context, userID domain.ID) ([]domain.HistoryEntry, error)
}

func (m *mockRepo) FindByUserID(ctx context.Context, userID domain.ID) ([]domain.HistoryEntry, error) {
	return m.findFunc(ctx, userID)
}

func newTestLogger() *logger.Logger {
	return logger.NewWithWriter(&bytes.Buffer{}, "test", "debug")
}

var _ userservice.HistoryLookup = (*historyservice.HistoryService)(nil)

func TestHistoryService_Get_Static(t *testing.T) {
	svc := historyservice.NewHistoryService(historyservice.HistoryServiceDeps{
		Repo:   historyrepo.NewStaticRepository(),
		Source: "static",
		Log:    newTestLogger(),
	})

	got, err := svc.Get(context.Background(), "999")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 2 || got[0].Action != "login" || got[1].Action != "purchase" {
		t.Errorf("unexpected history %+v", got)
	}
}

func TestHistoryService_Get_RepoError(t *testing.T) {
	repoErr := errors.New("connection refused")
	svc := historyservice.NewHistoryService(historyservice.HistoryServiceDeps{
		Repo: &mockRepo{findFunc: func(ctx context.Context, userID domain.ID) ([]domain.HistoryEntry, error) {
			return nil, repoErr
		}},
		Source: "postgres",
		Log:    newTestLogger(),
	})

	_, err := svc.Get(context.Background(), "1")
	if !errors.Is(err, commonerrors.ErrHistoryLookupFailed) {
		t.Fatalf("expected ErrHistoryLookupFailed, got %v", err)
	}
	if !errors.Is(err, repoErr) {
		t.Errorf("expected repo error to be wrapped, got %v", err)
	}
}

func TestHistoryService_Get_CircuitOpen(t *testing.T) {
	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Threshold:  1,
		Timeout:    time.Second,
		ResetAfter: time.Minute,
		Name:       "history_test",
	})
	calls := 0
	svc := historyservice.NewHistoryService(historyservice.HistoryServiceDeps{
		Repo: &mockRepo{findFunc: func(ctx context.Context, userID domain.ID) ([]domain.HistoryEntry, error) {
			calls++
			return nil, errors.New("timeout")
		}},
		Source:  "sqlite",
		Breaker: breaker,
		Log:     newTestLogger(),
	})

	if _, err := svc.Get(context.Background(), "1"); !errors.Is(err, commonerrors.ErrHistoryLookupFailed) {
		t.Fatalf("expected ErrHistoryLookupFailed, got %v", err)
	}

	_, err := svc.Get(context.Background(), "1")
	if !errors.Is(err, commonerrors.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected repo to be called once, got %d", calls)
	}
}

func TestHistoryService_DrivesFormatter(t *testing.T) {
	svc := historyservice.NewHistoryService(historyservice.HistoryServiceDeps{
		Repo:   historyrepo.NewStaticRepository(),
		Source: "static",
		Log:    newTestLogger(),
	})
	f := userservice.NewUserFormatter(userservice.FormatterDeps{History: svc, Log: newTestLogger()})

	got, err := f.Format(context.Background(), domain.NewUserInput(domain.IntID(42), "Alice"), true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.DisplayName != "User Alice" || got.NormalizedID != "00000042" || len(got.History) != 2 {
		t.Errorf("unexpected result %+v", got)
	}
}
