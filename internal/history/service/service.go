package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	commonerrors "github.com/AlibekovAA/userfmt/internal/common/errors"
	"github.com/AlibekovAA/userfmt/internal/common/logger"
	"github.com/AlibekovAA/userfmt/internal/common/resilience"
	historyrepo "github.com/AlibekovAA/userfmt/internal/history/repository"
	"github.com/AlibekovAA/userfmt/internal/observability/metrics"
	"github.com/AlibekovAA/userfmt/internal/user/domain"
)

type HistoryServiceDeps struct {
	Repo    historyrepo.Repository
	Source  string
	Breaker *resilience.CircuitBreaker
	Log     *logger.Logger
}

// HistoryService looks up user history through a repository, guarded by a
// circuit breaker when one is supplied.
type HistoryService struct {
	repo    historyrepo.Repository
	source  string
	breaker *resilience.CircuitBreaker
	log     *logger.Logger
}

func NewHistoryService(deps HistoryServiceDeps) *HistoryService {
	return &HistoryService{
		repo:    deps.Repo,
		source:  deps.Source,
		breaker: deps.Breaker,
		log:     deps.Log,
	}
}

func (s *HistoryService) Get(ctx context.Context, userID domain.ID) ([]domain.HistoryEntry, error) {
	start := time.Now()

	var entries []domain.HistoryEntry
	fetch := func(ctx context.Context) error {
		var err error
		entries, err = s.repo.FindByUserID(ctx, userID)
		return err
	}

	var err error
	if s.breaker != nil {
		err = s.breaker.Call(ctx, fetch)
	} else {
		err = fetch(ctx)
	}

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.HistoryLookupDurationSeconds.WithLabelValues(s.source, status).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, commonerrors.ErrCircuitOpen) {
			s.log.WithFields(ctx, logger.Fields{
				"user_id": userID,
				"source":  s.source,
				"action":  "history_lookup_circuit_open",
			}).Warn("history lookup rejected: circuit open")
			return nil, commonerrors.ErrServiceUnavailable.WithCause(err)
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"source":  s.source,
			"action":  "history_lookup_failed",
		}).Errorf("history lookup failed: %v", err)
		return nil, commonerrors.ErrHistoryLookupFailed.WithCause(fmt.Errorf("%s: %w", s.source, err))
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": userID,
		"source":  s.source,
		"entries": len(entries),
		"action":  "history_lookup",
	}).Debug("history looked up")

	return entries, nil
}
