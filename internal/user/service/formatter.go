package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/AlibekovAA/userfmt/internal/common/constants"
	commonerrors "github.com/AlibekovAA/userfmt/internal/common/errors"
	"github.com/AlibekovAA/userfmt/internal/common/logger"
	"github.com/AlibekovAA/userfmt/internal/observability/metrics"
	"github.com/AlibekovAA/userfmt/internal/user/domain"
)

// HistoryLookup returns the ordered history of a user. It is the only place
// where formatting may touch I/O.
type HistoryLookup interface {
	Get(ctx context.Context, userID domain.ID) ([]domain.HistoryEntry, error)
}

type HistoryLookupFunc func(ctx context.Context, userID domain.ID) ([]domain.HistoryEntry, error)

func (f HistoryLookupFunc) Get(ctx context.Context, userID domain.ID) ([]domain.HistoryEntry, error) {
	return f(ctx, userID)
}

type Formatter interface {
	Format(ctx context.Context, input domain.UserInput, includeHistory bool) (domain.ProcessedUser, error)
	FormatBatch(ctx context.Context, inputs []domain.UserInput, includeHistory bool) ([]domain.ProcessedUser, error)
}

type FormatterDeps struct {
	History      HistoryLookup
	Validator    *InputValidator
	Log          *logger.Logger
	BatchWorkers int
	MaxBatchSize int
}

type UserFormatter struct {
	history      HistoryLookup
	validator    *InputValidator
	log          *logger.Logger
	batchWorkers int
	maxBatchSize int
}

func NewUserFormatter(deps FormatterDeps) *UserFormatter {
	if deps.Validator == nil {
		deps.Validator = NewInputValidator()
	}
	if deps.BatchWorkers <= 0 {
		deps.BatchWorkers = constants.DefaultBatchWorkers
	}
	if deps.MaxBatchSize <= 0 {
		deps.MaxBatchSize = constants.DefaultMaxBatchSize
	}
	return &UserFormatter{
		history:      deps.History,
		validator:    deps.Validator,
		log:          deps.Log,
		batchWorkers: deps.BatchWorkers,
		maxBatchSize: deps.MaxBatchSize,
	}
}

func (f *UserFormatter) Format(ctx context.Context, input domain.UserInput, includeHistory bool) (domain.ProcessedUser, error) {
	if err := f.validator.Validate(input); err != nil {
		f.recordError(err)
		f.log.WithFields(ctx, logger.Fields{
			"action": "format_validation_failed",
		}).Warnf("format failed: %v", err)
		return domain.ProcessedUser{}, err
	}

	id := *input.ID
	result := domain.ProcessedUser{
		DisplayName:  DisplayName(*input.Name),
		NormalizedID: NormalizeID(id),
	}

	if includeHistory {
		history, err := f.lookupHistory(ctx, id)
		if err != nil {
			f.recordError(err)
			f.log.WithFields(ctx, logger.Fields{
				"user_id": id,
				"action":  "format_history_failed",
			}).Errorf("format failed: history lookup: %v", err)
			return domain.ProcessedUser{}, err
		}
		result.History = history
	}

	metrics.UsersFormattedTotal.WithLabelValues(strconv.FormatBool(includeHistory)).Inc()
	f.log.WithFields(ctx, logger.Fields{
		"user_id":         id,
		"include_history": includeHistory,
		"action":          "user_formatted",
	}).Debug("user formatted")

	return result, nil
}

func (f *UserFormatter) lookupHistory(ctx context.Context, id domain.ID) ([]domain.HistoryEntry, error) {
	if f.history == nil {
		return nil, commonerrors.ErrHistoryLookupFailed.WithCause(errors.New("no history lookup configured"))
	}

	history, err := f.history.Get(ctx, id)
	if err != nil {
		if _, ok := commonerrors.AsDomainError(err); ok {
			return nil, err
		}
		return nil, commonerrors.ErrHistoryLookupFailed.WithCause(err)
	}

	// history was requested, so it must be present even when empty.
	if history == nil {
		history = []domain.HistoryEntry{}
	}
	return history, nil
}

// FormatBatch formats every input concurrently and returns results in input
// order. The first failure cancels the rest.
func (f *UserFormatter) FormatBatch(ctx context.Context, inputs []domain.UserInput, includeHistory bool) ([]domain.ProcessedUser, error) {
	if len(inputs) > f.maxBatchSize {
		err := commonerrors.ErrBatchTooLarge.WithCause(fmt.Errorf("got %d records, max %d", len(inputs), f.maxBatchSize))
		f.recordError(err)
		f.log.WithFields(ctx, logger.Fields{
			"batch_size": len(inputs),
			"max":        f.maxBatchSize,
			"action":     "format_batch_too_large",
		}).Warn("format batch rejected: too large")
		return nil, err
	}

	metrics.FormatBatchSize.Observe(float64(len(inputs)))

	results := make([]domain.ProcessedUser, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.batchWorkers)

	for i := range inputs {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			processed, err := f.Format(gctx, inputs[i], includeHistory)
			if err != nil {
				return &BatchItemError{Index: i, Err: err}
			}
			results[i] = processed
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	f.log.WithFields(ctx, logger.Fields{
		"batch_size":      len(inputs),
		"include_history": includeHistory,
		"action":          "format_batch_completed",
	}).Info("format batch completed")

	return results, nil
}

func (f *UserFormatter) recordError(err error) {
	code := commonerrors.ErrInternalError.Code()
	if de, ok := commonerrors.AsDomainError(err); ok {
		code = de.Code()
	}
	metrics.FormatErrorsTotal.WithLabelValues(code).Inc()
}

// BatchItemError ties a batch failure to the position of the offending record.
type BatchItemError struct {
	Index int
	Err   error
}

func (e *BatchItemError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *BatchItemError) Unwrap() error {
	return e.Err
}

func AsBatchItemError(err error) (*BatchItemError, bool) {
	var bie *BatchItemError
	if errors.As(err, &bie) {
		return bie, true
	}
	return nil, false
}
