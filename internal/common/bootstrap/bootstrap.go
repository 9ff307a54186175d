package bootstrap

import (
	"context"
	"fmt"

	"github.com/AlibekovAA/userfmt/internal/common/config"
	"github.com/AlibekovAA/userfmt/internal/common/constants"
	"github.com/AlibekovAA/userfmt/internal/common/db"
	"github.com/AlibekovAA/userfmt/internal/common/logger"
	"github.com/AlibekovAA/userfmt/internal/common/resilience"
	"github.com/AlibekovAA/userfmt/internal/common/server"
	historyrepo "github.com/AlibekovAA/userfmt/internal/history/repository"
	historyservice "github.com/AlibekovAA/userfmt/internal/history/service"
	userservice "github.com/AlibekovAA/userfmt/internal/user/service"
)

const serviceName = "userfmt"

type App struct {
	Log       *logger.Logger
	Config    config.UserFmtConfig
	History   *historyservice.HistoryService
	Formatter *userservice.UserFormatter

	closers []server.ShutdownHook
}

// NewUserFmtApp loads configuration from the environment and wires the
// formatter to the configured history source.
func NewUserFmtApp(ctx context.Context) (*App, error) {
	cfg, err := config.LoadUserFmtConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.LogDir, serviceName, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	app, err := NewApp(ctx, cfg, log)
	if err != nil {
		_ = log.Close()
		return nil, err
	}
	return app, nil
}

func NewApp(ctx context.Context, cfg config.UserFmtConfig, log *logger.Logger) (*App, error) {
	app := &App{Log: log, Config: cfg}

	repo, err := app.buildHistoryRepository(ctx)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}

	var breaker *resilience.CircuitBreaker
	if cfg.HistorySource != config.HistorySourceStatic {
		breaker = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Threshold:  cfg.CircuitBreakerThreshold,
			Timeout:    cfg.HistoryTimeout,
			ResetAfter: cfg.CircuitBreakerReset,
			Name:       "history_" + cfg.HistorySource,
			Logger:     log,
		})
	}

	app.History = historyservice.NewHistoryService(historyservice.HistoryServiceDeps{
		Repo:    repo,
		Source:  cfg.HistorySource,
		Breaker: breaker,
		Log:     log,
	})

	app.Formatter = userservice.NewUserFormatter(userservice.FormatterDeps{
		History:      app.History,
		Log:          log,
		BatchWorkers: cfg.BatchWorkers,
		MaxBatchSize: cfg.MaxBatchSize,
	})

	log.WithFields(ctx, logger.Fields{
		"history_source": cfg.HistorySource,
		"auth_enabled":   cfg.AuthEnabled(),
		"action":         "app_initialized",
	}).Info("userfmt app initialized")

	return app, nil
}

func (a *App) buildHistoryRepository(ctx context.Context) (historyrepo.Repository, error) {
	limit := a.Config.HistoryLimit
	if limit <= 0 {
		limit = constants.DefaultHistoryLimit
	}

	switch a.Config.HistorySource {
	case config.HistorySourcePostgres:
		pool, err := db.NewPool(ctx, a.Log, a.Config.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		metricsCtx, stopMetrics := context.WithCancel(context.Background())
		db.StartPoolMetrics(metricsCtx, pool, constants.DBPoolMetricsInterval)
		a.closers = append(a.closers, func(context.Context) error {
			stopMetrics()
			pool.Close()
			return nil
		})
		return historyrepo.NewPgRepository(pool, a.Log, limit), nil

	case config.HistorySourceSQLite:
		repo, err := historyrepo.NewSQLiteRepository(ctx, a.Config.SQLitePath, a.Log, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite history store: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error {
			return repo.Close()
		})
		return repo, nil

	default:
		return historyrepo.NewStaticRepository(), nil
	}
}

// ShutdownHooks releases stores first and the logger last.
func (a *App) ShutdownHooks() []server.ShutdownHook {
	hooks := make([]server.ShutdownHook, 0, len(a.closers)+1)
	hooks = append(hooks, a.closers...)
	hooks = append(hooks, func(context.Context) error {
		return a.Log.Close()
	})
	return hooks
}

func (a *App) Close(ctx context.Context) {
	for _, closeFn := range a.closers {
		if err := closeFn(ctx); err != nil {
			a.Log.Errorf("close failed: %v", err)
		}
	}
	a.closers = nil
}
