package bootstrap

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/AlibekovAA/userfmt/internal/common/config"
	"github.com/AlibekovAA/userfmt/internal/common/logger"
	historyrepo "github.com/AlibekovAA/userfmt/internal/history/repository"
	"github.com/AlibekovAA/userfmt/internal/user/domain"
)

func testConfig(t *testing.T, source string) config.UserFmtConfig {
	t.Helper()
	cfg, err := config.LoadUserFmtConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.HistorySource = source
	cfg.SQLitePath = filepath.Join(t.TempDir(), "history.db")
	return cfg
}

func TestNewApp_StaticSource(t *testing.T) {
	ctx := context.Background()
	log := logger.NewWithWriter(&bytes.Buffer{}, "test", "debug")

	app, err := NewApp(ctx, testConfig(t, config.HistorySourceStatic), log)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(app.ShutdownHooks()) != 1 {
		t.Errorf("static source should only register the logger hook")
	}

	got, err := app.Formatter.Format(ctx, domain.NewUserInput("7", "Alice"), true)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if got.NormalizedID != "00000007" || len(got.History) != 2 {
		t.Errorf("unexpected result %+v", got)
	}
}

func TestNewApp_SQLiteSource(t *testing.T) {
	ctx := context.Background()
	log := logger.NewWithWriter(&bytes.Buffer{}, "test", "debug")
	cfg := testConfig(t, config.HistorySourceSQLite)

	seed, err := historyrepo.NewSQLiteRepository(ctx, cfg.SQLitePath, log, 10)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := seed.Append(ctx, "42", domain.HistoryEntry{Action: "login", Timestamp: "2024-01-01T00:00:00"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := seed.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	app, err := NewApp(ctx, cfg, log)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer app.Close(ctx)

	got, err := app.Formatter.Format(ctx, domain.NewUserInput("42", "Bob"), true)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if len(got.History) != 1 || got.History[0].Action != "login" {
		t.Errorf("unexpected history %+v", got.History)
	}

	other, err := app.Formatter.Format(ctx, domain.NewUserInput("1", "Eve"), true)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if other.History == nil || len(other.History) != 0 {
		t.Errorf("expected empty non-nil history, got %#v", other.History)
	}
}
