package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/penny/internal/cli"
	"github.com/Veraticus/penny/internal/common"
	"github.com/Veraticus/penny/internal/config"
	"github.com/Veraticus/penny/internal/dialogue"
	"github.com/Veraticus/penny/internal/session"
	"github.com/Veraticus/penny/internal/storage"
)

const defaultDBPath = "$HOME/.local/share/penny/penny.db"

// recordStore is a dialogue.RecordStore that owns resources.
type recordStore interface {
	dialogue.RecordStore
	Close() error
}

// sessionStore is a session.Store that owns resources.
type sessionStore interface {
	session.Store
	Close() error
}

// app bundles the collaborators every chat-facing command needs.
type app struct {
	records  recordStore
	sessions sessionStore
	engine   *dialogue.Engine
}

func (a *app) Close() {
	if err := a.sessions.Close(); err != nil {
		slog.Warn("Failed to close session store", "error", err)
	}
	if err := a.records.Close(); err != nil {
		slog.Warn("Failed to close record store", "error", err)
	}
}

// initStorage opens the configured SQLite database and migrates it.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	if dbPath != storage.MemoryDSN {
		dbPath = config.ExpandPath(dbPath)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("Could not open the database at %s", dbPath), err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, common.NewUserError("Could not update the database schema; try `penny migrate --backup`",
			fmt.Errorf("failed to run migrations: %w", err))
	}

	return store, nil
}

// initRecords returns an in-memory store when ephemeral is set and the
// SQLite store otherwise.
func initRecords(ctx context.Context, ephemeral bool) (recordStore, error) {
	if ephemeral {
		return storage.NewMemoryStorage(), nil
	}
	return initStorage(ctx)
}

// initSessions builds the pending-conversation store named by
// session.backend.
func initSessions(ctx context.Context) (sessionStore, error) {
	ttl, err := sessionTTL()
	if err != nil {
		return nil, err
	}

	backend := strings.ToLower(viper.GetString("session.backend"))
	switch backend {
	case "", "memory":
		return session.NewMemoryStore(ttl), nil
	case "redis":
		url := strings.TrimSpace(viper.GetString("redis.url"))
		if url == "" {
			return nil, common.NewUserError("Set redis.url to use the redis session backend", common.ErrMissingConfig)
		}
		store, err := session.NewRedisStore(ctx, url, ttl)
		if err != nil {
			return nil, common.NewUserError("Could not connect to the redis session store", err)
		}
		return store, nil
	default:
		return nil, common.NewUserError(
			fmt.Sprintf("Unknown session backend %q (use memory or redis)", backend),
			fmt.Errorf("%w: unknown session backend %q", common.ErrInvalidConfig, backend))
	}
}

func sessionTTL() (time.Duration, error) {
	raw := viper.GetString("session.ttl")
	if raw == "" {
		return session.DefaultTTL, nil
	}
	ttl, err := time.ParseDuration(raw)
	if err != nil || ttl <= 0 {
		return 0, fmt.Errorf("%w: invalid session.ttl %q", common.ErrInvalidConfig, raw)
	}
	return ttl, nil
}

// initApp wires record storage, session storage and the dialogue engine.
func initApp(ctx context.Context, ephemeral bool) (*app, error) {
	records, err := initRecords(ctx, ephemeral)
	if err != nil {
		return nil, err
	}
	sessions, err := initSessions(ctx)
	if err != nil {
		_ = records.Close()
		return nil, err
	}

	engine := dialogue.NewEngine(records, sessions, dialogue.WithLogger(slog.Default()))
	return &app{records: records, sessions: sessions, engine: engine}, nil
}

// errorMessage renders a command failure for the terminal, preferring the
// user-facing message of a common.UserError.
func errorMessage(err error) string {
	return cli.FormatError(common.UserMessage(err, err.Error()))
}

func chatID() string {
	id := strings.TrimSpace(viper.GetString("chat.id"))
	if id == "" {
		return "local"
	}
	return id
}
