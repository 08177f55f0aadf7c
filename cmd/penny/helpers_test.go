package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/penny/internal/common"
	"github.com/Veraticus/penny/internal/session"
	"github.com/Veraticus/penny/internal/storage"
)

func setViper(t *testing.T, key string, value any) {
	t.Helper()
	old := viper.Get(key)
	viper.Set(key, value)
	t.Cleanup(func() { viper.Set(key, old) })
}

func TestSessionTTL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    time.Duration
		wantErr bool
	}{
		{name: "default", raw: "", want: session.DefaultTTL},
		{name: "custom", raw: "2m", want: 2 * time.Minute},
		{name: "garbage", raw: "soon", wantErr: true},
		{name: "negative", raw: "-1m", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setViper(t, "session.ttl", tt.raw)
			got, err := sessionTTL()
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInitSessions(t *testing.T) {
	t.Run("memory backend", func(t *testing.T) {
		setViper(t, "session.backend", "memory")
		setViper(t, "session.ttl", "")
		store, err := initSessions(context.Background())
		require.NoError(t, err)
		defer func() { _ = store.Close() }()
		assert.IsType(t, &session.MemoryStore{}, store)
	})

	t.Run("unknown backend", func(t *testing.T) {
		setViper(t, "session.backend", "etcd")
		setViper(t, "session.ttl", "")
		_, err := initSessions(context.Background())
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
		assert.Contains(t, common.UserMessage(err, ""), `"etcd"`)
	})

	t.Run("redis backend", func(t *testing.T) {
		srv := miniredis.RunT(t)
		setViper(t, "session.backend", "redis")
		setViper(t, "session.ttl", "")
		setViper(t, "redis.url", "redis://"+srv.Addr()+"/0")
		store, err := initSessions(context.Background())
		require.NoError(t, err)
		defer func() { _ = store.Close() }()
		assert.IsType(t, &session.RedisStore{}, store)
	})

	t.Run("redis backend without url", func(t *testing.T) {
		setViper(t, "session.backend", "redis")
		setViper(t, "session.ttl", "")
		setViper(t, "redis.url", " ")
		_, err := initSessions(context.Background())
		assert.ErrorIs(t, err, common.ErrMissingConfig)
		assert.Equal(t, "Set redis.url to use the redis session backend", common.UserMessage(err, ""))
	})
}

func TestInitStorage_UserError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	setViper(t, "database.path", filepath.Join(blocker, "penny.db"))

	_, err := initStorage(context.Background())
	require.Error(t, err)
	assert.Contains(t, common.UserMessage(err, ""), "Could not open the database")
}

func TestErrorMessage(t *testing.T) {
	t.Run("user error shows only the user message", func(t *testing.T) {
		err := fmt.Errorf("chat: %w", common.NewUserError("Could not open the database", errors.New("disk I/O error")))
		msg := errorMessage(err)
		assert.Contains(t, msg, "Could not open the database")
		assert.NotContains(t, msg, "disk I/O error")
	})

	t.Run("plain error falls back to its text", func(t *testing.T) {
		assert.Contains(t, errorMessage(errors.New("boom")), "boom")
	})
}

func TestInitApp_InMemoryDatabase(t *testing.T) {
	setViper(t, "database.path", storage.MemoryDSN)
	setViper(t, "session.backend", "memory")
	setViper(t, "session.ttl", "")

	a, err := initApp(context.Background(), false)
	require.NoError(t, err)
	defer a.Close()

	reply := a.engine.Handle(context.Background(), "cli", "Расход 12000 вон кафе сегодня")
	assert.NotEmpty(t, reply.RecordID)

	recs, err := a.records.ListRecords(context.Background(), "cli", "expense")
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestChatID(t *testing.T) {
	setViper(t, "chat.id", "  ")
	assert.Equal(t, "local", chatID())

	setViper(t, "chat.id", "42")
	assert.Equal(t, "42", chatID())
}
