package server

import (
	"bytes"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/penny/internal/storage"
)

type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time { return c.now }

func TestChatLimiter(t *testing.T) {
	clock := &stepClock{now: time.Date(2024, time.March, 20, 15, 4, 0, 0, time.UTC)}
	l := newChatLimiter(3, clock.Now)

	for i := 0; i < 3; i++ {
		ok, _ := l.allow("a")
		require.True(t, ok, "message %d", i)
	}
	ok, wait := l.allow("a")
	assert.False(t, ok)
	assert.Equal(t, 20*time.Second, wait)

	ok, _ = l.allow("b")
	assert.True(t, ok, "chats have separate budgets")

	clock.now = clock.now.Add(20 * time.Second)
	ok, _ = l.allow("a")
	assert.True(t, ok)
	ok, _ = l.allow("a")
	assert.False(t, ok)

	clock.now = clock.now.Add(time.Hour)
	for i := 0; i < 3; i++ {
		ok, _ = l.allow("a")
		require.True(t, ok)
	}
	ok, _ = l.allow("a")
	assert.False(t, ok, "refill is capped at capacity")
}

func TestChatLimiter_Disabled(t *testing.T) {
	assert.Nil(t, newChatLimiter(0, time.Now))
}

func TestChatLimiter_Prune(t *testing.T) {
	clock := &stepClock{now: time.Date(2024, time.March, 20, 15, 4, 0, 0, time.UTC)}
	l := newChatLimiter(60, clock.Now)
	l.allow("old")

	clock.now = clock.now.Add(2 * time.Minute)
	l.allow("fresh")
	l.prune(clock.now)

	_, hasOld := l.buckets["old"]
	_, hasFresh := l.buckets["fresh"]
	assert.False(t, hasOld)
	assert.True(t, hasFresh)
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	clock := &stepClock{now: time.Date(2024, time.March, 20, 15, 4, 0, 0, time.UTC)}
	records := storage.NewMemoryStorage()
	s := New(stubDialogue{}, records, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
		WithClock(clock.Now), WithRateLimit(2))

	body := []byte(`{"text":"кофе 300"}`)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/chats/1/messages", body).Code)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/chats/1/messages", body).Code)

	w := do(t, s, http.MethodPost, "/chats/1/messages", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/chats/2/messages", body).Code)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/chats/1/records/expenses", nil).Code,
		"reads are not limited")
}
