// Package server exposes the dialogue engine over HTTP.
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Veraticus/penny/internal/common"
	"github.com/Veraticus/penny/internal/dialogue"
	"github.com/Veraticus/penny/internal/model"
)

// maxVoiceBytes caps an uploaded voice message.
const maxVoiceBytes = 10 << 20

// Dialogue handles chat turns.
type Dialogue interface {
	Handle(ctx context.Context, chatID, raw string) dialogue.Reply
	HandleVoice(ctx context.Context, chatID string, audio []byte) dialogue.Reply
}

// voiceReporter is implemented by dialogues that know whether they can
// transcribe audio.
type voiceReporter interface {
	VoiceEnabled() bool
}

// RecordLister lists a chat's records.
type RecordLister interface {
	ListRecords(ctx context.Context, chatID string, kind model.RecordKind) ([]model.Record, error)
}

// Server is the HTTP adapter.
type Server struct {
	dialogue Dialogue
	records  RecordLister
	logger   *slog.Logger
	router   *gin.Engine
	limiter  *chatLimiter
	cert     *tls.Certificate
	now      func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimit caps messages per chat per minute. Zero disables the limit.
func WithRateLimit(perMinute int) Option {
	return func(s *Server) {
		s.limiter = newChatLimiter(perMinute, func() time.Time { return s.now() })
	}
}

// WithCertificate makes ListenAndServe serve HTTPS.
func WithCertificate(cert tls.Certificate) Option {
	return func(s *Server) { s.cert = &cert }
}

// WithClock replaces time.Now for the rate limiter.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// MessageRequest is the body of POST /chats/:id/messages.
type MessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// RecordsResponse is the body of GET /chats/:id/records/:kind.
type RecordsResponse struct {
	Kind    model.RecordKind `json:"kind"`
	Records []model.Record   `json:"records"`
	Count   int              `json:"count"`
}

// New creates a server and registers its routes.
func New(d Dialogue, records RecordLister, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		dialogue: d,
		records:  records,
		logger:   logger,
		router:   gin.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router.Use(gin.Recovery(), requestIDMiddleware(), loggerMiddleware(logger))

	s.router.GET("/healthz", s.health)
	chats := s.router.Group("/chats/:id")
	inbound := []gin.HandlerFunc{}
	if s.limiter != nil {
		inbound = append(inbound, rateLimitMiddleware(s.limiter))
	}
	chats.POST("/messages", append(inbound, s.postMessage)...)
	if s.voiceEnabled() {
		chats.POST("/voice", append(inbound, s.postVoice)...)
	}
	chats.GET("/records/:kind", s.listRecords)
	return s
}

// voiceEnabled is false only when the dialogue reports it has no transcriber.
func (s *Server) voiceEnabled() bool {
	v, ok := s.dialogue.(voiceReporter)
	return !ok || v.VoiceEnabled()
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if s.cert != nil {
			srv.TLSConfig = &tls.Config{
				Certificates: []tls.Certificate{*s.cert},
				MinVersion:   tls.VersionTLS12,
			}
			s.logger.Info("HTTPS server listening", "addr", addr)
			errCh <- srv.ListenAndServeTLS("", "")
			return
		}
		s.logger.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) postMessage(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	c.JSON(http.StatusOK, s.dialogue.Handle(c.Request.Context(), chatID, req.Text))
}

func (s *Server) postVoice(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}
	audio, err := io.ReadAll(io.LimitReader(c.Request.Body, maxVoiceBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read audio"})
		return
	}
	if len(audio) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio is required"})
		return
	}
	if len(audio) > maxVoiceBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "audio too large"})
		return
	}
	c.JSON(http.StatusOK, s.dialogue.HandleVoice(c.Request.Context(), chatID, audio))
}

func (s *Server) listRecords(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}
	kind, err := model.ParseRecordKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	records, err := s.records.ListRecords(c.Request.Context(), chatID, kind)
	if err != nil {
		common.LoggerFrom(c.Request.Context()).Error("failed to list records",
			"chat_id", chatID, "kind", kind, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list records"})
		return
	}
	if records == nil {
		records = []model.Record{}
	}
	c.JSON(http.StatusOK, RecordsResponse{Kind: kind, Records: records, Count: len(records)})
}

func chatIDParam(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chat id is required"})
		return "", false
	}
	return id, true
}
