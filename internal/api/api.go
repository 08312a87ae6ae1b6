// Package api provides the HTTP surface of the notification relay.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Fewsrt/webapp-credit-alert-backend/internal/database"
	"github.com/Fewsrt/webapp-credit-alert-backend/internal/notice"
	"github.com/Fewsrt/webapp-credit-alert-backend/internal/webhook"
)

// Reconciler updates a subscriber's lifecycle state from an inbound event.
type Reconciler interface {
	Reconcile(ctx context.Context, userID string) error
}

// NoticeSender composes and delivers a billing notice.
type NoticeSender interface {
	Send(ctx context.Context, req notice.SendRequest) (*database.Notice, error)
}

// Server is the HTTP server.
type Server struct {
	verifier   *webhook.Verifier
	directory  Reconciler
	dispatcher NoticeSender
	artifacts  http.Handler
	logger     *slog.Logger
	port       string
	production bool
	mux        *http.ServeMux
}

// Config holds server dependencies.
type Config struct {
	Verifier   *webhook.Verifier
	Directory  Reconciler
	Dispatcher NoticeSender
	Artifacts  http.Handler
	Logger     *slog.Logger
	Port       string
	Production bool
}

// NewServer creates the HTTP server and registers its routes.
func NewServer(cfg Config) *Server {
	s := &Server{
		verifier:   cfg.Verifier,
		directory:  cfg.Directory,
		dispatcher: cfg.Dispatcher,
		artifacts:  cfg.Artifacts,
		logger:     cfg.Logger,
		port:       cfg.Port,
		production: cfg.Production,
		mux:        http.NewServeMux(),
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /callback", s.handleCallback)
	s.mux.HandleFunc("POST /send-notice", s.handleSendNotice)
	if s.artifacts != nil {
		s.mux.Handle("GET /artifacts/", http.StripPrefix("/artifacts/", s.artifacts))
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Line-Signature")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	s.withRequestLog(s.mux).ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"port":      s.port,
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(message))
}
